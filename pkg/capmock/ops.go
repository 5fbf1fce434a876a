package capmock

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/avencia/stageline/pkg/graph"
)

// opFunc simulates one remote operation over a decoded JSON body.
type opFunc func(body map[string]any) map[string]any

func str(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}

// atlasOps simulates the ticketing-side capability service.
func atlasOps() map[string]opFunc {
	return map[string]opFunc{
		"extract_entities": func(body map[string]any) map[string]any {
			query := strings.ToLower(str(body, "query"))
			entities := map[string]any{}
			if strings.Contains(query, "invoice") {
				entities["topic"] = "billing"
			}
			if strings.Contains(query, "delay") || strings.Contains(query, "late") {
				entities["issue_type"] = "delay"
			}
			if ticket := str(body, "ticket_id"); ticket != "" {
				entities["account_id"] = ticket
			} else {
				entities["account_id"] = fmt.Sprintf("acct-%d", rand.IntN(9000)+1000)
			}
			return map[string]any{"status": "ok", "entities": entities}
		},
		"enrich_records": func(map[string]any) map[string]any {
			return map[string]any{
				"status": "ok",
				"enrichment": map[string]any{
					"sla":                "48h",
					"historical_tickets": rand.IntN(6),
				},
			}
		},
		"clarify_question": func(body map[string]any) map[string]any {
			missing := []string{"additional_details"}
			if raw, ok := body["missing_fields"].([]any); ok && len(raw) > 0 {
				missing = missing[:0]
				for _, field := range raw {
					missing = append(missing, fmt.Sprintf("%v", field))
				}
			}
			return map[string]any{
				"status": "pending_human",
				"prompt": "Please provide: " + strings.Join(missing, ", "),
			}
		},
		"extract_answer": func(map[string]any) map[string]any {
			return map[string]any{"status": "ok", "answer": "The invoice number is INV-1234."}
		},
		"knowledge_base_search": func(body map[string]any) map[string]any {
			query := strings.ToLower(str(body, "query"))
			hits := []any{}
			if strings.Contains(query, "billing") || strings.Contains(query, "invoice") {
				hits = append(hits, map[string]any{
					"id": "kb-101", "title": "How billing works", "snippet": "Invoices are due in 30 days.",
				})
			}
			if strings.Contains(query, "delay") {
				hits = append(hits, map[string]any{
					"id": "kb-201", "title": "Shipment delays", "snippet": "Reasons for delays and remedies.",
				})
			}
			return map[string]any{"status": "ok", "kb_hits": hits}
		},
		"escalation_decision": func(map[string]any) map[string]any {
			return map[string]any{
				"status":      "escalated",
				"assigned_to": fmt.Sprintf("human_agent_%d", rand.IntN(50)+1),
			}
		},
		"update_ticket": func(body map[string]any) map[string]any {
			return map[string]any{
				"status":         "ok",
				"ticket_id":      str(body, "ticket_id"),
				"updated_fields": body["update_fields"],
			}
		},
		"close_ticket": func(body map[string]any) map[string]any {
			return map[string]any{"status": "ok", "ticket_id": str(body, "ticket_id"), "closed": true}
		},
		"execute_api_calls": func(map[string]any) map[string]any {
			return map[string]any{
				"status":    "ok",
				"api_calls": []any{"crm.update", "order.process"},
				"results":   map[string]any{"crm.update": "success"},
			}
		},
		"trigger_notifications": func(map[string]any) map[string]any {
			return map[string]any{"status": "ok", "notifications_sent": []any{"email", "slack"}}
		},
	}
}

// commonOps simulates the shared capability service.
func commonOps() map[string]opFunc {
	return map[string]opFunc{
		"route_ticket": func(body map[string]any) map[string]any {
			query := strings.ToLower(str(body, "query"))
			route := "support"
			switch {
			case strings.Contains(query, "payment"):
				route = "payments"
			case strings.Contains(query, "refund"):
				route = "refunds"
			}
			return map[string]any{"route": route}
		},
	}
}

func opsFor(group string) (map[string]opFunc, error) {
	switch group {
	case graph.GroupCommon:
		return commonOps(), nil
	case graph.GroupAtlas:
		return atlasOps(), nil
	}
	return nil, fmt.Errorf("unknown service group %q", group)
}
