package state

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Input is the caller-supplied portion of a run payload.
type Input struct {
	CustomerName string `json:"customer_name,omitempty" yaml:"customer_name,omitempty"`
	Email        string `json:"email,omitempty" yaml:"email,omitempty"`
	Query        string `json:"query" yaml:"query"`
	Priority     string `json:"priority,omitempty" yaml:"priority,omitempty"`
	TicketID     string `json:"ticket_id,omitempty" yaml:"ticket_id,omitempty"`
}

// Parsed holds the structured form of the request text.
type Parsed struct {
	Length int      `json:"length"`
	Words  []string `json:"words,omitempty"`
}

// Enrichment holds SLA and history data attached during PREPARE.
type Enrichment struct {
	SLA               string `json:"sla,omitempty"`
	HistoricalTickets int    `json:"historical_tickets"`
}

// Flags holds computed risk flags.
type Flags struct {
	SLARisk bool `json:"sla_risk"`
}

// Decision holds the DECIDE stage outcome. EscalatedTo is empty until an
// escalation actually assigns someone.
type Decision struct {
	Score       int    `json:"score"`
	EscalatedTo string `json:"escalated_to,omitempty"`
}

// KBHit is a single knowledge-base result.
type KBHit struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// KB holds accumulated knowledge-base results.
type KB struct {
	Hits []KBHit `json:"hits,omitempty"`
}

// Clarification holds the pending question sent to the human.
type Clarification struct {
	Prompt        string   `json:"prompt,omitempty"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

// AuditEntry records a decision snapshot with its timestamp.
type AuditEntry struct {
	Decision Decision  `json:"decision"`
	At       time.Time `json:"at"`
}

// Payload is the shared mutable record a run accumulates. The caller-supplied
// fields come from Input; everything else is filled in by abilities as the
// stages progress. Sub-records are nil until the owning stage creates them.
type Payload struct {
	CustomerName string `json:"customer_name,omitempty"`
	Email        string `json:"email,omitempty"`
	Query        string `json:"query,omitempty"`
	Priority     string `json:"priority,omitempty"`
	TicketID     string `json:"ticket_id,omitempty"`
	Status       string `json:"status,omitempty"`

	Parsed            *Parsed           `json:"parsed,omitempty"`
	Entities          map[string]string `json:"entities,omitempty"`
	Enrichment        *Enrichment       `json:"enrichment,omitempty"`
	Flags             *Flags            `json:"flags,omitempty"`
	Decision          *Decision         `json:"decision,omitempty"`
	KB                *KB               `json:"kb,omitempty"`
	Answers           []string          `json:"answers,omitempty"`
	LatestAnswer      string            `json:"latest_answer,omitempty"`
	Clarification     *Clarification    `json:"pending_clarification,omitempty"`
	Audit             []AuditEntry      `json:"audit,omitempty"`
	GeneratedResponse string            `json:"generated_response,omitempty"`
}

// EnsureDecision returns the decision record, creating it on first use.
func (p *Payload) EnsureDecision() *Decision {
	if p.Decision == nil {
		p.Decision = &Decision{}
	}
	return p.Decision
}

// EnsureKB returns the knowledge-base record, creating it on first use.
func (p *Payload) EnsureKB() *KB {
	if p.KB == nil {
		p.KB = &KB{}
	}
	return p.KB
}

// EnsureFlags returns the flags record, creating it on first use.
func (p *Payload) EnsureFlags() *Flags {
	if p.Flags == nil {
		p.Flags = &Flags{}
	}
	return p.Flags
}

// KBHitCount reports how many knowledge-base hits the run has accumulated.
func (p *Payload) KBHitCount() int {
	if p.KB == nil {
		return 0
	}
	return len(p.KB.Hits)
}

// Clone returns a deep copy of the payload, safe to retain after the run
// mutates the original.
func (p *Payload) Clone() Payload {
	out := *p
	if p.Parsed != nil {
		parsed := *p.Parsed
		parsed.Words = append([]string(nil), p.Parsed.Words...)
		out.Parsed = &parsed
	}
	if p.Entities != nil {
		out.Entities = make(map[string]string, len(p.Entities))
		for k, v := range p.Entities {
			out.Entities[k] = v
		}
	}
	if p.Enrichment != nil {
		enrichment := *p.Enrichment
		out.Enrichment = &enrichment
	}
	if p.Flags != nil {
		flags := *p.Flags
		out.Flags = &flags
	}
	if p.Decision != nil {
		decision := *p.Decision
		out.Decision = &decision
	}
	if p.KB != nil {
		kb := KB{Hits: append([]KBHit(nil), p.KB.Hits...)}
		out.KB = &kb
	}
	out.Answers = append([]string(nil), p.Answers...)
	if p.Clarification != nil {
		clar := *p.Clarification
		clar.MissingFields = append([]string(nil), p.Clarification.MissingFields...)
		out.Clarification = &clar
	}
	out.Audit = append([]AuditEntry(nil), p.Audit...)
	return out
}

// RunState is the single shared mutable state for one run. It is owned
// exclusively by the engine for the lifetime of the run and is never shared
// across concurrent runs, so it carries no locking.
type RunState struct {
	RunID   string
	Payload Payload

	input     Input
	logLines  []string
	startedAt time.Time
}

// New creates a run state seeded with a copy of the caller input.
func New(in Input) *RunState {
	return &RunState{
		RunID: uuid.NewString(),
		Payload: Payload{
			CustomerName: in.CustomerName,
			Email:        in.Email,
			Query:        in.Query,
			Priority:     in.Priority,
			TicketID:     in.TicketID,
		},
		input:     in,
		startedAt: time.Now().UTC(),
	}
}

// Input returns the original caller-supplied payload.
func (s *RunState) Input() Input {
	return s.input
}

// Append adds one line to the append-only run log.
func (s *RunState) Append(line string) {
	s.logLines = append(s.logLines, line)
}

// Appendf formats and appends one line to the run log.
func (s *RunState) Appendf(format string, args ...any) {
	s.Append(fmt.Sprintf(format, args...))
}

// Log returns a copy of the run log in execution order.
func (s *RunState) Log() []string {
	return append([]string(nil), s.logLines...)
}
