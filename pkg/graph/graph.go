package graph

// Ability names of the default support graph. The engine's decision protocol
// and the builtin handler suite refer to these by name.
const (
	AbilityAcceptPayload        = "accept_payload"
	AbilityParseRequestText     = "parse_request_text"
	AbilityExtractEntities      = "extract_entities"
	AbilityNormalizeFields      = "normalize_fields"
	AbilityEnrichRecords        = "enrich_records"
	AbilityAddFlags             = "add_flags_calculations"
	AbilityClarifyQuestion      = "clarify_question"
	AbilityExtractAnswer        = "extract_answer"
	AbilityStoreAnswer          = "store_answer"
	AbilityKnowledgeBaseSearch  = "knowledge_base_search"
	AbilityStoreData            = "store_data"
	AbilitySolutionEvaluation   = "solution_evaluation"
	AbilityEscalationDecision   = "escalation_decision"
	AbilityUpdatePayload        = "update_payload"
	AbilityUpdateTicket         = "update_ticket"
	AbilityCloseTicket          = "close_ticket"
	AbilityResponseGeneration   = "response_generation"
	AbilityExecuteAPICalls      = "execute_api_calls"
	AbilityTriggerNotifications = "trigger_notifications"
	AbilityOutputPayload        = "output_payload"
)

// Graph is a fixed, ordered sequence of stages over one shared run state.
type Graph struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Stages      []Stage `yaml:"stages"`
}

// Default returns the eleven-stage support graph, INTAKE through COMPLETE.
func Default() *Graph {
	return &Graph{
		Name:        "support",
		Description: "Customer support run: intake through completion.",
		Stages: []Stage{
			{
				Name: "INTAKE",
				Mode: ModeSequential,
				Abilities: []AbilityRef{
					{Name: AbilityAcceptPayload, Group: GroupLocal, Description: "Accept payload and record input fields."},
				},
			},
			{
				Name: "UNDERSTAND",
				Mode: ModeSequential,
				Abilities: []AbilityRef{
					{Name: AbilityParseRequestText, Group: GroupLocal, Description: "Parse text to structured fields."},
					{Name: AbilityExtractEntities, Group: GroupAtlas, Description: "Extract product/account/dates from text."},
				},
			},
			{
				Name: "PREPARE",
				Mode: ModeSequential,
				Abilities: []AbilityRef{
					{Name: AbilityNormalizeFields, Group: GroupLocal, Description: "Normalize dates/codes/IDs."},
					{Name: AbilityEnrichRecords, Group: GroupAtlas, Description: "Attach SLA and historical ticket info."},
					{Name: AbilityAddFlags, Group: GroupLocal, Description: "Compute priority / SLA risk flags."},
				},
			},
			{
				Name: "ASK",
				Mode: ModeHuman,
				Abilities: []AbilityRef{
					{Name: AbilityClarifyQuestion, Group: GroupAtlas, Description: "Request missing information from the human."},
				},
			},
			{
				Name: "WAIT",
				Mode: ModeSequential,
				Abilities: []AbilityRef{
					{Name: AbilityExtractAnswer, Group: GroupAtlas, Description: "Capture the human response."},
					{Name: AbilityStoreAnswer, Group: GroupLocal, Description: "Store the captured answer into state."},
				},
			},
			{
				Name: "RETRIEVE",
				Mode: ModeSequential,
				Abilities: []AbilityRef{
					{Name: AbilityKnowledgeBaseSearch, Group: GroupAtlas, Description: "Search KB/FAQ."},
					{Name: AbilityStoreData, Group: GroupLocal, Description: "Attach retrieved KB results to payload."},
				},
			},
			{
				Name: "DECIDE",
				Mode: ModeDecision,
				Abilities: []AbilityRef{
					{Name: AbilitySolutionEvaluation, Group: GroupLocal, Description: "Score potential solutions 1-100."},
					{Name: AbilityEscalationDecision, Group: GroupAtlas, Description: "If score < 90, escalate to a human."},
					{Name: AbilityUpdatePayload, Group: GroupLocal, Description: "Record decision results into payload."},
				},
				DecisionRule: RuleScoreThenMaybeEscalate,
			},
			{
				Name: "UPDATE",
				Mode: ModeSequential,
				Abilities: []AbilityRef{
					{Name: AbilityUpdateTicket, Group: GroupAtlas, Description: "Update ticket fields and status."},
					{Name: AbilityCloseTicket, Group: GroupAtlas, Description: "Close ticket if resolved."},
				},
			},
			{
				Name: "CREATE",
				Mode: ModeSequential,
				Abilities: []AbilityRef{
					{Name: AbilityResponseGeneration, Group: GroupLocal, Description: "Generate customer-facing reply."},
				},
			},
			{
				Name: "DO",
				Mode: ModeSequential,
				Abilities: []AbilityRef{
					{Name: AbilityExecuteAPICalls, Group: GroupAtlas, Description: "Execute backend CRM/API calls."},
					{Name: AbilityTriggerNotifications, Group: GroupAtlas, Description: "Send notifications to customer/agent."},
				},
			},
			{
				Name: "COMPLETE",
				Mode: ModeSequential,
				Abilities: []AbilityRef{
					{Name: AbilityOutputPayload, Group: GroupLocal, Description: "Return final structured payload."},
				},
			},
		},
	}
}
