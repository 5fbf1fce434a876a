package ability

import (
	"time"

	"github.com/avencia/stageline/pkg/capability"
	"github.com/avencia/stageline/pkg/decision"
	"github.com/avencia/stageline/pkg/graph"
	"github.com/avencia/stageline/pkg/responder"
)

// Suite holds the builtin handlers for the default support graph, bound to
// their collaborators: the capability service groups, the decision policy and
// the reply responder.
type Suite struct {
	services  *capability.Set
	policy    *decision.Policy
	responder responder.Responder
	fallback  responder.Responder
	now       func() time.Time
}

// NewSuite builds the handler suite. A nil responder falls back to the
// deterministic template backend.
func NewSuite(services *capability.Set, policy *decision.Policy, resp responder.Responder) *Suite {
	if policy == nil {
		policy = decision.NewPolicy()
	}
	template := responder.NewTemplateResponder()
	if resp == nil {
		resp = template
	}
	return &Suite{
		services:  services,
		policy:    policy,
		responder: resp,
		fallback:  template,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RegisterAll binds every builtin handler into the registry.
func (s *Suite) RegisterAll(reg *Registry) {
	reg.Register(graph.AbilityAcceptPayload, s.acceptPayload)
	reg.Register(graph.AbilityParseRequestText, s.parseRequestText)
	reg.Register(graph.AbilityExtractEntities, s.extractEntities)
	reg.Register(graph.AbilityNormalizeFields, s.normalizeFields)
	reg.Register(graph.AbilityEnrichRecords, s.enrichRecords)
	reg.Register(graph.AbilityAddFlags, s.addFlags)
	reg.Register(graph.AbilityClarifyQuestion, s.clarifyQuestion)
	reg.Register(graph.AbilityExtractAnswer, s.extractAnswer)
	reg.Register(graph.AbilityStoreAnswer, s.storeAnswer)
	reg.Register(graph.AbilityKnowledgeBaseSearch, s.knowledgeBaseSearch)
	reg.Register(graph.AbilityStoreData, s.storeData)
	reg.Register(graph.AbilitySolutionEvaluation, s.solutionEvaluation)
	reg.Register(graph.AbilityEscalationDecision, s.escalationDecision)
	reg.Register(graph.AbilityUpdatePayload, s.updatePayload)
	reg.Register(graph.AbilityUpdateTicket, s.updateTicket)
	reg.Register(graph.AbilityCloseTicket, s.closeTicket)
	reg.Register(graph.AbilityResponseGeneration, s.responseGeneration)
	reg.Register(graph.AbilityExecuteAPICalls, s.executeAPICalls)
	reg.Register(graph.AbilityTriggerNotifications, s.triggerNotifications)
	reg.Register(graph.AbilityOutputPayload, s.outputPayload)
}
