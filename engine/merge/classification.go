package merge

import (
	"github.com/inboxeng/deploykit/engine/core"
	"github.com/inboxeng/deploykit/engine/schema"
)

// Classification unions classification fragments in selection order.
//
// Keyword groups union member strings per group name; intents map to the
// union of their target categories; for escalation rules defined by more
// than one input the rule with the shortest response budget wins and
// notify lists are unioned; the merged confidence threshold is the maximum
// of the inputs (most restrictive, a safety property).
func Classification(fragments []schema.ClassificationFragment) (schema.ClassificationFragment, error) {
	if len(fragments) == 0 {
		return schema.ClassificationFragment{}, core.NewErrorf(
			core.ErrCodeInvalidArgument, "classification merge requires at least one fragment")
	}
	if len(fragments) == 1 {
		return core.DeepCopy(fragments[0])
	}
	out := schema.ClassificationFragment{
		KeywordGroups: make(map[string][]string),
		IntentMap:     make(map[string][]string),
		Escalations:   make(map[string]schema.EscalationRule),
	}
	for _, f := range fragments {
		for group, members := range f.KeywordGroups {
			out.KeywordGroups[group] = unionStrings(out.KeywordGroups[group], members)
		}
		for intent, targets := range f.IntentMap {
			out.IntentMap[intent] = unionStrings(out.IntentMap[intent], targets)
		}
		for category, rule := range f.Escalations {
			out.Escalations[category] = mergeEscalation(out.Escalations, category, rule)
		}
		if f.ConfidenceThreshold > out.ConfidenceThreshold {
			out.ConfidenceThreshold = f.ConfidenceThreshold
		}
	}
	return out, nil
}

func mergeEscalation(existing map[string]schema.EscalationRule, category string, rule schema.EscalationRule) schema.EscalationRule {
	current, ok := existing[category]
	if !ok {
		rule.Notify = unionStrings(nil, rule.Notify)
		return rule
	}
	notify := unionStrings(current.Notify, rule.Notify)
	// Shortest response budget wins; on a tie the earlier input keeps the
	// rule scalars.
	if rule.ResponseBudget < current.ResponseBudget {
		rule.Notify = notify
		return rule
	}
	current.Notify = notify
	return current
}
