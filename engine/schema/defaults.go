package schema

import (
	"sort"

	"dario.cat/mergo"
)

// Layer defaults applied when an optional field is absent from a fragment
// document. Absence is never an error (loader contract).
const (
	defaultConfidenceThreshold = 0.7
	defaultAutoReplyConfidence = 0.9
)

func defaultClassification() ClassificationFragment {
	return ClassificationFragment{
		KeywordGroups:       map[string][]string{},
		IntentMap:           map[string][]string{},
		Escalations:         map[string]EscalationRule{},
		ConfidenceThreshold: defaultConfidenceThreshold,
	}
}

func defaultBehavior() BehaviorFragment {
	return BehaviorFragment{
		Voice: VoiceDescriptor{
			Tone:       "professional",
			Formality:  FormalityMedium,
			Empathy:    0.5,
			Directness: 0.5,
		},
		Overrides: map[string]LanguageOverride{},
	}
}

func defaultLabels() LabelFragment {
	return LabelFragment{
		Domains: DomainRules{
			AutoReply: AutoReplyGate{MinConfidence: defaultAutoReplyConfidence},
		},
	}
}

// applyDefaults fills zero-valued fields of each layer with the layer
// defaults. mergo zero-value semantics apply: an explicit zero in the
// document is indistinguishable from absence, which matches the loader
// contract of treating absence as "use the layer default".
func applyDefaults(s *BusinessCategorySchema) error {
	if err := mergo.Merge(&s.Classification, defaultClassification()); err != nil {
		return err
	}
	if err := mergo.Merge(&s.Behavior, defaultBehavior()); err != nil {
		return err
	}
	return mergo.Merge(&s.Labels, defaultLabels())
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
