package merge

import (
	"math"
	"strings"

	"github.com/inboxeng/deploykit/engine/core"
	"github.com/inboxeng/deploykit/engine/schema"
)

// guidanceSeparator joins guidance text bodies contributed by different
// categories. Bodies are concatenated, never blended or summarized.
const guidanceSeparator = " | "

// Behavior blends behavior fragments in selection order.
//
// Tone labels that disagree are composed into one label naming every
// contributing tone; empathy/directness are averaged and rounded to the
// schema's two-decimal precision; formality is averaged over the ordinal
// scale casual < medium < formal; price disclosure is ANDed so a single
// category forbidding it wins; goals dedup first-seen; guidance enables
// with any input and concatenates texts; overrides union by category with
// the lower priority value winning and phrase lists unioned.
func Behavior(fragments []schema.BehaviorFragment) (schema.BehaviorFragment, error) {
	if len(fragments) == 0 {
		return schema.BehaviorFragment{}, core.NewErrorf(
			core.ErrCodeInvalidArgument, "behavior merge requires at least one fragment")
	}
	if len(fragments) == 1 {
		return core.DeepCopy(fragments[0])
	}
	out := schema.BehaviorFragment{
		Overrides: make(map[string]schema.LanguageOverride),
	}
	var tones []string
	var empathySum, directnessSum float64
	var formalitySum int
	disclose := true
	for _, f := range fragments {
		tones = unionStrings(tones, []string{f.Voice.Tone})
		empathySum += f.Voice.Empathy
		directnessSum += f.Voice.Directness
		formalitySum += formalityOrdinal(f.Voice.Formality)
		disclose = disclose && f.Voice.DisclosePricing
		out.Goals = unionStrings(out.Goals, f.Goals)
		out.Upsell = mergeGuidance(out.Upsell, f.Upsell)
		out.FollowUp = mergeGuidance(out.FollowUp, f.FollowUp)
		for category, override := range f.Overrides {
			out.Overrides[category] = mergeOverride(out.Overrides, category, override)
		}
	}
	n := float64(len(fragments))
	out.Voice = schema.VoiceDescriptor{
		Tone:            strings.Join(tones, ", "),
		Formality:       formalityFromOrdinal(int(math.Round(float64(formalitySum) / n))),
		Empathy:         round2(empathySum / n),
		Directness:      round2(directnessSum / n),
		DisclosePricing: disclose,
	}
	return out, nil
}

func mergeGuidance(current, next schema.GuidanceBlock) schema.GuidanceBlock {
	merged := schema.GuidanceBlock{Enabled: current.Enabled || next.Enabled}
	switch {
	case current.Text == "":
		merged.Text = next.Text
	case next.Text == "" || next.Text == current.Text:
		merged.Text = current.Text
	default:
		merged.Text = current.Text + guidanceSeparator + next.Text
	}
	return merged
}

func mergeOverride(existing map[string]schema.LanguageOverride, category string, override schema.LanguageOverride) schema.LanguageOverride {
	current, ok := existing[category]
	if !ok {
		override.Phrases = unionStrings(nil, override.Phrases)
		return override
	}
	phrases := unionStrings(current.Phrases, override.Phrases)
	// Lower priority value is the stronger block.
	if override.Priority < current.Priority {
		override.Phrases = phrases
		return override
	}
	current.Phrases = phrases
	return current
}

func formalityOrdinal(f schema.Formality) int {
	switch f {
	case schema.FormalityCasual:
		return 0
	case schema.FormalityFormal:
		return 2
	default:
		return 1
	}
}

func formalityFromOrdinal(n int) schema.Formality {
	switch {
	case n <= 0:
		return schema.FormalityCasual
	case n >= 2:
		return schema.FormalityFormal
	default:
		return schema.FormalityMedium
	}
}

// round2 rounds to the two-decimal precision the schema documents use.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
