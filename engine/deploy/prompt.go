package deploy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/inboxeng/deploykit/engine/schema"
)

// Prompt rendering is deterministic: map-derived sections are emitted in
// sorted key order, list-derived sections in their merged order.

func renderClassificationPrompt(f *schema.ClassificationFragment) string {
	var b strings.Builder
	b.WriteString("Classify each incoming email into exactly one category.\n")
	if len(f.KeywordGroups) > 0 {
		b.WriteString("\nKeyword groups:\n")
		for _, group := range sortedMapKeys(f.KeywordGroups) {
			fmt.Fprintf(&b, "- %s: %s\n", group, strings.Join(f.KeywordGroups[group], ", "))
		}
	}
	if len(f.IntentMap) > 0 {
		b.WriteString("\nIntent routing (pick the most specific category):\n")
		for _, intent := range sortedMapKeys(f.IntentMap) {
			fmt.Fprintf(&b, "- %s -> %s\n", intent, strings.Join(f.IntentMap[intent], " or "))
		}
	}
	if len(f.Escalations) > 0 {
		b.WriteString("\nEscalation rules:\n")
		for _, category := range sortedMapKeys(f.Escalations) {
			rule := f.Escalations[category]
			fmt.Fprintf(&b, "- %s: urgency %s, respond within %s", category, rule.Urgency, rule.ResponseBudget)
			if len(rule.Notify) > 0 {
				fmt.Fprintf(&b, ", notify %s", strings.Join(rule.Notify, ", "))
			}
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(&b, "\nOnly classify when confidence is at least %s.", formatScalar(f.ConfidenceThreshold))
	return b.String()
}

func renderBehaviorPrompt(f *schema.BehaviorFragment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reply in a %s tone with %s formality.\n", f.Voice.Tone, f.Voice.Formality)
	fmt.Fprintf(&b, "Empathy level %s, directness level %s.\n",
		formatScalar(f.Voice.Empathy), formatScalar(f.Voice.Directness))
	if f.Voice.DisclosePricing {
		b.WriteString("You may discuss prices when asked.\n")
	} else {
		b.WriteString("Never state prices; offer a quote instead.\n")
	}
	if len(f.Goals) > 0 {
		b.WriteString("\nGoals, in priority order:\n")
		for _, goal := range f.Goals {
			fmt.Fprintf(&b, "- %s\n", goal)
		}
	}
	if f.Upsell.Enabled && f.Upsell.Text != "" {
		fmt.Fprintf(&b, "\nUpsell guidance: %s\n", f.Upsell.Text)
	}
	if f.FollowUp.Enabled && f.FollowUp.Text != "" {
		fmt.Fprintf(&b, "\nFollow-up guidance: %s\n", f.FollowUp.Text)
	}
	if len(f.Overrides) > 0 {
		b.WriteString("\nCategory language overrides:\n")
		for _, category := range sortedMapKeys(f.Overrides) {
			override := f.Overrides[category]
			fmt.Fprintf(&b, "- %s (priority %d): %s\n", category, override.Priority,
				strings.Join(override.Phrases, "; "))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func sortedMapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
