package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboxeng/deploykit/engine/core"
	"github.com/inboxeng/deploykit/engine/schema"
)

func electricianClassification() schema.ClassificationFragment {
	return schema.ClassificationFragment{
		KeywordGroups: map[string][]string{
			"emergency": {"sparks", "no power"},
			"service":   {"install"},
		},
		IntentMap: map[string][]string{
			"outage":   {"URGENT"},
			"estimate": {"QUOTES"},
		},
		Escalations: map[string]schema.EscalationRule{
			"URGENT": {Urgency: schema.UrgencyCritical, ResponseBudget: 15 * time.Minute, Notify: []string{"on-call"}},
		},
		ConfidenceThreshold: 0.70,
	}
}

func plumberClassification() schema.ClassificationFragment {
	return schema.ClassificationFragment{
		KeywordGroups: map[string][]string{
			"emergency": {"burst pipe", "no power"},
			"billing":   {"invoice"},
		},
		IntentMap: map[string][]string{
			"outage":   {"WATER_OUT"},
			"estimate": {"QUOTES"},
		},
		Escalations: map[string]schema.EscalationRule{
			"URGENT": {Urgency: schema.UrgencyHigh, ResponseBudget: 30 * time.Minute, Notify: []string{"owner"}},
		},
		ConfidenceThreshold: 0.75,
	}
}

func TestClassification(t *testing.T) {
	t.Run("Should fail with InvalidArgument on empty input", func(t *testing.T) {
		_, err := Classification(nil)
		assert.True(t, core.IsCode(err, core.ErrCodeInvalidArgument))
	})

	t.Run("Should return a single fragment unchanged", func(t *testing.T) {
		in := electricianClassification()
		out, err := Classification([]schema.ClassificationFragment{in})
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("Should union keyword groups with exact-match dedup", func(t *testing.T) {
		out, err := Classification([]schema.ClassificationFragment{
			electricianClassification(), plumberClassification(),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"sparks", "no power", "burst pipe"}, out.KeywordGroups["emergency"])
		assert.Equal(t, []string{"install"}, out.KeywordGroups["service"])
		assert.Equal(t, []string{"invoice"}, out.KeywordGroups["billing"])
	})

	t.Run("Should record every category for a conflicting intent", func(t *testing.T) {
		out, err := Classification([]schema.ClassificationFragment{
			electricianClassification(), plumberClassification(),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"URGENT", "WATER_OUT"}, out.IntentMap["outage"])
		assert.Equal(t, []string{"QUOTES"}, out.IntentMap["estimate"])
	})

	t.Run("Should keep the most urgent escalation rule and union notify lists", func(t *testing.T) {
		out, err := Classification([]schema.ClassificationFragment{
			plumberClassification(), electricianClassification(),
		})
		require.NoError(t, err)
		rule := out.Escalations["URGENT"]
		assert.Equal(t, 15*time.Minute, rule.ResponseBudget)
		assert.Equal(t, schema.UrgencyCritical, rule.Urgency)
		assert.ElementsMatch(t, []string{"on-call", "owner"}, rule.Notify)
	})

	t.Run("Should take the maximum confidence threshold", func(t *testing.T) {
		out, err := Classification([]schema.ClassificationFragment{
			electricianClassification(), plumberClassification(),
		})
		require.NoError(t, err)
		assert.Equal(t, 0.75, out.ConfidenceThreshold)

		reversed, err := Classification([]schema.ClassificationFragment{
			plumberClassification(), electricianClassification(),
		})
		require.NoError(t, err)
		assert.Equal(t, 0.75, reversed.ConfidenceThreshold)
	})

	t.Run("Should not alias the inputs", func(t *testing.T) {
		a := electricianClassification()
		b := plumberClassification()
		out, err := Classification([]schema.ClassificationFragment{a, b})
		require.NoError(t, err)
		out.KeywordGroups["emergency"][0] = "mutated"
		assert.Equal(t, "sparks", a.KeywordGroups["emergency"][0])
	})
}
