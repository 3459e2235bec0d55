package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboxeng/deploykit/engine/core"
	"github.com/inboxeng/deploykit/engine/schema"
)

func electricianSchema() *schema.BusinessCategorySchema {
	return &schema.BusinessCategorySchema{
		ID:             "electrician",
		Version:        "v2",
		Classification: electricianClassification(),
		Behavior:       electricianBehavior(),
		Labels:         electricianLabels(),
	}
}

func plumberSchema() *schema.BusinessCategorySchema {
	return &schema.BusinessCategorySchema{
		ID:             "plumber",
		Version:        "v1",
		Classification: plumberClassification(),
		Behavior:       plumberBehavior(),
		Labels:         plumberLabels(),
	}
}

// homogeneous builds a schema whose classification category set already
// equals its label top-level name set.
func homogeneous(id schema.CategoryID, categories ...string) *schema.BusinessCategorySchema {
	s := &schema.BusinessCategorySchema{ID: id, Version: "v1"}
	s.Classification.IntentMap = make(map[string][]string)
	s.Classification.Escalations = make(map[string]schema.EscalationRule)
	for _, c := range categories {
		s.Classification.IntentMap["intent-"+c] = []string{c}
		s.Labels.Labels = append(s.Labels.Labels, schema.Label{Name: c})
	}
	return s
}

func TestSchemas(t *testing.T) {
	t.Run("Should fail with InvalidArgument on empty selection", func(t *testing.T) {
		_, err := Schemas(nil)
		assert.True(t, core.IsCode(err, core.ErrCodeInvalidArgument))
	})

	t.Run("Should merge all three layers and record selection order", func(t *testing.T) {
		cfg, err := Schemas([]*schema.BusinessCategorySchema{electricianSchema(), plumberSchema()})
		require.NoError(t, err)
		assert.Equal(t, []schema.CategoryID{"electrician", "plumber"}, cfg.Categories)
		assert.Equal(t, 0.75, cfg.Classification.ConfidenceThreshold)
		assert.Equal(t, "safety-focused, reassuring", cfg.Behavior.Voice.Tone)
		assert.Equal(t, []string{"URGENT", "QUOTES", "MAINTENANCE"}, cfg.Labels.TopLevelNames())
	})

	t.Run("Should merge the urgent label to exactly four children at threshold 0.75", func(t *testing.T) {
		// End-to-end scenario from the product requirements: electrician
		// and plumber both define URGENT with two children each and
		// thresholds 0.70 / 0.75.
		cfg, err := Schemas([]*schema.BusinessCategorySchema{electricianSchema(), plumberSchema()})
		require.NoError(t, err)
		urgent := cfg.Labels.Labels[0]
		require.Equal(t, "URGENT", urgent.Name)
		names := make([]string, 0, len(urgent.Children))
		for _, c := range urgent.Children {
			names = append(names, c.Name)
		}
		assert.Equal(t, []string{"No Power", "Electrical Hazard", "Burst Pipe", "Flooding"}, names)
		assert.Equal(t, 0.75, cfg.Classification.ConfidenceThreshold)
	})
}

func TestValidate(t *testing.T) {
	t.Run("Should pass when category and label name sets are equal", func(t *testing.T) {
		cfg, err := Schemas([]*schema.BusinessCategorySchema{
			homogeneous("electrician", "URGENT", "QUOTES"),
			homogeneous("plumber", "URGENT", "MAINTENANCE"),
		})
		require.NoError(t, err)
		result := Validate(cfg)
		assert.True(t, result.Valid)
		assert.Empty(t, result.Orphans())
		assert.NoError(t, result.Err())
	})

	t.Run("Should flag classification categories without a label", func(t *testing.T) {
		s := homogeneous("electrician", "URGENT")
		s.Classification.IntentMap["billing"] = []string{"INVOICES"}
		cfg, err := Schemas([]*schema.BusinessCategorySchema{s})
		require.NoError(t, err)
		result := Validate(cfg)
		assert.False(t, result.Valid)
		assert.Equal(t, []string{"INVOICES"}, result.OrphanCategories)
		assert.Empty(t, result.OrphanLabels)
	})

	t.Run("Should flag labels no classification references", func(t *testing.T) {
		s := homogeneous("plumber", "URGENT")
		s.Labels.Labels = append(s.Labels.Labels, schema.Label{Name: "NEWSLETTER"})
		cfg, err := Schemas([]*schema.BusinessCategorySchema{s})
		require.NoError(t, err)
		result := Validate(cfg)
		assert.False(t, result.Valid)
		assert.Equal(t, []string{"NEWSLETTER"}, result.OrphanLabels)
	})

	t.Run("Should convert a failed result into a ConsistencyViolation", func(t *testing.T) {
		s := homogeneous("plumber", "URGENT")
		s.Labels.Labels = append(s.Labels.Labels, schema.Label{Name: "NEWSLETTER"})
		cfg, err := Schemas([]*schema.BusinessCategorySchema{s})
		require.NoError(t, err)
		validationErr := Validate(cfg).Err()
		assert.True(t, core.IsCode(validationErr, core.ErrCodeConsistencyViolation))
	})

	t.Run("Should also flag escalation-only categories", func(t *testing.T) {
		s := homogeneous("electrician", "URGENT")
		s.Classification.Escalations["OUTAGES"] = schema.EscalationRule{
			Urgency: schema.UrgencyHigh, ResponseBudget: time.Hour,
		}
		cfg, err := Schemas([]*schema.BusinessCategorySchema{s})
		require.NoError(t, err)
		result := Validate(cfg)
		assert.False(t, result.Valid)
		assert.Contains(t, result.OrphanCategories, "OUTAGES")
	})
}
