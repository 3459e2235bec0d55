package schema

import "time"

// CategoryID identifies a business category (e.g. "electrician") in the
// fragment store.
type CategoryID string

func (c CategoryID) String() string {
	return string(c)
}

// -----------------------------------------------------------------------------
// Business category schema
// -----------------------------------------------------------------------------

// BusinessCategorySchema is the immutable, versioned triple of configuration
// fragments for one business category. Values returned by the Loader are
// deep copies; callers may mutate them freely.
type BusinessCategorySchema struct {
	ID             CategoryID             `json:"id"`
	Version        string                 `json:"version"`
	Classification ClassificationFragment `json:"classification" validate:"required"`
	Behavior       BehaviorFragment       `json:"behavior"       validate:"required"`
	Labels         LabelFragment          `json:"labels"         validate:"required"`
}

// -----------------------------------------------------------------------------
// Classification fragment
// -----------------------------------------------------------------------------

// UrgencyTier orders escalation rules from least to most urgent.
type UrgencyTier string

const (
	UrgencyLow      UrgencyTier = "low"
	UrgencyMedium   UrgencyTier = "medium"
	UrgencyHigh     UrgencyTier = "high"
	UrgencyCritical UrgencyTier = "critical"
)

// EscalationRule describes how a category of email must be escalated.
type EscalationRule struct {
	Urgency        UrgencyTier   `json:"urgency"         validate:"oneof=low medium high critical"`
	ResponseBudget time.Duration `json:"response_budget" validate:"gt=0"`
	Notify         []string      `json:"notify"`
}

// ClassificationFragment holds the per-category classification rules.
// IntentMap values are slices so that a single intent can legitimately map
// to several categories after a merge; single-category inputs carry
// one-element slices.
type ClassificationFragment struct {
	KeywordGroups       map[string][]string       `json:"keyword_groups"`
	IntentMap           map[string][]string       `json:"intent_map"`
	Escalations         map[string]EscalationRule `json:"escalations"          validate:"dive"`
	ConfidenceThreshold float64                   `json:"confidence_threshold" validate:"gte=0,lte=1"`
}

// Categories returns the set of category names the fragment references,
// in sorted order: intent-map targets plus escalation rule keys.
func (f *ClassificationFragment) Categories() []string {
	seen := make(map[string]struct{})
	for _, targets := range f.IntentMap {
		for _, c := range targets {
			seen[c] = struct{}{}
		}
	}
	for c := range f.Escalations {
		seen[c] = struct{}{}
	}
	return sortedKeys(seen)
}

// -----------------------------------------------------------------------------
// Behavior fragment
// -----------------------------------------------------------------------------

// Formality is the closed formality enum.
type Formality string

const (
	FormalityCasual Formality = "casual"
	FormalityMedium Formality = "medium"
	FormalityFormal Formality = "formal"
)

// VoiceDescriptor captures the reply voice for a category.
type VoiceDescriptor struct {
	Tone            string    `json:"tone"`
	Formality       Formality `json:"formality"  validate:"oneof=casual medium formal"`
	Empathy         float64   `json:"empathy"    validate:"gte=0,lte=1"`
	Directness      float64   `json:"directness" validate:"gte=0,lte=1"`
	DisclosePricing bool      `json:"disclose_pricing"`
}

// GuidanceBlock is free-text guidance gated by an enabled flag.
type GuidanceBlock struct {
	Enabled bool   `json:"enabled"`
	Text    string `json:"text"`
}

// LanguageOverride is a per-category phrasing override. Lower priority
// values win on merge (1 is strongest, 5 weakest).
type LanguageOverride struct {
	Priority int      `json:"priority" validate:"gte=1,lte=5"`
	Phrases  []string `json:"phrases"`
}

// BehaviorFragment holds the per-category reply-behavior rules.
type BehaviorFragment struct {
	Voice     VoiceDescriptor             `json:"voice"`
	Goals     []string                    `json:"goals"`
	Upsell    GuidanceBlock               `json:"upsell"`
	FollowUp  GuidanceBlock               `json:"follow_up"`
	Overrides map[string]LanguageOverride `json:"overrides" validate:"dive"`
}

// -----------------------------------------------------------------------------
// Label fragment
// -----------------------------------------------------------------------------

// Label is one node of the mailbox folder taxonomy. Names may embed
// dynamic-variable tokens (team-member slots) which the mergers pass
// through untouched; only the placeholder resolver expands them.
type Label struct {
	Name     string  `json:"name"     validate:"required"`
	Intent   string  `json:"intent"`
	Critical bool    `json:"critical"`
	Color    string  `json:"color"`
	Children []Label `json:"children" validate:"dive"`
}

// AutoReplyGate gates automatic replies. On merge the gate is combined
// most-restrictive-wins: maximum MinConfidence, union of allow-lists.
type AutoReplyGate struct {
	MinConfidence     float64  `json:"min_confidence" validate:"gte=0,lte=1"`
	AllowedCategories []string `json:"allowed_categories"`
}

// DomainRules are the auxiliary domain-detection rules carried alongside
// the folder taxonomy.
type DomainRules struct {
	KnownDomains []string      `json:"known_domains"`
	AutoReply    AutoReplyGate `json:"auto_reply"`
}

// LabelFragment holds the per-category folder taxonomy and domain rules.
type LabelFragment struct {
	Labels  []Label     `json:"labels" validate:"dive"`
	Domains DomainRules `json:"domains"`
}

// TopLevelNames returns the top-level label names in declaration order.
func (f *LabelFragment) TopLevelNames() []string {
	names := make([]string, 0, len(f.Labels))
	for i := range f.Labels {
		names = append(names, f.Labels[i].Name)
	}
	return names
}
