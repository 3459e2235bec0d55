package merge

import (
	"github.com/inboxeng/deploykit/engine/core"
)

// ValidationResult reports whether the merged classification category set
// and the merged label top-level name set are equal, and which names are
// orphaned on each side. The check is pure; callers decide whether an
// orphan is fatal.
type ValidationResult struct {
	Valid bool
	// OrphanCategories are referenced by classification but have no
	// top-level label.
	OrphanCategories []string
	// OrphanLabels are top-level labels no classification rule references.
	OrphanLabels []string
}

// Orphans returns all orphan names, classification side first.
func (r *ValidationResult) Orphans() []string {
	return append(append([]string{}, r.OrphanCategories...), r.OrphanLabels...)
}

// Err converts a failed result into a typed ConsistencyViolation error,
// or nil when the result is valid.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return core.NewErrorf(core.ErrCodeConsistencyViolation,
		"merged configuration has orphan categories: %v", r.Orphans())
}

// Validate cross-checks the merged classification and label layers.
func Validate(cfg *MergedConfig) *ValidationResult {
	categories := cfg.Classification.Categories()
	labelNames := cfg.Labels.TopLevelNames()
	labelSet := make(map[string]struct{}, len(labelNames))
	for _, name := range labelNames {
		labelSet[name] = struct{}{}
	}
	categorySet := make(map[string]struct{}, len(categories))
	for _, name := range categories {
		categorySet[name] = struct{}{}
	}
	result := &ValidationResult{}
	for _, name := range categories {
		if _, ok := labelSet[name]; !ok {
			result.OrphanCategories = append(result.OrphanCategories, name)
		}
	}
	for _, name := range labelNames {
		if _, ok := categorySet[name]; !ok {
			result.OrphanLabels = append(result.OrphanLabels, name)
		}
	}
	result.Valid = len(result.OrphanCategories) == 0 && len(result.OrphanLabels) == 0
	return result
}
