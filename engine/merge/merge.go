// Package merge combines per-category schema fragments into a single,
// non-duplicated configuration. Every operation is a pure function over
// immutable inputs; input order is the order categories were selected,
// and the mergers keep it significant wherever a policy says "first wins".
package merge

import (
	"github.com/inboxeng/deploykit/engine/core"
	"github.com/inboxeng/deploykit/engine/schema"
)

// MergedConfig is the result of merging a non-empty set of business
// category schemas.
type MergedConfig struct {
	Categories     []schema.CategoryID
	Classification schema.ClassificationFragment
	Behavior       schema.BehaviorFragment
	Labels         schema.LabelFragment
}

// Schemas merges the three layers of every selected schema, in selection
// order. An empty selection is a caller error.
func Schemas(schemas []*schema.BusinessCategorySchema) (*MergedConfig, error) {
	if len(schemas) == 0 {
		return nil, core.NewErrorf(core.ErrCodeInvalidArgument, "at least one schema is required to merge")
	}
	categories := make([]schema.CategoryID, 0, len(schemas))
	classifications := make([]schema.ClassificationFragment, 0, len(schemas))
	behaviors := make([]schema.BehaviorFragment, 0, len(schemas))
	labels := make([]schema.LabelFragment, 0, len(schemas))
	for _, s := range schemas {
		categories = append(categories, s.ID)
		classifications = append(classifications, s.Classification)
		behaviors = append(behaviors, s.Behavior)
		labels = append(labels, s.Labels)
	}
	classification, err := Classification(classifications)
	if err != nil {
		return nil, err
	}
	behavior, err := Behavior(behaviors)
	if err != nil {
		return nil, err
	}
	labelFragment, err := Labels(labels)
	if err != nil {
		return nil, err
	}
	return &MergedConfig{
		Categories:     categories,
		Classification: classification,
		Behavior:       behavior,
		Labels:         labelFragment,
	}, nil
}

// unionStrings appends the members of src not already present in dst,
// preserving first-seen order with case-preserving exact-match dedup.
func unionStrings(dst, src []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, s := range dst {
		seen[s] = struct{}{}
	}
	for _, s := range src {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}
