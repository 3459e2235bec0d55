package merge

import (
	"github.com/inboxeng/deploykit/engine/core"
	"github.com/inboxeng/deploykit/engine/schema"
)

// Labels merges folder taxonomies in selection order.
//
// Top-level nodes group by exact name. A name seen once is copied
// unchanged; a name seen in several inputs keeps the first occurrence's
// intent/critical/color and unions the child lists recursively by the same
// name rule. Dynamic-variable tokens embedded in names pass through
// untouched; duplicate names that could only arise after token resolution
// are not detectable here and are left to post-resolution validation.
// Domain rules union known domains by exact string and combine the
// auto-reply gate most-restrictive-wins.
func Labels(fragments []schema.LabelFragment) (schema.LabelFragment, error) {
	if len(fragments) == 0 {
		return schema.LabelFragment{}, core.NewErrorf(
			core.ErrCodeInvalidArgument, "label merge requires at least one fragment")
	}
	if len(fragments) == 1 {
		return core.DeepCopy(fragments[0])
	}
	out := schema.LabelFragment{}
	for _, f := range fragments {
		out.Labels = mergeLabelList(out.Labels, f.Labels)
		out.Domains.KnownDomains = unionStrings(out.Domains.KnownDomains, f.Domains.KnownDomains)
		out.Domains.AutoReply = mergeAutoReply(out.Domains.AutoReply, f.Domains.AutoReply)
	}
	return out, nil
}

// mergeLabelList unions src into dst by exact name match, recursively for
// children. First occurrence wins for scalar fields.
func mergeLabelList(dst, src []schema.Label) []schema.Label {
	index := make(map[string]int, len(dst))
	for i := range dst {
		index[dst[i].Name] = i
	}
	for i := range src {
		node := core.MustDeepCopy(src[i])
		at, ok := index[node.Name]
		if !ok {
			index[node.Name] = len(dst)
			dst = append(dst, node)
			continue
		}
		dst[at].Children = mergeLabelList(dst[at].Children, node.Children)
	}
	return dst
}

// mergeAutoReply keeps the hardest-to-satisfy confidence gate and unions
// the category allow-lists.
func mergeAutoReply(current, next schema.AutoReplyGate) schema.AutoReplyGate {
	merged := current
	if next.MinConfidence > merged.MinConfidence {
		merged.MinConfidence = next.MinConfidence
	}
	merged.AllowedCategories = unionStrings(current.AllowedCategories, next.AllowedCategories)
	return merged
}
