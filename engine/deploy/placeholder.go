package deploy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/inboxeng/deploykit/engine/core"
	"github.com/inboxeng/deploykit/engine/merge"
)

// Mode selects how a placeholder value is sanitized before injection.
type Mode int

const (
	// ModeDisplay is for values a person sees verbatim (business name,
	// folder identifiers). They are cleaned but never escaped.
	ModeDisplay Mode = iota
	// ModeEmbedded is for values that sit inside the structured deploy
	// document (rendered prompts) and get structural escaping.
	ModeEmbedded
)

// Placeholder is one unsanitized placeholder value.
type Placeholder struct {
	Value string
	Mode  Mode
}

// PlaceholderMap is the flat token-name to value map consumed by the
// sanitizer and injector. Keys are bare UPPER_SNAKE token names without
// the <<< >>> delimiters.
type PlaceholderMap map[string]Placeholder

// Fixed token names. Label tokens are derived with a LABEL_ prefix so
// they can never collide with this namespace.
const (
	TokenBusinessName        = "BUSINESS_NAME"
	TokenBusinessDomain      = "BUSINESS_DOMAIN"
	TokenBusinessPhone       = "BUSINESS_PHONE"
	TokenBusinessCurrency    = "BUSINESS_CURRENCY"
	TokenClassification      = "CLASSIFICATION_PROMPT"
	TokenBehavior            = "BEHAVIOR_PROMPT"
	TokenConfidence          = "CONFIDENCE_THRESHOLD"
	TokenAutoReplyConfidence = "AUTO_REPLY_MIN_CONFIDENCE"
	tokenTeamMemberPrefix    = "TEAM_MEMBER_"
	tokenLabelPrefix         = "LABEL_"
)

// dynamicSlotPattern matches the per-team-member slot tokens that schema
// authors may embed in label names, e.g. "{{TEAM_MEMBER_1}} Queue".
var dynamicSlotPattern = regexp.MustCompile(`\{\{TEAM_MEMBER_(\d+)\}\}`)

// ResolvePlaceholders flattens the merged configuration and the runtime
// context into one placeholder map. Every token a template may reference
// resolves to some value, possibly empty; a folder identifier is taken
// from the runtime map by exact name or path, never inherited.
func ResolvePlaceholders(cfg *merge.MergedConfig, rc *RuntimeContext, maxRosterSlots int) (PlaceholderMap, error) {
	if cfg == nil {
		return nil, core.NewErrorf(core.ErrCodeInvalidArgument, "merged configuration is required")
	}
	if rc == nil {
		return nil, core.NewErrorf(core.ErrCodeInvalidArgument, "runtime context is required")
	}
	if maxRosterSlots < 1 {
		maxRosterSlots = 1
	}
	pm := PlaceholderMap{
		TokenBusinessName:     {Value: rc.Business.Name},
		TokenBusinessDomain:   {Value: rc.Business.Domain},
		TokenBusinessPhone:    {Value: rc.Business.Phone},
		TokenBusinessCurrency: {Value: rc.Business.Currency},
		TokenClassification:   {Value: renderClassificationPrompt(&cfg.Classification), Mode: ModeEmbedded},
		TokenBehavior:         {Value: renderBehaviorPrompt(&cfg.Behavior), Mode: ModeEmbedded},
		TokenConfidence:       {Value: formatScalar(cfg.Classification.ConfidenceThreshold)},
		TokenAutoReplyConfidence: {
			Value: formatScalar(cfg.Labels.Domains.AutoReply.MinConfidence),
		},
	}
	for slot := 1; slot <= maxRosterSlots; slot++ {
		pm[tokenTeamMemberPrefix+strconv.Itoa(slot)] = Placeholder{Value: rc.MemberName(slot)}
	}
	for i := range cfg.Labels.Labels {
		label := &cfg.Labels.Labels[i]
		name := resolveDynamicName(label.Name, rc)
		if err := addLabelToken(pm, labelToken(name), rc.FolderID(name)); err != nil {
			return nil, err
		}
		for j := range label.Children {
			child := resolveDynamicName(label.Children[j].Name, rc)
			path := name + "/" + child
			if err := addLabelToken(pm, labelToken(name, child), rc.FolderID(path)); err != nil {
				return nil, err
			}
		}
	}
	return pm, nil
}

func addLabelToken(pm PlaceholderMap, token, folderID string) error {
	if token == tokenLabelPrefix {
		// Name collapsed to nothing after slot resolution; there is no
		// folder to address, so no token is emitted.
		return nil
	}
	if _, exists := pm[token]; exists {
		return core.NewError(
			fmt.Errorf("placeholder token %q produced twice", token),
			core.ErrCodeInvalidArgument,
			map[string]any{"token": token},
		)
	}
	pm[token] = Placeholder{Value: folderID}
	return nil
}

// resolveDynamicName expands team-member slot tokens in a label name and
// collapses the whitespace left behind by unfilled slots.
func resolveDynamicName(name string, rc *RuntimeContext) string {
	resolved := dynamicSlotPattern.ReplaceAllStringFunc(name, func(m string) string {
		slot, err := strconv.Atoi(dynamicSlotPattern.FindStringSubmatch(m)[1])
		if err != nil {
			return ""
		}
		return rc.MemberName(slot)
	})
	return strings.Join(strings.Fields(resolved), " ")
}

// labelToken builds the fully-qualified LABEL_ token for a name path.
func labelToken(parts ...string) string {
	token := tokenLabelPrefix
	for _, part := range parts {
		slug := slugify(part)
		if slug == "" {
			continue
		}
		if token != tokenLabelPrefix {
			token += "_"
		}
		token += slug
	}
	return token
}

// slugify maps a resolved label name onto the UPPER_SNAKE token charset.
func slugify(name string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToUpper(name) {
		switch {
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

func formatScalar(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
