package deploy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/inboxeng/deploykit/engine/core"
)

func TestInject(t *testing.T) {
	t.Run("Should substitute every occurrence of each token", func(t *testing.T) {
		template := `{"name": "<<<BUSINESS_NAME>>>", "reply_as": "<<<BUSINESS_NAME>>>", "folder": "<<<LABEL_URGENT>>>"}`
		out, err := Inject(template, map[string]string{
			"BUSINESS_NAME": "Volt & Pipe Services",
			"LABEL_URGENT":  "F123",
		})
		require.NoError(t, err)
		assert.Equal(t, "Volt & Pipe Services", gjson.Get(out, "name").String())
		assert.Equal(t, "Volt & Pipe Services", gjson.Get(out, "reply_as").String())
		assert.Equal(t, "F123", gjson.Get(out, "folder").String())
	})

	t.Run("Should fail closed on a missing token", func(t *testing.T) {
		out, err := Inject(`{"folder": "<<<LABEL_URGENT>>>"}`, map[string]string{})
		assert.Empty(t, out)
		assert.True(t, core.IsCode(err, core.ErrCodeMissingTemplateToken))
	})

	t.Run("Should not rescan replacement values for tokens", func(t *testing.T) {
		// A value that happens to contain another token's literal text
		// must be copied verbatim, not substituted again.
		template := `{"a": "<<<FIRST>>>", "b": "<<<SECOND>>>"}`
		out, err := Inject(template, map[string]string{
			"FIRST":  "<<<SECOND>>>",
			"SECOND": "value",
		})
		require.NoError(t, err)
		assert.Equal(t, "<<<SECOND>>>", gjson.Get(out, "a").String())
		assert.Equal(t, "value", gjson.Get(out, "b").String())
	})

	t.Run("Should resolve tokens to empty strings rather than drop them", func(t *testing.T) {
		out, err := Inject(`{"folder": "<<<LABEL_URGENT_FLOODING>>>"}`, map[string]string{
			"LABEL_URGENT_FLOODING": "",
		})
		require.NoError(t, err)
		assert.Equal(t, "", gjson.Get(out, "folder").String())
	})

	t.Run("Should leave non-token marker text literal", func(t *testing.T) {
		out, err := Inject(`{"op": "a <<< b, c >>> d"}`, map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, "a <<< b, c >>> d", gjson.Get(out, "op").String())
	})

	t.Run("Should fail with MalformedOutput when the result is not valid JSON", func(t *testing.T) {
		out, err := Inject(`{"name": "<<<BUSINESS_NAME>>>"`, map[string]string{
			"BUSINESS_NAME": "Volt",
		})
		assert.Empty(t, out)
		assert.True(t, core.IsCode(err, core.ErrCodeMalformedOutput))
	})

	t.Run("Should treat an unterminated marker as literal text", func(t *testing.T) {
		out, err := Inject(`{"op": "tail <<<UNCLOSED"}`, map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, "tail <<<UNCLOSED", gjson.Get(out, "op").String())
	})
}

func TestValidTokenName(t *testing.T) {
	t.Run("Should accept UPPER_SNAKE names", func(t *testing.T) {
		assert.True(t, validTokenName("BUSINESS_NAME"))
		assert.True(t, validTokenName("LABEL_URGENT_2"))
	})

	t.Run("Should reject anything else", func(t *testing.T) {
		assert.False(t, validTokenName(""))
		assert.False(t, validTokenName("business_name"))
		assert.False(t, validTokenName("NAME WITH SPACE"))
	})
}
