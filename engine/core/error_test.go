package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Run("Should format code and wrapped error", func(t *testing.T) {
		err := NewError(errors.New("category not found"), ErrCodeInvalidArgument, map[string]any{
			"category": "Electrician",
		})
		assert.Equal(t, "INVALID_ARGUMENT: category not found", err.Error())
		assert.Equal(t, "Electrician", err.Details["category"])
	})

	t.Run("Should unwrap to the underlying error", func(t *testing.T) {
		base := errors.New("boom")
		wrapped := NewError(base, ErrCodeSchemaLoadFailure, nil)
		assert.ErrorIs(t, wrapped, base)
	})

	t.Run("Should expose the code through errors.As chains", func(t *testing.T) {
		err := fmt.Errorf("deploy failed: %w", NewErrorf(ErrCodeMissingTemplateToken, "token %s", "BUSINESS_NAME"))
		assert.Equal(t, ErrCodeMissingTemplateToken, CodeOf(err))
		assert.True(t, IsCode(err, ErrCodeMissingTemplateToken))
		assert.False(t, IsCode(err, ErrCodeMalformedOutput))
	})

	t.Run("Should return empty code for plain errors", func(t *testing.T) {
		assert.Equal(t, "", CodeOf(errors.New("plain")))
	})
}

func TestDeepCopy(t *testing.T) {
	t.Run("Should copy nested maps without aliasing", func(t *testing.T) {
		src := map[string]any{"labels": map[string]any{"URGENT": "F123"}}
		dst, err := DeepCopy(src)
		require.NoError(t, err)
		dst["labels"].(map[string]any)["URGENT"] = "changed"
		assert.Equal(t, "F123", src["labels"].(map[string]any)["URGENT"])
	})

	t.Run("Should copy slices of structs", func(t *testing.T) {
		type member struct{ Role, Name string }
		src := []member{{Role: "dispatcher", Name: "Dana"}}
		dst, err := DeepCopy(src)
		require.NoError(t, err)
		dst[0].Name = "changed"
		assert.Equal(t, "Dana", src[0].Name)
	})
}
