package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mealsync/api/pkg/errors"
)

type testPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestExtractJSON(t *testing.T) {
	t.Run("DirectJSON", func(t *testing.T) {
		var out testPayload
		err := extractJSON(`{"name": "pasta", "count": 3}`, &out)
		require.NoError(t, err)
		assert.Equal(t, "pasta", out.Name)
		assert.Equal(t, 3, out.Count)
	})

	t.Run("LeadingWhitespace", func(t *testing.T) {
		var out testPayload
		require.NoError(t, extractJSON("\n\n  {\"name\": \"x\"}  \n", &out))
		assert.Equal(t, "x", out.Name)
	})

	t.Run("MarkdownCodeFence", func(t *testing.T) {
		text := "Here is your recipe:\n```json\n{\"name\": \"curry\", \"count\": 2}\n```\nEnjoy!"
		var out testPayload
		require.NoError(t, extractJSON(text, &out))
		assert.Equal(t, "curry", out.Name)
	})

	t.Run("BareCodeFence", func(t *testing.T) {
		text := "```\n{\"name\": \"soup\"}\n```"
		var out testPayload
		require.NoError(t, extractJSON(text, &out))
		assert.Equal(t, "soup", out.Name)
	})

	t.Run("EmbeddedObject", func(t *testing.T) {
		text := `The model says: {"name": "stew", "count": 1} and nothing else.`
		var out testPayload
		require.NoError(t, extractJSON(text, &out))
		assert.Equal(t, "stew", out.Name)
	})

	t.Run("NoJSONAtAll", func(t *testing.T) {
		var out testPayload
		err := extractJSON("Sorry, I cannot help with that.", &out)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		var out testPayload
		err := extractJSON(`{"name": "broken`, &out)
		assert.Error(t, err)
	})
}
