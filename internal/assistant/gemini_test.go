package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unishare/internal/content"
)

func TestGeminiProviderDefaults(t *testing.T) {
	p := NewGeminiProvider("  key  ", "")
	assert.Equal(t, "Gemini", p.GetName())
	assert.Equal(t, "gemini-3-flash-preview", p.GetCurrentModel())
	assert.True(t, p.IsAvailable(context.Background()))

	p.SetModel("anderes-modell")
	assert.Equal(t, "anderes-modell", p.GetCurrentModel())
	p.SetModel("")
	assert.Equal(t, "anderes-modell", p.GetCurrentModel())
}

func TestGeminiProviderMissingKeyFailsBeforeNetwork(t *testing.T) {
	p := NewGeminiProvider("", "")
	assert.False(t, p.IsAvailable(context.Background()))

	_, err := p.Generate(context.Background(), &Request{
		System:  "system",
		Task:    "task",
		Content: &content.Normalized{Kind: content.KindText, Text: "text"},
		Format:  FormatPlain,
	})

	var modelErr *ModelError
	require.ErrorAs(t, err, &modelErr)
	// Kein Client wurde aufgebaut
	assert.Nil(t, p.client)
}

func TestGeminiProviderCloseWithoutClientIsNoop(t *testing.T) {
	p := NewGeminiProvider("key", "")
	assert.NoError(t, p.Close())
	assert.NoError(t, p.Close())
}
