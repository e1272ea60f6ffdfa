package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProvider(t *testing.T) {
	for in, want := range map[string]Provider{
		"openai":    ProviderOpenAI,
		" Ollama ":  ProviderOllama,
		"anthropic": ProviderAnthropic,
		"gemini":    ProviderGemini,
		"":          ProviderNone,
		"none":      ProviderNone,
	} {
		got, err := ValidateProvider(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ValidateProvider("watson")
	assert.Error(t, err)
}

func TestNewChatModelRequiresKeys(t *testing.T) {
	ctx := context.Background()
	for _, p := range []Provider{ProviderOpenAI, ProviderAnthropic, ProviderGemini} {
		_, err := NewChatModel(ctx, Config{Provider: p})
		assert.Error(t, err, string(p))
	}
}

func TestNewChatModelNone(t *testing.T) {
	m, err := NewChatModel(context.Background(), Config{Provider: ProviderNone})
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestNewChatModelUnknown(t *testing.T) {
	_, err := NewChatModel(context.Background(), Config{Provider: "watson"})
	assert.Error(t, err)
}

func TestNewChatModelOpenAI(t *testing.T) {
	m, err := NewChatModel(context.Background(), Config{Provider: ProviderOpenAI, APIKey: "sk-test"})
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestDefaultModel(t *testing.T) {
	assert.Equal(t, "gpt-3.5-turbo", DefaultModel(ProviderOpenAI))
	assert.Empty(t, DefaultModel(ProviderNone))
}
