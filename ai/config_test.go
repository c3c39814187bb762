package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:11434/v1", cfg.ChatHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.NotEmpty(t, cfg.ChatModel)
	assert.NotEmpty(t, cfg.EmbeddingModel)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig_Options(t *testing.T) {
	t.Run("WithHost sets both hosts", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://example.com:9100/v1"))
		assert.Equal(t, "http://example.com:9100/v1", cfg.ChatHost)
		assert.Equal(t, "http://example.com:9100/v1", cfg.EmbeddingHost)
	})

	t.Run("separate hosts and models", func(t *testing.T) {
		cfg := NewConfig(
			WithChatHost("http://chat.local/v1"),
			WithEmbeddingHost("http://embed.local/v1"),
			WithChatModel("gpt-4o-mini"),
			WithEmbeddingModel("text-embedding-3-small"),
		)
		assert.Equal(t, "http://chat.local/v1", cfg.ChatHost)
		assert.Equal(t, "http://embed.local/v1", cfg.EmbeddingHost)
		assert.Equal(t, "gpt-4o-mini", cfg.ChatModel)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	})
}

func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{name: "missing v1 suffix", host: "http://localhost:11434", want: "http://localhost:11434/v1"},
		{name: "trailing slash", host: "http://localhost:11434/", want: "http://localhost:11434/v1"},
		{name: "already normalized", host: "http://localhost:11434/v1", want: "http://localhost:11434/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tt.host))
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.ChatHost)
			assert.Equal(t, tt.want, cfg.EmbeddingHost)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, NewConfig().Validate())
	})

	t.Run("missing chat host", func(t *testing.T) {
		cfg := NewConfig()
		cfg.ChatHost = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing chat model", func(t *testing.T) {
		cfg := NewConfig(WithChatModel(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing embedding model", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingModel(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("validate normalizes hosts", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.ChatHost)
	})
}
