package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetModel_ConfiguredTier(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
}

func TestGetModel_FallbackChain(t *testing.T) {
	config := &Config{Models: map[ModelTier]string{TierLite: "lite-model"}}
	// Unconfigured tiers fall back through standard, then lite.
	assert.Equal(t, "lite-model", config.GetModel(TierAdvanced))

	empty := &Config{Models: map[ModelTier]string{}}
	assert.Equal(t, "", empty.GetModel(TierStandard))
}

func TestWithModel_DoesNotMutateOriginal(t *testing.T) {
	config := DefaultConfig()
	override := config.WithModel(TierAdvanced, "custom-model")

	assert.Equal(t, "custom-model", override.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
}
