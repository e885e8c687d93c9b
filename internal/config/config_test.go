package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("FX_CACHE_TTL_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "*/30 * * * *", cfg.FXCron)
	assert.Equal(t, 15*time.Minute, cfg.FXCacheTTL())
	assert.Equal(t, []int{1, 3, 6, 12}, cfg.Installments())
}

func TestInstallments(t *testing.T) {
	cfg := &Config{DefaultInstallments: " 1, 6 ,x,0,-3,18"}
	assert.Equal(t, []int{1, 6, 18}, cfg.Installments())

	assert.Nil(t, (&Config{}).Installments())
}
