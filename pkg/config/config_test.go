package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, time.Hour, cfg.StatsCacheTTL)
	assert.Equal(t, 6*time.Hour, cfg.GameLogCacheTTL)
	assert.Equal(t, []string{"NFL", "NBA", "MLB", "NHL"}, cfg.SupportedSports)
	assert.Equal(t, 0.7, cfg.AmbiguityThreshold)
	assert.Equal(t, 50.0, cfg.GapHigh)
	assert.Equal(t, 3, cfg.FallbackSeasons)
	assert.False(t, cfg.UseMemoryCache())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())

	t.Setenv("ENV", "production")
	t.Setenv("SUPPORTED_SPORTS", " nfl, nba ,")
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("STATS_CACHE_TTL", "15m")
	t.Setenv("AMBIGUITY_THRESHOLD", "0.65")
	t.Setenv("BATCH_CONCURRENCY", "8")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"NFL", "NBA"}, cfg.SupportedSports)
	assert.True(t, cfg.UseMemoryCache())
	assert.Equal(t, 15*time.Minute, cfg.StatsCacheTTL)
	assert.Equal(t, 0.65, cfg.AmbiguityThreshold)
	assert.Equal(t, 8, cfg.BatchConcurrency)
}
