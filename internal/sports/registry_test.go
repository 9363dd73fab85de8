package sports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGet(t *testing.T) {
	r := NewRegistry([]string{"nfl", "NBA"})

	cfg, ok := r.Get("nfl")
	require.True(t, ok)
	assert.Equal(t, NFL, cfg.Sport)

	_, ok = r.Get("MLB")
	assert.False(t, ok, "MLB was not enabled")

	assert.Equal(t, []Sport{NBA, NFL}, r.Supported())
}

func TestRegistryDefaultsToAllSports(t *testing.T) {
	r := NewRegistry(nil)
	assert.Len(t, r.Supported(), 4)
}

func TestSeasonFormatting(t *testing.T) {
	r := NewRegistry(nil)
	nfl, _ := r.Get("NFL")
	nba, _ := r.Get("NBA")

	assert.Equal(t, "2024", nfl.Season(2024))
	assert.Equal(t, "2024-25", nba.Season(2024))
	assert.Equal(t, "2099-00", nba.Season(2099))

	y, ok := SeasonYear("2023-24")
	assert.True(t, ok)
	assert.Equal(t, 2023, y)

	_, ok = SeasonYear(CareerSeason)
	assert.False(t, ok)
}

func TestCurrentSeasonBoundary(t *testing.T) {
	nfl, _ := NewRegistry(nil).Get("NFL")

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"before boundary uses previous year", time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), "2024"},
		{"july still previous year", time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC), "2024"},
		{"boundary month starts new season", time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC), "2025"},
		{"december", time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC), "2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nfl.CurrentSeason(tt.now))
		})
	}
}

func TestResolveMetric(t *testing.T) {
	nfl, _ := NewRegistry(nil).Get("NFL")
	nhl, _ := NewRegistry(nil).Get("NHL")

	tests := []struct {
		cfg  *Config
		term string
		want string
		ok   bool
	}{
		{nfl, "sacks", "sacks", true},
		{nfl, "Passing Yards", "passing_yards", true},
		{nfl, "picks", "interceptions", true},
		{nfl, "touchdowns", "total_touchdowns", true},
		{nfl, "home runs", "", false},
		{nhl, "pim", "penalty_minutes", true},
		{nfl, "", "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.cfg.Sport)+"/"+tt.term, func(t *testing.T) {
			got, ok := tt.cfg.ResolveMetric(tt.term)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPositionsForMetrics(t *testing.T) {
	nfl, _ := NewRegistry(nil).Get("NFL")

	positions := nfl.PositionsForMetrics([]string{"sacks"})
	assert.True(t, positions["EDGE"])
	assert.False(t, positions["QB"])

	positions = nfl.PositionsForMetrics([]string{"total_touchdowns"})
	assert.True(t, positions["QB"])
	assert.True(t, positions["WR"])

	assert.Equal(t, 30.0, nfl.PositionPriority("qb"))
	assert.Equal(t, 5.0, nfl.PositionPriority("XX"))
}
