package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/stitts-dev/sports-query-engine/internal/models"
	"github.com/stitts-dev/sports-query-engine/internal/services"
	"github.com/stitts-dev/sports-query-engine/internal/sports"
)

const DefaultRapidAPIHost = "nfl-api-data.p.rapidapi.com"

// errNotFound marks a 404 so it is not counted against the breaker.
var errNotFound = errors.New("remote record not found")

// RapidAPIClient is the remote stats source. It only serves the NFL; other
// sports report "not found" so the fetcher moves on.
type RapidAPIClient struct {
	httpClient  *http.Client
	breaker     *services.CircuitBreakerService
	logger      *logrus.Logger
	rateLimiter *rate.Limiter
	apiKey      string
	baseURL     string
	host        string
}

type RapidAPIConfig struct {
	APIKey    string
	Host      string
	BaseURL   string // defaults to https://<Host>
	RateLimit float64
	Timeout   time.Duration
}

func NewRapidAPIClient(cfg RapidAPIConfig, breaker *services.CircuitBreakerService, logger *logrus.Logger) *RapidAPIClient {
	if cfg.Host == "" {
		cfg.Host = DefaultRapidAPIHost
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://" + cfg.Host
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &RapidAPIClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		breaker:     breaker,
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		host:        cfg.Host,
	}
}

// RapidAPI response structures
type playerStatsResponse struct {
	Statistics struct {
		Splits struct {
			Categories []statCategory `json:"categories"`
		} `json:"splits"`
	} `json:"statistics"`
}

type statCategory struct {
	Name  string     `json:"name"`
	Stats []statItem `json:"stats"`
}

type statItem struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

type gameLogResponse struct {
	Names       []string                `json:"names"`
	Events      map[string]gameLogEvent `json:"events"`
	SeasonTypes []gameLogSeasonType     `json:"seasonTypes"`
}

type gameLogEvent struct {
	Week       int    `json:"week"`
	GameDate   string `json:"gameDate"`
	AtVs       string `json:"atVs"`
	GameResult string `json:"gameResult"`
	Opponent   struct {
		DisplayName  string `json:"displayName"`
		Abbreviation string `json:"abbreviation"`
	} `json:"opponent"`
}

type gameLogSeasonType struct {
	Categories []struct {
		Events []struct {
			EventID string   `json:"eventId"`
			Stats   []string `json:"stats"`
		} `json:"events"`
	} `json:"categories"`
}

// Configured reports whether an API key is set.
func (c *RapidAPIClient) Configured() bool {
	return c.apiKey != ""
}

// SeasonStats fetches one season for a player. It returns nil, nil when the
// source has nothing for the player.
func (c *RapidAPIClient) SeasonStats(ctx context.Context, cfg *sports.Config, entity models.Entity, season string, metrics []string) (*models.StatsRecord, error) {
	if cfg.Sport != sports.NFL || entity.ExternalID == "" || !c.Configured() {
		return nil, nil
	}
	year, ok := sports.SeasonYear(season)
	if !ok {
		return nil, nil
	}

	var resp playerStatsResponse
	params := url.Values{"season": {strconv.Itoa(year)}}
	if err := c.get(ctx, "/player-stats/"+url.PathEscape(remoteID(entity.ExternalID)), params, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	byField := make(map[string]float64)
	for _, cat := range resp.Statistics.Splits.Categories {
		for _, st := range cat.Stats {
			if v, ok := parseNumber(st.Value); ok {
				// first category wins for duplicated names
				if _, seen := byField[st.Name]; !seen {
					byField[st.Name] = v
				}
			}
		}
	}

	rec := &models.StatsRecord{
		EntityID:    entity.ID,
		EntityName:  entity.Name,
		Season:      season,
		GamesPlayed: int(byField["gamesPlayed"]),
		Values:      make(map[string]float64),
		Source:      "remote",
	}
	for _, m := range wantedStats(cfg, metrics) {
		if v, ok := byField[m.APIField]; ok {
			rec.Values[m.Metric] = v
		}
	}

	c.logger.WithFields(logrus.Fields{
		"component": "rapidapi",
		"player_id": entity.ID,
		"season":    season,
		"metrics":   len(rec.Values),
	}).Debug("Fetched remote season stats")

	if rec.Empty() {
		return nil, nil
	}
	return rec, nil
}

// GameLog fetches a player's game-by-game log for a season.
func (c *RapidAPIClient) GameLog(ctx context.Context, cfg *sports.Config, entity models.Entity, season string) ([]models.GameRecord, error) {
	if cfg.Sport != sports.NFL || entity.ExternalID == "" || !c.Configured() {
		return nil, nil
	}

	params := url.Values{"id": {remoteID(entity.ExternalID)}}
	if year, ok := sports.SeasonYear(season); ok {
		params.Set("season", strconv.Itoa(year))
	}

	var resp gameLogResponse
	if err := c.get(ctx, "/nfl-ath-gamelog", params, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return convertGameLog(cfg, resp), nil
}

func convertGameLog(cfg *sports.Config, resp gameLogResponse) []models.GameRecord {
	fieldToMetric := make(map[string]string, len(cfg.Stats))
	for _, m := range cfg.Stats {
		fieldToMetric[m.APIField] = m.Metric
	}

	statsByEvent := make(map[string][]string)
	for _, st := range resp.SeasonTypes {
		for _, cat := range st.Categories {
			for _, ev := range cat.Events {
				if _, seen := statsByEvent[ev.EventID]; !seen {
					statsByEvent[ev.EventID] = ev.Stats
				}
			}
		}
	}

	games := make([]models.GameRecord, 0, len(resp.Events))
	for id, ev := range resp.Events {
		g := models.GameRecord{
			Week:         ev.Week,
			Opponent:     ev.Opponent.DisplayName,
			OpponentAbbr: ev.Opponent.Abbreviation,
			IsHome:       ev.AtVs != "@",
			Result:       ev.GameResult,
			Stats:        make(map[string]float64),
		}
		if t, err := time.Parse(time.RFC3339, ev.GameDate); err == nil {
			g.Date = t
		} else if t, err := time.Parse("2006-01-02T15:04Z07:00", ev.GameDate); err == nil {
			g.Date = t
		}

		for i, raw := range statsByEvent[id] {
			if i >= len(resp.Names) {
				break
			}
			metric, ok := fieldToMetric[resp.Names[i]]
			if !ok {
				continue
			}
			if v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64); err == nil {
				g.Stats[metric] = v
			}
		}
		games = append(games, g)
	}

	sort.Slice(games, func(i, j int) bool {
		if !games[i].Date.Equal(games[j].Date) {
			return games[i].Date.Before(games[j].Date)
		}
		return games[i].Week < games[j].Week
	})
	return games
}

func (c *RapidAPIClient) get(ctx context.Context, path string, params url.Values, dest interface{}) error {
	// Rate limiting
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var missing bool
	_, err := c.breaker.Execute(services.RemoteRapidAPI, func() (interface{}, error) {
		err := c.do(ctx, path, params, dest)
		if errors.Is(err, errNotFound) {
			// a missing player is not a failing upstream
			missing = true
			return nil, nil
		}
		return nil, err
	})
	if err != nil {
		return err
	}
	if missing {
		return errNotFound
	}
	return nil
}

func (c *RapidAPIClient) do(ctx context.Context, path string, params url.Values, dest interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func wantedStats(cfg *sports.Config, metrics []string) []sports.StatMapping {
	if len(metrics) == 0 {
		return cfg.Stats
	}
	var out []sports.StatMapping
	for _, metric := range metrics {
		parts := []string{metric}
		if comps, ok := cfg.Derived[metric]; ok {
			parts = comps
		}
		for _, p := range parts {
			if m, ok := cfg.Stat(p); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

// remoteID strips a sport prefix such as "nfl-" from stored external ids.
func remoteID(externalID string) string {
	if i := strings.LastIndex(externalID, "-"); i >= 0 {
		return externalID[i+1:]
	}
	return externalID
}

// parseNumber accepts JSON numbers and numeric strings such as "1,234".
func parseNumber(raw json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return f, err == nil
}
