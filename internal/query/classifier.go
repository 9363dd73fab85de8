package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/sports-query-engine/internal/sports"
)

// keywordSet matches phrases on word boundaries so that "over" does not
// fire inside "turnovers".
type keywordSet []*regexp.Regexp

func newKeywordSet(words ...string) keywordSet {
	set := make(keywordSet, 0, len(words))
	for _, w := range words {
		set = append(set, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return set
}

func (k keywordSet) match(text string) bool {
	for _, re := range k {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

var (
	comparisonKeywords   = newKeywordSet("vs", "versus", "compare", "compared to", "against", "better than", "between", "who has more", "who had more")
	rankingKeywords      = newKeywordSet("rank", "ranking", "position", "where does", "top", "best", "worst", "leaders", "leads", "most", "highest")
	aggregateKeywords    = newKeywordSet("total", "average", "mean", "sum", "combined", "league", "all teams")
	thresholdKeywords    = newKeywordSet("more than", "less than", "fewer than", "at least", "over", "under", "above", "below")
	gameSpecificKeywords = newKeywordSet("in week", "game against", "performance against", "in the game", "that game", "game stats")
	contextualKeywords   = newKeywordSet("home", "away", "road", "at home", "on the road", "home games", "away games", "division games", "conference games", "home vs away")
	gameRankingKeywords  = newKeywordSet("best game", "worst game", "top games", "best performance", "best games", "worst games", "game by game")
	opponentCue          = newKeywordSet("against", "vs", "versus")
	leagueCue            = newKeywordSet("league", "league-wide", "nfl", "nba", "mlb", "nhl")
	ascendingCue         = newKeywordSet("worst", "lowest", "least", "fewest")
	seasonTotalCue       = newKeywordSet("total", "season total", "in total", "overall", "for season", "for the season")
	homeCue              = newKeywordSet("home", "at home")
	awayCue              = newKeywordSet("away", "road", "on the road")
	leaderboardStrategy  = map[string]bool{"leaderboard": true, "league_leaders": true, "leaders": true}

	homeRunPattern   = regexp.MustCompile(`\bhome[\s-]runs?\b`)
	weekPattern      = regexp.MustCompile(`\bweek\s+(\d+)`)
	opponentPattern  = regexp.MustCompile(`\b(?:against|vs\.?|versus)\s+(?:the\s+)?([a-z0-9][a-z0-9 .'&-]*?)(?:\s+(?:in|during|on)\b|\s+week\b|[?.!,;]|$)`)
	thresholdPattern = regexp.MustCompile(`\b(more than|over|above|at least|less than|fewer than|under|below)\s+(\d+(?:\.\d+)?)`)
)

var comparisonTargets = map[string]bool{
	"player": true, "team": true, "season": true,
	"player_comparison": true, "team_comparison": true, "season_comparison": true,
}

// Classifier turns a QueryDescription into a QueryPlan. Rules are evaluated
// in priority order and the first match wins.
type Classifier struct {
	registry *sports.Registry
	logger   *logrus.Logger
}

func NewClassifier(registry *sports.Registry, logger *logrus.Logger) *Classifier {
	return &Classifier{registry: registry, logger: logger}
}

// Classify fails only when the sport is not supported.
func (c *Classifier) Classify(desc QueryDescription) (*QueryPlan, error) {
	cfg, ok := c.registry.Get(desc.Sport)
	if !ok {
		return nil, ErrUnsupportedSport(desc.Sport)
	}

	question := strings.ToLower(desc.Question)
	plan := &QueryPlan{
		Sport:   cfg.Sport,
		Teams:   append([]string(nil), desc.TeamNames...),
		Metrics: normalizeMetrics(cfg, desc.Metrics),
		Filters: Filters{
			SeasonYears: append([]int(nil), desc.SeasonYears...),
			Season:      desc.Season,
			Position:    strings.ToUpper(desc.Position),
			Limit:       desc.Limit,
			SeasonTotal: seasonTotalCue.match(question),
		},
	}

	plan.QueryType = c.decide(desc, question, cfg, plan)
	c.assignEntities(desc, plan)

	m := manifestFor(plan.QueryType)
	plan.ProcessingSteps = append([]string(nil), m.steps...)
	plan.DataSourcesNeeded = append([]string(nil), m.sources...)
	plan.ResponseFormat = m.format
	plan.AggregationType = m.aggregation

	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{
			"component":  "classifier",
			"sport":      plan.Sport,
			"query_type": plan.QueryType,
			"players":    len(desc.PlayerNames),
			"teams":      len(desc.TeamNames),
			"metrics":    plan.Metrics,
		}).Debug("Query classified")
	}

	return plan, nil
}

func (c *Classifier) decide(desc QueryDescription, question string, cfg *sports.Config, plan *QueryPlan) QueryType {
	players := len(desc.PlayerNames)
	teams := len(desc.TeamNames)
	seasons := len(desc.SeasonYears)

	if leaderboardStrategy[strings.ToLower(strings.TrimSpace(desc.Strategy))] {
		return LeagueLeaders
	}

	hasWeek := weekPattern.MatchString(question)
	if (hasWeek && opponentCue.match(question)) || gameSpecificKeywords.match(question) {
		extractGameContext(question, desc, &plan.Filters)
		return GameSpecificStats
	}

	// "home runs" is a baseball stat, not a venue.
	if contextualKeywords.match(homeRunPattern.ReplaceAllString(question, "")) {
		extractContextualFilters(question, &plan.Filters)
		return ContextualPerformance
	}

	if gameRankingKeywords.match(question) {
		extractPerformanceCriteria(question, cfg, plan.Metrics, &plan.Filters)
		return GamePerformanceComparison
	}

	if isComparison(desc, question) {
		switch {
		case players >= 3:
			return MultiPlayerComparison
		case players == 2:
			return PlayerComparison
		case teams >= 3:
			return MultiTeamComparison
		case teams == 2:
			return TeamComparison
		case seasons >= 3 && players == 1:
			return MultiSeasonComparison
		case seasons == 2 && players == 1:
			return SeasonComparison
		}
		// No cardinality branch fits; keep evaluating the later rules.
	}

	if rankingKeywords.match(question) {
		if leagueCue.match(question) {
			return LeagueLeaders
		}
		return PlayerRanking
	}

	if aggregateKeywords.match(question) {
		return AggregateStat
	}

	if thresholdKeywords.match(question) {
		extractThreshold(question, &plan.Filters)
		return ThresholdQuery
	}

	if len(desc.Metrics) > 1 && players == 1 {
		return MultiStatPlayer
	}

	if teams > 0 && players == 0 {
		return TeamStats
	}

	return SingleEntityStat
}

func isComparison(desc QueryDescription, question string) bool {
	if comparisonTargets[strings.ToLower(desc.ComparisonTarget)] {
		return true
	}
	if strings.EqualFold(desc.OutputExpectation, "comparison") {
		return true
	}
	return comparisonKeywords.match(question)
}

func (c *Classifier) assignEntities(desc QueryDescription, plan *QueryPlan) {
	names := append([]string(nil), desc.PlayerNames...)
	switch plan.QueryType {
	case PlayerComparison:
		plan.PrimaryEntities = names[:1]
		plan.SecondaryEntities = names[1:]
	default:
		plan.PrimaryEntities = names
	}
}

func normalizeMetrics(cfg *sports.Config, metrics []string) []string {
	out := make([]string, 0, len(metrics))
	seen := make(map[string]bool)
	for _, m := range metrics {
		id, ok := cfg.ResolveMetric(m)
		if !ok {
			// Left as-is; the engine rejects it with UnsupportedMetric.
			id = strings.TrimSpace(m)
		}
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func extractGameContext(question string, desc QueryDescription, f *Filters) {
	if m := weekPattern.FindStringSubmatch(question); m != nil {
		if week, err := strconv.Atoi(m[1]); err == nil {
			f.Week = week
		}
	}
	if len(desc.TeamNames) > 0 {
		f.Opponent = desc.TeamNames[0]
		return
	}
	if m := opponentPattern.FindStringSubmatch(question); m != nil {
		f.Opponent = strings.TrimSpace(m[1])
	}
}

func extractContextualFilters(question string, f *Filters) {
	home := homeCue.match(question)
	away := awayCue.match(question)
	switch {
	case home && !away:
		f.Venue = "home"
	case away && !home:
		f.Venue = "away"
	}

	switch {
	case strings.Contains(question, "division"):
		f.OpponentType = "division"
	case strings.Contains(question, "conference"):
		f.OpponentType = "conference"
	}
}

func extractPerformanceCriteria(question string, cfg *sports.Config, metrics []string, f *Filters) {
	f.SortOrder = "desc"
	if ascendingCue.match(question) {
		f.SortOrder = "asc"
	}

	switch {
	case len(metrics) > 0:
		f.SortMetric = metrics[0]
	case strings.Contains(question, "yards"):
		f.SortMetric = "passing_yards"
	case strings.Contains(question, "touchdown"):
		f.SortMetric = "passing_touchdowns"
	case strings.Contains(question, "rating"):
		f.SortMetric = "passer_rating"
	default:
		f.SortMetric = cfg.PrimaryMetric
	}
}

func extractThreshold(question string, f *Filters) {
	m := thresholdPattern.FindStringSubmatch(question)
	if m == nil {
		return
	}
	value, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return
	}
	switch m[1] {
	case "at least":
		f.ThresholdOp = ThresholdGTE
	case "less than", "fewer than", "under", "below":
		f.ThresholdOp = ThresholdLT
	default:
		f.ThresholdOp = ThresholdGT
	}
	f.ThresholdValue = value
}
