package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm/clause"

	"github.com/stitts-dev/sports-query-engine/internal/models"
	"github.com/stitts-dev/sports-query-engine/internal/sports"
	"github.com/stitts-dev/sports-query-engine/pkg/database"
)

const searchLimit = 50

// ErrUnavailable wraps lookups that failed because the database could not
// be reached. Other failed lookups are reported as misses.
var ErrUnavailable = errors.New("store unavailable")

// Repository is the persistent store. It owns every row; callers only get
// transient Entity and StatsRecord values back.
type Repository struct {
	db       *database.DB
	registry *sports.Registry
	logger   *logrus.Logger
}

func NewRepository(db *database.DB, registry *sports.Registry, logger *logrus.Logger) *Repository {
	return &Repository{
		db:       db,
		registry: registry,
		logger:   logger,
	}
}

// lookupFailed classifies a failed read. A connection failure comes back
// wrapped in ErrUnavailable; anything else is logged and becomes a miss.
func (r *Repository) lookupFailed(err error, what string, entity models.Entity) error {
	if database.IsConnectionError(err) {
		return fmt.Errorf("%w: failed to load %s for player %d: %w", ErrUnavailable, what, entity.ID, err)
	}
	r.logger.WithFields(logrus.Fields{
		"component": "store",
		"lookup":    what,
		"player_id": entity.ID,
		"error":     err,
	}).Warn("Store lookup failed, treating as a miss")
	return nil
}

func (r *Repository) config(sport string) (*sports.Config, error) {
	cfg, ok := r.registry.Get(sport)
	if !ok {
		return nil, fmt.Errorf("sport %s is not enabled", sport)
	}
	return cfg, nil
}

// SearchPlayers returns players whose lowercase name contains any term.
func (r *Repository) SearchPlayers(ctx context.Context, sport string, terms []string) ([]models.Entity, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	var conds []string
	var args []interface{}
	for _, t := range terms {
		conds = append(conds, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(t)+"%")
	}

	var players []models.Player
	err := r.db.WithContext(ctx).
		Where("sport = ?", strings.ToUpper(sport)).
		Where(strings.Join(conds, " OR "), args...).
		Order("id").
		Limit(searchLimit).
		Find(&players).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}

	teams, err := r.teamNames(ctx, players)
	if err != nil {
		return nil, err
	}

	out := make([]models.Entity, 0, len(players))
	for _, p := range players {
		name := ""
		if p.CurrentTeamID != nil {
			name = teams[*p.CurrentTeamID]
		}
		out = append(out, p.AsEntity(name))
	}
	return out, nil
}

func (r *Repository) teamNames(ctx context.Context, players []models.Player) (map[uint]string, error) {
	var ids []uint
	for _, p := range players {
		if p.CurrentTeamID != nil {
			ids = append(ids, *p.CurrentTeamID)
		}
	}
	out := make(map[uint]string)
	if len(ids) == 0 {
		return out, nil
	}

	var teams []models.Team
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	for _, t := range teams {
		out[t.ID] = t.AsEntity().Name
	}
	return out, nil
}

// SearchTeams matches terms against name, display name and abbreviation.
func (r *Repository) SearchTeams(ctx context.Context, sport string, terms []string) ([]models.Entity, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	var conds []string
	var args []interface{}
	for _, t := range terms {
		like := "%" + strings.ToLower(t) + "%"
		conds = append(conds, "LOWER(name) LIKE ? OR LOWER(display_name) LIKE ? OR LOWER(abbreviation) = ?")
		args = append(args, like, like, strings.ToLower(t))
	}

	var teams []models.Team
	err := r.db.WithContext(ctx).
		Where("sport = ?", strings.ToUpper(sport)).
		Where(strings.Join(conds, " OR "), args...).
		Order("id").
		Limit(searchLimit).
		Find(&teams).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search teams: %w", err)
	}

	out := make([]models.Entity, 0, len(teams))
	for _, t := range teams {
		out = append(out, t.AsEntity())
	}
	return out, nil
}

// LatestSeasonStats returns the most recent season row for a player, or nil.
func (r *Repository) LatestSeasonStats(ctx context.Context, entity models.Entity) (*models.StatsRecord, error) {
	cfg, err := r.config(entity.Sport)
	if err != nil {
		return nil, err
	}

	var row models.PlayerSeasonStats
	err = r.db.WithContext(ctx).
		Where("player_id = ?", entity.ID).
		Order("season DESC").
		First(&row).Error
	if database.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, r.lookupFailed(err, "latest season", entity)
	}
	return seasonRecord(cfg, entity, row), nil
}

// SeasonStats returns the row for (entity, season), or nil when none exists.
func (r *Repository) SeasonStats(ctx context.Context, cfg *sports.Config, entity models.Entity, season string) (*models.StatsRecord, error) {
	var row models.PlayerSeasonStats
	err := r.db.WithContext(ctx).
		Where("player_id = ? AND season = ?", entity.ID, season).
		First(&row).Error
	if database.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, r.lookupFailed(err, season+" stats", entity)
	}
	return seasonRecord(cfg, entity, row), nil
}

func seasonRecord(cfg *sports.Config, entity models.Entity, row models.PlayerSeasonStats) *models.StatsRecord {
	return &models.StatsRecord{
		EntityID:    row.PlayerID,
		EntityName:  entity.Name,
		Season:      row.Season,
		GamesPlayed: row.GamesPlayed,
		Values:      valuesFromLine(cfg, row.StatLine),
		Source:      "store",
	}
}

// CareerStats returns the season-summed row, or nil.
func (r *Repository) CareerStats(ctx context.Context, cfg *sports.Config, entity models.Entity) (*models.StatsRecord, error) {
	var row models.CareerStats
	err := r.db.WithContext(ctx).Where("player_id = ?", entity.ID).First(&row).Error
	if database.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, r.lookupFailed(err, "career stats", entity)
	}
	return &models.StatsRecord{
		EntityID:    entity.ID,
		EntityName:  entity.Name,
		Season:      sports.CareerSeason,
		GamesPlayed: row.TotalGames,
		Values:      valuesFromLine(cfg, row.StatLine),
		Source:      "store",
		Note:        fmt.Sprintf("Career totals across %d seasons", row.SeasonsPlayed),
	}, nil
}

// SaveSeasonStats upserts a fetched record on (player_id, season). Only the
// columns present in rec are overwritten.
func (r *Repository) SaveSeasonStats(ctx context.Context, cfg *sports.Config, entity models.Entity, rec *models.StatsRecord) error {
	if rec.Empty() || rec.Season == sports.CareerSeason {
		return nil
	}

	row := models.PlayerSeasonStats{
		PlayerID:    entity.ID,
		Season:      rec.Season,
		TeamID:      entity.TeamID,
		GamesPlayed: rec.GamesPlayed,
		StatLine:    lineFromValues(cfg, rec.Values),
		Source:      rec.Source,
	}

	update := []string{"updated_at", "source"}
	if rec.GamesPlayed > 0 {
		update = append(update, "games_played")
	}
	for col := range row.StatLine.Values() {
		update = append(update, col)
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}, {Name: "season"}},
		DoUpdates: clause.AssignmentColumns(update),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save %s stats for player %d: %w", rec.Season, entity.ID, err)
	}

	r.logger.WithFields(logrus.Fields{
		"component": "store",
		"player_id": entity.ID,
		"season":    rec.Season,
		"columns":   len(rec.Values),
	}).Debug("Season stats written back")
	return nil
}

// GameLog returns a player's games for a season in date order.
func (r *Repository) GameLog(ctx context.Context, entity models.Entity, season string) ([]models.GameRecord, error) {
	var rows []models.GameLog
	err := r.db.WithContext(ctx).
		Where("player_id = ? AND season = ?", entity.ID, season).
		Order("game_date").
		Find(&rows).Error
	if err != nil {
		return nil, r.lookupFailed(err, season+" game log", entity)
	}

	out := make([]models.GameRecord, 0, len(rows))
	for _, g := range rows {
		out = append(out, g.Record())
	}
	return out, nil
}

// TagOpponents marks each game as a division or conference game by
// comparing the player's team with the opponent's team row. Games against
// opponents the store does not know are left untagged.
func (r *Repository) TagOpponents(ctx context.Context, entity models.Entity, games []models.GameRecord) ([]models.GameRecord, error) {
	if entity.TeamID == nil || len(games) == 0 {
		return games, nil
	}

	var own models.Team
	err := r.db.WithContext(ctx).First(&own, *entity.TeamID).Error
	if database.IsNotFound(err) {
		return games, nil
	}
	if err != nil {
		return games, fmt.Errorf("failed to load team %d: %w", *entity.TeamID, err)
	}
	if own.Division == "" && own.Conference == "" {
		return games, nil
	}

	abbrs := make([]string, 0, len(games))
	for _, g := range games {
		if g.OpponentAbbr != "" {
			abbrs = append(abbrs, strings.ToUpper(g.OpponentAbbr))
		}
	}
	var opponents []models.Team
	err = r.db.WithContext(ctx).
		Where("sport = ? AND UPPER(abbreviation) IN ?", own.Sport, abbrs).
		Find(&opponents).Error
	if err != nil {
		return games, fmt.Errorf("failed to load opponents: %w", err)
	}
	byAbbr := make(map[string]models.Team, len(opponents))
	for _, t := range opponents {
		byAbbr[strings.ToUpper(t.Abbreviation)] = t
	}

	out := make([]models.GameRecord, len(games))
	for i, g := range games {
		out[i] = g
		opp, ok := byAbbr[strings.ToUpper(g.OpponentAbbr)]
		if !ok {
			continue
		}
		out[i].IsConference = own.Conference != "" && opp.Conference == own.Conference
		out[i].IsDivision = own.Division != "" && opp.Division == own.Division && opp.Conference == own.Conference
	}
	return out, nil
}

// SaveGameLog upserts games on (player_id, game_date).
func (r *Repository) SaveGameLog(ctx context.Context, entity models.Entity, season string, games []models.GameRecord) error {
	if len(games) == 0 {
		return nil
	}
	rows := make([]models.GameLog, 0, len(games))
	for _, g := range games {
		rows = append(rows, models.GameLogFromRecord(entity.ID, season, g))
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}, {Name: "game_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"week", "opponent", "opponent_abbr", "is_home", "is_division", "is_conference", "result", "stats"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to save game log for player %d: %w", entity.ID, err)
	}
	return nil
}

// TeamSeasonStats returns one record per player who played for the team in
// the season. Rows without a team fall back to the player's current team.
func (r *Repository) TeamSeasonStats(ctx context.Context, cfg *sports.Config, team models.Entity, season string) ([]models.StatsRecord, error) {
	roster := r.db.Model(&models.Player{}).Select("id").Where("current_team_id = ?", team.ID)

	var rows []models.PlayerSeasonStats
	err := r.db.WithContext(ctx).
		Where("season = ?", season).
		Where("team_id = ? OR (team_id IS NULL AND player_id IN (?))", team.ID, roster).
		Order("player_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load %s stats for team %d: %w", season, team.ID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.PlayerID)
	}
	var players []models.Player
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&players).Error; err != nil {
		return nil, fmt.Errorf("failed to load roster for team %d: %w", team.ID, err)
	}
	names := make(map[uint]models.Entity, len(players))
	for _, p := range players {
		names[p.ID] = p.AsEntity(team.Name)
	}

	out := make([]models.StatsRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, *seasonRecord(cfg, names[row.PlayerID], row))
	}
	return out, nil
}

// Seasons lists the seasons with any stats for the sport, newest first.
func (r *Repository) Seasons(ctx context.Context, sport string) ([]string, error) {
	var seasons []string
	err := r.db.WithContext(ctx).
		Model(&models.PlayerSeasonStats{}).
		Distinct().
		Where("player_id IN (?)", r.db.Model(&models.Player{}).Select("id").Where("sport = ?", strings.ToUpper(sport))).
		Order("season DESC").
		Pluck("season", &seasons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	return seasons, nil
}

// UpsertTeam inserts the team or updates the row with the same external id.
func (r *Repository) UpsertTeam(ctx context.Context, team *models.Team) error {
	var existing models.Team
	err := r.db.WithContext(ctx).
		Where("sport = ? AND external_id = ?", team.Sport, team.ExternalID).
		Take(&existing).Error
	switch {
	case database.IsNotFound(err):
		return r.db.WithContext(ctx).Create(team).Error
	case err != nil:
		return fmt.Errorf("failed to look up team %s: %w", team.ExternalID, err)
	}
	team.ID = existing.ID
	team.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(team).Error
}

// UpsertPlayer inserts the player or updates the row with the same external id.
func (r *Repository) UpsertPlayer(ctx context.Context, player *models.Player) error {
	var existing models.Player
	err := r.db.WithContext(ctx).
		Where("sport = ? AND external_id = ?", player.Sport, player.ExternalID).
		Take(&existing).Error
	switch {
	case database.IsNotFound(err):
		return r.db.WithContext(ctx).Create(player).Error
	case err != nil:
		return fmt.Errorf("failed to look up player %s: %w", player.ExternalID, err)
	}
	player.ID = existing.ID
	player.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(player).Error
}
