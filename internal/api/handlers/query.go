package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/sports-query-engine/internal/engine"
	"github.com/stitts-dev/sports-query-engine/internal/models"
	"github.com/stitts-dev/sports-query-engine/internal/query"
	"github.com/stitts-dev/sports-query-engine/internal/resolver"
	"github.com/stitts-dev/sports-query-engine/internal/sports"
	"github.com/stitts-dev/sports-query-engine/pkg/utils"
)

// SeasonLister reports which seasons the store holds stats for.
type SeasonLister interface {
	Seasons(ctx context.Context, sport string) ([]string, error)
}

type QueryHandler struct {
	engine   *engine.Engine
	resolver *resolver.Resolver
	registry *sports.Registry
	seasons  SeasonLister
	logger   *logrus.Logger
}

func NewQueryHandler(eng *engine.Engine, res *resolver.Resolver, registry *sports.Registry, seasons SeasonLister, logger *logrus.Logger) *QueryHandler {
	return &QueryHandler{
		engine:   eng,
		resolver: res,
		registry: registry,
		seasons:  seasons,
		logger:   logger,
	}
}

// ExecuteQuery classifies and answers a structured question.
// POST /api/v1/query
func (h *QueryHandler) ExecuteQuery(c *gin.Context) {
	var desc query.QueryDescription
	if err := c.ShouldBindJSON(&desc); err != nil {
		utils.SendValidationError(c, "Invalid query description", err.Error())
		return
	}

	result, err := h.engine.Execute(c.Request.Context(), desc)
	if err != nil {
		sendQueryError(c, err)
		return
	}

	utils.SendSuccessWithMeta(c, result, &utils.Meta{RequestID: result.RequestID})
}

// ClassifyQuery returns the plan without executing it.
// POST /api/v1/classify
func (h *QueryHandler) ClassifyQuery(c *gin.Context) {
	var desc query.QueryDescription
	if err := c.ShouldBindJSON(&desc); err != nil {
		utils.SendValidationError(c, "Invalid query description", err.Error())
		return
	}

	plan, err := h.engine.Classify(desc)
	if err != nil {
		sendQueryError(c, err)
		return
	}
	utils.SendSuccess(c, plan)
}

type resolveResponse struct {
	Name         string                   `json:"name"`
	Kind         string                   `json:"kind"`
	Candidates   []models.EntityCandidate `json:"candidates"`
	Best         *models.EntityCandidate  `json:"best,omitempty"`
	Confidence   float64                  `json:"confidence"`
	Alternatives []models.EntityCandidate `json:"alternatives,omitempty"`
	Ambiguous    bool                     `json:"ambiguous"`
	FollowUp     string                   `json:"follow_up,omitempty"`
}

// ResolveEntity shows how a name resolves without fetching any stats.
// GET /api/v1/resolve?sport=NFL&name=Lamar%20Jackson&metric=sacks&kind=player
func (h *QueryHandler) ResolveEntity(c *gin.Context) {
	sport := c.Query("sport")
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		utils.SendValidationError(c, "Missing name", "name query parameter is required")
		return
	}

	cfg, ok := h.registry.Get(sport)
	if !ok {
		sendQueryError(c, query.ErrUnsupportedSport(sport))
		return
	}

	var metrics []string
	for _, m := range c.QueryArray("metric") {
		if id, ok := cfg.ResolveMetric(m); ok {
			metrics = append(metrics, id)
		}
	}

	ctx := c.Request.Context()
	resp := resolveResponse{Name: name, Kind: string(models.EntityPlayer)}

	var (
		candidates []models.EntityCandidate
		err        error
	)
	if c.DefaultQuery("kind", "player") == string(models.EntityTeam) {
		resp.Kind = string(models.EntityTeam)
		candidates, err = h.resolver.TeamCandidates(ctx, string(cfg.Sport), name)
	} else {
		candidates, err = h.resolver.Candidates(ctx, string(cfg.Sport), name)
	}
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"component": "api",
			"name":      name,
			"error":     err,
		}).Error("Failed to search entities")
		sendQueryError(c, query.ErrDataSourceUnavailable("store", err))
		return
	}
	if len(candidates) == 0 {
		sendQueryError(c, query.ErrEntityNotFound(name))
		return
	}
	resp.Candidates = candidates

	d := h.resolver.Disambiguate(ctx, cfg, candidates, metrics)
	resp.Best = &d.Best
	resp.Confidence = d.Confidence
	resp.Alternatives = d.Alternatives
	if d.Ambiguous(h.resolver.Thresholds()) {
		resp.Ambiguous = true
		resp.FollowUp = query.ErrAmbiguousEntity(name, d.Best, d.Alternatives, d.Confidence).FollowUp
	}

	utils.SendSuccess(c, resp)
}

// GetSports lists the enabled sports, their metrics and the seasons with
// stored data.
// GET /api/v1/sports
func (h *QueryHandler) GetSports(c *gin.Context) {
	type sportInfo struct {
		Sport         sports.Sport `json:"sport"`
		PrimaryMetric string       `json:"primary_metric"`
		Metrics       []string     `json:"metrics"`
		Seasons       []string     `json:"seasons"`
	}

	var out []sportInfo
	for _, s := range h.registry.Supported() {
		cfg, _ := h.registry.Get(string(s))
		info := sportInfo{Sport: s, PrimaryMetric: cfg.PrimaryMetric, Seasons: []string{}}
		for _, stat := range cfg.Stats {
			info.Metrics = append(info.Metrics, stat.Metric)
		}
		seasons, err := h.seasons.Seasons(c.Request.Context(), string(s))
		if err != nil {
			h.logger.WithFields(logrus.Fields{
				"component": "api",
				"sport":     s,
				"error":     err,
			}).Warn("Failed to list stored seasons")
		} else if len(seasons) > 0 {
			info.Seasons = seasons
		}
		out = append(out, info)
	}
	utils.SendSuccess(c, out)
}

// sendQueryError maps a whole-request failure onto the response envelope.
func sendQueryError(c *gin.Context, err error) {
	_ = c.Error(err)

	qe, ok := query.AsQueryError(err)
	if !ok {
		utils.SendInternalError(c, "Failed to execute query")
		return
	}

	status, code := statusFor(qe.Kind)
	utils.SendError(c, status, utils.NewAppError(code, qe.Message, qe.Entity).WithContext(qe))
}

func statusFor(kind query.ErrorKind) (int, string) {
	switch kind {
	case query.KindUnsupportedSport:
		return http.StatusBadRequest, utils.ErrCodeUnsupportedSport
	case query.KindUnsupportedQueryType:
		return http.StatusBadRequest, utils.ErrCodeUnsupportedQueryType
	case query.KindUnsupportedMetric:
		return http.StatusBadRequest, utils.ErrCodeUnsupportedMetric
	case query.KindEntityNotFound:
		return http.StatusNotFound, utils.ErrCodeEntityNotFound
	case query.KindAmbiguousEntity:
		return http.StatusConflict, utils.ErrCodeAmbiguousEntity
	case query.KindNoStatsAvailable:
		return http.StatusNotFound, utils.ErrCodeNoStatsAvailable
	case query.KindDataSourceUnavailable:
		return http.StatusServiceUnavailable, utils.ErrCodeDataSourceUnavailable
	}
	return http.StatusInternalServerError, utils.ErrCodeInternal
}
