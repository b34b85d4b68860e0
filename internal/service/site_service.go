package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/classroom-backend/internal/adminsite"
	"github.com/stemsi/classroom-backend/internal/config"
	"github.com/stemsi/classroom-backend/internal/model"
)

// Counter reports the number of records of one model.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// ModelSummary is one row of the admin index.
type ModelSummary struct {
	Name              string `json:"name"`
	VerboseName       string `json:"verbose_name"`
	VerboseNamePlural string `json:"verbose_name_plural"`
	Count             int    `json:"count"`
}

// SiteIndex is the admin landing page payload.
type SiteIndex struct {
	Models        []ModelSummary         `json:"models"`
	RecentActions []model.ActionLogEntry `json:"recent_actions"`
}

// SiteService assembles the admin index.
type SiteService struct {
	cfg        *config.Config
	rdb        *redis.Client
	site       *adminsite.Site
	counters   map[string]Counter
	actionLogs *ActionLogService
	log        zerolog.Logger
}

// NewSiteService creates a new SiteService. counters is keyed by the
// registered model name.
func NewSiteService(
	cfg *config.Config,
	rdb *redis.Client,
	site *adminsite.Site,
	counters map[string]Counter,
	actionLogs *ActionLogService,
	log zerolog.Logger,
) *SiteService {
	return &SiteService{
		cfg:        cfg,
		rdb:        rdb,
		site:       site,
		counters:   counters,
		actionLogs: actionLogs,
		log:        log.With().Str("component", "site_service").Logger(),
	}
}

// Index lists every registered model with its record count and the
// caller's most recent actions.
func (s *SiteService) Index(ctx context.Context, userID int) (*SiteIndex, error) {
	models := s.site.Models()
	idx := &SiteIndex{Models: make([]ModelSummary, 0, len(models))}

	for _, ma := range models {
		n, err := s.count(ctx, ma.Name)
		if err != nil {
			return nil, err
		}
		idx.Models = append(idx.Models, ModelSummary{
			Name:              ma.Name,
			VerboseName:       ma.VerboseName,
			VerboseNamePlural: ma.VerboseNamePlural,
			Count:             n,
		})
	}

	recent, err := s.actionLogs.Recent(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx.RecentActions = recent
	return idx, nil
}

// Model returns the registration for a model name.
func (s *SiteService) Model(name string) (*adminsite.ModelAdmin, error) {
	return s.site.Get(name)
}

// count reads through the Redis cache. Cache errors are logged and the
// database is used instead.
func (s *SiteService) count(ctx context.Context, name string) (int, error) {
	key := config.CacheKey.ModelCountKey(name)

	cached, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		if n, convErr := strconv.Atoi(cached); convErr == nil {
			return n, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Str("model", name).Msg("count cache read failed")
	}

	counter, ok := s.counters[name]
	if !ok {
		return 0, nil
	}
	n, err := counter.Count(ctx)
	if err != nil {
		return 0, err
	}

	if err := s.rdb.Set(ctx, key, n, s.cfg.IndexCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("model", name).Msg("count cache write failed")
	}
	return n, nil
}

// InvalidateCounts drops cached counts after a write. With no names every
// registered model is dropped, which cascading deletes need.
func (s *SiteService) InvalidateCounts(ctx context.Context, names ...string) {
	if len(names) == 0 {
		for _, ma := range s.site.Models() {
			names = append(names, ma.Name)
		}
	}
	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = config.CacheKey.ModelCountKey(name)
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn().Err(err).Strs("models", names).Msg("count cache invalidation failed")
	}
}
