package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jengzang/carbon-footprint-backend/internal/cache"
	"github.com/jengzang/carbon-footprint-backend/internal/emissions"
	"github.com/jengzang/carbon-footprint-backend/internal/models"
)

// Advisor produces reduction suggestions and cluster explanations.
// It never fails: generator errors are logged and replaced by static text.
type Advisor struct {
	gen   Generator
	cache cache.Store
	ttl   time.Duration
}

// NewAdvisor creates an Advisor. store may be nil to disable caching.
func NewAdvisor(gen Generator, store cache.Store, ttl time.Duration) *Advisor {
	return &Advisor{gen: gen, cache: store, ttl: ttl}
}

// Suggest returns an action plan for the record's dominant category
func (a *Advisor) Suggest(ctx context.Context, rec models.EmissionRecord) string {
	key := suggestionKey(rec)

	if a.cache != nil {
		if cached, ok, err := a.cache.Get(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("suggestion cache read failed")
		} else if ok {
			return string(cached)
		}
	}

	text, err := a.gen.Generate(ctx, buildSuggestionPrompt(rec))
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		log.Warn().Err(err).Str("category", string(rec.Dominant())).Msg("suggestion generation failed, using static tip")
		return emissions.ActionTip(rec.Dominant())
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, key, []byte(text), a.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("suggestion cache write failed")
		}
	}
	return text
}

// ClusterSummary explains the user's cluster and the plot axes
func (a *Advisor) ClusterSummary(ctx context.Context, cluster int, labels models.ClusterLabels, k int, rec models.EmissionRecord) string {
	text, err := a.gen.Generate(ctx, buildClusterSummaryPrompt(cluster, labels, k, rec))
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		log.Warn().Err(err).Int("cluster", cluster).Msg("cluster summary generation failed, using static summary")
		return fallbackClusterSummary(cluster, labels)
	}
	return text
}

func fallbackClusterSummary(cluster int, labels models.ClusterLabels) string {
	return fmt.Sprintf(
		"You belong to cluster %d (%s): households whose emission mix is closest to yours. "+
			"%s and %s are the two directions along which emissions vary most across all users.",
		cluster, labels.Name(cluster), labels.XAxis, labels.YAxis)
}

func suggestionKey(rec models.EmissionRecord) string {
	return fmt.Sprintf("suggestion:%.2f:%.2f:%.2f:%.2f",
		rec.Transport, rec.Electricity, rec.Food, rec.Shopping)
}
