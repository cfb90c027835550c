package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/carbon-footprint-backend/internal/cache"
	"github.com/jengzang/carbon-footprint-backend/internal/emissions"
	"github.com/jengzang/carbon-footprint-backend/internal/models"
)

var reference = models.EmissionRecord{Transport: 21, Electricity: 170, Food: 50, Shopping: 20}

func TestAdvisor_SuggestCaches(t *testing.T) {
	ctx := context.Background()
	gen := &scriptedGenerator{reply: "  • Switch to LED lighting\n"}
	store := cache.NewMemoryStore()
	a := NewAdvisor(gen, store, time.Hour)

	first := a.Suggest(ctx, reference)
	second := a.Suggest(ctx, reference)

	assert.Equal(t, "• Switch to LED lighting", first)
	assert.Equal(t, first, second)
	assert.Len(t, gen.prompts, 1, "second call is served from cache")
	assert.Contains(t, gen.prompts[0], "Their highest emission contributor is Electricity.")
}

func TestAdvisor_SuggestFallback(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	a := NewAdvisor(&scriptedGenerator{err: ErrUpstream}, store, time.Hour)

	got := a.Suggest(ctx, reference)

	assert.Equal(t, emissions.ActionTip(models.CategoryElectricity), got)
	assert.Zero(t, store.Len(), "fallback text is not cached")
}

func TestAdvisor_SuggestWithoutCache(t *testing.T) {
	gen := &scriptedGenerator{reply: "tip"}
	a := NewAdvisor(gen, nil, 0)

	assert.Equal(t, "tip", a.Suggest(context.Background(), reference))
	assert.Equal(t, "tip", a.Suggest(context.Background(), reference))
	assert.Len(t, gen.prompts, 2)
}

func TestAdvisor_ClusterSummary(t *testing.T) {
	labels := models.ClusterLabels{
		Clusters: map[int]string{0: "Eco Savers", 1: "Heavy Emitters", 2: "Middle Ground"},
		XAxis:    "Overall Footprint",
		YAxis:    "Diet vs Energy",
	}

	gen := &scriptedGenerator{reply: "You are in the middle."}
	got := NewAdvisor(gen, nil, 0).ClusterSummary(context.Background(), 2, labels, 3, reference)
	assert.Equal(t, "You are in the middle.", got)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Cluster 1: Heavy Emitters")
	assert.Contains(t, gen.prompts[0], `"Overall Footprint"`)

	fallback := NewAdvisor(&scriptedGenerator{err: ErrNotConfigured}, nil, 0).
		ClusterSummary(context.Background(), 2, labels, 3, reference)
	assert.Contains(t, fallback, "cluster 2 (Middle Ground)")
	assert.Contains(t, fallback, "Overall Footprint")
}
