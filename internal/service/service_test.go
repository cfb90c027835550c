package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/carbon-footprint-backend/internal/analysis"
	"github.com/jengzang/carbon-footprint-backend/internal/dataset"
	"github.com/jengzang/carbon-footprint-backend/internal/emissions"
	"github.com/jengzang/carbon-footprint-backend/internal/models"
	"github.com/jengzang/carbon-footprint-backend/internal/repository"
)

var reference = models.Submission{DistanceKm: 100, ElectricityKWh: 200, MeatMealsPerWeek: 5, SpendAmount: 1000}

// fakePipeline assigns every row of the dataset to cluster len(rows)%k
type fakePipeline struct {
	err   error
	calls int
}

func (f *fakePipeline) Recompute(_ context.Context, path string) (*models.AugmentedDataset, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	rows, stats, err := dataset.NewStore(path).Load()
	if err != nil {
		return nil, err
	}
	out := &models.AugmentedDataset{K: 3, Stats: stats, Labels: models.ClusterLabels{
		Clusters: map[int]string{0: "Eco Savers", 1: "Middle Ground", 2: "Heavy Emitters"},
		XAxis:    "Overall Footprint",
		YAxis:    "Diet vs Energy",
	}}
	for i, r := range rows {
		out.Rows = append(out.Rows, models.AugmentedRow{DatasetRow: r, Cluster: (i + 1) % 3})
	}
	return out, nil
}

type fakeAdvisor struct {
	summaryCalls int
}

func (f *fakeAdvisor) Suggest(_ context.Context, rec models.EmissionRecord) string {
	return "advice for " + string(rec.Dominant())
}

func (f *fakeAdvisor) ClusterSummary(_ context.Context, cluster int, labels models.ClusterLabels, k int, rec models.EmissionRecord) string {
	f.summaryCalls++
	return "you are " + labels.Name(cluster)
}

type fakeSubmissions struct {
	records []*models.SubmissionRecord
}

func (f *fakeSubmissions) Create(_ context.Context, rec *models.SubmissionRecord) error {
	f.records = append(f.records, rec)
	return nil
}

func newFootprintService(t *testing.T, p Recomputer) (*FootprintService, *dataset.Store, *fakeAdvisor, *fakeSubmissions) {
	t.Helper()
	store := dataset.NewStore(filepath.Join(t.TempDir(), "user_data.csv"))
	adv := &fakeAdvisor{}
	subs := &fakeSubmissions{}
	return NewFootprintService(store, p, adv, subs), store, adv, subs
}

func TestFootprintService_Submit(t *testing.T) {
	svc, store, _, subs := newFootprintService(t, &fakePipeline{})
	require.NoError(t, store.Append(emissions.Row(models.Submission{DistanceKm: 1})))

	result, err := svc.Submit(context.Background(), reference)
	require.NoError(t, err)

	assert.InDelta(t, 21, result.Emissions.Transport, 1e-9)
	assert.InDelta(t, 170, result.Emissions.Electricity, 1e-9)
	assert.InDelta(t, 50, result.Emissions.Food, 1e-9)
	assert.InDelta(t, 20, result.Emissions.Shopping, 1e-9)
	assert.InDelta(t, 261, result.Emissions.Total, 1e-9)
	assert.Equal(t, models.CategoryElectricity, result.HighestContributor)
	assert.Equal(t, "advice for Electricity", result.SuggestedAction)

	// two rows in the file, the submission is row index 1 → cluster 2
	require.NotNil(t, result.Cluster)
	assert.Equal(t, 2, *result.Cluster)
	assert.Equal(t, "Heavy Emitters", result.ClusterLabel)
	assert.Equal(t, "you are Heavy Emitters", result.ClusterSummary)
	assert.NotEmpty(t, result.SubmissionID)

	rows, _, err := store.Load()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, reference, rows[1].Submission)

	require.Len(t, subs.records, 1)
	assert.Equal(t, result.SubmissionID, subs.records[0].ID)
	assert.Equal(t, 2, *subs.records[0].Cluster)
}

func TestFootprintService_SubmitRejectsInvalidInput(t *testing.T) {
	p := &fakePipeline{}
	svc, store, _, _ := newFootprintService(t, p)

	_, err := svc.Submit(context.Background(), models.Submission{DistanceKm: -1})
	assert.ErrorIs(t, err, emissions.ErrNegativeInput)
	assert.Zero(t, p.calls)

	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr), "nothing persisted")
}

func TestFootprintService_SubmitWithoutClusters(t *testing.T) {
	svc, _, adv, subs := newFootprintService(t, &fakePipeline{err: analysis.ErrNoData})

	result, err := svc.Submit(context.Background(), reference)
	require.NoError(t, err)

	assert.Nil(t, result.Cluster)
	assert.Empty(t, result.ClusterLabel)
	assert.Empty(t, result.ClusterSummary)
	assert.Zero(t, adv.summaryCalls)
	assert.NotEmpty(t, result.SuggestedAction)
	require.Len(t, subs.records, 1)
	assert.Nil(t, subs.records[0].Cluster)
}

func TestFootprintService_SubmitPipelineFailure(t *testing.T) {
	svc, _, _, _ := newFootprintService(t, &fakePipeline{err: errors.New("fewer samples than clusters")})

	_, err := svc.Submit(context.Background(), reference)
	assert.ErrorContains(t, err, "failed to cluster submissions")
}

func TestFootprintService_Estimate(t *testing.T) {
	svc, store, _, _ := newFootprintService(t, &fakePipeline{})

	result, err := svc.Estimate(reference)
	require.NoError(t, err)
	assert.InDelta(t, 261, result.Emissions.Total, 1e-9)
	assert.Equal(t, models.CategoryElectricity, result.HighestContributor)
	assert.Equal(t, emissions.ActionTip(models.CategoryElectricity), result.ActionTip)

	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

type fakeRuns struct {
	runs []*models.ClusterRun
	err  error
}

func (f *fakeRuns) Latest(context.Context) (*models.ClusterRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.runs) == 0 {
		return nil, repository.ErrNotFound
	}
	return f.runs[0], nil
}

func (f *fakeRuns) List(_ context.Context, limit int) ([]*models.ClusterRun, error) {
	if limit < len(f.runs) {
		return f.runs[:limit], f.err
	}
	return f.runs, f.err
}

func TestClusterService_PlotPath(t *testing.T) {
	plot := filepath.Join(t.TempDir(), "cluster_plot.png")
	svc := NewClusterService(&fakePipeline{}, &fakeRuns{}, "", plot)

	_, err := svc.PlotPath()
	assert.ErrorIs(t, err, ErrPlotNotFound)

	require.NoError(t, os.WriteFile(plot, []byte("png"), 0o644))
	got, err := svc.PlotPath()
	require.NoError(t, err)
	assert.Equal(t, plot, got)
}

func TestClusterService_Runs(t *testing.T) {
	ctx := context.Background()

	empty := NewClusterService(&fakePipeline{}, &fakeRuns{}, "", "")
	_, err := empty.Latest(ctx)
	assert.ErrorIs(t, err, ErrNoRuns)

	runs := &fakeRuns{runs: []*models.ClusterRun{{ID: "b"}, {ID: "a"}}}
	svc := NewClusterService(&fakePipeline{}, runs, "", "")

	latest, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", latest.ID)

	list, err := svc.Runs(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = svc.Runs(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestClusterService_Recompute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.csv")
	store := dataset.NewStore(path)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Append(emissions.Row(reference)))
	}
	p := &fakePipeline{}

	result, err := NewClusterService(p, &fakeRuns{}, path, "").Recompute(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Rows, 3)
	assert.Equal(t, 1, p.calls)
}

type fakeCounts struct {
	byCategory map[models.Category]int
	runs       int
	err        error
}

func (f *fakeCounts) CountByCategory(context.Context) (map[models.Category]int, error) {
	return f.byCategory, f.err
}

func (f *fakeCounts) Count(context.Context) (int, error) {
	return f.runs, nil
}

func TestStatsService_GetSubmissionStatistics(t *testing.T) {
	counts := &fakeCounts{
		byCategory: map[models.Category]int{models.CategoryElectricity: 3, models.CategoryTransport: 1},
		runs:       4,
	}

	stats, err := NewStatsService(counts, counts).GetSubmissionStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Submissions)
	assert.Equal(t, 4, stats.ClusterRuns)
	assert.Len(t, stats.ByCategory, len(models.Categories))
	assert.Equal(t, 0, stats.ByCategory[models.CategoryFood])
	assert.NotEmpty(t, stats.GeneratedAt)

	counts.err = errors.New("db closed")
	_, err = NewStatsService(counts, counts).GetSubmissionStatistics(context.Background())
	assert.ErrorContains(t, err, "db closed")
}
