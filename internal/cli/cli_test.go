package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/carbon-footprint-backend/internal/dataset"
	"github.com/jengzang/carbon-footprint-backend/internal/emissions"
	"github.com/jengzang/carbon-footprint-backend/internal/models"
)

// isolate points every path at a temp dir and clears credentials
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATASET_PATH", filepath.Join(dir, "data", "user_data.csv"))
	t.Setenv("PLOT_PATH", filepath.Join(dir, "static", "cluster_plot.png"))
	t.Setenv("DB_PATH", filepath.Join(dir, "carbon.db"))
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := cmd.Execute()
	return out.String(), err
}

func TestEstimateCmd(t *testing.T) {
	isolate(t)

	out, err := execute(t, "estimate", "--km", "100", "--kwh", "200", "--meat-meals", "5", "--spend", "1000")
	require.NoError(t, err)

	assert.Contains(t, out, "21.00")
	assert.Contains(t, out, "170.00")
	assert.Contains(t, out, "50.00")
	assert.Contains(t, out, "20.00")
	assert.Contains(t, out, "261.00 kg CO₂/month")
	assert.Contains(t, out, "Electricity")
	assert.Contains(t, out, emissions.ActionTip(models.CategoryElectricity))
	assert.NotContains(t, out, "Saved to")
}

func TestEstimateCmd_Save(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, "estimate", "--km", "10", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved to")

	rows, _, err := dataset.NewStore(filepath.Join(dir, "data", "user_data.csv")).Load()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 10.0, rows[0].DistanceKm)
}

func TestEstimateCmd_RejectsNegative(t *testing.T) {
	isolate(t)

	_, err := execute(t, "estimate", "--kwh", "-5")
	assert.ErrorIs(t, err, emissions.ErrNegativeInput)
}

func TestMigrateCmd(t *testing.T) {
	isolate(t)

	out, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 2 migration(s)")

	out, err = execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 0 migration(s)")
}

func TestRecomputeCmd(t *testing.T) {
	dir := isolate(t)
	store := dataset.NewStore(filepath.Join(dir, "data", "user_data.csv"))
	for _, km := range []float64{1, 2, 150, 160, 900, 950} {
		require.NoError(t, store.Append(emissions.Row(models.Submission{DistanceKm: km, ElectricityKWh: km, MeatMealsPerWeek: 2, SpendAmount: km})))
	}

	out, err := execute(t, "recompute")
	require.NoError(t, err)

	assert.Contains(t, out, "Cluster Averages")
	assert.Contains(t, out, "Cluster 0")
	assert.Contains(t, out, "6 retained")
	assert.Contains(t, out, "PCA 1 / PCA 2")
	assert.FileExists(t, filepath.Join(dir, "static", "cluster_plot.png"))
}

func TestRecomputeCmd_NoData(t *testing.T) {
	isolate(t)

	_, err := execute(t, "recompute")
	assert.ErrorContains(t, err, "no data found")
}

func TestConfigFlag_Invalid(t *testing.T) {
	isolate(t)

	_, err := execute(t, "estimate", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
