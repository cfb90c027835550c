package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/carbon-footprint-backend/internal/models"
)

// scriptedGenerator returns a fixed reply and records prompts
type scriptedGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

func sampleSummaries() []models.ClusterSummary {
	return []models.ClusterSummary{
		{ID: 0, Size: 4, Means: models.EmissionRecord{Transport: 5.25, Electricity: 42.5, Food: 10, Shopping: 3}},
		{ID: 1, Size: 2, Means: models.EmissionRecord{Transport: 60, Electricity: 300, Food: 80, Shopping: 40}},
		{ID: 2, Size: 3, Means: models.EmissionRecord{Transport: 21, Electricity: 170, Food: 50, Shopping: 20}},
	}
}

func TestLabeler_Label(t *testing.T) {
	gen := &scriptedGenerator{reply: "```json\n" + `{
  "cluster_labels": {"0": "Eco Savers", "1": "Heavy Emitters", "2": "Middle Ground"},
  "x_axis": "Overall Footprint",
  "y_axis": "Diet vs Energy"
}` + "\n```"}

	labels, err := NewLabeler(gen).Label(context.Background(), sampleSummaries(), 3)
	require.NoError(t, err)

	assert.Equal(t, "Eco Savers", labels.Name(0))
	assert.Equal(t, "Heavy Emitters", labels.Name(1))
	assert.Equal(t, "Middle Ground", labels.Name(2))
	assert.Equal(t, "Overall Footprint", labels.XAxis)
	assert.Equal(t, "Diet vs Energy", labels.YAxis)
	assert.False(t, labels.Fallback)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "42.50")
	assert.Contains(t, gen.prompts[0], `"2": "label2"`)
}

func TestLabeler_PropagatesGeneratorError(t *testing.T) {
	gen := &scriptedGenerator{err: ErrUpstream}

	_, err := NewLabeler(gen).Label(context.Background(), sampleSummaries(), 3)
	assert.True(t, errors.Is(err, ErrUpstream))
}

func TestParseLabels_Rejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"prose", "Here are some labels: Eco, Mid, High"},
		{"missing id", `{"cluster_labels":{"0":"a","1":"b"},"x_axis":"x","y_axis":"y"}`},
		{"extra id", `{"cluster_labels":{"0":"a","1":"b","2":"c","3":"d"},"x_axis":"x","y_axis":"y"}`},
		{"wrong id", `{"cluster_labels":{"0":"a","1":"b","5":"c"},"x_axis":"x","y_axis":"y"}`},
		{"blank name", `{"cluster_labels":{"0":"a","1":" ","2":"c"},"x_axis":"x","y_axis":"y"}`},
		{"missing axis", `{"cluster_labels":{"0":"a","1":"b","2":"c"},"x_axis":"x"}`},
		{"unknown field", `{"cluster_labels":{"0":"a","1":"b","2":"c"},"x_axis":"x","y_axis":"y","note":"hi"}`},
		{"trailing object", `{"cluster_labels":{"0":"a","1":"b","2":"c"},"x_axis":"x","y_axis":"y"} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLabels(tt.text, 3)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}
