package llm

import (
	"fmt"
	"strings"

	"github.com/jengzang/carbon-footprint-backend/internal/models"
)

const labelPromptHeader = `You are an AI helping label carbon footprint clusters based on average monthly emissions.
Here is the average emissions data for each cluster:

`

const labelPromptFooter = `
- Label each cluster with a short but meaningful name (max 3 words).
- Also suggest labels for the 2 PCA axes (representing the most variation in emissions).
- Return only a JSON object in this format:
{
  "cluster_labels": {%s},
  "x_axis": "X Axis Label",
  "y_axis": "Y Axis Label"
}
`

func buildLabelPrompt(summaries []models.ClusterSummary, k int) string {
	var b strings.Builder
	b.WriteString(labelPromptHeader)
	b.WriteString(meansTable(summaries))

	keys := make([]string, 0, k)
	for i := 0; i < k; i++ {
		keys = append(keys, fmt.Sprintf("%q: \"label%d\"", fmt.Sprint(i), i))
	}
	fmt.Fprintf(&b, labelPromptFooter, strings.Join(keys, ", "))
	return b.String()
}

// meansTable renders per-cluster means as an aligned text table
func meansTable(summaries []models.ClusterSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %10s %12s %10s %10s\n", "Cluster", "Transport", "Electricity", "Food", "Shopping")
	for _, s := range summaries {
		fmt.Fprintf(&b, "%-8d %10.2f %12.2f %10.2f %10.2f\n",
			s.ID, s.Means.Transport, s.Means.Electricity, s.Means.Food, s.Means.Shopping)
	}
	return b.String()
}

func buildSuggestionPrompt(rec models.EmissionRecord) string {
	return fmt.Sprintf(`You are an environmental expert. A user has the following monthly carbon emissions:
%s
Their highest emission contributor is %s.
Give detailed, actionable and comprehensive suggestions in 3 - 5 bullet points to help them reduce emissions in this area.
Use clear formatting with each point on a new line starting with • (bullet point).
Avoid repeating the category name.
Keep it practical and actionable.
`, emissionLines(rec), rec.Dominant())
}

func buildClusterSummaryPrompt(cluster int, labels models.ClusterLabels, k int, rec models.EmissionRecord) string {
	var groups strings.Builder
	for i := 0; i < k; i++ {
		fmt.Fprintf(&groups, "Cluster %d: %s\n", i, labels.Name(i))
	}

	return fmt.Sprintf(`A user belongs to cluster %d based on the following emission data:
%s
There are %d clusters:
%s
Explain what this user's cluster means.
Also explain what %q and %q on the axes represent in the cluster plot.
Keep it between concise and slightly detailed, beginner-friendly, and human-readable.
`, cluster, emissionLines(rec), k, groups.String(), labels.XAxis, labels.YAxis)
}

func emissionLines(rec models.EmissionRecord) string {
	var b strings.Builder
	for _, c := range models.Categories {
		fmt.Fprintf(&b, "- %s: %g kg CO₂\n", c, rec.Value(c))
	}
	return b.String()
}
