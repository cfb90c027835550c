package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jengzang/carbon-footprint-backend/internal/app"
	"github.com/jengzang/carbon-footprint-backend/internal/models"
)

func newRecomputeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute",
		Short: "Recluster the dataset, redraw the plot and print cluster averages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(cmd.Context(), rt.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.Clusters.Recompute(cmd.Context())
			if err != nil {
				return err
			}

			renderClusters(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func renderClusters(w io.Writer, result *models.AugmentedDataset) {
	fmt.Fprintln(w, titleStyle.Render("Cluster Averages"))
	fmt.Fprintf(w, "%-24s %6s %10s %12s %10s %10s\n", "Cluster", "Rows", "Transport", "Electricity", "Food", "Shopping")
	for _, s := range result.Summaries {
		fmt.Fprintf(w, "%-24s %6d %10.2f %12.2f %10.2f %10.2f\n",
			fmt.Sprintf("%d %s", s.ID, s.Label), s.Size,
			s.Means.Transport, s.Means.Electricity, s.Means.Food, s.Means.Shopping)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf(
		"rows: %d retained, %d skipped, %d dropped; axes: %s / %s",
		result.Stats.Retained, result.Stats.Skipped, result.Stats.Dropped,
		result.Labels.XAxis, result.Labels.YAxis)))
	if result.PlotPath != "" {
		fmt.Fprintln(w, mutedStyle.Render("Plot written to "+result.PlotPath))
	}
}
