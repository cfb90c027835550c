package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jengzang/carbon-footprint-backend/internal/dataset"
	"github.com/jengzang/carbon-footprint-backend/internal/emissions"
	"github.com/jengzang/carbon-footprint-backend/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	labelStyle = lipgloss.NewStyle().Width(14)
	valueStyle = lipgloss.NewStyle().Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	mutedStyle = lipgloss.NewStyle().Faint(true)
)

func newEstimateCmd(rt *runtime) *cobra.Command {
	var (
		sub  models.Submission
		save bool
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate monthly CO₂ emissions for one household",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := emissions.Validate(sub); err != nil {
				return err
			}

			row := emissions.Row(sub)
			renderEstimate(cmd.OutOrStdout(), row.Emissions)

			if save {
				store := dataset.NewStore(rt.cfg.Dataset.Path)
				if err := store.Append(row); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Saved to "+store.Path()))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&sub.DistanceKm, "km", 0, "km travelled by car this month")
	cmd.Flags().Float64Var(&sub.ElectricityKWh, "kwh", 0, "electricity used this month in kWh")
	cmd.Flags().IntVar(&sub.MeatMealsPerWeek, "meat-meals", 0, "meat-based meals per week")
	cmd.Flags().Float64Var(&sub.SpendAmount, "spend", 0, "approximate amount spent on clothes and shopping this month")
	cmd.Flags().BoolVar(&save, "save", false, "append the result to the dataset")
	return cmd
}

func renderEstimate(w io.Writer, rec models.EmissionRecord) {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Your Monthly CO₂ Emissions Breakdown (kg)"))
	b.WriteString("\n")
	for _, c := range models.Categories {
		b.WriteString(labelStyle.Render(string(c)+":") + valueStyle.Render(fmt.Sprintf("%.2f", rec.Value(c))) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Total:") + valueStyle.Render(fmt.Sprintf("%.2f kg CO₂/month", rec.Total())) + "\n\n")

	dominant := rec.Dominant()
	b.WriteString(labelStyle.Render("Highest:") + valueStyle.Render(string(dominant)) + "\n")
	b.WriteString(hintStyle.Render("Suggested action: "+emissions.ActionTip(dominant)) + "\n")

	fmt.Fprint(w, b.String())
}
