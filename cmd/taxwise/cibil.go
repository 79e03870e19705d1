package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taxwise-in/taxwise/internal/cibil"
	"github.com/taxwise-in/taxwise/internal/cli"
)

func cibilCmd() *cobra.Command {
	var simulate bool

	cmd := &cobra.Command{
		Use:   "cibil <report.txt>",
		Short: "Analyze a CIBIL credit report",
		Long: `Analyze the text of a CIBIL credit report: rate each scoring
factor, and suggest the highest-impact improvements. OCR the report to
plain text first; this command reads text only.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read report: %w", err)
			}

			report, err := cibil.ParseReport(string(data))
			if err != nil {
				return err
			}

			analysis := cibil.Analyze(report)

			cmd.Println(cli.TitleStyle.Render("Credit Health"))
			cmd.Println(analysis.Summary)

			if len(analysis.Factors) > 0 {
				cmd.Println(cli.BoldStyle.Render("\nFactors:"))
				for _, factor := range analysis.Factors {
					line := fmt.Sprintf("  %-20s %-10s (%d%% weight)  %s",
						factor.Name, factor.Band, factor.Weight, factor.Comment)
					switch factor.Band {
					case cibil.BandPoor, cibil.BandBad:
						cmd.Println(cli.WarningStyle.Render(line))
					default:
						cmd.Println(line)
					}
				}
			}

			if len(analysis.Recommendations) > 0 {
				cmd.Println(cli.BoldStyle.Render("\nRecommendations:"))
				for _, recommendation := range analysis.Recommendations {
					cmd.Printf("  • %s\n", recommendation)
				}
			}

			if simulate {
				projected, steps := cibil.SimulateImprovement(report)
				if len(steps) > 0 {
					cmd.Println(cli.BoldStyle.Render("\nProjection:"))
					cmd.Printf("  Score could reach %s with:\n", cli.SuccessStyle.Render(fmt.Sprintf("%d", projected)))
					for _, step := range steps {
						cmd.Printf("    - %s\n", step)
					}
				} else {
					cmd.Println(cli.SubtleStyle.Render("\nNo obvious quick wins; your report is already in good shape."))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&simulate, "simulate", false, "project the score after fixing the weakest factors")
	return cmd
}
