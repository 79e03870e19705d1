package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taxwise-in/taxwise/internal/advisor"
	"github.com/taxwise-in/taxwise/internal/cibil"
	"github.com/taxwise-in/taxwise/internal/classify"
	"github.com/taxwise-in/taxwise/internal/cli"
	"github.com/taxwise-in/taxwise/internal/model"
)

func insightsCmd() *cobra.Command {
	var cibilFile string

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Personalized findings from saved tax results, spending and credit data",
		Long: `Combine the latest saved tax computation, categorized spending and an
optional CIBIL report into one prioritized list of findings.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := openStorage(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx := cmd.Context()
			user := currentUser()

			taxResult, err := store.LatestTaxResult(ctx, user)
			if err != nil {
				return err
			}

			transactions, err := store.GetTransactions(ctx, user)
			if err != nil {
				return err
			}
			spending := classify.SpendingInsights(transactions)

			var creditReport *model.CreditReport
			if cibilFile != "" {
				data, err := os.ReadFile(cibilFile)
				if err != nil {
					return fmt.Errorf("failed to read report: %w", err)
				}
				report, err := cibil.ParseReport(string(data))
				if err != nil {
					return err
				}
				creditReport = &report
			}

			insights := advisor.PersonalizedInsights(taxResult, spending, creditReport)
			if len(insights) == 0 {
				cmd.Println(cli.SubtleStyle.Render("No data yet. Import transactions and run 'taxwise tax' first."))
				return nil
			}

			var body strings.Builder
			body.WriteString(cli.TitleStyle.Render("Your Financial Insights"))
			for _, insight := range insights {
				body.WriteString("\n• " + insight)
			}
			cmd.Println(cli.BoxStyle.Render(body.String()))

			if recurring := classify.RecurringTotals(transactions); len(recurring) > 0 {
				cmd.Println(cli.BoldStyle.Render("Recurring monthly commitments:"))
				for _, category := range model.Categories() {
					if total, ok := recurring[category]; ok {
						cmd.Printf("  %-12s %s\n", category, cli.AmountStyle.Render("₹"+total.Round(0).String()))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cibilFile, "cibil", "", "CIBIL report text file to fold into the insights")
	return cmd
}
