package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/taxwise-in/taxwise/internal/cli"
	"github.com/taxwise-in/taxwise/internal/model"
	"github.com/taxwise-in/taxwise/internal/tax"
)

func taxCmd() *cobra.Command {
	var incomeFlag string
	var projectFlag string
	var save bool

	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Compute tax under both regimes from categorized transactions",
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
			transactions, err := store.GetTransactions(ctx, currentUser())
			if err != nil {
				return err
			}

			engine, err := tax.NewEngine(tax.DefaultRates(), slog.Default())
			if err != nil {
				return err
			}

			var result *model.TaxResult
			if incomeFlag != "" {
				income, err := decimal.NewFromString(incomeFlag)
				if err != nil {
					return fmt.Errorf("bad --income value %q: %w", incomeFlag, err)
				}
				result, err = engine.Recommend(income, transactions)
				if err != nil {
					return err
				}
			} else {
				result, err = engine.Compute(transactions)
				if err != nil {
					return err
				}
			}

			renderTaxResult(cmd, result)

			if projectFlag != "" {
				additional, err := parseSectionAmounts(projectFlag)
				if err != nil {
					return err
				}
				projection, err := engine.Projections(result.TotalIncome, additional)
				if err != nil {
					return err
				}
				renderProjection(cmd, projection)
			}

			if save {
				if err := store.SaveTaxResult(ctx, currentUser(), *result); err != nil {
					return err
				}
				cmd.Println(cli.SubtleStyle.Render("Result saved."))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&incomeFlag, "income", "", "override total annual income instead of deriving it from transactions")
	cmd.Flags().StringVar(&projectFlag, "project", "", "project tax after extra investments, e.g. 80C=50000,80D=25000")
	cmd.Flags().BoolVar(&save, "save", true, "persist the result for later reference")
	return cmd
}

// parseSectionAmounts reads a --project value of the form
// "80C=50000,80D=25000" into per-section amounts.
func parseSectionAmounts(raw string) (map[model.Section]decimal.Decimal, error) {
	amounts := make(map[model.Section]decimal.Decimal)

	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("bad --project entry %q, want section=amount", pair)
		}

		section, ok := sectionByName(strings.TrimSpace(parts[0]))
		if !ok {
			return nil, fmt.Errorf("unknown section %q in --project", parts[0])
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("bad amount in --project entry %q: %w", pair, err)
		}
		if amount.Sign() <= 0 {
			return nil, fmt.Errorf("amount must be positive in --project entry %q", pair)
		}

		amounts[section] = amounts[section].Add(amount)
	}

	return amounts, nil
}

func sectionByName(name string) (model.Section, bool) {
	for _, section := range model.Sections() {
		if strings.EqualFold(name, string(section)) {
			return section, true
		}
	}
	return "", false
}

func renderProjection(cmd *cobra.Command, projection *tax.Projection) {
	cmd.Println(cli.BoldStyle.Render("\nProjection with additional investments:"))
	cmd.Printf("%-28s ₹%s\n", "Total investment:", projection.TotalInvestment.Round(0).String())
	cmd.Printf("%-28s ₹%s now, ₹%s after\n", "Old regime tax:",
		projection.CurrentOldTax.StringFixed(2), projection.ProjectedOldTax.StringFixed(2))
	cmd.Printf("%-28s %s\n", "Old regime saving:",
		cli.SuccessStyle.Render("₹"+projection.OldRegimeSaving.StringFixed(2)))
	cmd.Println(cli.SubtleStyle.Render("The new regime does not benefit from these deductions."))
}

func renderTaxResult(cmd *cobra.Command, result *model.TaxResult) {
	cmd.Println(cli.TitleStyle.Render("Tax Summary (FY 2024-25)"))

	cmd.Printf("%-28s %s\n", "Total income:", cli.AmountStyle.Render("₹"+result.TotalIncome.Round(0).String()))
	cmd.Printf("%-28s %s\n", "Taxable income (old regime):", "₹"+result.TaxableIncome.Round(0).String())

	oldLine := fmt.Sprintf("%-28s ₹%s", "Old regime tax:", result.OldRegimeTax.StringFixed(2))
	newLine := fmt.Sprintf("%-28s ₹%s", "New regime tax:", result.NewRegimeTax.StringFixed(2))
	if result.RecommendedRegime == model.RegimeOld {
		oldLine += "  ← recommended"
	} else {
		newLine += "  ← recommended"
	}
	cmd.Println(oldLine)
	cmd.Println(newLine)
	cmd.Printf("%-28s %s\n", "You save:", cli.SuccessStyle.Render("₹"+result.TaxSaved.StringFixed(2)))

	if len(result.Deductions) > 0 {
		cmd.Println(cli.BoldStyle.Render("\nDeductions found:"))
		for _, section := range model.Sections() {
			if amount, ok := result.Deductions[section]; ok && amount.IsPositive() {
				cmd.Printf("  %-8s ₹%s\n", section, amount.Round(0).String())
			}
		}
	}

	if len(result.Recommendations) > 0 {
		cmd.Println(cli.BoldStyle.Render("\nRecommendations:"))
		for _, recommendation := range result.Recommendations {
			cmd.Printf("  • %s\n", recommendation)
		}
	}
}
