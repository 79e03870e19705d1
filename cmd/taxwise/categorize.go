package main

import (
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/taxwise-in/taxwise/internal/classify"
	"github.com/taxwise-in/taxwise/internal/cli"
	"github.com/taxwise-in/taxwise/internal/model"
)

func categorizeCmd() *cobra.Command {
	var recategorize bool

	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Categorize imported transactions",
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

			var transactions []model.Transaction
			if recategorize {
				transactions, err = store.GetTransactions(ctx, user)
			} else {
				transactions, err = store.GetUncategorized(ctx, user)
			}
			if err != nil {
				return err
			}
			if len(transactions) == 0 {
				cmd.Println(cli.SubtleStyle.Render("Nothing to categorize."))
				return nil
			}

			chain := newLLMChain(cfg)
			defer func() { _ = chain.Close() }()

			classifier := classify.NewClassifier(chain, slog.Default())

			bar := progressbar.NewOptions(len(transactions),
				progressbar.OptionSetDescription("Categorizing"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			categorized := classifier.CategorizeBatch(ctx, transactions)
			for _, tx := range categorized {
				if err := store.UpdateCategorization(ctx, tx); err != nil {
					return err
				}
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			cmd.Println(cli.SuccessStyle.Render(fmt.Sprintf("Categorized %d transactions", len(categorized))))

			for _, insight := range classify.SpendingInsights(categorized) {
				cmd.Printf("  %-15s %s (%s%%)\n",
					insight.Category,
					cli.AmountStyle.Render("₹"+insight.Total.Round(0).String()),
					insight.Percent)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&recategorize, "all", false, "recategorize every transaction, not just new ones")
	return cmd
}
