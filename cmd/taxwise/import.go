package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/taxwise-in/taxwise/internal/cli"
	"github.com/taxwise-in/taxwise/internal/model"
)

// importCmd loads bank statement CSVs: date, description, amount, type.
func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import bank statement transactions from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			transactions, err := readStatementCSV(args[0])
			if err != nil {
				return err
			}

			store, err := openStorage(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			inserted, err := store.SaveTransactions(cmd.Context(), currentUser(), transactions)
			if err != nil {
				return err
			}

			skipped := len(transactions) - inserted
			cmd.Println(cli.SuccessStyle.Render(fmt.Sprintf("Imported %d transactions", inserted)))
			if skipped > 0 {
				cmd.Println(cli.SubtleStyle.Render(fmt.Sprintf("%d duplicates skipped", skipped)))
			}
			return nil
		},
	}
}

func readStatementCSV(path string) ([]model.Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 4

	var transactions []model.Transaction
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read statement: %w", err)
		}
		line++

		// Skip a header row.
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "date") {
			continue
		}

		tx, err := parseStatementRow(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		transactions = append(transactions, tx)
	}

	if len(transactions) == 0 {
		return nil, fmt.Errorf("no transactions found in %s", path)
	}
	return transactions, nil
}

func parseStatementRow(record []string) (model.Transaction, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(record[0]))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("bad date %q: %w", record[0], err)
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(record[2]), ",", ""))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("bad amount %q: %w", record[2], err)
	}
	if amount.IsNegative() || amount.IsZero() {
		return model.Transaction{}, fmt.Errorf("amount must be positive, got %q (use the type column for direction)", record[2])
	}

	txType := model.TransactionType(strings.ToLower(strings.TrimSpace(record[3])))
	if txType != model.TypeCredit && txType != model.TypeDebit {
		return model.Transaction{}, fmt.Errorf("bad type %q: must be credit or debit", record[3])
	}

	return model.Transaction{
		Date:        date,
		Description: strings.TrimSpace(record[1]),
		Amount:      amount,
		Type:        txType,
	}, nil
}
