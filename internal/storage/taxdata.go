package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/taxwise-in/taxwise/internal/model"
)

// SaveTaxResult persists a tax computation for later reference.
func (s *Storage) SaveTaxResult(ctx context.Context, userID string, result model.TaxResult) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString("user_id", userID); err != nil {
		return err
	}

	deductions, err := json.Marshal(result.Deductions)
	if err != nil {
		return fmt.Errorf("failed to encode deductions: %w", err)
	}
	recommendations, err := json.Marshal(result.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to encode recommendations: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tax_results
			(id, user_id, created_at, total_income, taxable_income,
			 old_regime_tax, new_regime_tax, tax_saved, recommended_regime,
			 deductions, recommendations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), userID, time.Now(),
		result.TotalIncome.StringFixed(2), result.TaxableIncome.StringFixed(2),
		result.OldRegimeTax.StringFixed(2), result.NewRegimeTax.StringFixed(2),
		result.TaxSaved.StringFixed(2), string(result.RecommendedRegime),
		string(deductions), string(recommendations))
	if err != nil {
		return fmt.Errorf("failed to insert tax result: %w", err)
	}
	return nil
}

// LatestTaxResult returns the user's most recent tax computation, or
// nil when none exists.
func (s *Storage) LatestTaxResult(ctx context.Context, userID string) (*model.TaxResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString("user_id", userID); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT total_income, taxable_income, old_regime_tax, new_regime_tax,
		       tax_saved, recommended_regime, deductions, recommendations
		FROM tax_results WHERE user_id = ?
		ORDER BY created_at DESC LIMIT 1`, userID)

	var totalIncome, taxableIncome, oldTax, newTax, saved, regime string
	var deductions, recommendations string
	err := row.Scan(&totalIncome, &taxableIncome, &oldTax, &newTax,
		&saved, &regime, &deductions, &recommendations)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query tax result: %w", err)
	}

	result := &model.TaxResult{RecommendedRegime: model.Regime(regime)}

	for _, field := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&result.TotalIncome, totalIncome},
		{&result.TaxableIncome, taxableIncome},
		{&result.OldRegimeTax, oldTax},
		{&result.NewRegimeTax, newTax},
		{&result.TaxSaved, saved},
	} {
		parsed, err := decimal.NewFromString(field.src)
		if err != nil {
			return nil, fmt.Errorf("corrupt tax result amount: %w", err)
		}
		*field.dst = parsed
	}

	if err := json.Unmarshal([]byte(deductions), &result.Deductions); err != nil {
		return nil, fmt.Errorf("corrupt deductions: %w", err)
	}
	if err := json.Unmarshal([]byte(recommendations), &result.Recommendations); err != nil {
		return nil, fmt.Errorf("corrupt recommendations: %w", err)
	}

	return result, nil
}
