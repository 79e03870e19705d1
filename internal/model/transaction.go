package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType discriminates money flowing in from money flowing out.
// Amounts are stored unsigned; the type carries the direction.
type TransactionType string

const (
	// TypeCredit is money received into the account.
	TypeCredit TransactionType = "credit"
	// TypeDebit is money paid out of the account.
	TypeDebit TransactionType = "debit"
)

// Transaction is a single parsed statement line. Parsing happens
// upstream; the categorizer fills in Category, Subcategory,
// IsRecurring and Confidence.
type Transaction struct {
	Date        time.Time
	ID          string
	UserID      string
	Description string
	Subcategory string
	Reasoning   string
	Type        TransactionType
	Category    Category
	Amount      decimal.Decimal
	Confidence  int // 0-100
	IsRecurring bool
}

// GenerateHash creates a stable hash for duplicate detection and
// classification caching.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		t.Description,
		t.Type)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
