package storage

// Amounts are stored as TEXT to keep decimal values exact; SQLite's
// numeric affinity would silently convert them to float.
const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	date TIMESTAMP NOT NULL,
	description TEXT NOT NULL,
	amount TEXT NOT NULL,
	type TEXT NOT NULL CHECK (type IN ('credit', 'debit')),
	category TEXT NOT NULL DEFAULT '',
	subcategory TEXT NOT NULL DEFAULT '',
	reasoning TEXT NOT NULL DEFAULT '',
	confidence INTEGER NOT NULL DEFAULT 0,
	is_recurring INTEGER NOT NULL DEFAULT 0,
	hash TEXT NOT NULL,
	UNIQUE (user_id, hash)
);

CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id);
CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(user_id, category);

CREATE TABLE IF NOT EXISTS tax_results (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	total_income TEXT NOT NULL,
	taxable_income TEXT NOT NULL,
	old_regime_tax TEXT NOT NULL,
	new_regime_tax TEXT NOT NULL,
	tax_saved TEXT NOT NULL,
	recommended_regime TEXT NOT NULL,
	deductions TEXT NOT NULL,
	recommendations TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tax_results_user ON tax_results(user_id, created_at DESC);
`

func (s *Storage) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}
