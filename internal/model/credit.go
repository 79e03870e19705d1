package model

// CreditAccount is a single tradeline on a credit report.
type CreditAccount struct {
	Type string // e.g. "credit card", "home loan"
}

// CreditReport holds the structured fields extracted from a
// credit-bureau report. Zero values mean the field was not found;
// extraction happens downstream of OCR, which is external.
type CreditReport struct {
	Accounts          []CreditAccount
	Score             int     // CIBIL score, 300-900
	PaymentHistory    int     // on-time payment percentage
	HardInquiries     int
	CreditUtilization float64 // percentage
}
