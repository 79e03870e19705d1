package model

import "strings"

// Category is a spending/income category assigned to a transaction.
type Category string

// Transaction categories. Declaration order is the tie-break order for
// keyword classification: earlier categories win.
const (
	CategoryIncome        Category = "income"
	CategoryEMI           Category = "emi"
	CategorySIP           Category = "sip"
	CategoryRent          Category = "rent"
	CategoryInsurance     Category = "insurance"
	CategoryUtilities     Category = "utilities"
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
	CategoryHealthcare    Category = "healthcare"
	CategoryEducation     Category = "education"
	CategoryOther         Category = "other"
)

// Categories lists every valid transaction category in declaration order.
func Categories() []Category {
	return []Category{
		CategoryIncome, CategoryEMI, CategorySIP, CategoryRent,
		CategoryInsurance, CategoryUtilities, CategoryFood,
		CategoryTransport, CategoryShopping, CategoryEntertainment,
		CategoryHealthcare, CategoryEducation, CategoryOther,
	}
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory normalizes a free-form label to a valid Category,
// coercing anything unknown to CategoryOther.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// Topic is the semantic domain a chat query is routed to.
type Topic string

// Query topics. Each maps to a backing knowledge collection.
const (
	TopicRetirementPlanning Topic = "retirement_planning"
	TopicInvestmentAdvice   Topic = "investment_advice"
	TopicTaxRules           Topic = "tax_rules"
	TopicStockAnalysis      Topic = "stock_analysis"
	TopicFinancialKnowledge Topic = "financial_knowledge"
)
