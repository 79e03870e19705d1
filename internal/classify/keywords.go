package classify

import "github.com/taxwise-in/taxwise/internal/model"

// transactionRule maps description keywords to a category. Rules are
// evaluated in order and the first match wins, so narrower patterns
// (EMI, SIP) must come before broader ones (shopping).
type transactionRule struct {
	category    model.Category
	subcategory string
	recurring   bool
	keywords    []string
}

// Keyword tables follow Indian bank statement conventions: narration
// fields are usually upper-case and carry the payee or scheme name.
var transactionRules = []transactionRule{
	{
		category:    model.CategoryIncome,
		subcategory: "salary",
		recurring:   true,
		keywords:    []string{"salary", "sal credit", "wage", "payroll", "stipend"},
	},
	{
		category:    model.CategoryIncome,
		subcategory: "other income",
		keywords:    []string{"bonus", "incentive", "dividend", "cashback", "refund", "interest credit"},
	},
	{
		category:    model.CategoryEMI,
		subcategory: "loan repayment",
		recurring:   true,
		keywords:    []string{"emi", "loan repay", "home loan", "car loan", "personal loan", "housing finance"},
	},
	{
		category:    model.CategorySIP,
		subcategory: "mutual fund",
		recurring:   true,
		keywords:    []string{"sip", "mutual fund", "elss", "nps contribution", "ppf", "nsc", "systematic investment"},
	},
	{
		category:    model.CategoryRent,
		subcategory: "housing",
		recurring:   true,
		keywords:    []string{"rent", "landlord", "lease payment", "society maintenance"},
	},
	{
		category:    model.CategoryInsurance,
		subcategory: "premium",
		recurring:   true,
		keywords:    []string{"insurance", "premium", "lic", "policy renewal", "mediclaim", "term plan"},
	},
	{
		category:    model.CategoryUtilities,
		subcategory: "bills",
		recurring:   true,
		keywords:    []string{"electricity", "water bill", "gas bill", "broadband", "mobile recharge", "dth", "postpaid", "bescom", "mseb", "piped gas"},
	},
	{
		category:    model.CategoryFood,
		subcategory: "dining and groceries",
		keywords:    []string{"swiggy", "zomato", "restaurant", "cafe", "grocery", "bigbasket", "blinkit", "zepto", "dmart", "food"},
	},
	{
		category:    model.CategoryTransport,
		subcategory: "travel",
		keywords:    []string{"uber", "ola", "rapido", "metro", "irctc", "fuel", "petrol", "diesel", "fastag", "parking", "airline", "indigo"},
	},
	{
		category:    model.CategoryShopping,
		subcategory: "retail",
		keywords:    []string{"amazon", "flipkart", "myntra", "ajio", "nykaa", "croma", "reliance retail", "shopping"},
	},
	{
		category:    model.CategoryEntertainment,
		subcategory: "leisure",
		keywords:    []string{"netflix", "hotstar", "spotify", "bookmyshow", "prime video", "cinema", "pvr", "gaming"},
	},
	{
		category:    model.CategoryHealthcare,
		subcategory: "medical",
		keywords:    []string{"hospital", "pharmacy", "apollo", "clinic", "diagnostic", "medplus", "pharmeasy", "doctor"},
	},
	{
		category:    model.CategoryEducation,
		subcategory: "learning",
		keywords:    []string{"school fee", "college fee", "tuition", "coursera", "udemy", "byjus", "education loan", "exam fee"},
	},
}

// topicRule maps query keywords to a routing topic, evaluated in order.
type topicRule struct {
	topic    model.Topic
	keywords []string
}

var topicRules = []topicRule{
	{
		topic:    model.TopicRetirementPlanning,
		keywords: []string{"retirement", "retire", "pension", "nps", "epf", "provident fund", "annuity", "old age"},
	},
	{
		topic:    model.TopicInvestmentAdvice,
		keywords: []string{"invest", "mutual fund", "sip", "portfolio", "returns", "fd", "fixed deposit", "gold", "real estate", "where should i put"},
	},
	{
		topic:    model.TopicTaxRules,
		keywords: []string{"tax", "80c", "80d", "deduction", "regime", "itr", "filing", "tds", "cess", "exemption", "rebate"},
	},
	{
		topic:    model.TopicStockAnalysis,
		keywords: []string{"stock", "share", "equity", "nifty", "sensex", "ipo", "demat", "trading", "intraday"},
	},
	{
		topic:    model.TopicFinancialKnowledge,
		keywords: []string{"credit score", "cibil", "budget", "emergency fund", "inflation", "loan", "emi", "savings account"},
	},
}
