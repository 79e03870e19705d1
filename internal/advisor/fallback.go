package advisor

import (
	"strings"

	"github.com/taxwise-in/taxwise/internal/model"
)

// fallbackTemplates are keyword-keyed canned answers used when no
// generation provider is reachable. Checked in order, first match wins.
var fallbackTemplates = []struct {
	keywords []string
	answer   string
}{
	{
		keywords: []string{"80c"},
		answer:   "Section 80C lets you deduct up to ₹1.5 lakh a year from taxable income. ELSS mutual funds, PPF, NSC, life insurance premiums and 5-year tax-saver fixed deposits all qualify.",
	},
	{
		keywords: []string{"80d", "health insurance"},
		answer:   "Section 80D covers health insurance premiums: up to ₹25,000 for yourself and your family, plus another ₹50,000 for your parents' policies.",
	},
	{
		keywords: []string{"regime"},
		answer:   "The old regime allows deductions like 80C and home loan interest but has higher slab rates. The new regime has lower rates with almost no deductions. If you invest heavily in tax-saving instruments, the old regime usually wins; otherwise the new one does.",
	},
	{
		keywords: []string{"elss"},
		answer:   "ELSS funds are equity mutual funds with a 3-year lock-in that qualify for the 80C deduction. They have the shortest lock-in among tax-saving options and market-linked returns.",
	},
	{
		keywords: []string{"ppf"},
		answer:   "PPF is a 15-year government-backed savings scheme. Contributions qualify under 80C and both the interest and maturity amount are tax-free.",
	},
	{
		keywords: []string{"nps", "retirement", "pension"},
		answer:   "For retirement, a mix of EPF, PPF and NPS works well for most people. NPS gives an extra ₹50,000 deduction under 80CCD(1B) on top of the 80C limit.",
	},
	{
		keywords: []string{"sip", "mutual fund", "invest"},
		answer:   "A SIP invests a fixed amount in a mutual fund every month, averaging out market ups and downs. For long horizons, diversified equity funds through SIPs are a sensible default.",
	},
	{
		keywords: []string{"cibil", "credit score"},
		answer:   "Your CIBIL score runs from 300 to 900; above 750 is considered excellent. Pay every EMI on time and keep credit card utilization under 30% to improve it.",
	},
	{
		keywords: []string{"emergency fund"},
		answer:   "Keep three to six months of expenses in an emergency fund, parked in a savings account or liquid fund where you can reach it immediately.",
	},
}

const genericFallback = "I can help with tax planning, investments, retirement and credit health. Could you tell me a bit more about what you'd like to know?"

// ruleBasedAnswer picks a canned answer when generation is unavailable.
func ruleBasedAnswer(query string, topic model.Topic) string {
	normalized := strings.ToLower(query)

	for _, template := range fallbackTemplates {
		for _, keyword := range template.keywords {
			if strings.Contains(normalized, keyword) {
				return template.answer
			}
		}
	}

	switch topic {
	case model.TopicTaxRules:
		return "Broadly: income up to the basic exemption is tax-free, and deductions like 80C can cut your taxable income further. Share your income and I can be more specific."
	case model.TopicStockAnalysis:
		return "I can't recommend individual stocks, but for most investors a diversified index fund beats stock-picking over the long run."
	default:
		return genericFallback
	}
}

// factCheck patches known factual gaps in generated answers. A section
// 80C answer that never states the limit gets it appended.
func factCheck(query, answer string) string {
	queryLower := strings.ToLower(query)
	answerLower := strings.ToLower(answer)

	if strings.Contains(queryLower, "80c") &&
		!strings.Contains(answerLower, "1.5 lakh") &&
		!strings.Contains(answerLower, "150000") &&
		!strings.Contains(answerLower, "1,50,000") {
		return answer + " Note that the section 80C deduction is capped at ₹1.5 lakh per financial year."
	}
	return answer
}

// followUpFor decides whether this turn should end with a profiling
// question, and which slot the answer will fill. At most one per turn:
// investment advice asks for horizon, tax questions ask regime, then
// income source, then income when the query is about filing.
func followUpFor(topic model.Topic, query string, profile model.Profile) (string, model.SlotType) {
	switch topic {
	case model.TopicInvestmentAdvice:
		if profile.InvestmentHorizon == model.Unknown {
			return "How many years are you planning to stay invested?", model.SlotInvestmentHorizon
		}
	case model.TopicTaxRules:
		if profile.TaxRegime == model.Unknown {
			return "Do you currently file under the old or the new tax regime?", model.SlotTaxRegime
		}
		if profile.IncomeSource == model.Unknown {
			return "Is your income from a salary or from a business?", model.SlotIncomeSource
		}
		if profile.TotalIncome == model.Unknown && strings.Contains(strings.ToLower(query), "filing") {
			return "What is your annual income, roughly?", model.SlotTotalIncome
		}
	}
	return "", model.SlotNone
}
