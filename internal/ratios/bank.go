package ratios

import (
	"strings"

	"github.com/seenimoa/finlens/internal/coerce"
	"github.com/seenimoa/finlens/internal/resolve"
	"github.com/seenimoa/finlens/pkg/models"
)

// FromBankSummary builds the ratio set for a bank statement. With no
// statements to work from, the account itself stands in: credits play
// revenue, debits play liabilities and the closing balance plays equity and
// assets. Totals missing from the summary are summed from txns; a total
// missing from both stays Unavailable rather than counting as zero.
func FromBankSummary(summary map[string]any, txns []any) models.RatioSet {
	t := tallyTransactions(txns)

	credits := models.FirstAvailable(
		coerce.Number(resolve.First(summary, "total_credits", "totalCredits", "credits").Value),
		t.credits,
	)
	debits := models.FirstAvailable(
		coerce.Number(resolve.First(summary, "total_debits", "totalDebits", "debits").Value),
		t.debits,
	)
	opening := coerce.Number(resolve.First(summary, "opening_balance", "openingBalance").Value)
	closing := coerce.Number(resolve.First(summary, "closing_balance", "closingBalance").Value)

	count := t.count
	if !count.IsAvailable() {
		count = coerce.Number(resolve.First(summary, "transaction_count", "total_transactions").Value)
	}

	net := credits.Sub(debits)
	coverage := onPositive(closing, positiveDiv(closing, debits))
	cashMargin := marginOf(net, credits)
	onBalance := positiveDiv(net, closing).Scale(100)
	working := closing.Sub(debits)
	funded := Sum(debits, closing)
	if !debits.IsAvailable() || !closing.IsAvailable() {
		funded = models.Unavailable()
	}
	creditBook := times(positiveDiv(t.credits, t.creditCount), count)
	debitBook := times(positiveDiv(t.debits, t.debitCount), count)

	vals := map[string]models.Value{
		"currentRatio":   coverage,
		"quickRatio":     coverage,
		"cashRatio":      coverage,
		"workingCapital": working,

		"grossMargin":     cashMargin,
		"netMargin":       cashMargin,
		"operatingMargin": cashMargin,
		"roe":             onBalance,
		"roa":             onBalance,

		"assetTurnover":            positiveDiv(credits, closing),
		"tradeReceivablesTurnover": positiveDiv(credits, creditBook),
		"tradePayablesTurnover":    positiveDiv(debits, debitBook),

		"debtToEquity":        positiveDiv(debits, closing),
		"debtRatio":           positiveDiv(debits, funded).Scale(100),
		"equityRatio":         positiveDiv(closing, funded).Scale(100),
		"debtServiceCoverage": positiveDiv(net, debits),

		"workingCapitalTurnover": positiveDiv(credits, working),
		"daysSalesOutstanding":   onPositive(creditBook, positiveDiv(creditBook, credits.Scale(1.0/30))),
		"daysPayableOutstanding": onPositive(debitBook, positiveDiv(debitBook, debits.Scale(1.0/30))),

		"operatingCashFlowRatio": positiveDiv(net, debits),
		"freeCashFlow":           net,
		"cashFlowMargin":         cashMargin,

		"revenueGrowth":   growthOver(closing, opening),
		"netProfitGrowth": onPositive(net, positiveDiv(net, opening).Scale(100)),

		"averageTransactionSize": Sum(credits, debits).Div(count),
		"creditToDebitRatio":     credits.Div(debits),
		"transactionFrequency":   count,
		"creditFrequency":        t.creditCount,
		"debitFrequency":         t.debitCount,
		"openingBalance":         opening,
		"closingBalance":         closing,
		"netChange":              closing.Sub(opening),
		"percentageChange":       growthOver(closing, opening),
	}
	if !credits.IsAvailable() || !debits.IsAvailable() {
		vals["averageTransactionSize"] = models.Unavailable()
	}

	return build(func(d Definition) (models.Value, models.RatioSource) {
		v, ok := vals[d.Key]
		if !ok || !v.IsAvailable() {
			return models.Unavailable(), models.SourceUnavailable
		}
		return v, models.SourceDerived
	})
}

// onPositive returns v when gate is strictly positive.
func onPositive(gate, v models.Value) models.Value {
	if !gate.Positive() {
		return models.Unavailable()
	}
	return v
}

// times multiplies two values; the product is Unavailable if either is.
func times(a, b models.Value) models.Value {
	f, ok := b.Float()
	if !ok {
		return models.Unavailable()
	}
	return a.Scale(f)
}

type tally struct {
	count       models.Value
	creditCount models.Value
	debitCount  models.Value
	credits     models.Value
	debits      models.Value
}

// tallyTransactions classifies each transaction as a credit or a debit. A
// positive credit/debit column decides first, then the type field. The
// tally is Unavailable throughout when txns is empty.
func tallyTransactions(txns []any) tally {
	if len(txns) == 0 {
		return tally{}
	}
	var credits, debits []models.Value
	for _, raw := range txns {
		tx, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if c := coerce.Number(resolve.Resolve(tx, "credit").Value); c.Positive() {
			credits = append(credits, c)
			continue
		}
		if d := coerce.Number(resolve.Resolve(tx, "debit").Value); d.Positive() {
			debits = append(debits, d)
			continue
		}
		amount := coerce.Number(resolve.Resolve(tx, "amount").Value)
		f, ok := amount.Float()
		if !ok || f == 0 {
			continue
		}
		if f < 0 {
			f = -f
		}
		switch strings.ToLower(resolve.String(tx, "type")) {
		case "credit", "cr":
			credits = append(credits, models.Of(f))
		case "debit", "dr":
			debits = append(debits, models.Of(f))
		}
	}
	return tally{
		count:       models.Of(float64(len(txns))),
		creditCount: models.Of(float64(len(credits))),
		debitCount:  models.Of(float64(len(debits))),
		credits:     Sum(credits...),
		debits:      Sum(debits...),
	}
}
