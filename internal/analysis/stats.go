package analysis

import "moneystory/internal/core"

// BasicStats computes income/expense/net for one user and one period.
// Empty input yields all-zero stats; the savings rate is defined as 0 when
// income is 0 so callers never see a division by zero.
func (e *Engine) BasicStats(txs []core.Transaction) core.BasicStats {
	var income, expense core.Money
	for _, tx := range txs {
		if tx.IsIncome {
			income = income.Add(tx.Amount)
		} else {
			expense = expense.Add(tx.Amount)
		}
	}

	net := income.Sub(expense)
	var savingsRate float64
	if income.Cents > 0 {
		savingsRate = net.Units() / income.Units()
	}

	return core.BasicStats{
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          net,
		SavingsRate:  savingsRate,
	}
}
