package model

// ReportRow is one line of the spend-versus-budget report.
type ReportRow struct {
	BudgetName   string
	BudgetAmount float64
	TotalSpent   float64
	PercentSpent float64
}

// Overspent reports whether spending exceeded the allotment.
func (r ReportRow) Overspent() bool {
	return r.TotalSpent > r.BudgetAmount
}
