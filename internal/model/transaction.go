package model

// Transaction is a recorded spend event attributed to one budget category.
type Transaction struct {
	ID          int64
	BudgetID    int64
	Amount      float64 // no sign constraint; refunds may be negative
	Date        string  // stored verbatim, never parsed
	Description string
}
