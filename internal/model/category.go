package model

// Category is a named budget allotment (a row in the budgets table).
type Category struct {
	ID     int64
	Name   string
	Amount float64
}
