package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const StatementDateLayout = "2006-01-02"

// ComputeBalance folds the statement in stored order: credits add, debits subtract.
func ComputeBalance(statement []Operation) decimal.Decimal {
	balance := decimal.Zero
	for _, op := range statement {
		switch op.Type {
		case OperationTypeCredit:
			balance = balance.Add(op.Amount)
		case OperationTypeDebit:
			balance = balance.Sub(op.Amount)
		}
	}
	return balance
}

// ParseStatementDate parses a YYYY-MM-DD string as midnight in loc
func ParseStatementDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	date, err := time.ParseInLocation(StatementDateLayout, value, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

// FilterByDate keeps the operations created on the calendar day of date,
// evaluated in date's location. Order is preserved; no match yields an empty slice.
func FilterByDate(statement []Operation, date time.Time) []Operation {
	year, month, day := date.Date()
	loc := date.Location()

	filtered := make([]Operation, 0)
	for _, op := range statement {
		y, m, d := op.CreatedAt.In(loc).Date()
		if y == year && m == month && d == day {
			filtered = append(filtered, op)
		}
	}
	return filtered
}
