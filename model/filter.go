package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StatementFilter narrows a transaction history query. An explicit
// date range takes precedence over the trailing-days period.
type StatementFilter struct {
	Period    string
	DateFrom  *time.Time
	DateTo    *time.Time
	Type      TransactionType
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// DateBounds resolves the filter to concrete timestamp bounds. An
// explicit DateFrom/DateTo wins; otherwise a period such as "30d" is
// converted to a trailing-days lower bound. ok is false when the
// filter carries no date constraint.
func (f StatementFilter) DateBounds() (from, to *time.Time, ok bool) {
	if f.DateFrom != nil || f.DateTo != nil {
		return f.DateFrom, f.DateTo, true
	}

	if f.Period != "" {
		days, err := strconv.Atoi(strings.TrimSuffix(f.Period, "d"))
		if err != nil || days <= 0 {
			return nil, nil, false
		}
		lower := time.Now().AddDate(0, 0, -days)
		return &lower, nil, true
	}

	return nil, nil, false
}
