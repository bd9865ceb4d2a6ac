package utils

import (
	"fmt"
	"time"
)

// FiscalYear is the April 1 - March 31 accounting period used for receipt
// numbering. A date in January-March belongs to the fiscal year that started
// the previous April.
type FiscalYear struct {
	StartYear int
	EndYear   int
	Label     string
	StartDate time.Time
	EndDate   time.Time
}

// FinancialYear maps a calendar date to its fiscal-year bucket. Pure date
// mapping; time-of-day and timezone of the input are not considered beyond
// its calendar fields.
func FinancialYear(date time.Time) FiscalYear {
	startYear := date.Year()
	if date.Month() < time.April {
		startYear = date.Year() - 1
	}
	endYear := startYear + 1

	return FiscalYear{
		StartYear: startYear,
		EndYear:   endYear,
		Label:     fmt.Sprintf("%d-%d", startYear, endYear),
		StartDate: time.Date(startYear, time.April, 1, 0, 0, 0, 0, date.Location()),
		EndDate:   time.Date(endYear, time.March, 31, 0, 0, 0, 0, date.Location()),
	}
}
