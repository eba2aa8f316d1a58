package comparison

import (
	"time"

	"github.com/quantdesk/advisor/internal/clients/marketdata"
	"github.com/quantdesk/advisor/internal/domain"
)

const dateLayout = "2006-01-02"

// trailingHorizon describes one fixed return-comparison window.
type trailingHorizon struct {
	months int
	years  int
}

var trailingHorizons = []trailingHorizon{
	{months: 1},
	{months: 3},
	{months: 6},
	{years: 1},
	{years: 3},
}

// TrailingReturns computes the return table for one fund's NAV history,
// oldest first. Each cell is the percentage change from the NAV
// nearest-at-or-before the horizon start to the latest NAV; a horizon with
// no anchor point stays nil.
func TrailingReturns(code string, navs []marketdata.NAVPoint) domain.ReturnRow {
	row := domain.ReturnRow{Code: code}
	if len(navs) == 0 {
		return row
	}

	latest := navs[len(navs)-1]
	latestDate, err := time.Parse(dateLayout, latest.Date)
	if err != nil {
		return row
	}

	cells := []**float64{&row.OneMonth, &row.ThreeMonths, &row.SixMonths, &row.OneYear, &row.ThreeYears}
	for i, horizon := range trailingHorizons {
		start := latestDate.AddDate(-horizon.years, -horizon.months, 0)
		anchor := navAtOrBefore(navs, start)
		if anchor == nil || anchor.Value == 0 {
			continue
		}
		pct := (latest.Value - anchor.Value) / anchor.Value * 100
		*cells[i] = &pct
	}

	return row
}

// navAtOrBefore returns the latest NAV point dated at or before cutoff, or
// nil when the history starts later than cutoff.
func navAtOrBefore(navs []marketdata.NAVPoint, cutoff time.Time) *marketdata.NAVPoint {
	var found *marketdata.NAVPoint
	for i := range navs {
		date, err := time.Parse(dateLayout, navs[i].Date)
		if err != nil {
			continue
		}
		if date.After(cutoff) {
			break
		}
		found = &navs[i]
	}
	return found
}
