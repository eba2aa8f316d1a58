// Package comparison aligns fund NAV histories, computes risk/return
// metrics and holdings overlap, and ranks the compared set. The engine is
// stateless: every request is computed fresh from its inputs.
package comparison

import (
	"sort"

	"github.com/quantdesk/advisor/internal/clients/marketdata"
	"github.com/quantdesk/advisor/internal/domain"
)

// Align re-expresses N sparse NAV histories on the sorted union of their
// dates. Each series keeps nil on dates it did not report; alignment never
// fabricates a value, forward-fills or interpolates.
func Align(histories map[string][]marketdata.NAVPoint) domain.NAVBundle {
	dateSet := make(map[string]struct{})
	for _, navs := range histories {
		for _, nav := range navs {
			dateSet[nav.Date] = struct{}{}
		}
	}

	dates := make([]string, 0, len(dateSet))
	for date := range dateSet {
		dates = append(dates, date)
	}
	sort.Strings(dates) // YYYY-MM-DD sorts chronologically

	index := make(map[string]int, len(dates))
	for i, date := range dates {
		index[date] = i
	}

	series := make(map[string][]*float64, len(histories))
	for code, navs := range histories {
		aligned := make([]*float64, len(dates))
		for _, nav := range navs {
			v := nav.Value
			aligned[index[nav.Date]] = &v
		}
		series[code] = aligned
	}

	return domain.NAVBundle{
		Dates:  dates,
		Series: series,
	}
}
