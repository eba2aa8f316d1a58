package comparison

import (
	"sort"

	"github.com/quantdesk/advisor/internal/clients/marketdata"
	"github.com/quantdesk/advisor/internal/domain"
)

// Overlap finds stocks held by at least two of the compared funds.
// holdings maps fund code to its disclosed top holdings. Entries are ordered
// by holder count descending, then stock code ascending.
func Overlap(holdings map[string][]marketdata.Holding) []domain.OverlapEntry {
	type holder struct {
		funds map[string]struct{}
		name  string
	}

	byStock := make(map[string]*holder)
	for fundCode, list := range holdings {
		for _, h := range list {
			entry, ok := byStock[h.StockCode]
			if !ok {
				entry = &holder{funds: make(map[string]struct{}), name: h.StockName}
				byStock[h.StockCode] = entry
			}
			entry.funds[fundCode] = struct{}{}
			if entry.name == "" {
				entry.name = h.StockName
			}
		}
	}

	var out []domain.OverlapEntry
	for stockCode, entry := range byStock {
		if len(entry.funds) < 2 {
			continue
		}

		heldBy := make([]string, 0, len(entry.funds))
		for fundCode := range entry.funds {
			heldBy = append(heldBy, fundCode)
		}
		sort.Strings(heldBy)

		out = append(out, domain.OverlapEntry{
			StockCode: stockCode,
			StockName: entry.name,
			HeldBy:    heldBy,
			Count:     len(heldBy),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].StockCode < out[j].StockCode
	})

	return out
}

// overlapShare returns, per fund, the share of its holdings that appear in
// the overlap set. Used as the ranking penalty signal.
func overlapShare(holdings map[string][]marketdata.Holding, overlap []domain.OverlapEntry) map[string]float64 {
	overlapping := make(map[string]struct{}, len(overlap))
	for _, entry := range overlap {
		overlapping[entry.StockCode] = struct{}{}
	}

	shares := make(map[string]float64, len(holdings))
	for fundCode, list := range holdings {
		if len(list) == 0 {
			shares[fundCode] = 0
			continue
		}
		count := 0
		for _, h := range list {
			if _, ok := overlapping[h.StockCode]; ok {
				count++
			}
		}
		shares[fundCode] = float64(count) / float64(len(list))
	}
	return shares
}
