// Package scoring maps factor sets to bounded composite scores using
// per-(horizon, asset type) weight tables. Scoring is pure: no I/O, no
// state beyond the configured tables.
package scoring

import (
	"sort"

	"github.com/quantdesk/advisor/internal/domain"
)

// Normalizer maps a raw factor value onto the 0-100 scale.
type Normalizer func(float64) float64

// FactorSpec describes one factor's role within a table.
type FactorSpec struct {
	Weight float64    // share of the composite, table weights sum to 1.0
	Tag    string     // strategy tag attached when this factor dominates
	Norm   Normalizer // raw value -> 0-100; nil means the value already is
}

// Table is the weight table for one (horizon, asset type) combination.
type Table struct {
	Group domain.Group
	Specs map[string]FactorSpec
}

// Size returns the number of factors the table scores.
func (t Table) Size() int {
	return len(t.Specs)
}

// Names returns the table's factor names sorted ascending. Scoring iterates
// in this order so floating-point sums are reproducible across runs.
func (t Table) Names() []string {
	names := make([]string, 0, len(t.Specs))
	for name := range t.Specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TopFactor returns the highest-weighted factor name, ties resolved by name
// ascending so the choice is deterministic.
func (t Table) TopFactor() string {
	names := t.Names()

	top := ""
	best := -1.0
	for _, name := range names {
		if w := t.Specs[name].Weight; w > best {
			best = w
			top = name
		}
	}
	return top
}

// Clamp bounds a value to [0,100]. Shared by the composite score and the
// factor sub-scores so both obey the same rule.
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Band maps lo..hi linearly onto 0..100, clamped.
func Band(lo, hi float64) Normalizer {
	return func(v float64) float64 {
		return Clamp((v - lo) / (hi - lo) * 100)
	}
}

// InverseBand maps lo..hi linearly onto 100..0, clamped. Used where smaller
// is better (drawdown, volatility, valuation multiples).
func InverseBand(lo, hi float64) Normalizer {
	return func(v float64) float64 {
		return Clamp((hi - v) / (hi - lo) * 100)
	}
}

// Scale100 maps a 0/1 flag onto 0/100.
func Scale100(v float64) float64 {
	return Clamp(v * 100)
}

// DefaultTables returns the built-in weight tables, one per supported
// (horizon, asset type) combination. Weights in each table sum to 1.0.
func DefaultTables() map[domain.Group]Table {
	stockShort := Table{
		Group: domain.Group{Horizon: domain.HorizonShort, AssetType: domain.AssetStock},
		Specs: map[string]FactorSpec{
			"consolidation_strength": {Weight: 0.20, Tag: "breakout"},
			"volume_precursor":       {Weight: 0.20, Tag: "volume"},
			"ma_convergence":         {Weight: 0.20, Tag: "trend"},
			"net_inflow_5d":          {Weight: 0.15, Tag: "inflow", Norm: inflowNorm},
			"rsi_14":                 {Weight: 0.15, Tag: "momentum"},
			"accumulation":           {Weight: 0.10, Tag: "accumulation", Norm: Scale100},
		},
	}

	stockLong := Table{
		Group: domain.Group{Horizon: domain.HorizonLong, AssetType: domain.AssetStock},
		Specs: map[string]FactorSpec{
			"roe":             {Weight: 0.20, Tag: "quality", Norm: Band(0, 25)},
			"peg":             {Weight: 0.15, Tag: "value", Norm: InverseBand(0.5, 2.5)},
			"quality_score":   {Weight: 0.25, Tag: "quality"},
			"growth_score":    {Weight: 0.15, Tag: "growth"},
			"valuation_score": {Weight: 0.15, Tag: "value"},
			"gross_margin":    {Weight: 0.10, Tag: "quality", Norm: Band(0, 60)},
		},
	}

	fundShort := Table{
		Group: domain.Group{Horizon: domain.HorizonShort, AssetType: domain.AssetFund},
		Specs: map[string]FactorSpec{
			"sharpe_20d":     {Weight: 0.25, Tag: "risk-adjusted", Norm: Band(-1, 3)},
			"return_1w":      {Weight: 0.15, Tag: "momentum", Norm: Band(-5, 5)},
			"return_4w":      {Weight: 0.20, Tag: "momentum", Norm: Band(-10, 10)},
			"volatility_60d": {Weight: 0.15, Tag: "stability", Norm: InverseBand(5, 40)},
			"momentum_score": {Weight: 0.25, Tag: "momentum"},
		},
	}

	fundLong := Table{
		Group: domain.Group{Horizon: domain.HorizonLong, AssetType: domain.AssetFund},
		Specs: map[string]FactorSpec{
			"sharpe_1y":            {Weight: 0.25, Tag: "risk-adjusted", Norm: Band(-1, 3)},
			"sortino_1y":           {Weight: 0.20, Tag: "risk-adjusted", Norm: Band(-1, 4)},
			"max_drawdown_1y":      {Weight: 0.20, Tag: "resilience", Norm: InverseBand(0, 40)},
			"manager_tenure_years": {Weight: 0.10, Tag: "stewardship", Norm: Band(0, 10)},
			"alpha_score":          {Weight: 0.25, Tag: "alpha"},
		},
	}

	return map[domain.Group]Table{
		stockShort.Group: stockShort,
		stockLong.Group:  stockLong,
		fundShort.Group:  fundShort,
		fundLong.Group:   fundLong,
	}
}

// inflowNorm maps raw 5-day institutional inflow (currency units) onto
// 0-100, centred at 50 for flat flow and saturating around +/-500M.
func inflowNorm(v float64) float64 {
	const saturation = 500e6
	return Clamp(50 + v/saturation*50)
}
