package scoring

import (
	"fmt"
	"math"

	"github.com/quantdesk/advisor/internal/domain"
)

// Engine scores factor sets against weight tables.
type Engine struct {
	tables      map[domain.Group]Table
	minFraction float64 // minimum share of a table's factors that must be present
}

// NewEngine creates a scoring engine. minFraction is the minimum fraction of
// a table's factors that must be present for an asset to be scored at all;
// the boundary is inclusive, so 3 of 6 passes at 0.5.
func NewEngine(tables map[domain.Group]Table, minFraction float64) *Engine {
	if tables == nil {
		tables = DefaultTables()
	}
	return &Engine{
		tables:      tables,
		minFraction: minFraction,
	}
}

// TableFor returns the weight table for a group.
func (e *Engine) TableFor(group domain.Group) (Table, bool) {
	t, ok := e.tables[group]
	return t, ok
}

// Score computes the composite score for one factor set. Absent factors
// contribute nothing; their weight is redistributed proportionally across
// the present ones, so a thin-but-strong factor set is not penalized for
// data gaps. Returns ErrInsufficientFactors when fewer than the minimum
// fraction of the table's factors are present.
func (e *Engine) Score(fs domain.FactorSet, group domain.Group) (float64, error) {
	table, ok := e.tables[group]
	if !ok {
		return 0, fmt.Errorf("no weight table for %s/%s", group.Horizon, group.AssetType)
	}
	return ScoreWithTable(fs, table, e.minFraction)
}

// ScoreWithTable is the pure scoring function: (FactorSet, Table) -> score.
// Exposed separately so tests can enumerate absent-factor combinations
// without an engine or any I/O.
func ScoreWithTable(fs domain.FactorSet, table Table, minFraction float64) (float64, error) {
	presentWeight := 0.0
	present := 0
	for _, name := range table.Names() {
		if fs.Present(name) {
			presentWeight += table.Specs[name].Weight
			present++
		}
	}

	if table.Size() == 0 || presentWeight <= 0 {
		return 0, domain.ErrInsufficientFactors
	}
	if float64(present)/float64(table.Size()) < minFraction {
		return 0, domain.ErrInsufficientFactors
	}

	// Sorted iteration keeps the floating-point sum identical from run to
	// run; map order would make equal factor sets score bit-differently.
	score := 0.0
	for _, name := range table.Names() {
		if !fs.Present(name) {
			continue
		}
		spec := table.Specs[name]
		value := *fs[name]
		if spec.Norm != nil {
			value = spec.Norm(value)
		}
		value = Clamp(value)
		// Redistribution: weight share relative to the present weight mass.
		score += value * (spec.Weight / presentWeight)
	}

	return Clamp(score), nil
}

// Contributions returns each present factor's weighted contribution to the
// composite score, using the same redistribution as ScoreWithTable. Ranking
// uses this to derive the strategy label.
func Contributions(fs domain.FactorSet, table Table) map[string]float64 {
	presentWeight := 0.0
	for _, name := range table.Names() {
		if fs.Present(name) {
			presentWeight += table.Specs[name].Weight
		}
	}
	if presentWeight <= 0 {
		return nil
	}

	out := make(map[string]float64)
	for _, name := range table.Names() {
		if !fs.Present(name) {
			continue
		}
		spec := table.Specs[name]
		value := *fs[name]
		if spec.Norm != nil {
			value = spec.Norm(value)
		}
		out[name] = Clamp(value) * (spec.Weight / presentWeight)
	}
	return out
}

// TieBreakKey returns the sort key used to break equal composite scores: the
// raw value of the table's highest-weighted factor. Assets missing that
// factor sort after assets that have it.
func TieBreakKey(fs domain.FactorSet, table Table) float64 {
	top := table.TopFactor()
	if top == "" || !fs.Present(top) {
		return math.Inf(-1)
	}
	return *fs[top]
}
