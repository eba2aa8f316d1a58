// Package factors derives per-asset, per-horizon factor sets from raw market
// data. Every factor is computed independently: missing or short history
// makes that one factor absent without touching the others.
package factors

// Factor names, grouped by (horizon, asset type). The scoring weight tables
// key on the same names.
const (
	// Short-term stock factors
	FactorConsolidation   = "consolidation_strength"
	FactorVolumePrecursor = "volume_precursor"
	FactorMAConvergence   = "ma_convergence"
	FactorNetInflow5D     = "net_inflow_5d"
	FactorRSI             = "rsi_14"
	FactorAccumulation    = "accumulation"

	// Long-term stock factors
	FactorROE         = "roe"
	FactorPEG         = "peg"
	FactorQuality     = "quality_score"
	FactorGrowth      = "growth_score"
	FactorValuation   = "valuation_score"
	FactorGrossMargin = "gross_margin"

	// Short-term fund factors
	FactorSharpe20D = "sharpe_20d"
	FactorReturn1W  = "return_1w"
	FactorReturn4W  = "return_4w"
	FactorVol60D    = "volatility_60d"
	FactorMomentum  = "momentum_score"

	// Long-term fund factors
	FactorSharpe1Y  = "sharpe_1y"
	FactorSortino1Y = "sortino_1y"
	FactorMaxDD1Y   = "max_drawdown_1y"
	FactorTenure    = "manager_tenure_years"
	FactorAlpha     = "alpha_score"
)
