package comparison

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantdesk/advisor/internal/clients/marketdata"
	"github.com/quantdesk/advisor/internal/domain"
)

type fakeSource struct {
	navs        map[string][]marketdata.NAVPoint
	navErr      map[string]error
	holdings    map[string][]marketdata.Holding
	holdingsErr map[string]error
}

func (f *fakeSource) ListAssets(ctx context.Context, assetType domain.AssetType) ([]marketdata.Asset, error) {
	return nil, nil
}

func (f *fakeSource) GetBars(ctx context.Context, code string, days int) ([]marketdata.Bar, error) {
	return nil, nil
}

func (f *fakeSource) GetFundamentals(ctx context.Context, code string) (*marketdata.Fundamentals, error) {
	return nil, nil
}

func (f *fakeSource) GetNAVHistory(ctx context.Context, code string) ([]marketdata.NAVPoint, error) {
	if err, ok := f.navErr[code]; ok {
		return nil, err
	}
	// An unknown code yields an empty history, like the real source.
	return f.navs[code], nil
}

func (f *fakeSource) GetHoldings(ctx context.Context, code string) ([]marketdata.Holding, error) {
	if err, ok := f.holdingsErr[code]; ok {
		return nil, err
	}
	return f.holdings[code], nil
}

func (f *fakeSource) GetManager(ctx context.Context, code string) (*marketdata.Manager, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeSource) GetBenchmark(ctx context.Context, code string) (*marketdata.FundBenchmark, error) {
	return nil, errors.New("not implemented")
}

func dailyNAVs(start string, values []float64) []marketdata.NAVPoint {
	base, _ := time.Parse(dateLayout, start)
	navs := make([]marketdata.NAVPoint, len(values))
	for i, v := range values {
		navs[i] = marketdata.NAVPoint{Date: base.AddDate(0, 0, i).Format(dateLayout), Value: v}
	}
	return navs
}

func TestAlignPreservesGaps(t *testing.T) {
	bundle := Align(map[string][]marketdata.NAVPoint{
		"X": {
			{Date: "2025-03-03", Value: 1.00},
			{Date: "2025-03-05", Value: 1.02},
		},
		"Y": {
			{Date: "2025-03-04", Value: 2.00},
			{Date: "2025-03-05", Value: 2.05},
		},
	})

	require.Equal(t, []string{"2025-03-03", "2025-03-04", "2025-03-05"}, bundle.Dates)

	x := bundle.Series["X"]
	require.Len(t, x, 3)
	assert.Equal(t, 1.00, *x[0])
	assert.Nil(t, x[1], "no fabricated point for a missing date")
	assert.Equal(t, 1.02, *x[2])

	y := bundle.Series["Y"]
	require.Len(t, y, 3)
	assert.Nil(t, y[0])
	assert.Equal(t, 2.00, *y[1])
	assert.Equal(t, 2.05, *y[2])
}

func TestAlignEmpty(t *testing.T) {
	bundle := Align(map[string][]marketdata.NAVPoint{})
	assert.Empty(t, bundle.Dates)
	assert.Empty(t, bundle.Series)
}

func TestTrailingReturnsShortHistory(t *testing.T) {
	// Two months of history: 1m anchor exists, longer horizons stay nil.
	values := make([]float64, 60)
	for i := range values {
		values[i] = 1.0 + 0.001*float64(i)
	}
	row := TrailingReturns("F1", dailyNAVs("2025-01-01", values))

	require.NotNil(t, row.OneMonth)
	assert.Greater(t, *row.OneMonth, 0.0)
	assert.Nil(t, row.ThreeMonths)
	assert.Nil(t, row.SixMonths)
	assert.Nil(t, row.OneYear)
	assert.Nil(t, row.ThreeYears)
}

func TestTrailingReturnsUsesNearestAnchor(t *testing.T) {
	// Latest is 2025-06-30; the 1m horizon start 2025-05-30 has no NAV, so
	// the anchor falls back to 2025-05-28.
	navs := []marketdata.NAVPoint{
		{Date: "2025-05-28", Value: 100},
		{Date: "2025-06-02", Value: 104},
		{Date: "2025-06-30", Value: 110},
	}
	row := TrailingReturns("F1", navs)

	require.NotNil(t, row.OneMonth)
	assert.InDelta(t, 10.0, *row.OneMonth, 1e-9)
}

func TestTrailingReturnsEmptyHistory(t *testing.T) {
	row := TrailingReturns("F1", nil)
	assert.Equal(t, "F1", row.Code)
	assert.Nil(t, row.OneMonth)
}

func TestRiskMetricsRisingFund(t *testing.T) {
	values := make([]float64, 300)
	for i := range values {
		values[i] = 1.0 * (1 + 0.0004*float64(i))
	}
	risk := RiskMetrics("F1", dailyNAVs("2024-06-01", values), 0, 252)

	assert.Equal(t, "F1", risk.Code)
	require.NotNil(t, risk.Sharpe)
	assert.Greater(t, *risk.Sharpe, 0.0)
	require.NotNil(t, risk.MaxDrawdown)
	assert.Equal(t, 0.0, *risk.MaxDrawdown, "monotonic rise never draws down")
	require.NotNil(t, risk.AnnualizedReturn)
	assert.Greater(t, *risk.AnnualizedReturn, 0.0)
	assert.Nil(t, risk.Calmar, "undefined without a drawdown")
}

func TestOverlap(t *testing.T) {
	holdings := map[string][]marketdata.Holding{
		"F1": {{StockCode: "AAA"}, {StockCode: "BBB"}, {StockCode: "CCC"}},
		"F2": {{StockCode: "AAA"}, {StockCode: "BBB"}},
		"F3": {{StockCode: "AAA"}, {StockCode: "DDD"}},
	}

	overlap := Overlap(holdings)
	require.Len(t, overlap, 2)

	assert.Equal(t, "AAA", overlap[0].StockCode)
	assert.Equal(t, 3, overlap[0].Count)
	assert.Equal(t, []string{"F1", "F2", "F3"}, overlap[0].HeldBy)

	assert.Equal(t, "BBB", overlap[1].StockCode)
	assert.Equal(t, 2, overlap[1].Count)
	assert.Equal(t, []string{"F1", "F2"}, overlap[1].HeldBy)
}

func TestOverlapNoSharedHoldings(t *testing.T) {
	overlap := Overlap(map[string][]marketdata.Holding{
		"F1": {{StockCode: "AAA"}},
		"F2": {{StockCode: "BBB"}},
	})
	assert.Empty(t, overlap)
}

func TestOverlapCountTieBrokenByCode(t *testing.T) {
	overlap := Overlap(map[string][]marketdata.Holding{
		"F1": {{StockCode: "ZZZ"}, {StockCode: "AAA"}},
		"F2": {{StockCode: "ZZZ"}, {StockCode: "AAA"}},
	})
	require.Len(t, overlap, 2)
	assert.Equal(t, "AAA", overlap[0].StockCode)
	assert.Equal(t, "ZZZ", overlap[1].StockCode)
}

func TestRankFundsOrdering(t *testing.T) {
	risk := []domain.RiskRow{
		{
			Code:             "GOOD",
			Sharpe:           domain.Value(2.0),
			MaxDrawdown:      domain.Value(5.0),
			Volatility:       domain.Value(8.0),
			AnnualizedReturn: domain.Value(15.0),
		},
		{
			Code:             "BAD",
			Sharpe:           domain.Value(0.2),
			MaxDrawdown:      domain.Value(30.0),
			Volatility:       domain.Value(25.0),
			AnnualizedReturn: domain.Value(2.0),
		},
	}

	ranking := RankFunds(risk, map[string]float64{"GOOD": 0, "BAD": 0})
	require.Len(t, ranking, 2)
	assert.Equal(t, "GOOD", ranking[0].Code)
	assert.Equal(t, 1, ranking[0].Rank)
	assert.Equal(t, "BAD", ranking[1].Code)
	assert.Equal(t, 2, ranking[1].Rank)
	assert.Greater(t, ranking[0].Score, ranking[1].Score)
}

func TestRankFundsOverlapPenaltyBreaksSymmetry(t *testing.T) {
	same := func(code string) domain.RiskRow {
		return domain.RiskRow{
			Code:             code,
			Sharpe:           domain.Value(1.0),
			MaxDrawdown:      domain.Value(10.0),
			Volatility:       domain.Value(12.0),
			AnnualizedReturn: domain.Value(8.0),
		}
	}

	ranking := RankFunds(
		[]domain.RiskRow{same("DUP"), same("UNIQ")},
		map[string]float64{"DUP": 0.8, "UNIQ": 0.1},
	)
	require.Len(t, ranking, 2)
	assert.Equal(t, "UNIQ", ranking[0].Code, "less duplicated fund ranks first")
}

func TestRankFundsTieBrokenByCode(t *testing.T) {
	same := func(code string) domain.RiskRow {
		return domain.RiskRow{Code: code, Sharpe: domain.Value(1.0)}
	}
	ranking := RankFunds(
		[]domain.RiskRow{same("MMM"), same("AAA")},
		map[string]float64{},
	)
	require.Len(t, ranking, 2)
	assert.Equal(t, "AAA", ranking[0].Code)
	assert.Equal(t, "MMM", ranking[1].Code)
}

func TestNormalizeMissingValuesEarnNothing(t *testing.T) {
	out := normalize([]*float64{domain.Value(10), nil, domain.Value(20)}, false)
	assert.Equal(t, []float64{0, 0, 1}, out)
}

func TestNormalizeAllEqual(t *testing.T) {
	out := normalize([]*float64{domain.Value(5), domain.Value(5)}, false)
	assert.Equal(t, []float64{0.5, 0.5}, out)
}

func newTestEngine(source marketdata.Source) *Engine {
	return NewEngine(source, 0, 252, zerolog.Nop())
}

func tradingNAVs(n int) []marketdata.NAVPoint {
	values := make([]float64, n)
	for i := range values {
		values[i] = 1.0 + 0.0005*float64(i)
	}
	return dailyNAVs("2024-09-01", values)
}

func TestCompareValidation(t *testing.T) {
	engine := newTestEngine(&fakeSource{})

	tests := []struct {
		name  string
		codes []string
	}{
		{"too few", []string{"F1"}},
		{"too many", []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K"}},
		{"duplicate", []string{"F1", "F1"}},
		{"empty code", []string{"F1", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Compare(context.Background(), tt.codes)
			assert.ErrorIs(t, err, domain.ErrInvalidComparison)
		})
	}
}

func TestCompareUnknownFundFailsWholeRequest(t *testing.T) {
	source := &fakeSource{
		navs: map[string][]marketdata.NAVPoint{"F1": tradingNAVs(100)},
	}
	_, err := newTestEngine(source).Compare(context.Background(), []string{"F1", "NOPE"})
	assert.ErrorIs(t, err, domain.ErrInvalidComparison)
	assert.Contains(t, err.Error(), "NOPE")
}

func TestCompareFetchFailureIsRetryableNotInvalid(t *testing.T) {
	source := &fakeSource{
		navs:   map[string][]marketdata.NAVPoint{"F1": tradingNAVs(100)},
		navErr: map[string]error{"F2": errors.New("upstream timeout")},
	}
	_, err := newTestEngine(source).Compare(context.Background(), []string{"F1", "F2"})
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
	assert.NotErrorIs(t, err, domain.ErrInvalidComparison)
}

func TestCompareFullPipeline(t *testing.T) {
	source := &fakeSource{
		navs: map[string][]marketdata.NAVPoint{
			"F1": tradingNAVs(200),
			"F2": tradingNAVs(200),
		},
		holdings: map[string][]marketdata.Holding{
			"F1": {{StockCode: "AAA", StockName: "Acme"}, {StockCode: "BBB"}},
			"F2": {{StockCode: "AAA", StockName: "Acme"}, {StockCode: "CCC"}},
		},
	}

	result, err := newTestEngine(source).Compare(context.Background(), []string{"F1", "F2"})
	require.NoError(t, err)

	assert.Equal(t, []string{"F1", "F2"}, result.Codes)
	assert.Len(t, result.NAV.Dates, 200)
	assert.Len(t, result.Returns, 2)
	assert.Len(t, result.Risk, 2)
	require.Len(t, result.Overlap, 1)
	assert.Equal(t, "AAA", result.Overlap[0].StockCode)
	assert.Equal(t, "Acme", result.Overlap[0].StockName)
	require.Len(t, result.Ranking, 2)
	assert.Equal(t, 1, result.Ranking[0].Rank)
	assert.False(t, result.ComputedAt.IsZero())
}

func TestCompareHoldingsFailureDegrades(t *testing.T) {
	source := &fakeSource{
		navs: map[string][]marketdata.NAVPoint{
			"F1": tradingNAVs(200),
			"F2": tradingNAVs(200),
		},
		holdingsErr: map[string]error{
			"F1": errors.New("disclosure feed down"),
			"F2": errors.New("disclosure feed down"),
		},
	}

	result, err := newTestEngine(source).Compare(context.Background(), []string{"F1", "F2"})
	require.NoError(t, err, "holdings are optional")
	assert.Empty(t, result.Overlap)
	require.Len(t, result.Ranking, 2)
}
