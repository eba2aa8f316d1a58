package factors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantdesk/advisor/internal/clients/marketdata"
	"github.com/quantdesk/advisor/internal/domain"
)

// fakeSource serves canned data and canned failures.
type fakeSource struct {
	bars         map[string][]marketdata.Bar
	fundamentals map[string]*marketdata.Fundamentals
	navs         map[string][]marketdata.NAVPoint
	managers     map[string]*marketdata.Manager
	benchmarks   map[string]*marketdata.FundBenchmark
	failing      map[string]error
	delay        time.Duration
}

func (f *fakeSource) ListAssets(ctx context.Context, assetType domain.AssetType) ([]marketdata.Asset, error) {
	return nil, nil
}

func (f *fakeSource) check(ctx context.Context, code string) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err, ok := f.failing[code]; ok {
		return err
	}
	return nil
}

func (f *fakeSource) GetBars(ctx context.Context, code string, days int) ([]marketdata.Bar, error) {
	if err := f.check(ctx, code); err != nil {
		return nil, err
	}
	return f.bars[code], nil
}

func (f *fakeSource) GetFundamentals(ctx context.Context, code string) (*marketdata.Fundamentals, error) {
	if err := f.check(ctx, code); err != nil {
		return nil, err
	}
	if fu, ok := f.fundamentals[code]; ok {
		return fu, nil
	}
	return &marketdata.Fundamentals{}, nil
}

func (f *fakeSource) GetNAVHistory(ctx context.Context, code string) ([]marketdata.NAVPoint, error) {
	if err := f.check(ctx, code); err != nil {
		return nil, err
	}
	return f.navs[code], nil
}

func (f *fakeSource) GetHoldings(ctx context.Context, code string) ([]marketdata.Holding, error) {
	return nil, nil
}

func (f *fakeSource) GetManager(ctx context.Context, code string) (*marketdata.Manager, error) {
	if m, ok := f.managers[code]; ok {
		return m, nil
	}
	return nil, errors.New("no manager record")
}

func (f *fakeSource) GetBenchmark(ctx context.Context, code string) (*marketdata.FundBenchmark, error) {
	if b, ok := f.benchmarks[code]; ok {
		return b, nil
	}
	return nil, errors.New("no benchmark")
}

func genBars(n int, startPrice float64) []marketdata.Bar {
	bars := make([]marketdata.Bar, n)
	price := startPrice
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		// Gentle rise with a repeating wiggle so indicators have texture.
		price *= 1 + 0.001 + 0.004*float64(i%5-2)/2
		bars[i] = marketdata.Bar{
			Date:      base.AddDate(0, 0, i).Format("2006-01-02"),
			Open:      price * 0.995,
			High:      price * 1.01,
			Low:       price * 0.99,
			Close:     price,
			Volume:    1e6 + 1e5*float64(i%7),
			NetInflow: 1e6 * float64(i%3-1),
		}
	}
	return bars
}

func genNAVs(n int, start float64) []marketdata.NAVPoint {
	navs := make([]marketdata.NAVPoint, n)
	value := start
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		value *= 1 + 0.0005 + 0.002*float64(i%4-2)/2
		navs[i] = marketdata.NAVPoint{
			Date:  base.AddDate(0, 0, i).Format("2006-01-02"),
			Value: value,
		}
	}
	return navs
}

func newTestService(source marketdata.Source) *Service {
	return NewService(source, 0, 252, zerolog.Nop())
}

func TestComputeStockShortFullHistory(t *testing.T) {
	bars := genBars(barHistoryDays, 100)
	fs := computeStockShort(bars)

	for _, name := range []string{
		FactorConsolidation, FactorVolumePrecursor, FactorMAConvergence,
		FactorNetInflow5D, FactorRSI, FactorAccumulation,
	} {
		require.True(t, fs.Present(name), "factor %s should be present", name)
	}

	// Sub-scores obey the 0-100 bound; the inflow factor is raw.
	for _, name := range []string{FactorConsolidation, FactorVolumePrecursor, FactorMAConvergence, FactorRSI} {
		v := *fs[name]
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 100.0, name)
	}

	flag := *fs[FactorAccumulation]
	assert.Contains(t, []float64{0, 1}, flag)
}

func TestComputeStockShortInsufficientHistory(t *testing.T) {
	fs := computeStockShort(genBars(10, 100))

	assert.False(t, fs.Present(FactorConsolidation))
	assert.False(t, fs.Present(FactorVolumePrecursor))
	assert.False(t, fs.Present(FactorMAConvergence))
	assert.False(t, fs.Present(FactorAccumulation))
	// 10 bars still cover a 5-day inflow window.
	assert.True(t, fs.Present(FactorNetInflow5D))
}

func TestComputeStockLongMissingFieldsStayAbsent(t *testing.T) {
	fs := computeStockLong(&marketdata.Fundamentals{
		ROE: domain.Value(18.5),
	})

	assert.True(t, fs.Present(FactorROE))
	assert.Equal(t, 18.5, *fs[FactorROE])
	assert.True(t, fs.Present(FactorQuality), "quality can score off ROE alone")
	assert.False(t, fs.Present(FactorPEG))
	assert.False(t, fs.Present(FactorGrowth))
	assert.False(t, fs.Present(FactorValuation))
	assert.False(t, fs.Present(FactorGrossMargin))
}

func TestComputeFundShort(t *testing.T) {
	fs := computeFundShort(genNAVs(120, 1.0), 0, 252)

	for _, name := range []string{FactorSharpe20D, FactorReturn1W, FactorReturn4W, FactorVol60D, FactorMomentum} {
		assert.True(t, fs.Present(name), "factor %s should be present", name)
	}

	momentum := *fs[FactorMomentum]
	assert.GreaterOrEqual(t, momentum, 0.0)
	assert.LessOrEqual(t, momentum, 100.0)
}

func TestComputeFundShortShortHistory(t *testing.T) {
	fs := computeFundShort(genNAVs(10, 1.0), 0, 252)

	assert.False(t, fs.Present(FactorSharpe20D))
	assert.False(t, fs.Present(FactorVol60D))
	assert.False(t, fs.Present(FactorMomentum))
	assert.True(t, fs.Present(FactorReturn1W), "a week of history is enough for the 1w return")
}

func TestComputeFundLongSecondaryInputsOptional(t *testing.T) {
	navs := genNAVs(300, 1.0)

	t.Run("with manager and benchmark", func(t *testing.T) {
		fs := computeFundLong(navs, &marketdata.Manager{Name: "W. Chen", TenureYears: 6.5},
			&marketdata.FundBenchmark{Returns: make([]float64, 299)}, 0, 252)
		assert.True(t, fs.Present(FactorTenure))
		assert.Equal(t, 6.5, *fs[FactorTenure])
		assert.True(t, fs.Present(FactorAlpha))
	})

	t.Run("without manager and benchmark", func(t *testing.T) {
		fs := computeFundLong(navs, nil, nil, 0, 252)
		assert.False(t, fs.Present(FactorTenure))
		assert.False(t, fs.Present(FactorAlpha))
		assert.True(t, fs.Present(FactorSharpe1Y), "nav-driven factors unaffected")
		assert.True(t, fs.Present(FactorMaxDD1Y))
	})
}

func TestServiceFetchFailureExcludesAsset(t *testing.T) {
	source := &fakeSource{
		failing: map[string]error{"BAD": errors.New("connection refused")},
	}
	svc := newTestService(source)

	_, err := svc.Compute(context.Background(), marketdata.Asset{Code: "BAD"},
		domain.Group{Horizon: domain.HorizonShort, AssetType: domain.AssetStock})
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestServiceEmptyHistoryExcludesAsset(t *testing.T) {
	source := &fakeSource{}
	svc := newTestService(source)

	_, err := svc.Compute(context.Background(), marketdata.Asset{Code: "EMPTY"},
		domain.Group{Horizon: domain.HorizonShort, AssetType: domain.AssetFund})
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestPoolPreservesOrderAndIsolatesFailures(t *testing.T) {
	source := &fakeSource{
		bars: map[string][]marketdata.Bar{
			"S1": genBars(barHistoryDays, 100),
			"S3": genBars(barHistoryDays, 50),
		},
		failing: map[string]error{"S2": errors.New("boom")},
	}
	pool := NewPool(newTestService(source), 4, time.Second)

	assets := []marketdata.Asset{{Code: "S1"}, {Code: "S2"}, {Code: "S3"}}
	results := pool.ComputeBatch(context.Background(), assets,
		domain.Group{Horizon: domain.HorizonShort, AssetType: domain.AssetStock})

	require.Len(t, results, 3)
	assert.Equal(t, "S1", results[0].Asset.Code)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "S2", results[1].Asset.Code)
	assert.ErrorIs(t, results[1].Err, domain.ErrDataUnavailable)
	assert.Equal(t, "S3", results[2].Asset.Code)
	assert.NoError(t, results[2].Err)
}

func TestPoolTimeoutDropsAssetNotRun(t *testing.T) {
	slow := &fakeSource{
		bars:  map[string][]marketdata.Bar{"SLOW": genBars(barHistoryDays, 100)},
		delay: 200 * time.Millisecond,
	}
	pool := NewPool(newTestService(slow), 2, 20*time.Millisecond)

	results := pool.ComputeBatch(context.Background(),
		[]marketdata.Asset{{Code: "SLOW"}},
		domain.Group{Horizon: domain.HorizonShort, AssetType: domain.AssetStock})

	require.Len(t, results, 1)
	assert.Error(t, results[0].Err, "timed-out asset carries an error and is dropped by the caller")
}

func TestPoolManyAssets(t *testing.T) {
	source := &fakeSource{bars: map[string][]marketdata.Bar{}}
	for i := 0; i < 40; i++ {
		source.bars[fmt.Sprintf("S%02d", i)] = genBars(barHistoryDays, 100)
	}
	pool := NewPool(newTestService(source), 8, time.Second)

	assets := make([]marketdata.Asset, 0, 40)
	for i := 0; i < 40; i++ {
		assets = append(assets, marketdata.Asset{Code: fmt.Sprintf("S%02d", i)})
	}

	results := pool.ComputeBatch(context.Background(), assets,
		domain.Group{Horizon: domain.HorizonShort, AssetType: domain.AssetStock})

	require.Len(t, results, 40)
	for i, r := range results {
		assert.Equal(t, assets[i].Code, r.Asset.Code, "result order matches input order")
		assert.NoError(t, r.Err)
	}
}
