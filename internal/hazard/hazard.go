// Package hazard implements the HazardProvider contract: it returns
// weather, terrain, coastal, monthly climatology, and land-cover samples for
// a coordinate, falling back to deterministic parametric values whenever
// the upstream is unavailable. Provider calls never surface transport
// errors to the core; a failure always returns a tagged fallback sample.
package hazard

import (
	"context"
	"math"
	"time"

	"github.com/sony/gobreaker"

	"github.com/atlasrisk/engine/internal/models"
)

// Window is the time span a Weather query covers. It is passed to the
// upstream only; the fallback path ignores it.
type Window struct {
	Days int
}

// Upstream is the real transport this provider wraps (e.g. Google Earth
// Engine via a STAC/GEE collaborator). It is free to fail; the provider
// never lets that failure reach the core.
type Upstream interface {
	Weather(ctx context.Context, lat, lon float64, w Window) (maxTempC, totalRainMM float64, err error)
	Terrain(ctx context.Context, lat, lon float64) (elevationM, soilPH, slopePct float64, err error)
	Coastal(ctx context.Context, lat, lon float64) (maxWaveHeightM float64, err error)
	Monthly(ctx context.Context, lat, lon float64) (rainMM, soilMoisturePct [12]float64, err error)
	NDVI(ctx context.Context, lat, lon float64) (series [12]float64, err error)
}

// Provider is the HazardProvider implementation: a circuit-breaker wrapped
// upstream client with a deterministic parametric fallback. Upstream may be
// nil, in which case every call takes the fallback path (ATLAS_USE_MOCK_DATA).
type Provider struct {
	upstream Upstream
	breaker  *gobreaker.CircuitBreaker
}

// New constructs a Provider. Pass a nil upstream to force fallback-only
// operation (ATLAS_USE_MOCK_DATA=1).
func New(upstream Upstream) *Provider {
	settings := gobreaker.Settings{
		Name:        "hazard-upstream",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &Provider{upstream: upstream, breaker: gobreaker.NewCircuitBreaker(settings)}
}

// Sample fetches a full HazardSample for a coordinate, merging whichever
// sub-queries succeed upstream with parametric fallbacks for the rest.
func (p *Provider) Sample(ctx context.Context, lat, lon float64) models.HazardSample {
	s := models.HazardSample{Provenance: models.ProvenanceFallbackClimZn}

	maxTemp, totalRain, provW := p.weather(ctx, lat, lon)
	elevation, soilPH, slope, provT := p.terrain(ctx, lat, lon)
	wave, provC := p.coastal(ctx, lat, lon)
	rainMonthly, soilMonthly, provM := p.monthly(ctx, lat, lon)
	ndvi, provN := p.ndvi(ctx, lat, lon)

	s.MaxTempCelsius = maxTemp
	s.TotalRainMM = totalRain
	s.ElevationM = elevation
	s.SoilPH = soilPH
	s.SlopePct = slope
	s.MaxWaveHeightM = wave
	s.MonthlyRainMM = rainMonthly
	s.MonthlySoilMoist = soilMonthly
	s.NDVI = ndvi
	s.HumidityPct = humidityFromRain(totalRain)

	// Provenance is upstream only if every sub-query succeeded upstream;
	// otherwise the sample is tagged with the weakest provenance observed.
	s.Provenance = weakest(provW, provT, provC, provM, provN)
	return s
}

func weakest(ps ...models.Provenance) models.Provenance {
	rank := map[models.Provenance]int{
		models.ProvenanceUpstream:       0,
		models.ProvenanceFallbackParam:  1,
		models.ProvenanceFallbackClimZn: 1,
	}
	worst := models.ProvenanceUpstream
	for _, p := range ps {
		if rank[p] > rank[worst] {
			worst = p
		}
	}
	return worst
}

// humidityFromRain derives relative humidity from rainfall thresholds since
// it is never observed directly.
func humidityFromRain(totalRainMM float64) float64 {
	switch {
	case totalRainMM < 500:
		return 50
	case totalRainMM < 1000:
		return 65
	default:
		return 80
	}
}

// climateZoneWeather returns the parametric fallback keyed on |lat|.
func climateZoneWeather(lat float64) (maxTempC, totalRainMM float64) {
	abs := math.Abs(lat)
	switch {
	case abs < 23.5:
		return 28.5, 1800
	case abs < 35:
		return 25, 900
	case abs < 50:
		return 20, 700
	default:
		return 15, 500
	}
}

func (p *Provider) weather(ctx context.Context, lat, lon float64) (maxTempC, totalRainMM float64, prov models.Provenance) {
	if p.upstream == nil {
		maxTempC, totalRainMM = climateZoneWeather(lat)
		return maxTempC, totalRainMM, models.ProvenanceFallbackClimZn
	}
	res, err := p.breaker.Execute(func() (any, error) {
		t, r, err := p.upstream.Weather(ctx, lat, lon, Window{Days: 30})
		if err != nil {
			return nil, err
		}
		return [2]float64{t, r}, nil
	})
	if err != nil {
		maxTempC, totalRainMM = climateZoneWeather(lat)
		return maxTempC, totalRainMM, models.ProvenanceFallbackClimZn
	}
	pair := res.([2]float64)
	return pair[0], pair[1], models.ProvenanceUpstream
}

func (p *Provider) terrain(ctx context.Context, lat, lon float64) (elevationM, soilPH, slopePct float64, prov models.Provenance) {
	if p.upstream == nil {
		return fallbackTerrain(lat, lon), 6.5, 5.0, models.ProvenanceFallbackParam
	}
	res, err := p.breaker.Execute(func() (any, error) {
		e, ph, sl, err := p.upstream.Terrain(ctx, lat, lon)
		if err != nil {
			return nil, err
		}
		return [3]float64{e, ph, sl}, nil
	})
	if err != nil {
		return fallbackTerrain(lat, lon), 6.5, 5.0, models.ProvenanceFallbackParam
	}
	t := res.([3]float64)
	return t[0], t[1], t[2], models.ProvenanceUpstream
}

// fallbackTerrain derives a deterministic elevation from coordinates so
// repeated calls for the same point are reproducible.
func fallbackTerrain(lat, lon float64) float64 {
	return 50 + math.Mod(math.Abs(lat*lon), 500)
}

func (p *Provider) coastal(ctx context.Context, lat, lon float64) (maxWaveHeightM float64, prov models.Provenance) {
	if p.upstream == nil {
		return 1.5, models.ProvenanceFallbackParam
	}
	res, err := p.breaker.Execute(func() (any, error) {
		return p.upstream.Coastal(ctx, lat, lon)
	})
	if err != nil {
		return 1.5, models.ProvenanceFallbackParam
	}
	return res.(float64), models.ProvenanceUpstream
}

func (p *Provider) monthly(ctx context.Context, lat, lon float64) (rain, soil [12]float64, prov models.Provenance) {
	if p.upstream == nil {
		return fallbackMonthly(lat)
	}
	res, err := p.breaker.Execute(func() (any, error) {
		r, s, err := p.upstream.Monthly(ctx, lat, lon)
		if err != nil {
			return nil, err
		}
		return [2][12]float64{r, s}, nil
	})
	if err != nil {
		r, s, _ := fallbackMonthly(lat)
		return r, s, models.ProvenanceFallbackParam
	}
	pair := res.([2][12]float64)
	return pair[0], pair[1], models.ProvenanceUpstream
}

// fallbackMonthly generates a smooth seasonal cycle whose annual total is
// keyed on |lat|; every latitude peaks in the same month (index 3, April).
func fallbackMonthly(lat float64) (rain, soil [12]float64, prov models.Provenance) {
	_, annualRain := climateZoneWeather(lat)
	monthly := annualRain / 12
	for m := 0; m < 12; m++ {
		seasonal := 1 + 0.4*math.Sin(2*math.Pi*float64(m)/12)
		rain[m] = monthly * seasonal
		soil[m] = 30 + 20*seasonal
	}
	return rain, soil, models.ProvenanceFallbackParam
}

func (p *Provider) ndvi(ctx context.Context, lat, lon float64) (series [12]float64, prov models.Provenance) {
	if p.upstream == nil {
		return ndviMockSeries(lat), models.ProvenanceFallbackParam
	}
	res, err := p.breaker.Execute(func() (any, error) {
		return p.upstream.NDVI(ctx, lat, lon)
	})
	if err != nil {
		return ndviMockSeries(lat), models.ProvenanceFallbackParam
	}
	return res.([12]float64), models.ProvenanceUpstream
}

// ndviMockSeries is the supplemented deterministic NDVI fallback
// (original_source api.py _ndvi_mock_series): a smooth seasonal greenness
// curve in [-1,1], peaking mid-growing-season.
func ndviMockSeries(lat float64) [12]float64 {
	var series [12]float64
	baseline := 0.35 + 0.1*math.Cos(lat*math.Pi/180)
	for m := 0; m < 12; m++ {
		series[m] = baseline + 0.25*math.Sin(2*math.Pi*float64(m)/12+math.Pi/2)
		if series[m] > 1 {
			series[m] = 1
		}
		if series[m] < -1 {
			series[m] = -1
		}
	}
	return series
}
