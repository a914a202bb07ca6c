// Package spatial validates and measures GeoJSON polygon geometry: area,
// centroid, fractional hazard exposure, and monetary scaling. Area uses an
// equal-area approximation with a Shoelace/cos(mean-lat) fallback when no
// projection library is wired in.
package spatial

import (
	"math"

	"github.com/atlasrisk/engine/internal/atlaserr"
)

// Ring is a closed sequence of [lon, lat] coordinate pairs.
type Ring [][2]float64

// Geometry is a minimal GeoJSON Polygon/MultiPolygon carrier: one or more
// rings (outer boundary of each polygon, holes are ignored for area
// purposes since the spec only asks for gross area).
type Geometry struct {
	Type   string // "Polygon" | "MultiPolygon"
	Rings  []Ring
}

// Validate reports whether a parsed geometry is a usable Polygon or
// MultiPolygon with at least one ring of at least 3 points.
func Validate(geom Geometry) error {
	if geom.Type != "Polygon" && geom.Type != "MultiPolygon" {
		return atlaserr.Invalid("INVALID_GEOJSON", "geometry must be Polygon or MultiPolygon")
	}
	if len(geom.Rings) == 0 {
		return atlaserr.Invalid("INVALID_GEOJSON", "geometry has no rings")
	}
	for _, ring := range geom.Rings {
		if len(ring) < 3 {
			return atlaserr.Invalid("INVALID_GEOJSON", "ring has fewer than 3 points")
		}
	}
	return nil
}

const earthRadiusKM = 6371.0

// AreaKM2 computes geodesic area in square kilometres, summing per-ring
// area for MultiPolygon. Every ring goes through ringAreaKM2's planar
// Shoelace with a cos(mean-lat) correction; no spherical or equal-area
// projection is applied.
func AreaKM2(geom Geometry) float64 {
	var total float64
	for _, ring := range geom.Rings {
		total += ringAreaKM2(ring)
	}
	return total
}

// ringAreaKM2 projects a ring to an equirectangular plane scaled by the
// ring's mean latitude, then applies the Shoelace formula — the standard
// fallback this package always uses, since no third-party geodesy library
// is wired (see DESIGN.md).
func ringAreaKM2(ring Ring) float64 {
	if len(ring) < 3 {
		return 0
	}
	var sumLat float64
	for _, c := range ring {
		sumLat += c[1]
	}
	meanLat := sumLat / float64(len(ring))

	latToKM := 2 * math.Pi * earthRadiusKM / 360
	lonToKM := latToKM * math.Cos(meanLat*math.Pi/180)

	var area float64
	n := len(ring)
	for i := 0; i < n; i++ {
		x1, y1 := ring[i][0]*lonToKM, ring[i][1]*latToKM
		j := (i + 1) % n
		x2, y2 := ring[j][0]*lonToKM, ring[j][1]*latToKM
		area += x1*y2 - x2*y1
	}
	return math.Abs(area) / 2
}

// Centroid returns the coordinate mean (lat, lon) across all ring points.
// This is the fallback centroid the package always uses absent a
// proper equal-area centroid calculation.
func Centroid(geom Geometry) (lat, lon float64) {
	var sumLat, sumLon float64
	var n int
	for _, ring := range geom.Rings {
		for _, c := range ring {
			sumLon += c[0]
			sumLat += c[1]
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sumLat / float64(n), sumLon / float64(n)
}

// riskBaseExposure mirrors the mock-GEE base exposure table the spatial
// engine was distilled from.
var riskBaseExposure = map[string]float64{
	"flood":       0.45,
	"coastal":     0.35,
	"heat":        0.60,
	"drought":     0.40,
	"agriculture": 0.50,
}

// ExposureParams carries the scenario-intensity drivers that shift
// fractional exposure away from its risk-type baseline.
type ExposureParams struct {
	FloodDepthM    float64
	SLRProjectionM float64
	TempDeltaC     float64
}

// FractionalExposure computes a deterministic fraction in [0.05, 0.95] of a
// polygon's area exposed to a hazard, varying with the polygon's location,
// size, risk type, and scenario intensity.
func FractionalExposure(geom Geometry, riskType string, params ExposureParams) float64 {
	lat, lon := Centroid(geom)
	areaKM2 := AreaKM2(geom)

	locationSeed := math.Mod(math.Abs(lat)*100+math.Abs(lon)*100, 100)

	base, ok := riskBaseExposure[riskType]
	if !ok {
		base = 0.40
	}

	locationFactor := (locationSeed/100.0)*0.4 - 0.2

	var intensityFactor float64
	switch {
	case params.FloodDepthM > 0:
		intensityFactor = math.Min(params.FloodDepthM*0.15, 0.3)
	case params.SLRProjectionM > 0:
		intensityFactor = math.Min(params.SLRProjectionM*0.20, 0.3)
	case params.TempDeltaC > 0:
		intensityFactor = math.Min(params.TempDeltaC*0.10, 0.25)
	}

	sizeFactor := math.Min(areaKM2/100.0, 0.1) * (math.Mod(locationSeed, 10)/10.0 - 0.5)

	exposure := base + locationFactor + intensityFactor + sizeFactor
	return clip(exposure, 0.05, 0.95)
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Scaling is the monetary result of scaling an asset's value by fractional
// exposure and a damage factor.
type Scaling struct {
	ExposedValueUSD    float64
	ValueAtRiskUSD     float64
	ProtectedValueUSD  float64
}

// ScaleRisk applies fractional exposure and a damage factor to an asset
// value: value_at_risk = asset_value * exposure * damage_factor;
// protected_value = asset_value - exposed_value.
func ScaleRisk(assetValueUSD, fractionalExposure, damageFactor float64) Scaling {
	exposedValue := assetValueUSD * fractionalExposure
	return Scaling{
		ExposedValueUSD:   exposedValue,
		ValueAtRiskUSD:    exposedValue * damageFactor,
		ProtectedValueUSD: assetValueUSD - exposedValue,
	}
}
