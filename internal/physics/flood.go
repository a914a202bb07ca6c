package physics

import "strings"

// imperviousReductionTable gives the fractional reduction in impervious
// surface percent an intervention delivers (§4.2 urban flood depth).
var imperviousReductionTable = map[string]float64{
	"green_roof":          0.30,
	"permeable_pavement":  0.40,
	"bioswales":           0.25,
	"rain_gardens":        0.20,
	"sponge_city":         0.35,
	"none":                0.0,
}

// normalizeInterventionKey lowercases and collapses spaces to underscores so
// "Sponge City" and "sponge_city" resolve to the same table entry.
func normalizeInterventionKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "_")
}

// ImperviousReduction returns the fractional reduction an intervention
// applies to impervious surface percent; unknown interventions reduce
// nothing.
func ImperviousReduction(intervention string) float64 {
	if v, ok := imperviousReductionTable[normalizeInterventionKey(intervention)]; ok {
		return v
	}
	return 0
}

// UrbanFloodDepth returns flood depth in centimetres for a rain intensity
// (mm/hr), impervious surface percent (already intervention-adjusted), and
// slope percent. Consults a surrogate first, falling back to a closed-form
// approximation proportional to intensity and imperviousness and inversely
// to slope.
func UrbanFloodDepth(rainIntensityMMHr, imperviousPct, slopePct float64, reg Regressor) (depthCM float64, usedSurrogate bool) {
	if reg != nil {
		if v, err := reg.Predict([]float64{rainIntensityMMHr, imperviousPct, slopePct}); err == nil {
			if v < 0 {
				v = 0
			}
			return v, true
		}
	}
	slopeAttenuation := 1.0
	if slopePct > 0 {
		slopeAttenuation = 1 / (1 + slopePct/10)
	}
	depth := 0.25 * rainIntensityMMHr * imperviousPct * slopeAttenuation
	if depth < 0 {
		depth = 0
	}
	return depth, false
}

// huizingaDepths / huizingaDamages are the piecewise depth(cm)->damage(%)
// curve.
var huizingaDepths = []float64{0, 5, 15, 30, 60}
var huizingaDamages = []float64{0, 2, 8, 20, 40}

const huizingaMaxDamagePct = 70

// HuizingaDamagePct linearly interpolates the depth-damage curve. Beyond the
// top breakpoint (60 cm) it extends the last segment's slope, capped at 70%.
func HuizingaDamagePct(depthCM float64) float64 {
	if depthCM <= huizingaDepths[0] {
		return huizingaDamages[0]
	}
	last := len(huizingaDepths) - 1
	if depthCM >= huizingaDepths[last] {
		// Extrapolate the final segment's slope, capped at the max.
		slope := (huizingaDamages[last] - huizingaDamages[last-1]) / (huizingaDepths[last] - huizingaDepths[last-1])
		extrapolated := huizingaDamages[last] + slope*(depthCM-huizingaDepths[last])
		if extrapolated > huizingaMaxDamagePct {
			return huizingaMaxDamagePct
		}
		return extrapolated
	}
	for i := 1; i <= last; i++ {
		if depthCM <= huizingaDepths[i] {
			x0, x1 := huizingaDepths[i-1], huizingaDepths[i]
			y0, y1 := huizingaDamages[i-1], huizingaDamages[i]
			frac := (depthCM - x0) / (x1 - x0)
			return y0 + frac*(y1-y0)
		}
	}
	return huizingaMaxDamagePct
}

// FlashFloodFootprint computes the dynamic TWI threshold and the flooded
// urban area (km²) for a rain-intensity increase, grown from a
// location-seeded baseline in [50,150] km².
func FlashFloodFootprint(lat, lon, rainIntensityPct float64) (twiThreshold, floodedAreaKM2 float64) {
	twiThreshold = 12 * (1 - rainIntensityPct*0.07/100)
	baseline := locationSeededBaseline(lat, lon)
	floodedAreaKM2 = baseline * (1 + 0.02*rainIntensityPct)
	return twiThreshold, floodedAreaKM2
}

// locationSeededBaseline derives a deterministic baseline area in
// [50,150] km² from a coordinate so repeated calls for the same point are
// reproducible without external state.
func locationSeededBaseline(lat, lon float64) float64 {
	seed := (lat*1000 + lon*7919)
	frac := seed - floorFloat(seed)
	if frac < 0 {
		frac += 1
	}
	return 50 + frac*100
}

func floorFloat(v float64) float64 {
	i := int64(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return float64(i)
}
