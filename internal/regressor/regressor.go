// Package regressor loads the optional surrogate models (trained offline,
// e.g. a coastal run-up emulator) that the physics kernels consult ahead of
// their closed-form fallbacks. A missing model is not an error condition in
// itself; it only becomes MODEL_NOT_AVAILABLE when a caller asks to Predict
// against it.
package regressor

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/atlasrisk/engine/internal/atlaserr"
)

// Regressor is a trained linear surrogate: y = intercept + sum(coef[i]*x[i]).
// Coastal run-up, the one surrogate SPEC_FULL.md names, is shaped this way;
// the interface is kept general so future kernels can register surrogates of
// their own under a different Name.
type Regressor interface {
	Name() string
	Predict(features []float64) (float64, error)
}

// linearModel is the on-disk representation produced by the offline
// training job: a JSON document of feature names, coefficients and an
// intercept.
type linearModel struct {
	ModelName   string    `json:"name"`
	Features    []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept   float64   `json:"intercept"`
}

type loadedRegressor struct {
	model linearModel
}

func (r *loadedRegressor) Name() string { return r.model.ModelName }

func (r *loadedRegressor) Predict(features []float64) (float64, error) {
	if len(features) != len(r.model.Coefficients) {
		return 0, atlaserr.New(atlaserr.InvalidInput, "REGRESSOR_FEATURE_MISMATCH",
			"feature vector length does not match model coefficients")
	}
	y := r.model.Intercept
	for i, c := range r.model.Coefficients {
		y += c * features[i]
	}
	return y, nil
}

// Registry resolves a named surrogate model, loading it lazily from disk on
// first use and caching the result for the process lifetime.
type Registry struct {
	dir    string
	cache  map[string]Regressor
	missed map[string]bool
}

// NewRegistry builds a Registry that loads models from dir (config's
// SurrogateModelDir). dir need not exist; every lookup then reports
// MODEL_NOT_AVAILABLE.
func NewRegistry(dir string) *Registry {
	return &Registry{dir: dir, cache: map[string]Regressor{}, missed: map[string]bool{}}
}

// Get resolves a named model (e.g. "coastal_runup_v1"). Returns an
// atlaserr.Error of kind MODEL_NOT_AVAILABLE if the model file is absent or
// malformed; callers should treat this as "fall back to the closed-form
// kernel", not as a request failure.
func (r *Registry) Get(name string) (Regressor, error) {
	if reg, ok := r.cache[name]; ok {
		return reg, nil
	}
	if r.missed[name] {
		return nil, atlaserr.New(atlaserr.ModelNotAvailable, "SURROGATE_NOT_FOUND",
			"surrogate model "+name+" is not available")
	}

	path := filepath.Join(r.dir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		r.missed[name] = true
		return nil, atlaserr.New(atlaserr.ModelNotAvailable, "SURROGATE_NOT_FOUND",
			"surrogate model "+name+" is not available")
	}

	var model linearModel
	if err := json.Unmarshal(data, &model); err != nil {
		r.missed[name] = true
		return nil, atlaserr.Wrap(atlaserr.ModelNotAvailable, "SURROGATE_MALFORMED", err)
	}

	reg := &loadedRegressor{model: model}
	r.cache[name] = reg
	return reg, nil
}
