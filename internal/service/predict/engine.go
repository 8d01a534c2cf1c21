package predict

import (
	"encoding/json"
	"io"
	"math"

	"github.com/sumeshhesums/ml-deployment-platform/internal/app_errors"
	"github.com/sumeshhesums/ml-deployment-platform/internal/models"
)

// artifact is the platform's JSON artifact format: a weight vector plus an
// intercept. Weights are applied positionally to a numeric vector input, or
// by name when Features is set and the input is a feature map.
type artifact struct {
	Features  []string  `json:"features,omitempty"`
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// Input is either a positional vector or a named feature map, mirroring the
// two request shapes the predict endpoint accepts.
type Input struct {
	Vector   []float64
	Features map[string]float64
}

type evaluator func(a artifact, in Input) (float64, error)

var evaluators = map[string]evaluator{
	models.FrameworkLinear:   evalLinear,
	models.FrameworkLogistic: evalLogistic,
}

// Evaluate decodes an artifact for the declared framework and scores one
// input. The framework is taken at the uploader's word; there is no format
// sniffing beyond the declared kind.
func Evaluate(framework string, r io.Reader, in Input) (float64, error) {
	eval, ok := evaluators[framework]
	if !ok {
		return 0, app_errors.ErrUnsupportedFramework
	}

	var a artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return 0, app_errors.ErrBadArtifact
	}
	if len(a.Weights) == 0 {
		return 0, app_errors.ErrBadArtifact
	}
	if len(a.Features) > 0 && len(a.Features) != len(a.Weights) {
		return 0, app_errors.ErrBadArtifact
	}

	return eval(a, in)
}

func dot(a artifact, in Input) (float64, error) {
	switch {
	case in.Vector != nil:
		if len(in.Vector) != len(a.Weights) {
			return 0, app_errors.ErrBadInput
		}
		sum := a.Intercept
		for i, w := range a.Weights {
			sum += w * in.Vector[i]
		}
		return sum, nil
	case in.Features != nil:
		if len(a.Features) == 0 {
			return 0, app_errors.ErrBadInput
		}
		sum := a.Intercept
		for i, name := range a.Features {
			v, ok := in.Features[name]
			if !ok {
				return 0, app_errors.ErrBadInput
			}
			sum += a.Weights[i] * v
		}
		return sum, nil
	default:
		return 0, app_errors.ErrBadInput
	}
}

func evalLinear(a artifact, in Input) (float64, error) {
	return dot(a, in)
}

func evalLogistic(a artifact, in Input) (float64, error) {
	z, err := dot(a, in)
	if err != nil {
		return 0, err
	}
	return 1 / (1 + math.Exp(-z)), nil
}
