package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/vehsim/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	Times      []float64 `json:"times"`
	Positions  []float64 `json:"positions"`
	Velocities []float64 `json:"velocities"`
	Throttle   []float64 `json:"throttle"`
	Brake      []float64 `json:"brake"`
	Steer      []float64 `json:"steer"`
}

func ExportJSON(w io.Writer, meta RunMetadata, samples []dynamo.Sample) error {
	result := &dynamo.Result{Samples: samples}
	data := ExportData{
		RunMetadata: meta,
		Times:       result.Times(),
		Positions:   result.Positions(),
		Velocities:  result.Velocities(),
		Throttle:    make([]float64, len(samples)),
		Brake:       make([]float64, len(samples)),
		Steer:       make([]float64, len(samples)),
	}
	for i, s := range samples {
		data.Throttle[i] = s.Throttle
		data.Brake[i] = s.Brake
		data.Steer[i] = s.Steer
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
