package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/catonlyprep/stochsim/internal/stochastic"
)

type ExportData struct {
	Process string      `json:"process"`
	Dt      float64     `json:"dt"`
	Steps   int         `json:"steps"`
	Seed    int64       `json:"seed"`
	Partial bool        `json:"partial,omitempty"`
	Times   []float64   `json:"times"`
	States  [][]float64 `json:"states"`
}

func exportData(meta *RunMetadata, path *stochastic.Path) ExportData {
	data := ExportData{
		Process: meta.Process,
		Dt:      meta.Dt,
		Steps:   len(path.Times),
		Seed:    meta.Seed,
		Partial: meta.Partial,
		Times:   path.Times,
		States:  make([][]float64, len(path.States)),
	}
	for i, s := range path.States {
		data.States[i] = s
	}
	return data
}

func ExportJSON(w io.Writer, meta *RunMetadata, path *stochastic.Path) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData(meta, path))
}

func ExportJSONFile(filename string, meta *RunMetadata, path *stochastic.Path) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, path)
}
