package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fv-simulator/internal/model"
)

// Preset is a named set of project parameters kept as a YAML file.
type Preset struct {
	ID     string              `json:"id"`
	Name   string              `json:"name"`
	File   string              `json:"file"`
	Params model.ProjectParams `json:"params"`
}

// LoadPresets reads every *.yaml file in dir. Fields a preset leaves out take
// the default parameters. Invalid files are skipped and reported in skipped.
func LoadPresets(dir string) (presets []Preset, skipped map[string]error, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	skipped = map[string]error{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		w, err := readParamsFile(path)
		if err != nil {
			skipped[entry.Name()] = err
			continue
		}
		params := MergeParams(model.DefaultParams(), w.Params)
		if err := params.Validate(); err != nil {
			skipped[entry.Name()] = fmt.Errorf("%s: %w", path, err)
			continue
		}

		// e.g. "residencial.yaml" -> "residencial"
		id := strings.TrimSuffix(entry.Name(), ".yaml")
		name := w.Name
		if name == "" {
			name = id
		}
		presets = append(presets, Preset{ID: id, Name: name, File: path, Params: params})
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].ID < presets[j].ID })
	return presets, skipped, nil
}

// FindPreset returns the preset with the given id.
func FindPreset(dir, id string) (Preset, bool, error) {
	presets, _, err := LoadPresets(dir)
	if err != nil {
		return Preset{}, false, err
	}
	for _, p := range presets {
		if p.ID == id {
			return p, true, nil
		}
	}
	return Preset{}, false, nil
}
