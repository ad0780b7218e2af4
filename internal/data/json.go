package data

import (
	"fmt"
	"os"

	"fv-simulator/internal/model"
)

// LoadBundleJSON reads a saved calculator response from disk.
func LoadBundleJSON(path string) (*model.Bundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b, err := model.DecodeBundle(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrMalformedResponse, err)
	}
	return b, nil
}
