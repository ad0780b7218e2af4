package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"fv-simulator/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PresetHandler serves the parameter presets kept as YAML files.
type PresetHandler struct {
	dir string
	log *logrus.Logger
}

// NewPresetHandler creates a preset handler reading from dir.
func NewPresetHandler(dir string, log *logrus.Logger) *PresetHandler {
	// Convert to absolute path for reliability
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	log.WithField("dir", dir).Info("[Presets] Using presets directory")
	return &PresetHandler{dir: dir, log: log}
}

// ListPresets handles GET /api/v1/params/presets
func (h *PresetHandler) ListPresets(c *gin.Context) {
	presets, skipped, err := config.LoadPresets(h.dir)
	if err != nil {
		if os.IsNotExist(err) {
			h.log.WithField("dir", h.dir).Warn("[Presets] Directory does not exist")
		} else {
			h.log.WithError(err).Error("[Presets] Failed to read directory")
		}
		c.JSON(http.StatusOK, gin.H{"presets": []config.Preset{}})
		return
	}
	for name, err := range skipped {
		h.log.WithError(err).WithField("file", name).Warn("[Presets] Skipping invalid preset")
	}
	if presets == nil {
		presets = []config.Preset{}
	}
	c.JSON(http.StatusOK, gin.H{"presets": presets})
}

// find resolves a preset id for the calculate endpoint.
func (h *PresetHandler) find(id string) (config.Preset, bool) {
	p, ok, err := config.FindPreset(h.dir, id)
	if err != nil {
		h.log.WithError(err).Warn("[Presets] Lookup failed")
		return config.Preset{}, false
	}
	return p, ok
}
