package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Scott-Hewitt/midi-tool-api/internal/engine"
	"github.com/Scott-Hewitt/midi-tool-api/internal/theory"
)

// PresetsHandler serves the name catalogs clients build their controls
// from. Every name returned here is accepted by the generation endpoints.
type PresetsHandler struct{}

func NewPresetsHandler() *PresetsHandler {
	return &PresetsHandler{}
}

func (h *PresetsHandler) ListPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"progressions":   theory.PresetNames(),
		"modes":          theory.ModeNames(),
		"rhythms":        engine.RhythmNames(),
		"contours":       engine.ContourNames(),
		"articulations":  engine.ArticulationNames(),
		"dynamics":       engine.DynamicsNames(),
		"bassPatterns":   engine.BassPatternNames(),
		"motifOperators": engine.MotifOperators(),
		"sections":       engine.SectionTags(),
	})
}
