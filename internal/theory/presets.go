package theory

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/Scott-Hewitt/midi-tool-api/pkg/embedded"
)

// DefaultPreset is the progression preset used when a requested preset name
// is unknown.
const DefaultPreset = "pop"

var (
	presetOnce  sync.Once
	presets     map[string][]string
	presetError error
)

func loadPresets() {
	presetOnce.Do(func() {
		presets = make(map[string][]string)
		if err := json.Unmarshal(embedded.ProgressionsJSON, &presets); err != nil {
			presetError = fmt.Errorf("decoding embedded progressions: %w", err)
		}
	})
}

// PresetProgression looks up an embedded progression template by name. The
// second return reports whether the name was known; unknown names return the
// default preset's template.
func PresetProgression(name string) ([]string, bool) {
	loadPresets()
	if presetError != nil {
		return []string{"I", "IV", "V", "I"}, false
	}
	if tpl, ok := presets[name]; ok {
		return append([]string(nil), tpl...), true
	}
	tpl := presets[DefaultPreset]
	return append([]string(nil), tpl...), false
}

// PresetNames returns the embedded progression preset names, sorted.
func PresetNames() []string {
	loadPresets()
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
