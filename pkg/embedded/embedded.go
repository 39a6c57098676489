package embedded

import (
	_ "embed"
)

// Embed preset data files
//
//go:embed data/progressions.json
var ProgressionsJSON []byte
