// assets/embed.go
//
// Embedded default word catalog for the solver.
// words.csv holds one "word,repeat_propensity" row per line (header first).

package assets

import (
	"embed"
	"io/fs"
)

//go:embed words.csv
var FS embed.FS

// WordsCSV opens the embedded default catalog.
func WordsCSV() (fs.File, error) {
	return FS.Open("words.csv")
}
