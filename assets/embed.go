// Package assets embeds the default dictionary shipped with the binary.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed words.txt
var FS embed.FS

// WordsFile is the name of the embedded default dictionary.
const WordsFile = "words.txt"

// OpenWords opens the embedded default dictionary.
func OpenWords() (fs.File, error) {
	return FS.Open(WordsFile)
}
