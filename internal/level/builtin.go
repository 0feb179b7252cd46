package level

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Builtin parses the embedded level documents, in filename order. These
// ship with the binary so the game runs without any levels directory.
func Builtin() ([]*Document, error) {
	names, err := fs.Glob(builtinFS, "builtin/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("level: glob builtin levels: %w", err)
	}
	sort.Strings(names)

	docs := make([]*Document, 0, len(names))
	for _, name := range names {
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("level: read builtin %s: %w", name, err)
		}
		doc, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("level: builtin %s: %w", name, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
