package icons

import (
	_ "embed"
	"os"
	"strings"
)

// bundled is a subset of Font Awesome Free's metadata/icon-families.json.
//
//go:embed data/icon-families.json
var bundled []byte

// Source yields raw icon-families.json bytes.
type Source func() ([]byte, error)

func Bundled() Source {
	return func() ([]byte, error) { return bundled, nil }
}

func File(path string) Source {
	return func() ([]byte, error) { return os.ReadFile(path) }
}

// SourceFor returns File(path) when path is set, else the bundled metadata.
func SourceFor(path string) Source {
	if p := strings.TrimSpace(path); p != "" {
		return File(p)
	}
	return Bundled()
}
