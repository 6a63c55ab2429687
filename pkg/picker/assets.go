package picker

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// Glyph is the opaque artwork handle of a tile. The picker never looks inside
// Data; decoding and drawing belong to the renderer.
type Glyph struct {
	Name    string
	Data    []byte
	Missing bool
}

// AssetLoader supplies the glyph of each tile. It is called once per tile at
// session start and owns failure handling (report, fall back).
type AssetLoader interface {
	Load(index int) Glyph
}

// GlyphName is the file name of tile index's artwork ("1.svg" for tile 0).
func GlyphName(index int) string {
	return strconv.Itoa(index+1) + ".svg"
}

// DirLoader loads glyph files from a directory.
type DirLoader struct {
	Dir    string
	Logger *slog.Logger
}

// Load reads Dir/<index+1>.svg. A file that can't be read yields a placeholder
// glyph marked Missing.
func (l DirLoader) Load(index int) Glyph {
	name := GlyphName(index)
	path := filepath.Join(l.Dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		if l.Logger != nil {
			l.Logger.Warn("tile glyph unavailable, using placeholder", "tile", index, "path", path, "error", err)
		}
		return Glyph{Name: name, Missing: true}
	}
	return Glyph{Name: name, Data: data}
}

// nopLoader hands out empty placeholders.
type nopLoader struct{}

func (nopLoader) Load(index int) Glyph {
	return Glyph{Name: GlyphName(index), Missing: true}
}
