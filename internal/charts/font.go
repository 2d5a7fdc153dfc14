package charts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontOnce   sync.Once
	parsedFont *truetype.Font
	fontErr    error
)

// loadFace returns a Go Regular face of the given size. Go Regular covers
// Cyrillic, so product and department names render as-is. Faces are not
// safe for concurrent use; callers create their own.
func loadFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		parsedFont, fontErr = truetype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", fontErr)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

// faces bundles the faces used by one chart
type faces struct {
	title font.Face
	label font.Face
}

func newFaces() (*faces, error) {
	title, err := loadFace(22)
	if err != nil {
		return nil, err
	}
	label, err := loadFace(13)
	if err != nil {
		return nil, err
	}
	return &faces{title: title, label: label}, nil
}
