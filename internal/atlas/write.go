package atlas

import (
	"fmt"
	"image"
	"os"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// WriteImage encodes img to path in the given format ("webp" or "tga").
func WriteImage(path, format string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("atlas: create %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case "webp":
		if err := nativewebp.Encode(f, img, nil); err != nil {
			return fmt.Errorf("atlas: webp encode %s: %w", path, err)
		}
	case "tga":
		if err := tga.Encode(f, img); err != nil {
			return fmt.Errorf("atlas: tga encode %s: %w", path, err)
		}
	default:
		return fmt.Errorf("atlas: unknown format %q", format)
	}
	return nil
}
