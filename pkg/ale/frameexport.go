package ale

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/pkg/errors"
)

// RAMFrameExporter renders a Simulator's current RAM snapshot as a
// grayscale PNG, one pixel per RAM byte widened into a square tile. It is
// the only screen-like artifact available through the Simulator contract
// (which exposes RAM, not a pixel buffer), so it is what the agent shell
// dumps when frame export is enabled.
type RAMFrameExporter struct {
	// TileSize is how many pixels wide/tall each RAM byte is rendered as.
	// Zero defaults to 8.
	TileSize int
}

const ramFrameColumns = 16 // 128 bytes laid out as a 16x8 grid

// ExportFrame writes sim's current RAM as a PNG to path.
func (e RAMFrameExporter) ExportFrame(sim Simulator, path string) error {
	tile := e.TileSize
	if tile <= 0 {
		tile = 8
	}

	ram := sim.RAM()
	rows := len(ram) / ramFrameColumns
	img := image.NewGray(image.Rect(0, 0, ramFrameColumns*tile, rows*tile))

	for i, b := range ram {
		row := i / ramFrameColumns
		col := i % ramFrameColumns
		for dy := 0; dy < tile; dy++ {
			for dx := 0; dx < tile; dx++ {
				img.SetGray(col*tile+dx, row*tile+dy, color.Gray{Y: b})
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "ale: creating frame export file %q", path)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return errors.Wrapf(err, "ale: encoding frame export PNG %q", path)
	}
	return nil
}
