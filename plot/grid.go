package plot

import (
	"fmt"
	"image"

	"github.com/carbocation/pfx"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Grid tiles the images at paths, left to right and top to bottom, columns
// per row. Each image is scaled to cell pixels wide, keeping its aspect ratio.
func Grid(paths []string, outPath string, columns, cell int) error {
	if len(paths) == 0 {
		return fmt.Errorf("no images to tile")
	}
	if columns < 1 || cell < 1 {
		return fmt.Errorf("grid needs positive columns and cell width, got %d and %d", columns, cell)
	}
	if columns > len(paths) {
		columns = len(paths)
	}

	tiles := make([]image.Image, 0, len(paths))
	cellHeight := 0
	for _, path := range paths {
		img, err := imaging.Open(path)
		if err != nil {
			return pfx.Err(err)
		}

		tile := imaging.Resize(img, cell, 0, imaging.Lanczos)
		if h := tile.Bounds().Dy(); h > cellHeight {
			cellHeight = h
		}
		tiles = append(tiles, tile)
	}

	rows := (len(tiles) + columns - 1) / columns

	dc := gg.NewContext(columns*cell, rows*cellHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for i, tile := range tiles {
		dc.DrawImage(tile, (i%columns)*cell, (i/columns)*cellHeight)
	}

	return pfx.Err(dc.SavePNG(outPath))
}
