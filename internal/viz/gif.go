package viz

import (
	"image"
	"image/color"
	"image/gif"
	"os"
)

var gifPalette = color.Palette{
	color.RGBA{10, 10, 10, 255},
	color.RGBA{255, 48, 48, 255},
	color.RGBA{48, 112, 255, 255},
	color.RGBA{80, 80, 80, 255},
}

// CanvasToImage rasterizes the canvas, one 4x4 block per dot, colored by the
// cell's charge color.
func CanvasToImage(c *Canvas) *image.Paletted {
	charW, charH := 8, 16
	dotW, dotH := charW/2, charH/4
	img := image.NewPaletted(image.Rect(0, 0, c.Width*charW, c.Height*charH), gifPalette)

	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			r := c.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			idx := paletteIndex(c.Colors[row][col])
			baseX, baseY := col*charW, row*charH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, idx)
						}
					}
				}
			}
		}
	}
	return img
}

func paletteIndex(c CellColor) uint8 {
	switch c {
	case ColorPositive:
		return 1
	case ColorNegative:
		return 2
	}
	return 3
}

// SaveGIF writes frames as a looping animation at 50 fps.
func SaveGIF(path string, frames []*image.Paletted) error {
	if len(frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
