package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/camboom/levels"
)

const defaultLayerColor = "#3c78ff"

// levelView draws a level's tile layers in level pixel space: x to the right,
// y down from the top row.
type levelView struct {
	level    *levels.Level
	tileSize float64

	// per-layer tile images built from LayerMeta.Color
	layerTileImgs []*ebiten.Image
}

func newLevelView(lvl *levels.Level, tileSize float64) *levelView {
	v := &levelView{level: lvl, tileSize: tileSize}
	size := int(tileSize)
	v.layerTileImgs = make([]*ebiten.Image, len(lvl.Layers))
	for i := range lvl.Layers {
		hex := defaultLayerColor
		if i < len(lvl.LayerMeta) && lvl.LayerMeta[i].Color != "" {
			hex = lvl.LayerMeta[i].Color
		}
		v.layerTileImgs[i] = layerImageFromHex(size, hex)
	}
	return v
}

// PixelSize is the level's extent in level pixels.
func (v *levelView) PixelSize() (float64, float64) {
	return float64(v.level.Width) * v.tileSize, float64(v.level.Height) * v.tileSize
}

// ToPixel maps a point on the world's X/Z plane to level pixels.
func (v *levelView) ToPixel(x, z float64) (float64, float64) {
	_, h := v.PixelSize()
	return x, h - z
}

// Draw renders every layer in order, offset by the view's top-left corner.
func (v *levelView) Draw(screen *ebiten.Image, camX, camY, zoom float64) {
	l := v.level
	for layer, tiles := range l.Layers {
		if len(tiles) != l.Width*l.Height {
			// malformed layer, skip
			continue
		}
		img := v.layerTileImgs[layer]
		for y := 0; y < l.Height; y++ {
			for x := 0; x < l.Width; x++ {
				if tiles[y*l.Width+x] == 0 {
					continue
				}
				op := &ebiten.DrawImageOptions{}
				op.GeoM.Translate(float64(x)*v.tileSize-camX, float64(y)*v.tileSize-camY)
				op.GeoM.Scale(zoom, zoom)
				screen.DrawImage(img, op)
			}
		}
	}
}

// layerImageFromHex creates an image filled with the provided hex color ("#rrggbb").
func layerImageFromHex(size int, hex string) *ebiten.Image {
	img := ebiten.NewImage(size, size)
	img.Fill(parseHexColor(hex))
	return img
}

// parseHexColor parses a color in the form #rrggbb. Returns opaque blue if parse fails.
func parseHexColor(s string) color.RGBA {
	var r, g, b uint8 = 0x00, 0x00, 0xff
	if len(s) == 7 && s[0] == '#' {
		var ri, gi, bi uint32
		if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &ri, &gi, &bi); err == nil {
			r = uint8(ri)
			g = uint8(gi)
			b = uint8(bi)
		}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
