package layer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"ship-editor/internal/points"
	"ship-editor/pkg/colorutil"
	"ship-editor/pkg/geometry"
)

// Sprite is the hull image a layer's points are placed over. Layer space is
// the sprite's pixel grid with the origin at its top-left corner.
type Sprite struct {
	Path  string
	Image image.Image
}

// LoadSprite decodes a PNG, JPEG or TIFF sprite.
func LoadSprite(path string) (*Sprite, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sprite: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sprite: %w", err)
	}
	return &Sprite{Path: path, Image: img}, nil
}

// Size returns the sprite dimensions in pixels.
func (s *Sprite) Size() geometry.Size {
	if s == nil || s.Image == nil {
		return geometry.Size{}
	}
	b := s.Image.Bounds()
	return geometry.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
}

// Center returns the middle of the sprite in layer space.
func (s *Sprite) Center() geometry.Point2D {
	size := s.Size()
	return geometry.Point2D{X: size.Width / 2, Y: size.Height / 2}
}

// WorldBounds returns the pixel rectangle the sprite covers after the layer
// transform, so a canvas of these bounds holds the whole rendered layer even
// for a negative anchor or a rotation. It is empty without a sprite.
func (l *ShipLayer) WorldBounds() image.Rectangle {
	if l.Sprite == nil || l.Sprite.Image == nil {
		return image.Rectangle{}
	}
	size := l.Sprite.Size()
	corners := []geometry.Point2D{
		{X: 0, Y: 0},
		{X: size.Width, Y: 0},
		{X: size.Width, Y: size.Height},
		{X: 0, Y: size.Height},
	}
	for i, c := range corners {
		corners[i] = l.LayerToWorld(c)
	}
	box := geometry.BoundingBox(corners)
	return image.Rect(
		int(math.Floor(box.X)), int(math.Floor(box.Y)),
		int(math.Ceil(box.X+box.Width)), int(math.Ceil(box.Y+box.Height)),
	)
}

// RoleColors are the marks Render uses per point role.
var RoleColors = map[points.Kind]color.RGBA{
	points.KindBound:        colorutil.Cyan,
	points.KindWeaponSlot:   colorutil.Yellow,
	points.KindEngine:       colorutil.Orange,
	points.KindLaunchPort:   colorutil.Green,
	points.KindShipCenter:   colorutil.Magenta,
	points.KindShieldCenter: colorutil.Blue,
}

// inactiveDim darkens marks of painters shown while not taking input.
const inactiveDim = 0.5

// Render draws the layer sprite into dst using the layer transform, then
// marks each visible point with a single pixel in its role color. Painters
// shown only when active are skipped while inactive; always-shown painters
// are dimmed while inactive. It returns false when the layer has no sprite.
func (l *ShipLayer) Render(dst draw.Image) bool {
	if l.Sprite == nil || l.Sprite.Image == nil {
		return false
	}
	src := l.Sprite.Image
	xdraw.BiLinear.Transform(dst, l.SpriteTransform(), src, src.Bounds(), xdraw.Over, nil)

	for _, painter := range l.Painters() {
		mark := RoleColors[painter.Kind()]
		switch painter.Visibility() {
		case points.Hidden:
			continue
		case points.ShownWhenActive:
			if !painter.InteractionEnabled() {
				continue
			}
		case points.ShownAlways:
			if !painter.InteractionEnabled() {
				mark = colorutil.Dim(mark, inactiveDim)
			}
		}
		for _, p := range painter.Points() {
			w := l.LayerToWorld(p.Position())
			dst.Set(int(w.X), int(w.Y), mark)
		}
	}
	return true
}
