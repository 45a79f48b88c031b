package grid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ToPixel converts a grid coordinate to the pixel position of the cell's
// top-left corner.
func ToPixel(x, y, cellSize int) mgl64.Vec2 {
	return mgl64.Vec2{float64(x), float64(y)}.Mul(float64(cellSize))
}

// FromPixel returns the cell containing pixel position p.
func FromPixel(p mgl64.Vec2, cellSize int) (int, int) {
	cell := p.Mul(1 / float64(cellSize))
	return int(math.Floor(cell.X())), int(math.Floor(cell.Y()))
}
