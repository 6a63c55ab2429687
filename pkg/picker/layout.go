package picker

import (
	"math"

	"hexdial/pkg/wheel"
)

// TileSpacing is the angle between neighbouring tiles.
const TileSpacing = wheel.TwoPi / RingSize

// RegularPolyRadius is the circumradius of a regular polygon with numSides sides
// of length sideLen.
func RegularPolyRadius(sideLen float64, numSides int) float64 {
	return sideLen / (2 * math.Sin(math.Pi/float64(numSides)))
}

// WheelRadius is the distance from the hub to each tile centre.
func WheelRadius(edgeLength float64) float64 {
	return RegularPolyRadius(edgeLength, RingSize)
}

// TileIndex is the tile nearest to angle: round(angle/2π·n) mod n, always in
// [0, n). Halves round up.
func TileIndex(angle float64, n int) int {
	if n <= 0 {
		return 0
	}
	a := wheel.Normalize(angle)
	idx := int(math.Floor(a/wheel.TwoPi*float64(n) + 0.5))
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

// TileCenterAngle is the wheel angle at which tile index is exactly selected.
func TileCenterAngle(index int) float64 {
	return float64(index) / RingSize * wheel.TwoPi
}

// TilePolarAngle is where tile index sits around the hub for a given wheel
// angle. The selected tile is at polar angle 0.
func TilePolarAngle(index int, wheelAngle float64) float64 {
	return wheel.Normalize(wheelAngle - float64(index)*TileSpacing)
}

// TileOffset is the tile centre relative to the focus point, where the selected
// tile is drawn. The hub sits one radius to the right of the focus and tiles
// hang off it to the left.
func TileOffset(index int, wheelAngle, radius float64) (x, y float64) {
	theta := TilePolarAngle(index, wheelAngle) + math.Pi
	return radius + radius*math.Cos(theta), radius * math.Sin(theta)
}
