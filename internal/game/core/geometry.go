package core

import "math"

const sqrt3 = 1.7320508075688772

// Axial is a two-component hex coordinate. The third cube component is S = -Q-R.
type Axial struct {
	Q, R int
}

// S returns the implied third cube component
func (a Axial) S() int { return -a.Q - a.R }

func (a Axial) Add(o Axial) Axial { return Axial{Q: a.Q + o.Q, R: a.R + o.R} }
func (a Axial) Sub(o Axial) Axial { return Axial{Q: a.Q - o.Q, R: a.R - o.R} }

// Length is the hex distance from the origin
func (a Axial) Length() int {
	return max(abs(a.Q), abs(a.R), abs(a.S()))
}

// Pixel is a screen-space position in the same unit as the hex size
type Pixel struct {
	X, Y float64
}

// OffsetToAxial converts an odd-r offset coordinate to axial form.
// y-(y&1) is always even, so the division is exact for negative rows too.
func OffsetToAxial(c Coordinate) Axial {
	return Axial{
		Q: c.X - (c.Y-(c.Y&1))/2,
		R: c.Y,
	}
}

// AxialToOffset is the exact inverse of OffsetToAxial
func AxialToOffset(a Axial) Coordinate {
	return Coordinate{
		X: a.Q + (a.R-(a.R&1))/2,
		Y: a.R,
	}
}

// Distance returns the number of hex steps between two offset coordinates
func Distance(a, b Coordinate) int {
	return b.Axial().Sub(a.Axial()).Length()
}

// AxialToPixel returns the centre of a pointy-top hex whose corner radius is size
func AxialToPixel(a Axial, size float64) Pixel {
	return Pixel{
		X: size * sqrt3 * (float64(a.Q) + float64(a.R)/2),
		Y: size * 1.5 * float64(a.R),
	}
}

// OffsetToPixel returns the screen-space centre of the cell at c
func OffsetToPixel(c Coordinate, size float64) Pixel {
	return AxialToPixel(OffsetToAxial(c), size)
}

// PixelToAxial returns the hex containing the pixel p
func PixelToAxial(p Pixel, size float64) Axial {
	q := (sqrt3/3*p.X - p.Y/3) / size
	r := (2.0 / 3 * p.Y) / size
	return hexRound(q, r)
}

// PixelToOffset returns the offset coordinate of the hex containing p
func PixelToOffset(p Pixel, size float64) Coordinate {
	return AxialToOffset(PixelToAxial(p, size))
}

// hexRound rounds fractional cube coordinates to the nearest hex. The component
// with the largest rounding error is rebuilt from the other two.
func hexRound(fq, fr float64) Axial {
	fs := -fq - fr
	q, r, s := math.Round(fq), math.Round(fr), math.Round(fs)
	dq, dr, ds := math.Abs(q-fq), math.Abs(r-fr), math.Abs(s-fs)

	switch {
	case dq > dr && dq > ds:
		q = -r - s
	case dr > ds:
		r = -q - s
	}
	return Axial{Q: int(q), R: int(r)}
}

// RadiusToInner returns the flat-to-flat half width of a hex with the given corner radius
func RadiusToInner(radius float64) float64 {
	return radius * sqrt3 / 2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
