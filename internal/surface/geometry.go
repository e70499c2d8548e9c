package surface

import "math"

// Unbounded marks a limit with no upper bound.
const Unbounded = math.MaxInt32

// Position is a cell coordinate.
type Position struct {
	X, Y int
}

// Pos is shorthand for Position{x, y}.
func Pos(x, y int) Position {
	return Position{X: x, Y: y}
}

// Add returns p translated by q.
func (p Position) Add(q Position) Position {
	return Position{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Position) Sub(q Position) Position {
	return Position{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a width/height pair in cells.
type Size struct {
	Width, Height int
}

// Contains reports whether p lies in [0,Width)×[0,Height).
func (s Size) Contains(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < s.Width && p.Y < s.Height
}

// Empty reports whether the size covers no cells.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Shrink removes insets from s, clamping at zero. Unbounded stays unbounded.
func (s Size) Shrink(in Insets) Size {
	return Size{
		Width:  shrinkDim(s.Width, in.Horizontal()),
		Height: shrinkDim(s.Height, in.Vertical()),
	}
}

// Grow adds insets to s, saturating at Unbounded.
func (s Size) Grow(in Insets) Size {
	return Size{
		Width:  growDim(s.Width, in.Horizontal()),
		Height: growDim(s.Height, in.Vertical()),
	}
}

func shrinkDim(v, by int) int {
	if v >= Unbounded {
		return Unbounded
	}
	return max(0, v-by)
}

func growDim(v, by int) int {
	if v >= Unbounded-by {
		return Unbounded
	}
	return max(0, v+by)
}

// Limits is the size range a parent allows a child to occupy.
type Limits struct {
	Min, Max Size
}

// Fixed returns limits that admit exactly s.
func Fixed(s Size) Limits {
	return Limits{Min: s, Max: s}
}

// UpTo returns limits from zero to max.
func UpTo(max Size) Limits {
	return Limits{Max: max}
}

// Normalize clamps negative bounds to zero and lowers Min where it
// exceeds Max.
func (l Limits) Normalize() Limits {
	l.Min.Width = max(0, l.Min.Width)
	l.Min.Height = max(0, l.Min.Height)
	l.Max.Width = max(0, l.Max.Width)
	l.Max.Height = max(0, l.Max.Height)
	l.Min.Width = min(l.Min.Width, l.Max.Width)
	l.Min.Height = min(l.Min.Height, l.Max.Height)
	return l
}

// Clamp fits s into the limits.
func (l Limits) Clamp(s Size) Size {
	l = l.Normalize()
	return Size{
		Width:  max(l.Min.Width, min(s.Width, l.Max.Width)),
		Height: max(l.Min.Height, min(s.Height, l.Max.Height)),
	}
}

// Shrink removes insets from both bounds.
func (l Limits) Shrink(in Insets) Limits {
	return Limits{Min: l.Min.Shrink(in), Max: l.Max.Shrink(in)}.Normalize()
}

// BoundedWidth returns Max.Width, or Min.Width when the width is unbounded.
func (l Limits) BoundedWidth() int {
	if l.Max.Width >= Unbounded {
		return l.Min.Width
	}
	return l.Max.Width
}

// BoundedHeight returns Max.Height, or Min.Height when the height is unbounded.
func (l Limits) BoundedHeight() int {
	if l.Max.Height >= Unbounded {
		return l.Min.Height
	}
	return l.Max.Height
}

// Insets are per-edge cell counts.
type Insets struct {
	Left, Top, Right, Bottom int
}

// Uniform returns n on every edge.
func Uniform(n int) Insets {
	return Insets{Left: n, Top: n, Right: n, Bottom: n}
}

// Horizontal returns Left+Right.
func (in Insets) Horizontal() int { return in.Left + in.Right }

// Vertical returns Top+Bottom.
func (in Insets) Vertical() int { return in.Top + in.Bottom }

// Add sums two insets edge by edge.
func (in Insets) Add(o Insets) Insets {
	return Insets{
		Left:   in.Left + o.Left,
		Top:    in.Top + o.Top,
		Right:  in.Right + o.Right,
		Bottom: in.Bottom + o.Bottom,
	}
}

func (in Insets) clamp() Insets {
	return Insets{
		Left:   max(0, in.Left),
		Top:    max(0, in.Top),
		Right:  max(0, in.Right),
		Bottom: max(0, in.Bottom),
	}
}

// Rect is an axis-aligned cell rectangle.
type Rect struct {
	X, Y, Width, Height int
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Position) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X < r.X+r.Width && p.Y < r.Y+r.Height
}
