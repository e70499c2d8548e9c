package grid

// Cursor is a write position scoped to one Buffer. Visibility is tracked
// separately from position.
type Cursor struct {
	X, Y    int
	Visible bool
}

// MoveBy moves the cursor relative to its current position.
func (c *Cursor) MoveBy(dx, dy int) {
	c.X += dx
	c.Y += dy
}

// SetPosition moves the cursor to an absolute position.
func (c *Cursor) SetPosition(x, y int) {
	c.X, c.Y = x, y
}

// NewLine moves the cursor to the start of the next row.
func (c *Cursor) NewLine() {
	c.Y++
	c.X = 0
}

func (c *Cursor) Show() { c.Visible = true }
func (c *Cursor) Hide() { c.Visible = false }
