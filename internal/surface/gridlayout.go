package surface

import (
	"fmt"
	"sort"

	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/cellframe/internal/cell"
)

// Grid is a static rows × cols layout. Space is split evenly; the last
// row and column absorb the remainder. Every child is laid out at exactly
// its cell's size.
type Grid struct {
	owner

	rows, cols int
	cells      []*Context // row-major
	colX       []int      // left edge of each column, plus the right edge
	rowY       []int
	limits     Limits
	size       Size
}

// NewGrid builds a grid from children in row-major order. It fails with
// ErrLayoutMismatch unless len(children) == rows*cols and both are positive.
func NewGrid(rows, cols int, children ...Surface) (*Grid, error) {
	if rows < 1 || cols < 1 || len(children) != rows*cols {
		return nil, fmt.Errorf("%w: %d children for a %dx%d grid", ErrLayoutMismatch, len(children), rows, cols)
	}
	g := &Grid{rows: rows, cols: cols, cells: make([]*Context, 0, len(children))}
	for i, child := range children {
		ctx, err := Bind(g, child)
		if err != nil {
			for _, bound := range g.cells {
				bound.detach()
			}
			return nil, fmt.Errorf("grid cell %d: %w", i, err)
		}
		ctx.Watch(func() { ctx.Resize() })
		g.cells = append(g.cells, ctx)
	}
	return g, nil
}

// Dims returns the row and column counts.
func (g *Grid) Dims() (rows, cols int) { return g.rows, g.cols }

// SetCell replaces the child at (row, col), disposing the old one.
func (g *Grid) SetCell(row, col int, child Surface) error {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return fmt.Errorf("%w: cell (%d,%d) outside %dx%d grid", ErrLayoutMismatch, row, col, g.rows, g.cols)
	}
	ctx := g.cells[row*g.cols+col]
	if err := ctx.Rebind(child); err != nil {
		return err
	}
	ctx.Resize()
	return nil
}

func splits(total, n int) []int {
	edges := make([]int, n+1)
	step := total / n
	for i := 1; i < n; i++ {
		edges[i] = i * step
	}
	edges[n] = total
	return edges
}

func (g *Grid) Resize(limits Limits) Size {
	g.limits = limits.Normalize()
	w := g.limits.BoundedWidth()
	h := g.limits.BoundedHeight()
	g.colX = splits(w, g.cols)
	g.rowY = splits(h, g.rows)
	for i, ctx := range g.cells {
		r, c := i/g.cols, i%g.cols
		cellSize := Size{Width: g.colX[c+1] - g.colX[c], Height: g.rowY[r+1] - g.rowY[r]}
		ctx.SetLimits(Fixed(cellSize))
		ctx.SetOffset(g.colX[c], g.rowY[r])
		ctx.Resize()
	}
	g.size = g.limits.Clamp(Size{Width: w, Height: h})
	return g.size
}

func (g *Grid) Size() Size { return g.size }

// locate returns the band index containing v, or -1.
func locate(edges []int, v int) int {
	if len(edges) < 2 || v < 0 || v >= edges[len(edges)-1] {
		return -1
	}
	i := sort.SearchInts(edges, v+1) - 1
	// Zero-width bands share an edge; take the last band starting at or before v.
	return min(i, len(edges)-2)
}

func (g *Grid) CellAt(p Position) cell.Cell {
	c := locate(g.colX, p.X)
	r := locate(g.rowY, p.Y)
	if c < 0 || r < 0 {
		return cell.Empty()
	}
	return g.cells[r*g.cols+c].CellAt(p)
}

func (g *Grid) HandlesInput() bool {
	for _, ctx := range g.cells {
		if ctx.Child().HandlesInput() {
			return true
		}
	}
	return false
}

func (g *Grid) OnInput(msg tea.Msg) bool {
	for _, ctx := range g.cells {
		if c := ctx.Child(); c.HandlesInput() && c.OnInput(msg) {
			return true
		}
	}
	return false
}

func (g *Grid) Children() []Surface {
	out := make([]Surface, len(g.cells))
	for i, ctx := range g.cells {
		out[i] = ctx.Child()
	}
	return out
}

func (g *Grid) Dispose() {
	for _, ctx := range g.cells {
		ctx.Release()
	}
}
