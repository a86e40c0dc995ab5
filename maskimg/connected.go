package maskimg

import (
	"sort"

	"github.com/theodesp/unionfind"
)

// Two-pass connected-component labeling with 4-connectivity, following
// http://aishack.in/tutorials/connected-component-labelling/

type Coord struct {
	X, Y int
}

type ConnectedComponent struct {
	Value       uint8
	ComponentID uint32
	PixelCount  int
	Bounds      struct {
		TopLeft     Coord
		BottomRight Coord
	}
}

type Connected struct {
	mask       *Mask
	labels     [][]uint32
	components map[uint32]*ConnectedComponent
}

// NewConnected labels every connected region of the mask. Both foreground
// and background regions are labeled; adjacency requires equal binary
// value.
func NewConnected(m *Mask) *Connected {
	w, h := m.Width(), m.Height()

	out := &Connected{
		mask:   m,
		labels: make([][]uint32, h),
	}
	for y := range out.labels {
		out.labels[y] = make([]uint32, w)
	}

	uf := unionfind.NewThreadSafeUnionFind(w*h + 1)

	var nextLabel uint32 = 1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {

			// See if we already labeled an adjacent pixel.
			found := false
			foundUp, valUp := out.labelAbove(x, y)
			if foundUp {
				found = true
				out.labels[y][x] = valUp
			}

			// If the left pixel's label is lower than that of the top
			// pixel, use the left pixel instead - plus now we know these
			// two labels need to be joined.
			foundLeft, val := out.labelLeft(x, y)
			if foundLeft {
				found = true
				if foundUp {
					if val < out.labels[y][x] {
						out.labels[y][x] = val

						uf.Union(int(val), int(valUp))
					} else {
						uf.Union(int(valUp), int(val))
					}
				} else {
					out.labels[y][x] = val
				}
			}

			if found {
				continue
			}

			// If not, it gets its own label
			out.labels[y][x] = nextLabel
			nextLabel++
		}
	}

	// Now reconcile the adjacent labels
	for y, row := range out.labels {
		for x, v := range row {
			if root := uf.Root(int(v)); root < 0 {
				// No adjacent labels
				continue
			} else if root32 := uint32(root); root32 < v {
				out.labels[y][x] = root32
			}
		}
	}

	// Collect per-component pixel counts and bounding boxes
	out.components = make(map[uint32]*ConnectedComponent)
	for y, row := range out.labels {
		for x, v := range row {
			comp, exists := out.components[v]
			if !exists {
				comp = &ConnectedComponent{
					Value:       m.At(x, y),
					ComponentID: v,
				}
				comp.Bounds.TopLeft = Coord{X: x, Y: y}
				comp.Bounds.BottomRight = Coord{X: x, Y: y}
				out.components[v] = comp
			}

			comp.PixelCount++
			if x < comp.Bounds.TopLeft.X {
				comp.Bounds.TopLeft.X = x
			}
			if y < comp.Bounds.TopLeft.Y {
				comp.Bounds.TopLeft.Y = y
			}
			if x > comp.Bounds.BottomRight.X {
				comp.Bounds.BottomRight.X = x
			}
			if y > comp.Bounds.BottomRight.Y {
				comp.Bounds.BottomRight.Y = y
			}
		}
	}

	return out
}

// Components returns every labeled region, ordered by component ID.
func (c *Connected) Components() []ConnectedComponent {
	out := make([]ConnectedComponent, 0, len(c.components))
	for _, comp := range c.components {
		out = append(out, *comp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ComponentID < out[j].ComponentID
	})

	return out
}

// ForegroundComponents returns only the foreground regions.
func (c *Connected) ForegroundComponents() []ConnectedComponent {
	var out []ConnectedComponent
	for _, comp := range c.Components() {
		if comp.Value == Foreground {
			out = append(out, comp)
		}
	}

	return out
}

func (c *Connected) labelAbove(x, y int) (bool, uint32) {
	if y == 0 {
		return false, 0
	}

	if c.mask.At(x, y) != c.mask.At(x, y-1) {
		return false, 0
	}

	return true, c.labels[y-1][x]
}

func (c *Connected) labelLeft(x, y int) (bool, uint32) {
	if x == 0 {
		return false, 0
	}

	if c.mask.At(x, y) != c.mask.At(x-1, y) {
		return false, 0
	}

	return true, c.labels[y][x-1]
}
