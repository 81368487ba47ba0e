// Package world provides the flat 2D field the economy plays out on:
// citizen and box positions, distance and nearest-of queries, and box
// node placement. It knows nothing about prices or trade.
package world

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Position is a point on the field.
type Position struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Distance returns the Euclidean distance between two positions.
func Distance(a, b Position) float64 {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// BoxID is a unique identifier for a box node on the field.
type BoxID uint64

// BoxNode is a gatherable unit of the resource lying on the field.
type BoxNode struct {
	ID       BoxID    `json:"id"`
	Position Position `json:"position"`
}

// boxClusterFrequency scales field coordinates into noise space. Lower
// values make larger, sparser clusters.
const boxClusterFrequency = 0.08

// Field is a square region of radius Radius centered on the origin.
type Field struct {
	Radius float64

	rng    *rand.Rand
	noise  opensimplex.Noise
	boxes  map[BoxID]*BoxNode
	nextID BoxID
}

// NewField creates an empty field with the given half-width and seed.
func NewField(radius float64, seed int64) *Field {
	return &Field{
		Radius: radius,
		rng:    rand.New(rand.NewSource(seed)),
		noise:  opensimplex.New(seed),
		boxes:  make(map[BoxID]*BoxNode),
		nextID: 1,
	}
}

// RandomPosition returns a uniformly random position on the field.
func (f *Field) RandomPosition() Position {
	return Position{
		X: f.rng.Float64()*f.Radius*2 - f.Radius,
		Z: f.rng.Float64()*f.Radius*2 - f.Radius,
	}
}

// ScatterBoxes places count box nodes on the field. Placement is weighted
// by a simplex noise density field so boxes form clusters, which makes
// travel-cost differences between citizens meaningful.
func (f *Field) ScatterBoxes(count int) {
	placed := 0
	for placed < count {
		p := f.RandomPosition()
		density := (f.noise.Eval2(p.X*boxClusterFrequency, p.Z*boxClusterFrequency) + 1) / 2
		if f.rng.Float64() > 0.15+0.85*density {
			continue
		}
		f.AddBox(p)
		placed++
	}
}

// AddBox places a single box node at the given position.
func (f *Field) AddBox(p Position) *BoxNode {
	box := &BoxNode{ID: f.nextID, Position: p}
	f.nextID++
	f.boxes[box.ID] = box
	return box
}

// RemoveBox removes a box node, returning false if it was already gone.
// A false return means another citizen picked it up first.
func (f *Field) RemoveBox(id BoxID) bool {
	if _, ok := f.boxes[id]; !ok {
		return false
	}
	delete(f.boxes, id)
	return true
}

// Box returns the box node with the given ID, or nil.
func (f *Field) Box(id BoxID) *BoxNode {
	return f.boxes[id]
}

// BoxCount returns the number of box nodes left on the field.
func (f *Field) BoxCount() int {
	return len(f.boxes)
}

// NearestBox returns the box node closest to from, or false when the
// field is empty.
func (f *Field) NearestBox(from Position) (*BoxNode, bool) {
	var nearest *BoxNode
	best := math.Inf(1)
	for _, box := range f.boxes {
		d := Distance(from, box.Position)
		if d < best {
			best = d
			nearest = box
		}
	}
	return nearest, nearest != nil
}
