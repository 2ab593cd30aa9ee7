package bounds

import (
	"testing"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/tree"
	"pgregory.net/rapid"
)

func TestComputeEmpty(t *testing.T) {
	if got := Compute(nil, 170, 190, -70); got != Unit {
		t.Errorf("Compute(nil) = %+v, want %+v", got, Unit)
	}
}

func TestComputeSingle(t *testing.T) {
	got := Compute([]Point{{X: 0, Y: 0}}, 170, 190, -70)
	want := Rect{X: -85, Y: -70, Width: 170, Height: 190}
	if got != want {
		t.Errorf("Compute = %+v, want %+v", got, want)
	}
}

func TestComputeUnion(t *testing.T) {
	pts := []Point{{X: -260, Y: 300}, {X: 0, Y: 0}, {X: 260, Y: 300}}
	got := Compute(pts, 170, 190, -70)
	want := Rect{X: -345, Y: -70, Width: 690, Height: 490}
	if got != want {
		t.Errorf("Compute = %+v, want %+v", got, want)
	}
}

func TestRectHelpers(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}
	if r.MaxX() != 110 || r.MaxY() != 70 {
		t.Errorf("MaxX/MaxY = %v/%v", r.MaxX(), r.MaxY())
	}
	if c := r.Center(); c != (Point{X: 60, Y: 45}) {
		t.Errorf("Center = %+v", c)
	}
	if !r.Contains(Rect{X: 10, Y: 20, Width: 100, Height: 50}) {
		t.Error("rect should contain itself")
	}
	if r.Contains(Rect{X: 0, Y: 20, Width: 10, Height: 10}) {
		t.Error("rect should not contain a box to its left")
	}
	if !r.Intersects(Rect{X: 100, Y: 60, Width: 50, Height: 50}) {
		t.Error("overlapping rects should intersect")
	}
	if r.Intersects(Rect{X: 110, Y: 20, Width: 5, Height: 5}) {
		t.Error("touching edges do not intersect")
	}
	u := r.Union(Rect{X: -10, Y: 0, Width: 5, Height: 5})
	if u != (Rect{X: -10, Y: 0, Width: 120, Height: 70}) {
		t.Errorf("Union = %+v", u)
	}
}

func TestComputeCoversEveryCard(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 60).Draw(t, "n")
		pts := make([]Point, n)
		for i := range pts {
			pts[i] = Point{
				X: rapid.Float64Range(-1e5, 1e5).Draw(t, "x"),
				Y: rapid.Float64Range(-1e5, 1e5).Draw(t, "y"),
			}
		}
		card := Card{
			Width:   rapid.Float64Range(1, 500).Draw(t, "w"),
			Height:  rapid.Float64Range(1, 500).Draw(t, "h"),
			OffsetY: rapid.Float64Range(-300, 300).Draw(t, "off"),
		}

		box := ComputeCard(pts, card)
		const eps = 1e-6
		for i, p := range pts {
			c := card.Rect(p)
			if c.X < box.X-eps || c.Y < box.Y-eps || c.MaxX() > box.MaxX()+eps || c.MaxY() > box.MaxY()+eps {
				t.Fatalf("card %d %+v not inside bounds %+v", i, c, box)
			}
		}
	})
}

func TestForDepths(t *testing.T) {
	root := &family.PersonRecord{
		ID: "root", Name: "Root",
		Children: []family.PersonRecord{
			{ID: "a", Name: "A", Children: []family.PersonRecord{{ID: "c", Name: "C"}}},
			{ID: "b", Name: "B"},
		},
	}
	tr, err := tree.Build(root)
	if err != nil {
		t.Fatal(err)
	}
	// Pre-order: root, a, c, b
	pts := []Point{{X: 0, Y: 0}, {X: -130, Y: 300}, {X: -1000, Y: 600}, {X: 130, Y: 300}}
	card := Card{Width: 170, Height: 190, OffsetY: -70}

	got := ForDepths(tr, pts, 0, 1, card)
	want := Rect{X: -215, Y: -70, Width: 430, Height: 490}
	if got != want {
		t.Errorf("ForDepths(0,1) = %+v, want %+v", got, want)
	}

	if got := ForDepths(tr, pts, 5, 9, card); got != Unit {
		t.Errorf("ForDepths beyond max depth = %+v, want Unit", got)
	}
}

func TestSelectSkipsUnknown(t *testing.T) {
	pts := []Point{{X: 0, Y: 0}}
	card := Card{Width: 10, Height: 10}
	got := Select(pts, []tree.NodeID{0, 7, -1}, card)
	if got != (Rect{X: -5, Y: 0, Width: 10, Height: 10}) {
		t.Errorf("Select = %+v", got)
	}
}
