package showroom

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-4

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// vecNear compares vectors component-wise with an absolute tolerance.
func vecNear(a, b mgl32.Vec3, eps float64) bool {
	for i := range a {
		if !approxEqual(float64(a[i]), float64(b[i]), eps) {
			return false
		}
	}
	return true
}

func TestRayIntersectTriangle(t *testing.T) {
	a := mgl32.Vec3{-1, -1, 0}
	b := mgl32.Vec3{1, -1, 0}
	c := mgl32.Vec3{0, 1, 0}

	tests := []struct {
		name  string
		ray   Ray
		want  bool
		wantT float32
	}{
		{"front hit", Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}}, true, 5},
		{"back hit", Ray{mgl32.Vec3{0, 0, -2}, mgl32.Vec3{0, 0, 1}}, true, 2},
		{"miss outside", Ray{mgl32.Vec3{3, 0, 5}, mgl32.Vec3{0, 0, -1}}, false, 0},
		{"behind origin", Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}}, false, 0},
		{"parallel", Ray{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.ray.IntersectTriangle(a, b, c)
			if ok != tt.want {
				t.Fatalf("ok = %v, want %v", ok, tt.want)
			}
			if ok && !approxEqual(float64(got), float64(tt.wantT), epsilon) {
				t.Errorf("t = %v, want %v", got, tt.wantT)
			}
		})
	}
}

func TestRayIntersectsBox(t *testing.T) {
	lo := mgl32.Vec3{-1, -1, -1}
	hi := mgl32.Vec3{1, 1, 1}
	if !(Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}}).IntersectsBox(lo, hi) {
		t.Error("ray through center should hit box")
	}
	if (Ray{mgl32.Vec3{3, 0, 5}, mgl32.Vec3{0, 0, -1}}).IntersectsBox(lo, hi) {
		t.Error("ray beside box should miss")
	}
	if (Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}}).IntersectsBox(lo, hi) {
		t.Error("box behind the ray should miss")
	}
	if !(Ray{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}}).IntersectsBox(lo, hi) {
		t.Error("ray starting inside box should hit")
	}
}

// quadAt creates a 2x2 quad facing +Z at depth z.
func quadAt(name string, z float32) *Node {
	n := NewMesh(name, NewPlaneGeometry(2, 2), nil)
	n.Position = mgl32.Vec3{0, 0, z}
	return n
}

func straightDown() Raycaster {
	return Raycaster{Ray: Ray{Origin: mgl32.Vec3{0, 0, 10}, Direction: mgl32.Vec3{0, 0, -1}}}
}

func TestIntersectObjectSortedNearestFirst(t *testing.T) {
	root := NewGroup("car")
	far := quadAt("far", 0)
	near := quadAt("near", 2)
	root.AddChild(far)
	root.AddChild(near)

	rc := straightDown()
	hits := rc.IntersectObject(root, true)
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
	if hits[0].Node != near || hits[1].Node != far {
		t.Errorf("order = [%v %v], want [near far]", hits[0].Node, hits[1].Node)
	}
	if !approxEqual(float64(hits[0].Distance), 8, epsilon) {
		t.Errorf("nearest distance = %v, want 8", hits[0].Distance)
	}
	if !approxEqual(float64(hits[0].Point[2]), 2, epsilon) {
		t.Errorf("nearest point z = %v, want 2", hits[0].Point[2])
	}
}

func TestIntersectObjectNonRecursive(t *testing.T) {
	root := quadAt("body", 0)
	root.AddChild(quadAt("child", 1))

	rc := straightDown()
	if hits := rc.IntersectObject(root, false); len(hits) != 1 {
		t.Errorf("non-recursive hits = %d, want 1", len(hits))
	}
	if hits := rc.IntersectObject(root, true); len(hits) != 2 {
		t.Errorf("recursive hits = %d, want 2", len(hits))
	}
}

func TestIntersectObjectRespectsParentTransform(t *testing.T) {
	root := NewGroup("car")
	root.Position = mgl32.Vec3{5, 0, 0}
	part := quadAt("door", 0)
	root.AddChild(part)

	rc := straightDown()
	if hits := rc.IntersectObject(root, true); len(hits) != 0 {
		t.Errorf("quad moved away with its parent; hits = %d, want 0", len(hits))
	}

	rc.Ray.Origin = mgl32.Vec3{5, 0, 10}
	if hits := rc.IntersectObject(root, true); len(hits) != 1 {
		t.Errorf("hits = %d, want 1", len(hits))
	}
}

func TestIntersectObjectScaledDistanceIsWorldSpace(t *testing.T) {
	n := quadAt("big", 0)
	n.Scale = mgl32.Vec3{3, 3, 3}

	rc := straightDown()
	hit, ok := rc.IntersectFirst(n)
	if !ok {
		t.Fatal("expected a hit")
	}
	if !approxEqual(float64(hit.Distance), 10, epsilon) {
		t.Errorf("distance = %v, want 10", hit.Distance)
	}
}

func TestIntersectObjectSmallScale(t *testing.T) {
	tests := []struct {
		name  string
		scale []float32
	}{
		{"millimetres", []float32{0.001}},
		{"nested", []float32{0.1, 0.01}},
		{"tiny", []float32{1e-4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A 1 m box authored at the inverse of the accumulated scale.
			total := float32(1)
			root := NewGroup("root")
			parent := root
			for _, s := range tt.scale {
				g := NewGroup("scaled")
				g.Scale = mgl32.Vec3{s, s, s}
				parent.AddChild(g)
				parent = g
				total *= s
			}
			size := 1 / total
			parent.AddChild(NewMesh("body", NewBoxGeometry(size, size, size), nil))

			rc := Raycaster{Ray: Ray{Origin: mgl32.Vec3{0, 0, 5}, Direction: mgl32.Vec3{0, 0, -1}}}
			hit, ok := rc.IntersectFirst(root)
			if !ok {
				t.Fatal("expected a hit on the scaled-down box")
			}
			if !approxEqual(float64(hit.Distance), 4.5, 1e-3) {
				t.Errorf("distance = %v, want 4.5", hit.Distance)
			}
		})
	}
}

func TestIntersectObjectZeroScale(t *testing.T) {
	n := quadAt("flat", 0)
	n.Scale = mgl32.Vec3{0, 0, 0}
	rc := straightDown()
	if _, ok := rc.IntersectFirst(n); ok {
		t.Error("zero-scale mesh should not be hit")
	}
}

func TestIntersectObjectSkipsInvisibleAndDisposed(t *testing.T) {
	root := NewGroup("car")
	hidden := quadAt("hidden", 1)
	hidden.Visible = false
	root.AddChild(hidden)
	root.AddChild(quadAt("shown", 0))

	rc := straightDown()
	hits := rc.IntersectObject(root, true)
	if len(hits) != 1 || hits[0].Node.Name != "shown" {
		t.Fatalf("hits = %v, want only shown", hits)
	}

	root.Dispose()
	if hits := rc.IntersectObject(root, true); len(hits) != 0 {
		t.Errorf("disposed root hits = %d, want 0", len(hits))
	}
}

func TestIntersectObjectEmptyAndNil(t *testing.T) {
	rc := straightDown()
	if hits := rc.IntersectObject(nil, true); len(hits) != 0 {
		t.Error("nil root should yield no hits")
	}
	if hits := rc.IntersectObject(NewGroup("empty"), true); len(hits) != 0 {
		t.Error("empty hierarchy should yield no hits")
	}
	if _, ok := rc.IntersectFirst(NewMesh("nogeom", NewGeometry(nil, nil), nil)); ok {
		t.Error("empty geometry should yield no hits")
	}
}

func TestIntersectObjectFarLimit(t *testing.T) {
	rc := straightDown()
	rc.Far = 5
	if _, ok := rc.IntersectFirst(quadAt("q", 0)); ok {
		t.Error("hit beyond Far should be rejected")
	}
}

func TestSetFromCameraCenterRay(t *testing.T) {
	cfg := DefaultConfig().Camera
	cfg.Position = mgl32.Vec3{0, 0, 10}
	cam := NewCamera(cfg, 800, 600)

	var rc Raycaster
	rc.SetFromCamera(mgl32.Vec2{0, 0}, cam)

	if rc.Ray.Origin != cam.Position {
		t.Errorf("origin = %v, want camera position", rc.Ray.Origin)
	}
	dir := rc.Ray.Direction
	if !approxEqual(float64(dir[2]), -1, epsilon) || !approxEqual(float64(dir[0]), 0, epsilon) {
		t.Errorf("direction = %v, want [0 0 -1]", dir)
	}

	hit, ok := rc.IntersectFirst(quadAt("q", 0))
	if !ok {
		t.Fatal("center ray should hit a quad at the origin")
	}
	if !approxEqual(float64(hit.Distance), 10, 1e-3) {
		t.Errorf("distance = %v, want 10", hit.Distance)
	}
}

func TestPartLookup(t *testing.T) {
	root := NewGroup("car")
	door := NewGroup("door_left")
	root.AddChild(NewGroup("body"))
	root.Children()[0].AddChild(door)

	got, err := root.Part("door_left")
	if err != nil || got != door {
		t.Fatalf("Part = %v, %v", got, err)
	}
	_, err = root.Part("trunk")
	if !errors.Is(err, ErrPartNotFound) {
		t.Errorf("err = %v, want ErrPartNotFound", err)
	}
}
