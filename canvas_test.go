package bar

import (
	"errors"
	"testing"
)

// pixelsEqual fails the test if the snapshots differ.
func pixelsEqual(t *testing.T, got, want []Color) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("pixel %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNewCanvas(t *testing.T) {
	c := NewCanvas(8, 4, 0xFF102030)

	if c.Width() != 8 || c.Height() != 4 {
		t.Errorf("size = %dx%d, want 8x4", c.Width(), c.Height())
	}
	if c.Offset() != 0 || c.Stride() != 8 {
		t.Errorf("offset/stride = %d/%d, want 0/8", c.Offset(), c.Stride())
	}
	if c.Buffer().Len() != 32 {
		t.Errorf("buffer len = %d, want 32", c.Buffer().Len())
	}
	for i, p := range c.Buffer().Snapshot() {
		if p != 0xFF102030 {
			t.Fatalf("pixel %d = %v, want background", i, p)
		}
	}
}

func TestSetPixel(t *testing.T) {
	c := NewCanvas(4, 3, Black)
	c.SetPixel(2, 1, Red)

	if got := c.Pixel(2, 1); got != Red {
		t.Errorf("Pixel(2,1) = %v, want %v", got, Red)
	}
	if got := c.Buffer().Snapshot()[1*4+2]; got != Red {
		t.Errorf("buffer[6] = %v, want %v", got, Red)
	}
}

func TestSetPixel_OutOfBounds(t *testing.T) {
	c := NewCanvas(4, 3, Black)
	original := c.Buffer().Snapshot()

	oob := []struct{ x, y int }{
		{4, 0}, {0, 3}, {4, 3}, {100, 100}, {-1, 0}, {0, -1},
	}
	for _, p := range oob {
		c.SetPixel(p.x, p.y, Red)
	}

	if c.Buffer().Len() != len(original) {
		t.Fatalf("buffer length changed: %d", c.Buffer().Len())
	}
	pixelsEqual(t, c.Buffer().Snapshot(), original)
}

func TestSetPixel_ViewClipsToViewNotBuffer(t *testing.T) {
	c := NewCanvas(10, 2, Black)
	v, err := c.View(2, 0, 3, 2)
	if err != nil {
		t.Fatal(err)
	}

	// x=3 is still inside the buffer row but outside the view.
	v.SetPixel(3, 0, Red)
	if got := c.Pixel(5, 0); got != Black {
		t.Errorf("write leaked past view: Pixel(5,0) = %v", got)
	}
}

func TestFillRect(t *testing.T) {
	c := NewCanvas(10, 8, Black)
	c.FillRect(2, 3, 4, 2, Blue)

	for y := 0; y < 8; y++ {
		for x := 0; x < 10; x++ {
			inside := x >= 2 && x < 6 && y >= 3 && y < 5
			want := Black
			if inside {
				want = Blue
			}
			if got := c.Pixel(x, y); got != want {
				t.Errorf("Pixel(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestFillRect_Clipped(t *testing.T) {
	c := NewCanvas(4, 4, Black)
	c.FillRect(2, 2, 10, 10, Red)
	c.FillRect(-5, -5, 6, 6, Green)

	if got := c.Pixel(3, 3); got != Red {
		t.Errorf("Pixel(3,3) = %v, want red", got)
	}
	if got := c.Pixel(0, 0); got != Green {
		t.Errorf("Pixel(0,0) = %v, want green", got)
	}
	if got := c.Pixel(1, 1); got != Black {
		t.Errorf("Pixel(1,1) = %v, want black", got)
	}
}

func TestFillAndClear(t *testing.T) {
	c := NewCanvas(3, 3, 0xFF44848C)
	c.Fill(White)
	for _, p := range c.Buffer().Snapshot() {
		if p != White {
			t.Fatalf("Fill left %v", p)
		}
	}
	c.Clear()
	for _, p := range c.Buffer().Snapshot() {
		if p != 0xFF44848C {
			t.Fatalf("Clear left %v", p)
		}
	}
}

func TestDrawRect(t *testing.T) {
	c := NewCanvas(6, 5, Black)
	c.DrawRect(1, 1, 4, 3, White)

	outline := map[[2]int]bool{}
	for x := 1; x <= 4; x++ {
		outline[[2]int{x, 1}] = true
		outline[[2]int{x, 3}] = true
	}
	for y := 1; y <= 3; y++ {
		outline[[2]int{1, y}] = true
		outline[[2]int{4, y}] = true
	}

	for y := 0; y < 5; y++ {
		for x := 0; x < 6; x++ {
			want := Black
			if outline[[2]int{x, y}] {
				want = White
			}
			if got := c.Pixel(x, y); got != want {
				t.Errorf("Pixel(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestView(t *testing.T) {
	c := NewCanvas(10, 4, Black)
	v, err := c.View(3, 1, 4, 2)
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}

	if v.Offset() != 3+1*10 || v.Stride() != 10 {
		t.Errorf("offset/stride = %d/%d, want 13/10", v.Offset(), v.Stride())
	}
	if v.Width() != 4 || v.Height() != 2 {
		t.Errorf("size = %dx%d, want 4x2", v.Width(), v.Height())
	}

	v.SetPixel(0, 0, Red)
	if got := c.Pixel(3, 1); got != Red {
		t.Errorf("parent Pixel(3,1) = %v, want red", got)
	}

	// Nested views accumulate offsets.
	vv, err := v.View(1, 1, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	vv.SetPixel(1, 0, Green)
	if got := c.Pixel(5, 2); got != Green {
		t.Errorf("parent Pixel(5,2) = %v, want green", got)
	}
}

func TestView_InvalidGeometry(t *testing.T) {
	c := NewCanvas(10, 4, Black)

	tests := []struct {
		name       string
		x, y, w, h int
	}{
		{"too wide", 8, 0, 3, 4},
		{"too tall", 0, 2, 1, 3},
		{"negative x", -1, 0, 2, 2},
		{"negative size", 0, 0, -1, 2},
		{"origin outside", 11, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := c.View(tt.x, tt.y, tt.w, tt.h)
			if v != nil {
				t.Error("View() returned a canvas for invalid geometry")
			}
			if !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("View() error = %v, want ErrInvalidGeometry", err)
			}
			var gerr *GeometryError
			if !errors.As(err, &gerr) || gerr.Op != "view" {
				t.Errorf("View() error = %#v, want *GeometryError", err)
			}
		})
	}
}

func TestView_EdgeFits(t *testing.T) {
	c := NewCanvas(10, 4, Black)
	if _, err := c.View(10, 0, 0, 4); err != nil {
		t.Errorf("zero-width view at the right edge: %v", err)
	}
	if _, err := c.View(0, 0, 10, 4); err != nil {
		t.Errorf("full view: %v", err)
	}
}

func TestViewIsolation(t *testing.T) {
	c := NewCanvas(20, 5, Black)
	left, err := c.View(0, 0, 10, 5)
	if err != nil {
		t.Fatal(err)
	}
	right, err := c.View(10, 0, 10, 5)
	if err != nil {
		t.Fatal(err)
	}

	before := right.ToImage()
	left.Fill(Red)
	left.DrawLine(0, 0, 20, 4, Green)
	left.FillOval(5, 0, 10, 10, Blue)
	left.FillRoundedRect(0, 0, 30, 5, 2, White)
	after := right.ToImage()

	for i := range before.Pix {
		if before.Pix[i] != after.Pix[i] {
			t.Fatalf("write through left view changed right view at byte %d", i)
		}
	}
	if got := left.Pixel(9, 4); got == Black {
		t.Error("left view was not painted")
	}
}

func TestClone(t *testing.T) {
	c := NewCanvas(4, 4, Black)
	v, err := c.View(1, 1, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	cl := v.Clone()

	if cl == v {
		t.Fatal("Clone() returned the same pointer")
	}
	if cl.Buffer() != v.Buffer() {
		t.Fatal("Clone() must share the pixel buffer")
	}
	cl.SetPixel(0, 0, Red)
	if got := v.Pixel(0, 0); got != Red {
		t.Errorf("write through clone not visible: %v", got)
	}
}
