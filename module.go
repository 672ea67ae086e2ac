package bar

import "fmt"

// Module is an independent drawing unit with a fixed width.
// Draw receives a viewport exactly Width() pixels wide and as tall as the
// canvas the modules are laid out on.
type Module interface {
	Width() int
	Draw(c *Canvas)
}

// ModuleFunc adapts a width and a plain function to the Module interface.
type ModuleFunc struct {
	W    int
	Func func(c *Canvas)
}

// Width implements Module.
func (m ModuleFunc) Width() int { return m.W }

// Draw implements Module.
func (m ModuleFunc) Draw(c *Canvas) {
	if m.Func != nil {
		m.Func(c)
	}
}

// Alignment selects where a run of modules is placed on the canvas.
type Alignment uint8

const (
	// AlignLeft packs modules from the left edge.
	AlignLeft Alignment = iota
	// AlignCenter centers the run of modules. Not implemented.
	AlignCenter
	// AlignRight packs modules against the right edge. Not implemented.
	AlignRight
)

// String returns the alignment name.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return fmt.Sprintf("Alignment(%d)", uint8(a))
	}
}

// Modules is an ordered, append-only list of modules.
// Insertion order is paint order and left-to-right screen order.
type Modules struct {
	modules []Module
}

// NewModules returns an empty module list.
func NewModules() *Modules {
	return &Modules{}
}

// Add appends a module and returns the list, so calls can be chained:
//
//	mods := bar.NewModules().
//	    Add(modules.Spacing(5)).
//	    Add(&modules.Color{W: 40, Color: bar.Red})
func (m *Modules) Add(mod Module) *Modules {
	m.modules = append(m.modules, mod)
	return m
}

// Len returns the number of modules.
func (m *Modules) Len() int { return len(m.modules) }

// At returns the i-th module.
func (m *Modules) At(i int) Module { return m.modules[i] }

// Width returns the sum of the member widths.
func (m *Modules) Width() int {
	total := 0
	for _, mod := range m.modules {
		total += mod.Width()
	}
	return total
}

// DrawModules lays out modules on c and draws each into its own viewport.
//
// With AlignLeft, module i gets the viewport (x_i, 0, width_i, c.Height())
// where x_i is the sum of the preceding widths, so viewports never overlap.
// If the run is wider than c, the first module that does not fit stops the
// pass with an error matching ErrInvalidGeometry; modules before it are
// already drawn.
//
// AlignCenter and AlignRight have no layout implementation and panic with
// *UnsupportedLayoutError.
func (c *Canvas) DrawModules(m *Modules, align Alignment) error {
	if align != AlignLeft {
		panic(&UnsupportedLayoutError{Align: align})
	}
	if m == nil {
		return nil
	}

	cursor := 0
	for i, mod := range m.modules {
		width := mod.Width()
		view, err := c.View(cursor, 0, width, c.height)
		if err != nil {
			return fmt.Errorf("bar: module %d: %w", i, err)
		}
		mod.Draw(view)
		cursor += width
	}
	return nil
}
