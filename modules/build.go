package modules

import (
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/gogpu/bar"
	"github.com/gogpu/bar/config"
	"github.com/gogpu/bar/glyph"
)

// UnknownModuleError is returned by Build for an unrecognized module type.
type UnknownModuleError struct {
	Index int
	Type  string
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("modules: module %d: unknown type %q", e.Index, e.Type)
}

// Deps are the shared resources modules are built with.
type Deps struct {
	// Face renders text. Nil uses glyph.Default().
	Face glyph.Face
	// FontSize is used by text modules without their own size.
	FontSize float64
	// Clock drives clock modules. Nil uses the real clock.
	Clock clockwork.Clock
}

// Types lists the module types Build understands.
var Types = []string{"spacing", "color", "oval", "text", "clock", "pill"}

// Build turns module entries into a module list, in order.
func Build(entries []config.ModuleConfig, deps Deps) (*bar.Modules, error) {
	if deps.Face == nil {
		deps.Face = glyph.Default()
	}
	if deps.FontSize <= 0 {
		deps.FontSize = 20
	}

	mods := bar.NewModules()
	for i, e := range entries {
		m, err := build(i, e, deps)
		if err != nil {
			return nil, err
		}
		mods.Add(m)
	}
	return mods, nil
}

func build(i int, e config.ModuleConfig, deps Deps) (bar.Module, error) {
	if e.Width < 0 || (e.Width == 0 && e.Type != "spacing") {
		return nil, fmt.Errorf("modules: module %d (%s): width %d: %w", i, e.Type, e.Width, bar.ErrInvalidGeometry)
	}

	colors := func(fgDefault bar.Color) (fg, bg bar.Color, err error) {
		if fg, err = parseColor(e.Color, fgDefault); err != nil {
			return 0, 0, fmt.Errorf("modules: module %d (%s): color: %w", i, e.Type, err)
		}
		if bg, err = parseColor(e.Background, bar.Transparent); err != nil {
			return 0, 0, fmt.Errorf("modules: module %d (%s): background: %w", i, e.Type, err)
		}
		return fg, bg, nil
	}
	size := e.Size
	if size <= 0 {
		size = deps.FontSize
	}

	switch e.Type {
	case "spacing":
		return Spacing(e.Width), nil
	case "color":
		fg, _, err := colors(bar.Transparent)
		if err != nil {
			return nil, err
		}
		return &Color{W: e.Width, Color: fg}, nil
	case "oval":
		fg, _, err := colors(bar.Black)
		if err != nil {
			return nil, err
		}
		return &Oval{W: e.Width, Color: fg}, nil
	case "text":
		fg, bg, err := colors(bar.Black)
		if err != nil {
			return nil, err
		}
		return &Text{W: e.Width, Label: e.Text, Color: fg, Background: bg, Face: deps.Face, Size: size}, nil
	case "clock":
		fg, bg, err := colors(bar.Black)
		if err != nil {
			return nil, err
		}
		return &Clock{W: e.Width, Layout: e.Format, Color: fg, Background: bg, Face: deps.Face, Size: size, Clock: deps.Clock}, nil
	case "pill":
		fill, bg, err := colors(bar.Black)
		if err != nil {
			return nil, err
		}
		return &Pill{
			W:          e.Width,
			Fill:       fill,
			Background: bg,
			Radius:     e.Radius,
			Inset:      5,
			Label:      e.Text,
			TextColor:  bar.White,
			Face:       deps.Face,
			Size:       size,
		}, nil
	default:
		return nil, &UnknownModuleError{Index: i, Type: e.Type}
	}
}

func parseColor(s string, def bar.Color) (bar.Color, error) {
	if s == "" {
		return def, nil
	}
	return bar.ParseHex(s)
}

// Painter returns a draw function that lays modules out from the left edge.
// Layout errors are logged and the rest of the frame is kept.
func Painter(mods *bar.Modules) func(c *bar.Canvas) {
	return func(c *bar.Canvas) {
		if err := c.DrawModules(mods, bar.AlignLeft); err != nil {
			bar.Logger().Warn("modules: layout overflow", "error", err)
		}
	}
}
