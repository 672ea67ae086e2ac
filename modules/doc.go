// Package modules provides the built-in bar modules and builds module lists
// from configuration.
//
//	mods := bar.NewModules().
//	    Add(modules.Spacing(5)).
//	    Add(&modules.Pill{W: 100, Fill: 0xFF181818, Radius: 15}).
//	    Add(&modules.Clock{W: 120, Layout: "15:04", Face: glyph.Default(), Size: 20})
//
// Every module draws only inside the viewport it is given. Text modules
// repaint their viewport each frame; a zero Background restores the bar
// background.
package modules
