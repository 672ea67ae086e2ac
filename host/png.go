// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gogpu/bar"
)

// PNG is a headless host that writes every committed frame to
// <dir>/<namespace>-<surface>.png, overwriting the previous frame.
type PNG struct {
	*Memory
	dir string
}

// NewPNG creates a PNG host writing into dir, which is created if needed.
// An empty dir means the current directory.
func NewPNG(dir string, opts ...MemoryOption) (*PNG, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("host: output dir: %w", err)
	}
	p := &PNG{dir: dir}
	opts = append(opts, WithCommitHook(p.write))
	p.Memory = NewMemory(opts...)
	return p, nil
}

// Path returns the file a surface's frames are written to.
func (p *PNG) Path(cfg SurfaceConfig, id SurfaceID) string {
	ns := cfg.Namespace
	if ns == "" {
		ns = "bar"
	}
	return filepath.Join(p.dir, fmt.Sprintf("%s-%d.png", ns, id))
}

func (p *PNG) write(f Frame) error {
	path := p.Path(f.Config, f.Surface)
	tmp := path + ".tmp"

	out, err := os.Create(tmp) //nolint:gosec // output dir comes from configuration
	if err != nil {
		return fmt.Errorf("host: create frame file: %w", err)
	}
	if err := png.Encode(out, f.Image); err != nil {
		_ = out.Close()
		return fmt.Errorf("host: encode frame: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("host: write frame: %w", err)
	}
	bar.Logger().Debug("host: frame written", "path", path, "seq", f.Seq)
	return nil
}
