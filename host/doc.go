// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package host defines the display host a bar is presented on and provides
// the headless hosts used by tests and the CLI.
//
// A [Host] hands out layer surfaces, a shared-memory [BufferAllocator] and a
// blocking stream of [Event] values. The contract mirrors a layer-shell
// compositor: every new surface is configured once before it can be shown,
// committed buffers are released back to the client, and a closed surface
// ends the session.
//
// Hosts are selected through a registry, so a native compositor binding can
// be registered next to the built-in ones:
//
//	func init() {
//	    host.Register("wayland", 100, newWaylandHost, waylandAvailable)
//	}
//
// Built-in backends:
//
//   - "png" (priority 20): writes every committed frame to
//     <output>/<namespace>-<surface>.png.
//   - "memory" (priority 10): keeps committed frames in memory.
package host
