// Package shm provides the shared-memory side of buffer presentation: a
// fixed-size [Storage] that a bar writes its pixels into, a [Pool] mapping of
// that storage, and [Buffer] regions of the pool that a display host
// attaches to a surface.
//
// On Linux storage is an anonymous memfd; elsewhere it is an unlinked
// temporary file. Pools are mapped with mmap on Unix systems, so the bytes a
// host reads from a Buffer are the bytes the bar wrote, without copies.
package shm
