// Package client presents bars on a display host.
//
// A [Client] owns a set of [Bar] values and a [State]. Each bar starts
// Unbound. On its first render after the host configured the session, it
// binds backing storage, a fixed-size canvas, a pool and a buffer, and keeps
// them for the rest of its life. Every frame then draws into the same
// canvas, copies the pixels into the storage and commits the buffer.
//
//	h, _ := host.NewByName("png", host.Options{OutputDir: "frames"})
//	c := client.New(h)
//	c.AddBar(client.Top, 40, func(cv *bar.Canvas) {
//	    cv.Fill(0xFFCF4345)
//	})
//	err := c.Run(ctx)
package client
