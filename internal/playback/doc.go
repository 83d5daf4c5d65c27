// Package playback drives a renderer through a recorded motion.
//
// The pieces compose as follows:
//
//   - [State]: per-run mutable state (frame index, paused, quit, interval).
//   - [Controller]: turns key presses into pause and quit requests.
//   - [Pacer]: yields frame indices at a fixed rate, honouring pause.
//   - [Player]: validates inputs, decodes each frame and hands it to a [Renderer].
//
// # Concurrency
//
// Decoding, rendering and pacing run on the caller's goroutine, one frame
// at a time. The only other goroutine is the Controller's key listener.
// Paused and quit change only through the Controller, from the listener or
// from the Player between frames (step pauses, cancellation). The fields
// are atomics, so a pause may be observed one poll late.
package playback
