// Package granular implements a real-time stereo granular processor.
//
// Engine records its input into a power-of-two capture buffer, spawns
// grains from a phase-accumulator clock into a fixed pool, renders them
// with a precomputed envelope, recirculates the highpassed grain sum into
// the capture buffer and blends the result through a diffuser/tank reverb.
//
// All state is allocated by NewEngine. Process runs on one audio context and
// never allocates, locks or blocks. Control changes that must not land
// mid-block (freeze, pool resize, mode) are posted from another goroutine
// through the engine's single-producer/single-consumer Messages queue and
// applied at the start of the next Process call. Process reports one Status
// per call through the Notifications queue.
package granular
