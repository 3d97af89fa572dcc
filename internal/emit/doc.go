// Package emit generates the host editor's JavaScript registration stubs
// from node type definitions.
//
// The emitter is a pure, one-shot transform: it owns no state, performs no
// I/O, and registers nothing itself; the emitted code does the registering
// when the host editor later evaluates it. Iteration and block filling are
// deliberately decoupled: the emitter walks the definitions in order while a
// Renderer maps each definition to its filled text block, so either side can
// be tested (or replaced) independently.
package emit
