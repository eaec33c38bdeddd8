// Package generation defines the interfaces between the worker core and
// the generative-text backend that turns study material into artifacts.
// Concrete implementations live in internal/platform/gemini.
package generation
