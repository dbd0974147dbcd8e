// Package memory provides object reuse primitives for the engine's hot
// path. The feed is applied by a single writer, so reclamation is
// immediate: an order removed from the book goes straight back to its
// pool.
package memory
