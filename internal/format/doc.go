// Package format renders a syntax.Tree in canonical C# house style.
//
// The renderer is deterministic and idempotent: formatting its own output
// yields the same text. Constructs without a dedicated rule are copied
// verbatim. Formatter values are immutable and safe for concurrent use; each
// Format call owns its output Builder.
package format
