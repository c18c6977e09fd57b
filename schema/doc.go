// Package schema defines the wire-level record types produced and consumed
// by the VeriMinutes pipeline, together with the canonical JSON serializer
// used as the exact byte sequence that is signed and verified.
//
// Field names and file names are a cross-implementation contract: a
// credential or proof written by this package must verify under any other
// implementation that sorts object keys and uses ","/":" separators.
package schema
