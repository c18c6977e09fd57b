// Package keys manages the long-lived VeriMinutes signing identity and the
// signature primitives built on it.
//
// The identity is an Ed25519 key pair persisted once under the keys
// directory (0600 seed file) and reused for the lifetime of the
// installation. It is read-only after initialization and may be shared
// freely across concurrent callers.
package keys
