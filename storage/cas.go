// Package storage defines the CID-keyed content-addressable store used to
// archive and replicate verification artifacts outside a session directory.
package storage

import "github.com/ipfs/go-cid"

// CAS is a content-addressable archive for verification artifacts.
//
// Contract:
//   - Put MUST be idempotent; racing writers of identical bytes are safe.
//   - Stored objects MUST be immutable.
//   - CIDs MUST be derived from the bytes written.
//   - Get MUST return ErrNotFound when the CID is absent.
type CAS interface {
	Put(bytes []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}
