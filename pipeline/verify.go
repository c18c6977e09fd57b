package pipeline

import (
	"context"
	"path/filepath"

	"github.com/veriminutes/veriminutes/merkle"
	"github.com/veriminutes/veriminutes/schema"
)

// VerifyArtifacts re-verifies a session's structured minutes by
// recomputation: the stored credential is checked against the current
// on-disk minutes (hashes, size and signature), and the stored Merkle proof
// is replayed by rebuilding the tree. Valid requires both checks.
//
// Tampering is not an error, it is the expected false result. Any internal
// failure (missing artifact, malformed JSON, I/O error) likewise collapses
// to Valid=false with empty diagnostic fields; this method never returns an
// error to the caller.
func (pl *Pipeline) VerifyArtifacts(slug string) *schema.VerificationResult {
	var cred schema.Credential
	if err := pl.store.ReadJSON(slug, MinutesCredName, &cred); err != nil {
		return invalidResult()
	}
	var proof schema.MerkleProof
	if err := pl.store.ReadJSON(slug, MinutesProofName, &proof); err != nil {
		return invalidResult()
	}
	sessionDir, err := pl.store.SessionDir(slug)
	if err != nil {
		return invalidResult()
	}
	minutesPath := filepath.Join(sessionDir, MinutesFileName)

	credValid := pl.hasher.VerifyCredential(&cred, minutesPath)
	proofValid := merkle.VerifyProof(minutesPath, &proof)

	result := &schema.VerificationResult{
		Valid:     credValid && proofValid,
		LocalRoot: proof.MerkleRoot,
		DocHash:   cred.SHA256,
	}
	pl.crossReferenceAnchor(slug, &proof, result)

	pl.log.Info().
		Str("slug", slug).
		Bool("valid", result.Valid).
		Bool("credential", credValid).
		Bool("proof", proofValid).
		Msg("verification complete")

	return result
}

// crossReferenceAnchor reads the stored anchor receipt and asks the
// anchoring collaborator for the on-chain root. Absence or failure never
// affects Valid.
func (pl *Pipeline) crossReferenceAnchor(slug string, proof *schema.MerkleProof, result *schema.VerificationResult) {
	if pl.anchorer == nil || !pl.anchorer.Enabled() {
		return
	}
	var receipt schema.AnchorReceipt
	if err := pl.store.ReadJSON(slug, AnchorReceiptFileName, &receipt); err != nil {
		return
	}
	if receipt.TxHash == "" {
		return
	}
	result.TxHash = &receipt.TxHash

	root, err := pl.anchorer.VerifyAnchor(context.Background(), proof.MerkleRoot, receipt.TxHash)
	if err != nil {
		pl.log.Warn().Err(err).Str("slug", slug).Msg("anchor cross-reference failed")
		return
	}
	if root != "" {
		result.OnChainRoot = &root
	}
}

func invalidResult() *schema.VerificationResult {
	return &schema.VerificationResult{Valid: false, LocalRoot: "", DocHash: ""}
}
