package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/veriminutes/veriminutes/schema"
)

// BuildArtifacts reads the session's normalized transcript, structures it,
// and produces every verification artifact: structured minutes, credentials
// and Merkle proofs for both documents, CAS insertions under each digest, a
// self-contained verification packet, and optional anchor receipt and
// presentation artifacts. The returned map is artifact-name to path.
//
// Steps run sequentially. A failure partway through leaves already-written
// artifacts on disk; every step is independently re-runnable and idempotent
// given the same inputs, so a retry of the full build is safe.
func (pl *Pipeline) BuildArtifacts(slug string) (map[string]string, error) {
	paths := make(map[string]string)

	var transcript schema.Transcript
	if err := pl.store.ReadJSON(slug, TranscriptFileName, &transcript); err != nil {
		return nil, err
	}

	sourceFile := pl.transcriptSource(slug)
	minutes, err := pl.structurer.Structure(&transcript, sourceFile)
	if err != nil {
		return nil, err
	}
	minutesPath, err := pl.store.StoreArtifact(slug, MinutesFileName, minutes)
	if err != nil {
		return nil, err
	}
	paths["minutes"] = minutesPath

	sessionDir, err := pl.store.SessionDir(slug)
	if err != nil {
		return nil, err
	}
	transcriptPath := filepath.Join(sessionDir, TranscriptFileName)

	transcriptCred, err := pl.hasher.CreateCredential(transcriptPath, schema.SchemaTranscriptV1)
	if err != nil {
		return nil, err
	}
	if paths["transcript_cred"], err = pl.store.StoreArtifact(slug, TranscriptCredName, transcriptCred); err != nil {
		return nil, err
	}

	minutesCred, err := pl.hasher.CreateCredential(minutesPath, schema.SchemaBoardMinutesV1)
	if err != nil {
		return nil, err
	}
	if paths["minutes_cred"], err = pl.store.StoreArtifact(slug, MinutesCredName, minutesCred); err != nil {
		return nil, err
	}

	if err := pl.storeCAS(slug, transcriptPath, transcriptCred); err != nil {
		return nil, err
	}
	if err := pl.storeCAS(slug, minutesPath, minutesCred); err != nil {
		return nil, err
	}

	transcriptProof, err := pl.newTree().BuildFromFile(transcriptPath)
	if err != nil {
		return nil, err
	}
	if paths["transcript_proof"], err = pl.store.StoreArtifact(slug, TranscriptProofName, transcriptProof); err != nil {
		return nil, err
	}

	minutesProof, err := pl.newTree().BuildFromFile(minutesPath)
	if err != nil {
		return nil, err
	}
	if paths["minutes_proof"], err = pl.store.StoreArtifact(slug, MinutesProofName, minutesProof); err != nil {
		return nil, err
	}

	anchorReceipt := pl.anchor(slug, minutesProof, minutesCred, paths)

	packet := schema.VerificationPacket{
		Minutes:       *minutes,
		TranscriptRef: TranscriptFileName,
		Credential:    *minutesCred,
		Proof:         *minutesProof,
		AnchorReceipt: anchorReceipt,
	}
	if paths["packet"], err = pl.store.StoreArtifact(slug, PacketFileName, packet); err != nil {
		return nil, err
	}

	if pl.renderer != nil {
		outPath := filepath.Join(sessionDir, RenderedFileName)
		if err := pl.renderer.Render(minutes, minutesCred, minutesProof, anchorReceipt, outPath); err != nil {
			return nil, err
		}
		paths["pdf"] = outPath
	}

	for artifactType, path := range paths {
		fileName := filepath.Base(path)
		metadata := pl.replicate(path)
		if _, err := pl.store.UpdateManifest(slug, artifactType, fileName, metadata); err != nil {
			return nil, err
		}
	}

	pl.log.Info().
		Str("slug", slug).
		Str("root", minutesProof.MerkleRoot).
		Str("docHash", minutesCred.SHA256).
		Int("artifacts", len(paths)).
		Msg("artifacts built")

	return paths, nil
}

// transcriptSource returns the recorded transcript path for the minutes
// source reference.
func (pl *Pipeline) transcriptSource(slug string) string {
	m, err := pl.store.Manifest(slug)
	if err == nil {
		for _, a := range m.Artifacts {
			if a.Type == "transcript" {
				return a.Path
			}
		}
	}
	return "unknown.txt"
}

// storeCAS inserts a file's bytes under both of its digests.
func (pl *Pipeline) storeCAS(slug, path string, cred *schema.Credential) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if _, err := pl.store.StoreInCAS(slug, "sha256", cred.SHA256, content); err != nil {
		return err
	}
	_, err = pl.store.StoreInCAS(slug, "blake3", cred.BLAKE3, content)
	return err
}

// anchor invokes the external anchoring collaborator when configured and
// persists its receipt. Anchoring failure is logged, never fatal.
func (pl *Pipeline) anchor(slug string, proof *schema.MerkleProof, cred *schema.Credential, paths map[string]string) *schema.AnchorReceipt {
	if pl.anchorer == nil || !pl.anchorer.Enabled() {
		return nil
	}
	receipt, err := pl.anchorer.AnchorDocument(context.Background(),
		proof.MerkleRoot, cred.SHA256, schema.SchemaBoardMinutesV1,
		"veriminutes://"+slug+"/"+MinutesFileName)
	if err != nil {
		pl.log.Warn().Err(err).Str("slug", slug).Msg("anchoring failed")
		return nil
	}
	if receipt == nil {
		return nil
	}
	path, err := pl.store.StoreArtifact(slug, AnchorReceiptFileName, receipt)
	if err != nil {
		pl.log.Warn().Err(err).Str("slug", slug).Msg("anchor receipt not persisted")
		return receipt
	}
	paths["anchor_receipt"] = path
	return receipt
}

// replicate pushes an artifact to the remote archive CAS when configured
// and returns the recorded CID as manifest metadata.
func (pl *Pipeline) replicate(path string) map[string]any {
	if pl.remote == nil {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		pl.log.Warn().Err(err).Str("path", path).Msg("replication read failed")
		return nil
	}
	id, err := pl.remote.Put(content)
	if err != nil {
		pl.log.Warn().Err(err).Str("path", path).Msg("replication failed")
		return nil
	}
	return map[string]any{"cid": id.String()}
}
