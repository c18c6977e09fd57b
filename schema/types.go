package schema

import "time"

// Schema identifiers recorded in credentials and manifest entries.
const (
	SchemaTranscriptV1   = "Transcript_v1"
	SchemaBoardMinutesV1 = "BoardMinutes_v1"
)

// TranscriptItem is a single line of a normalized transcript.
type TranscriptItem struct {
	Idx     int     `json:"idx"`
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
	TS      *string `json:"ts"`
}

// TranscriptMeta carries session-level metadata extracted at ingest time.
type TranscriptMeta struct {
	Date      string   `json:"date"`
	Title     string   `json:"title"`
	Attendees []string `json:"attendees"`
}

// Transcript is the normalized form of a raw transcript (Transcript_v1).
type Transcript struct {
	Provider string           `json:"provider"`
	Items    []TranscriptItem `json:"items"`
	Metadata TranscriptMeta   `json:"metadata"`
}

// AgendaItem is a single agenda entry in structured minutes.
type AgendaItem struct {
	Item string `json:"item"`
}

// Vote records the tally attached to a motion.
type Vote struct {
	For     int    `json:"for"`
	Against int    `json:"against"`
	Abstain int    `json:"abstain"`
	Result  string `json:"result"` // PASSED, FAILED, UNKNOWN
}

// Motion is a motion extracted from the transcript.
type Motion struct {
	Text       string  `json:"text"`
	MovedBy    *string `json:"movedBy"`
	SecondedBy *string `json:"secondedBy"`
	Vote       Vote    `json:"vote"`
}

// Decision is a recorded decision.
type Decision struct {
	Text string `json:"text"`
}

// Action is an action item with an owner and optional due date.
type Action struct {
	Owner string  `json:"owner"`
	Due   *string `json:"due"`
	Text  string  `json:"text"`
}

// Source identifies the provenance of structured minutes.
type Source struct {
	Provider string `json:"provider"`
	File     string `json:"file"`
}

// BoardMinutes is the structured document (BoardMinutes_v1) that credentials
// and Merkle proofs are computed over.
type BoardMinutes struct {
	Title     string       `json:"title"`
	Date      string       `json:"date"`
	Attendees []string     `json:"attendees"`
	Absent    []string     `json:"absent"`
	Agenda    []AgendaItem `json:"agenda"`
	Motions   []Motion     `json:"motions"`
	Decisions []Decision   `json:"decisions"`
	Actions   []Action     `json:"actions"`
	Notes     string       `json:"notes"`
	Source    Source       `json:"source"`
}

// Signer identifies the key that produced a credential signature.
type Signer struct {
	Type      string `json:"type"`
	PublicKey string `json:"publicKey"`
}

// Credential is a signed statement binding a file's hashes, size and schema
// to a public key. The signature covers the canonical serialization of every
// field except "signature".
type Credential struct {
	Target    string `json:"target"`
	SHA256    string `json:"sha256"`
	BLAKE3    string `json:"blake3"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"createdAt"`
	Schema    string `json:"schema"`
	Signer    Signer `json:"signer"`
	Signature string `json:"signature"`
}

// InclusionProof is the sibling-hash path proving a leaf belongs under a
// Merkle root. Offsets are "left" or "right", one per level.
type InclusionProof struct {
	LeafIndex int      `json:"leafIndex"`
	Offsets   []string `json:"offsets"`
	Siblings  []string `json:"siblings"`
}

// MerkleProof is a chunked Merkle tree over a file's bytes plus an inclusion
// proof for the first leaf. ChunkSize and LeafAlgo must be taken from the
// proof at verification time, never assumed.
type MerkleProof struct {
	DocPath    string         `json:"docPath"`
	ChunkSize  int            `json:"chunkSize"`
	LeafAlgo   string         `json:"leafAlgo"`
	Leaves     []string       `json:"leaves"`
	MerkleRoot string         `json:"merkleRoot"`
	Inclusion  InclusionProof `json:"inclusion"`
}

// AnchorReceipt is returned by an external anchoring collaborator.
type AnchorReceipt struct {
	TxHash          string `json:"txHash"`
	BlockNumber     int64  `json:"blockNumber"`
	ContractAddress string `json:"contractAddress"`
	ChainID         int64  `json:"chainId"`
}

// VerificationPacket is a self-contained bundle sufficient to re-verify
// structured minutes without the original session store.
type VerificationPacket struct {
	Minutes       BoardMinutes   `json:"minutes"`
	TranscriptRef string         `json:"transcriptRef"`
	Credential    Credential     `json:"credential"`
	Proof         MerkleProof    `json:"proof"`
	AnchorReceipt *AnchorReceipt `json:"anchorReceipt"`
}

// VerificationResult is the sole externally observable verdict of
// verification. An inability to verify is reported as Valid=false with
// empty diagnostic fields, never as an error.
type VerificationResult struct {
	Valid       bool    `json:"valid"`
	LocalRoot   string  `json:"localRoot"`
	OnChainRoot *string `json:"onChainRoot"`
	DocHash     string  `json:"docHash"`
	TxHash      *string `json:"txHash"`
}

// Timestamp returns the wire timestamp format used for createdAt/updatedAt
// fields: RFC 3339 UTC with microsecond precision and a literal Z suffix.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000") + "Z"
}
