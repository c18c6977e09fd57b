// Package pipeline sequences ingestion, structuring, artifact building and
// verification for a session, and defines what "valid" means.
//
// The pipeline is synchronous and single-threaded per invocation. There is
// no locking around a session directory: concurrent builds of the same slug
// are unguarded, a known limitation of the design. CAS writes are safe to
// race because they are content-addressed and create-or-skip.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/veriminutes/veriminutes/hashing"
	"github.com/veriminutes/veriminutes/merkle"
	"github.com/veriminutes/veriminutes/parse"
	"github.com/veriminutes/veriminutes/schema"
	"github.com/veriminutes/veriminutes/session"
	"github.com/veriminutes/veriminutes/storage"
	"github.com/veriminutes/veriminutes/structure"
)

// Session artifact file names. These are the wire contract other tools
// rely on.
const (
	TranscriptFileName    = "transcript.normalized.json"
	MinutesFileName       = "minutes.json"
	TranscriptCredName    = "transcript.cred.json"
	MinutesCredName       = "minutes.cred.json"
	TranscriptProofName   = "transcript.proof.json"
	MinutesProofName      = "minutes.proof.json"
	PacketFileName        = "minutes.packet.json"
	AnchorReceiptFileName = "anchor_receipt.json"
	RenderedFileName      = "minutes.pdf"
)

// Parser normalizes a raw transcript file.
type Parser interface {
	ParseFile(path, date, title string, attendees []string) (*schema.Transcript, error)
}

// Structurer converts a normalized transcript into structured minutes.
type Structurer interface {
	Structure(t *schema.Transcript, sourceFile string) (*schema.BoardMinutes, error)
}

// Renderer produces a presentation artifact for structured minutes.
type Renderer interface {
	Render(m *schema.BoardMinutes, cred *schema.Credential, proof *schema.MerkleProof, receipt *schema.AnchorReceipt, outPath string) error
}

// Anchorer is the optional external ledger collaborator. Its absence or
// failure never affects verification validity.
type Anchorer interface {
	Enabled() bool
	AnchorDocument(ctx context.Context, merkleRoot, docHash, schemaID, uri string) (*schema.AnchorReceipt, error)
	VerifyAnchor(ctx context.Context, merkleRoot, txHash string) (string, error)
}

// Pipeline drives ingest, build and verify for sessions in one store.
type Pipeline struct {
	store  *session.Store
	hasher *hashing.Service

	parser     Parser
	structurer Structurer
	renderer   Renderer
	anchorer   Anchorer
	remote     storage.CAS

	chunkSize int
	leafAlgo  string
	log       zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithParser replaces the default plain-text parser.
func WithParser(p Parser) Option {
	return func(pl *Pipeline) { pl.parser = p }
}

// WithStructurer replaces the default heuristic structurer.
func WithStructurer(s Structurer) Option {
	return func(pl *Pipeline) { pl.structurer = s }
}

// WithRenderer enables presentation-artifact rendering.
func WithRenderer(r Renderer) Option {
	return func(pl *Pipeline) { pl.renderer = r }
}

// WithAnchorer enables external ledger anchoring.
func WithAnchorer(a Anchorer) Option {
	return func(pl *Pipeline) { pl.anchorer = a }
}

// WithRemoteCAS enables replication of built artifacts to a CID-keyed
// archive. Replication failures are logged and never fatal.
func WithRemoteCAS(cas storage.CAS) Option {
	return func(pl *Pipeline) { pl.remote = cas }
}

// WithChunkSize overrides the Merkle chunk size used at build time.
// Verification always takes the chunk size from the stored proof.
func WithChunkSize(n int) Option {
	return func(pl *Pipeline) {
		if n > 0 {
			pl.chunkSize = n
		}
	}
}

// WithLeafAlgo overrides the Merkle leaf hash used at build time.
func WithLeafAlgo(algo string) Option {
	return func(pl *Pipeline) {
		if algo != "" {
			pl.leafAlgo = algo
		}
	}
}

// WithLogger attaches a structured logger. The default logger is disabled.
func WithLogger(log zerolog.Logger) Option {
	return func(pl *Pipeline) { pl.log = log }
}

// New constructs a Pipeline over a session store and hashing service.
func New(store *session.Store, hasher *hashing.Service, opts ...Option) *Pipeline {
	pl := &Pipeline{
		store:      store,
		hasher:     hasher,
		parser:     parse.New(),
		structurer: structure.New(),
		chunkSize:  merkle.DefaultChunkSize,
		leafAlgo:   merkle.DefaultLeafAlgo,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(pl)
	}
	return pl
}

func (pl *Pipeline) newTree() *merkle.Tree {
	return merkle.New(merkle.WithChunkSize(pl.chunkSize), merkle.WithLeafAlgo(pl.leafAlgo))
}
