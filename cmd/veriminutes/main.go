package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/veriminutes/veriminutes/config"
	"github.com/veriminutes/veriminutes/hashing"
	"github.com/veriminutes/veriminutes/keys"
	"github.com/veriminutes/veriminutes/pipeline"
	"github.com/veriminutes/veriminutes/session"
	"github.com/veriminutes/veriminutes/storage/grpccas"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "ingest":
		return cmdIngest(args[1:], out, errOut)
	case "build":
		return cmdBuild(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "sessions":
		return cmdSessions(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "veriminutes: tamper-evident meeting minutes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  veriminutes ingest --file <transcript.txt> [--date YYYY-MM-DD] [--title <t>] [--attendees a,b,c]")
	fmt.Fprintln(w, "  veriminutes build --slug <slug>")
	fmt.Fprintln(w, "  veriminutes verify --slug <slug>")
	fmt.Fprintln(w, "  veriminutes sessions")
	fmt.Fprintln(w, "  veriminutes key init")
	fmt.Fprintln(w, "  veriminutes key export")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - configuration is read from ~/.veriminutes/config.yaml (--config overrides)")
	fmt.Fprintln(w, "  - the signing key lives under ~/.veriminutes/keys (0600 seed file)")
	fmt.Fprintln(w, "  - verify prints the VerificationResult JSON and exits 1 when not valid")
}

func loadConfig(path string, errOut io.Writer) (config.Config, bool) {
	var err error
	if path == "" {
		path, err = config.DefaultPath()
		if err != nil {
			fmt.Fprintf(errOut, "resolve config path: %v\n", err)
			return config.Config{}, false
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(errOut, "load config: %v\n", err)
		return config.Config{}, false
	}
	return cfg, true
}

func newPipeline(cfg config.Config, errOut io.Writer) (*pipeline.Pipeline, func(), error) {
	store, err := session.New(cfg.OutputDir)
	if err != nil {
		return nil, nil, err
	}
	identity, err := keys.LoadOrCreate(cfg.KeysDir)
	if err != nil {
		return nil, nil, err
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: errOut}).With().Timestamp().Logger()
	opts := []pipeline.Option{
		pipeline.WithChunkSize(cfg.ChunkSize),
		pipeline.WithLeafAlgo(cfg.LeafAlgo),
		pipeline.WithLogger(log),
	}

	closeFn := func() {}
	if cfg.RemoteCAS.Addr != "" {
		client, err := grpccas.Dial(cfg.RemoteCAS.Addr, grpccas.DialOptions{Timeout: cfg.RemoteCAS.Timeout})
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, pipeline.WithRemoteCAS(client))
		closeFn = func() { _ = client.Close() }
	}

	return pipeline.New(store, hashing.New(identity), opts...), closeFn, nil
}

func cmdIngest(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(errOut)
	file := fs.String("file", "", "Raw transcript file")
	date := fs.String("date", "", "Meeting date (YYYY-MM-DD, default today)")
	title := fs.String("title", "", "Meeting title")
	attendees := fs.String("attendees", "", "Comma-separated attendee names")
	cfgPath := fs.String("config", "", "Config file path")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *file == "" {
		fmt.Fprintln(errOut, "usage: veriminutes ingest --file <transcript.txt> [--date ...] [--title ...] [--attendees ...]")
		return 2
	}

	cfg, ok := loadConfig(*cfgPath, errOut)
	if !ok {
		return 1
	}
	pl, closeFn, err := newPipeline(cfg, errOut)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer closeFn()

	res, err := pl.Ingest(*file, *date, *attendees, *title)
	if err != nil {
		fmt.Fprintf(errOut, "ingest: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "slug: %s\n", res.Slug)
	fmt.Fprintf(out, "transcript: %s\n", res.TranscriptPath)
	fmt.Fprintf(out, "manifest: %s\n", res.ManifestPath)
	return 0
}

func cmdBuild(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(errOut)
	slug := fs.String("slug", "", "Session slug")
	cfgPath := fs.String("config", "", "Config file path")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *slug == "" {
		fmt.Fprintln(errOut, "usage: veriminutes build --slug <slug>")
		return 2
	}

	cfg, ok := loadConfig(*cfgPath, errOut)
	if !ok {
		return 1
	}
	pl, closeFn, err := newPipeline(cfg, errOut)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer closeFn()

	paths, err := pl.BuildArtifacts(*slug)
	if err != nil {
		fmt.Fprintf(errOut, "build: %v\n", err)
		return 1
	}
	for name, path := range paths {
		fmt.Fprintf(out, "%s: %s\n", name, path)
	}
	return 0
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)
	slug := fs.String("slug", "", "Session slug")
	cfgPath := fs.String("config", "", "Config file path")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *slug == "" {
		fmt.Fprintln(errOut, "usage: veriminutes verify --slug <slug>")
		return 2
	}

	cfg, ok := loadConfig(*cfgPath, errOut)
	if !ok {
		return 1
	}
	pl, closeFn, err := newPipeline(cfg, errOut)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer closeFn()

	result := pl.VerifyArtifacts(*slug)
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(errOut, "verify: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, string(encoded))
	if !result.Valid {
		return 1
	}
	return 0
}

func cmdSessions(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("sessions", flag.ContinueOnError)
	fs.SetOutput(errOut)
	cfgPath := fs.String("config", "", "Config file path")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, ok := loadConfig(*cfgPath, errOut)
	if !ok {
		return 1
	}
	store, err := session.New(cfg.OutputDir)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	slugs, err := store.ListSessions()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	for _, s := range slugs {
		fmt.Fprintln(out, s)
	}
	return 0
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: veriminutes key <init|export>")
		return 2
	}
	switch args[0] {
	case "init", "export":
		fs := flag.NewFlagSet("key "+args[0], flag.ContinueOnError)
		fs.SetOutput(errOut)
		dir := fs.String("dir", "", "Keys directory (default ~/.veriminutes/keys)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		identity, err := keys.LoadOrCreate(*dir)
		if err != nil {
			fmt.Fprintf(errOut, "key %s: %v\n", args[0], err)
			return 1
		}
		fmt.Fprintf(out, "ed25519:%s\n", identity.PublicKeyB64())
		return 0
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n", args[0])
		return 2
	}
}
