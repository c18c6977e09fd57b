package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"github.com/veriminutes/veriminutes/storage/grpccas"
	"github.com/veriminutes/veriminutes/storage/localfs"
)

func main() {
	fs := flag.NewFlagSet("veriminutes-casd", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7777", "listen address")
	root := fs.String("root", "", "CAS root directory")

	_ = fs.Parse(os.Args[1:])
	if *root == "" {
		fmt.Fprintln(os.Stderr, "usage: veriminutes-casd --root <dir> [--listen addr]")
		os.Exit(2)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cas, err := localfs.New(*root)
	if err != nil {
		log.Error().Err(err).Str("root", *root).Msg("open CAS root")
		os.Exit(2)
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		log.Error().Err(err).Str("listen", *listen).Msg("listen")
		os.Exit(1)
	}
	defer lis.Close()

	s := grpc.NewServer()
	grpccas.RegisterCASServer(s, &grpccas.Server{CAS: cas})

	log.Info().Str("addr", lis.Addr().String()).Str("root", *root).Msg("veriminutes-casd listening")
	if err := s.Serve(lis); err != nil {
		log.Error().Err(err).Msg("serve")
		os.Exit(1)
	}
}
