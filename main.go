// Chessoteric - runs annotated chess games as tape machine programs.
//
// Usage:
//
//	chessoteric [flags] [game.txt]
//
// The game transcript is read from the file argument or standard input.
// Every move ending in !, ?, !!, ?!, !? or ?? contributes one command;
// the compiled program then runs, reading input lines from standard
// input and printing its output to standard output.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/hailam/chessoteric/internal/config"
	"github.com/hailam/chessoteric/internal/console"
	"github.com/hailam/chessoteric/internal/logs"
	"github.com/hailam/chessoteric/internal/runner"
	"github.com/hailam/chessoteric/internal/source"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("chessoteric: ")

	cfg, args, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, closeLog, err := logs.New(cfg.LogLevel, os.Stderr, cfg.LogFile)
	if err != nil {
		log.Fatal("could not set up logging: ", err)
	}
	defer closeLog()

	path := source.Stdin
	if len(args) > 0 {
		path = args[0]
	}
	transcript, err := source.ReadText(path)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r, err := runner.New(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	prog, err := r.GameProgram(ctx, transcript)
	if err != nil {
		log.Fatal(err)
	}

	in, closeIn := console.Stdin(cfg.Prompt)
	defer closeIn()
	if err := r.Run(ctx, prog, in, os.Stdout); err != nil {
		closeIn()
		log.Fatal(err)
	}
}
