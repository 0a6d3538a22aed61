// Package main starts the scenesync client daemon and handles termination.
//
// The process keeps a local scene in sync with the remote authority: it
// loads the declarative scene document, maintains the entity store and the
// runtime registry, reconciles remote mutations, and optionally serves the
// scene MCP tool surface on stdio.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	scenesynccmd "github.com/louisbranch/scenesync/internal/cmd/scenesync"
)

func main() {
	cfg, err := scenesynccmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[SCENESYNC] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := scenesynccmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to run: %v", err)
	}
}
