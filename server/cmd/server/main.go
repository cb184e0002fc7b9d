package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/tinychicken/tanks-mp/assets"
	"github.com/tinychicken/tanks-mp/config"
	"github.com/tinychicken/tanks-mp/server/core"
	"github.com/tinychicken/tanks-mp/shared/protocol"
	"golang.org/x/sync/errgroup"
)

func main() {
	port := flag.Uint("port", 7373, "Server port")
	tickRate := flag.Int("tickrate", config.Net.ServerTickRate, "World snapshots per second")
	name := flag.String("name", "Tanks Room", "Server display name")
	version := flag.String("version", "", "Required client version (empty = accept any)")
	arenaName := flag.String("arena", "courtyard", "Arena to host")
	maxPlayers := flag.Int("maxplayers", config.Net.MaxParticipants, "Participants admitted to the room")
	statusAddr := flag.String("status", ":7374", "Status HTTP address (empty = disabled)")
	flag.Parse()

	config.Net.MaxParticipants = *maxPlayers

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register components: %v", err)
	}

	arena, err := core.LoadServerArena(assets.FS(), assets.ArenaDir, *arenaName)
	if err != nil {
		log.Fatalf("Failed to load arena: %v", err)
	}

	server := core.NewServer(*tickRate, *name, *version, arena)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting tanks server %q on port %d (tick rate: %d/s, arena: %s, version: %s)",
			*name, *port, *tickRate, arena.Name, *version)
		return server.Run(ctx, *port)
	})
	if *statusAddr != "" {
		g.Go(func() error {
			return core.ServeStatus(ctx, *statusAddr, core.StatusHandler(server, *maxPlayers))
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
