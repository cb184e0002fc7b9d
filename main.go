package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/tinychicken/tanks-mp/assets"
	"github.com/tinychicken/tanks-mp/config"
	"github.com/tinychicken/tanks-mp/network"
	"github.com/tinychicken/tanks-mp/scenes"
	"github.com/tinychicken/tanks-mp/shared/leveldata"
	"github.com/tinychicken/tanks-mp/shared/protocol"
	"github.com/tinychicken/tanks-mp/systems"
	"golang.org/x/sync/errgroup"
)

const (
	appName       = "tanks-mp"
	defaultServer = "localhost:7373"
	defaultName   = "Tank"
)

func main() {
	server := flag.String("server", "", "Server address (default: last server used)")
	name := flag.String("name", "", "Player name (default: last name used)")
	version := flag.String("version", "", "Client version sent to the server")
	seed := flag.Int64("seed", config.Bot.Seed, "Bot random seed")
	fps := flag.Int("fps", 60, "Frames per second")
	duration := flag.Duration("duration", 0, "Stop after this long (0 = run until interrupted)")
	joinTimeout := flag.Duration("join-timeout", 10*time.Second, "Give up joining after this long")
	flag.Parse()

	// Register network components for client-side deserialization
	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register network components: %v", err)
	}

	// Persistence is optional: without it the flags and defaults are used.
	if err := systems.InitPersistence(appName); err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
	}
	saved, _ := systems.LoadProfile()
	profile := systems.MergeProfile(saved, *name, *server)
	if profile.PlayerName == "" {
		profile.PlayerName = defaultName
	}
	if profile.LastServer == "" {
		profile.LastServer = defaultServer
	}

	arenas, _, err := leveldata.LoadAllArenas(assets.FS(), assets.ArenaDir)
	if err != nil {
		log.Fatalf("Failed to load arenas: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	client := network.NewClient()
	defer client.Disconnect()

	log.Printf("Connecting to %s as %q", profile.LastServer, profile.PlayerName)
	client.Connect(profile.LastServer, *version, profile.PlayerName)

	joinCtx, cancelJoin := context.WithTimeout(ctx, *joinTimeout)
	join, err := client.WaitJoined(joinCtx)
	cancelJoin()
	if err != nil {
		log.Fatalf("Failed to join: %v", err)
	}

	if err := systems.SaveProfile(&profile); err != nil {
		log.Printf("Warning: Could not save profile: %v", err)
	}

	arena, ok := arenas[join.Arena]
	if !ok {
		log.Printf("Warning: unknown arena %q, playing without walls", join.Arena)
	}

	scene := scenes.NewNetworkedScene(client, arena, join)
	scene.EnableBot(*seed)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return run(ctx, scene, *fps)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, scenes.ErrDisconnected) {
		log.Fatal(err)
	}
	log.Println("Stopped")
}

// run drives the scene at fps frames per second with real elapsed time.
func run(ctx context.Context, scene *scenes.NetworkedScene, fps int) error {
	ticker := time.NewTicker(time.Second / time.Duration(max(1, fps)))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if err := scene.Update(dt); err != nil {
				return err
			}
		}
	}
}
