package main

import (
	"context"
	"duel/client"
	"duel/input"
	"duel/server"
	"duel/session"
	"duel/utils"
	"duel/world"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
)

var errUsage = errors.New("usage: duel server|synctest|play [flags]")

func main() {
	log.SetFlags(log.LstdFlags | log.Llongfile)

	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "server":
		return runServer(args[1:])
	case "synctest":
		return runSyncTest(args[1:])
	case "play":
		return runPlay(args[1:])
	}
	return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
}

func loadConfig(path string) (*utils.Config, error) {
	cfg, err := utils.ReadTOML(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("%s not found, using defaults", path)
		return utils.DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return cfg, nil
}

func runServer(args []string) error {
	flags := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := flags.String("config", "config.toml", "config file")
	flags.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	address := cfg.Net.Address
	if flags.NArg() > 0 {
		address = flags.Arg(0)
	}
	return server.ListenAndServe(address, cfg.Net.OriginPatterns)
}

func runSyncTest(args []string) error {
	flags := flag.NewFlagSet("synctest", flag.ExitOnError)
	configPath := flags.String("config", "config.toml", "config file")
	frames := flags.Int("frames", 3600, "frames to simulate")
	check := flags.Int("check", 7, "frames to roll back and replay after every frame")
	flags.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	seed := session.RandomSeed()
	log.Printf("Starting synctest session, seed %X", seed)
	st, err := session.NewSyncTest(seed, cfg.Tuning(), *check)
	if err != nil {
		return err
	}

	bots := []*client.Bot{client.NewBot(seed), client.NewBot(^seed)}
	for f := 1; f <= *frames; f++ {
		inputs := make([]input.Input, world.NumPlayers)
		for h, b := range bots {
			inputs[h] = input.Encode(b.Poll(int64(f)))
		}
		if err := st.Advance(inputs); err != nil {
			return err
		}
	}
	final := st.State()
	log.Printf("synctest passed: %d frames, scores %v, checksum %X", final.Frame, final.Scores, world.Checksum(final))
	return nil
}

func runPlay(args []string) error {
	flags := flag.NewFlagSet("play", flag.ExitOnError)
	configPath := flags.String("config", "config.toml", "config file")
	url := flags.String("url", "", "relay room url (default from config)")
	frames := flags.Int64("frames", 3600, "frames to play")
	flags.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *url == "" {
		*url = cfg.Net.URL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	id := session.NewPeerID()
	log.Printf("peer %s joining %s", id, *url)
	peer, err := client.Dial(ctx, *url, id)
	if err != nil {
		return err
	}
	defer peer.Close()

	l := client.NewLockstep(peer, client.NewBot(id.Fold()), cfg.Tuning(), cfg.Net.InputDelay, cfg.Net.CheckInterval)
	result, err := l.Run(ctx, *frames)
	if err != nil {
		return err
	}
	log.Printf("match %s finished: %d frames, %d desyncs, checksum %X", peer.Match, result.Frames, result.Desyncs, result.Checksum)
	return nil
}
