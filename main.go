package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chessbot/communication/server"
	"chessbot/config"
	"chessbot/experiments"
	"chessbot/game"
	"chessbot/logx"
	"chessbot/player"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("chessbot failed")
		os.Exit(1)
	}
}

func run() error {
	mode := flag.String("mode", "play", "play, serve, experiment or report")
	configPath := flag.String("config", "", "YAML config file")
	white := flag.Bool("white", true, "play as white (play mode)")
	fen := flag.String("fen", "", "starting position in FEN (play mode)")
	speak := flag.Bool("speak", false, "read the top move aloud (play mode)")
	experiment := flag.String("experiment", "cautiousness", "parallelization, cautiousness, temperature or remote (experiment mode)")
	remote := flag.String("remote", "", "ranking service URL played by the remote experiment")
	records := flag.String("records", "", "experiment records directory (report mode)")
	addr := flag.String("addr", "", "listen address (serve mode)")
	logLevel := flag.String("log-level", "", "log level")
	goroutines := flag.Int("goroutines", 0, "goroutines running rollout trials")
	movesAhead := flag.Int("moves-ahead", -1, "random plies after each candidate move")
	cautiousness := flag.Int("cautiousness", 0, "trials per candidate move")
	duration := flag.Duration("duration", 0, "time budget per ranking")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	// Flags override the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "speak":
			cfg.Speech.Enabled = *speak
		case "addr":
			cfg.Server.Addr = *addr
		case "remote":
			cfg.Experiments.Remote = *remote
		case "log-level":
			cfg.LogLevel = *logLevel
		case "goroutines":
			cfg.Goroutines = *goroutines
		case "moves-ahead":
			cfg.Search.MovesAhead = *movesAhead
		case "cautiousness":
			cfg.Search.Cautiousness = *cautiousness
		case "duration":
			cfg.Duration = *duration
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logx.Setup(cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "play":
		board := game.NewBoard()
		if *fen != "" {
			if board, err = game.ParseFEN(*fen); err != nil {
				return err
			}
		}
		ranker, err := cfg.NewRanker()
		if err != nil {
			return err
		}
		myColor := game.Black
		if *white {
			myColor = game.White
		}
		console := player.NewConsole(ranker, myColor, os.Stdin, os.Stdout,
			player.WithTopN(cfg.TopN), player.WithAnnouncer(cfg.Announcer(logger)))
		if _, err := console.Play(ctx, board); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil

	case "serve":
		ranker, err := cfg.NewRanker()
		if err != nil {
			return err
		}
		return server.NewServer(logger, ranker, cfg.RankerOptions()...).ListenAndServe(ctx, cfg.Server.Addr)

	case "experiment":
		opts := experiments.Options{
			Dir:      cfg.Experiments.Dir,
			Games:    cfg.Experiments.Games,
			MaxPlies: cfg.Experiments.MaxPlies,
			Compress: cfg.Experiments.Compress,
			Search:   cfg.Search,
			Seed:     uint64(time.Now().UnixNano()),
			Remote:   cfg.Experiments.Remote,
		}
		if cfg.Seed != nil {
			opts.Seed = *cfg.Seed
		}
		var dir string
		switch *experiment {
		case "parallelization":
			dir, err = experiments.RunParallelization(ctx, opts)
		case "cautiousness":
			dir, err = experiments.RunCautiousness(ctx, opts)
		case "temperature":
			dir, err = experiments.RunTemperature(ctx, opts)
		case "remote":
			dir, err = experiments.RunRemote(ctx, opts)
		default:
			return fmt.Errorf("unknown experiment %q", *experiment)
		}
		if err != nil {
			return err
		}
		log.Info().Msgf("experiment records written to %s", dir)
		return report(dir)

	case "report":
		if *records == "" {
			return errors.New("report mode needs -records")
		}
		return report(*records)
	}
	return fmt.Errorf("unknown mode %q", *mode)
}

func report(dir string) error {
	standings, err := experiments.Summarize(dir)
	if err != nil {
		return err
	}
	for _, s := range standings {
		log.Info().Msgf("agent %d (%s): %d games, %d wins, %d losses, %d draws", s.Agent, s.Kind, s.Games, s.Wins, s.Losses, s.Draws)
	}
	return nil
}
