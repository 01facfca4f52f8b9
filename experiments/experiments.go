package experiments

import (
	"context"
	"fmt"
	"time"

	"chessbot/agent"
	"chessbot/communication/client"
	"chessbot/engine"
	"chessbot/experiments/metrics"
	"chessbot/game"
	"chessbot/searcher"

	"github.com/rs/zerolog/log"
)

const TimeBudget = 200 * time.Millisecond

// Options controls where and how long an experiment runs.
type Options struct {
	Dir      string
	Games    int // Per match up
	MaxPlies int
	Compress bool
	Search   searcher.Config
	Seed     uint64
	Remote   string // Base URL of a ranking service
}

var parallelGoroutines = []int{1, 2, 4, 8, 16, 32}

// RunParallelization pits agents with a growing number of goroutines against
// themselves under the same time budget, measuring trial throughput.
func RunParallelization(ctx context.Context, opts Options) (string, error) {
	configs := []metrics.AgentConfig{}
	for i, goroutines := range parallelGoroutines {
		configs = append(configs, metrics.AgentConfig{
			ID:         i + 1,
			Kind:       metrics.RankingAgent,
			Goroutines: goroutines,
			Duration:   TimeBudget,
			Search:     opts.Search,
		})
	}
	// Each matchup uses the same config for both players
	// for the same playing strength and similar game length
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, []metrics.AgentConfig{config, config})
	}

	return runExperiment(ctx, "parallelization", opts, configs, matchUps)
}

var cautiousnessLevels = []int{1, 5, 10, 20, 40}

// RunCautiousness pits ranking agents of growing cautiousness against a
// random baseline, alternating colors between games.
func RunCautiousness(ctx context.Context, opts Options) (string, error) {
	baseline := metrics.AgentConfig{ID: 0, Kind: metrics.RandomAgent}
	configs := []metrics.AgentConfig{baseline}
	for i, cautiousness := range cautiousnessLevels {
		search := opts.Search
		search.Cautiousness = cautiousness
		configs = append(configs, metrics.AgentConfig{
			ID:         i + 1,
			Kind:       metrics.RankingAgent,
			Goroutines: 8,
			Search:     search,
		})
	}

	// Each matchup pairs the baseline agent against a ranking agent
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range configs[1:] {
		matchUps = append(matchUps, []metrics.AgentConfig{config, baseline})
	}

	return runExperiment(ctx, "cautiousness", opts, configs, matchUps)
}

var temperatures = []float64{0.1, 0.5, 1, 2}

// RunTemperature pits sampling agents of growing temperature against a random
// baseline, alternating colors between games.
func RunTemperature(ctx context.Context, opts Options) (string, error) {
	baseline := metrics.AgentConfig{ID: 0, Kind: metrics.RandomAgent}
	configs := []metrics.AgentConfig{baseline}
	for i, temperature := range temperatures {
		configs = append(configs, metrics.AgentConfig{
			ID:          i + 1,
			Kind:        metrics.SamplingAgent,
			Goroutines:  8,
			Temperature: temperature,
			Search:      opts.Search,
		})
	}

	matchUps := [][]metrics.AgentConfig{}
	for _, config := range configs[1:] {
		matchUps = append(matchUps, []metrics.AgentConfig{config, baseline})
	}

	return runExperiment(ctx, "temperature", opts, configs, matchUps)
}

// RunRemote pits the ranking service at opts.Remote against a local ranking
// agent with the same rollout config.
func RunRemote(ctx context.Context, opts Options) (string, error) {
	if opts.Remote == "" {
		return "", fmt.Errorf("experiment remote: no ranking service address")
	}
	remote := metrics.AgentConfig{ID: 1, Kind: metrics.RemoteAgent, Endpoint: opts.Remote, Search: opts.Search}
	local := metrics.AgentConfig{ID: 2, Kind: metrics.RankingAgent, Goroutines: 8, Search: opts.Search}
	configs := []metrics.AgentConfig{remote, local}

	return runExperiment(ctx, "remote", opts, configs, [][]metrics.AgentConfig{configs})
}

// runExperiment plays every matchup opts.Games times and stores the records,
// returning the directory they were written to.
func runExperiment(ctx context.Context, name string, opts Options, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) (string, error) {
	if opts.Games < 1 {
		return "", fmt.Errorf("experiment %s: games %d must be at least 1", name, opts.Games)
	}

	// Run a number of games for each matchup
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchup := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between agent %d and agent %d...", mi+1, len(matchUps), matchup[0].ID, matchup[1].ID)

		for i := 0; i < opts.Games; i++ {
			// Alternate the starting agent
			white, black := matchup[0], matchup[1]
			if i%2 == 1 {
				white, black = black, white
			}
			count++
			seed := opts.Seed + uint64(count)

			winner, gameMetric, moveMetrics, err := runGame(ctx, white, black, opts.MaxPlies, seed)
			if err != nil {
				return "", fmt.Errorf("experiment %s game %d: %w", name, count, err)
			}
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     white.ID,
				Agent2:     black.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d of %d with winner: %s", mi+1, len(matchUps), i+1, opts.Games, winner)
		}
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(opts.Dir, name, opts.Compress)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", err
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", err
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", err
	}
	log.Info().Msgf("stored records in %s", writer.Dir())

	return writer.Dir(), nil
}

// runGame executes a single game between two agents and returns the winner
func runGame(ctx context.Context, white, black metrics.AgentConfig, maxPlies int, seed uint64) (game.Color, metrics.GameMetric, []metrics.MoveMetric, error) {
	whiteAgent, err := createAgent(white, seed)
	if err != nil {
		return game.NoColor, metrics.GameMetric{}, nil, err
	}
	blackAgent, err := createAgent(black, seed+1)
	if err != nil {
		return game.NoColor, metrics.GameMetric{}, nil, err
	}
	e, err := engine.NewLocal(game.NewBoard(), whiteAgent, blackAgent, maxPlies)
	if err != nil {
		return game.NoColor, metrics.GameMetric{}, nil, err
	}
	return e.Run(ctx)
}

func createAgent(config metrics.AgentConfig, seed uint64) (agent.Agent, error) {
	switch config.Kind {
	case metrics.RandomAgent:
		return agent.NewRandomAgent(seed), nil
	case metrics.RemoteAgent:
		if err := config.Search.Validate(); err != nil {
			return nil, err
		}
		search := config.Search
		return agent.NewRemoteAgent(client.NewClient(config.Endpoint, nil), &search), nil
	}

	options := []searcher.Option{searcher.WithSeed(seed), searcher.WithMetrics()}
	if config.Goroutines > 0 {
		options = append(options, searcher.WithGoroutines(config.Goroutines))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.TrialBudget > 0 {
		options = append(options, searcher.WithTrialBudget(config.TrialBudget))
	}
	ranker, err := searcher.NewRanker(config.Search, options...)
	if err != nil {
		return nil, err
	}

	switch config.Kind {
	case metrics.RankingAgent:
		return agent.NewRankingAgent(ranker), nil
	case metrics.SamplingAgent:
		return agent.NewSamplingAgent(ranker, config.Temperature, seed), nil
	}
	return nil, fmt.Errorf("unknown agent kind %q", config.Kind)
}
