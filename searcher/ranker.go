package searcher

import (
	"cmp"
	"context"
	cryptorand "crypto/rand"
	"fmt"
	"io"
	"runtime"
	"time"

	"chessbot/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

type Option func(r *Ranker)

// Ranker scores candidate moves by random rollouts. A Ranker is immutable
// after construction and safe for concurrent use.
type Ranker struct {
	config      Config
	goroutines  int
	duration    time.Duration
	trialBudget int
	seed        uint64
	seeded      bool
	entropy     io.Reader
	policy      Policy
	evaluate    game.Evaluate
	metrics     func() Collector
}

func WithGoroutines(goroutines int) Option {
	return func(r *Ranker) {
		if goroutines > 0 {
			r.goroutines = goroutines
		}
	}
}

// WithDuration bounds the wall-clock time of a ranking pass.
func WithDuration(duration time.Duration) Option {
	return func(r *Ranker) {
		if duration > 0 {
			r.duration = duration
		}
	}
}

// WithTrialBudget bounds the total number of trials of a ranking pass.
func WithTrialBudget(trials int) Option {
	return func(r *Ranker) {
		if trials > 0 {
			r.trialBudget = trials
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(r *Ranker) {
		r.seed = seed
		r.seeded = true
	}
}

// WithEntropy replaces the source of unseeded base seeds.
func WithEntropy(entropy io.Reader) Option {
	return func(r *Ranker) {
		if entropy != nil {
			r.entropy = entropy
		}
	}
}

func WithPolicy(policy Policy) Option {
	return func(r *Ranker) {
		if policy != nil {
			r.policy = policy
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(r *Ranker) {
		if evaluate != nil {
			r.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(r *Ranker) {
		r.metrics = NewCollector
	}
}

func NewRanker(config Config, options ...Option) (*Ranker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	r := &Ranker{ // Default values
		config:     config,
		goroutines: runtime.NumCPU(),
		entropy:    cryptorand.Reader,
		policy:     UniformPolicy,
		evaluate:   game.MaterialBalance(config.DefenseToAttackRatio),
		metrics:    NewDummyCollector,
	}
	for _, option := range options {
		option(r)
	}
	return r, nil
}

func (r *Ranker) Config() Config {
	return r.config
}

// Rank filters the legal moves of pos down to safe candidates and ranks them
// by descending confidence. limit <= 0 keeps every candidate.
func (r *Ranker) Rank(ctx context.Context, pos game.Position, limit int) (Ranking, error) {
	legal := pos.LegalMoves()
	if len(legal) == 0 {
		return Ranking{}, ErrNoLegalMoves
	}
	safe := FilterSafe(pos, legal)
	if len(safe) == 0 {
		return Ranking{}, ErrNoSafeCandidate
	}
	return r.RankCandidates(ctx, pos, safe, limit)
}

// RankCandidates ranks the given moves without safety filtering. Ties keep
// the order of candidates.
func (r *Ranker) RankCandidates(ctx context.Context, pos game.Position, candidates []game.Move, limit int) (Ranking, error) {
	if len(candidates) == 0 {
		return Ranking{}, ErrNoLegalMoves
	}
	base, err := r.baseSeed()
	if err != nil {
		return Ranking{}, err
	}

	trials := r.config.Cautiousness
	partial := false
	if r.trialBudget > 0 && trials > r.trialBudget/len(candidates) {
		trials = max(1, r.trialBudget/len(candidates))
		partial = true
	}

	searchCtx := ctx
	if r.duration > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, r.duration)
		defer cancel()
	}

	metrics := r.metrics()
	metrics.Start(r.goroutines, len(candidates), len(candidates)*trials)

	// Trials run in batches of whole rounds. Round j holds trial j of every
	// candidate, so a budget that runs out still leaves each candidate scored
	// by its earliest trials.
	rounds := min(trials, max(1, batchTrials*r.goroutines/len(candidates)))
	work := batch{
		candidates: candidates,
		scores:     make([]float64, rounds*len(candidates)),
		done:       make([]bool, rounds*len(candidates)),
	}
	sums := make([]float64, len(candidates))
	counts := make([]int, len(candidates))
	for first := 0; first < trials && searchCtx.Err() == nil; first += rounds {
		work.first, work.last = first, min(first+rounds, trials)
		clear(work.done)
		if err := r.runBatch(searchCtx, pos, base, &work, metrics); err != nil {
			return Ranking{}, err
		}
		// Fold in trial order so seeded scores do not depend on scheduling
		for j := work.first; j < work.last; j++ {
			for i := range candidates {
				if slot := work.slot(i, j); work.done[slot] {
					sums[i] += work.scores[slot]
					counts[i]++
				}
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return Ranking{}, fmt.Errorf("ranking aborted: %w", err)
	}

	ranking := Ranking{Partial: partial}
	for i, move := range candidates {
		if counts[i] < trials {
			ranking.Partial = true
		}
		if counts[i] == 0 {
			continue
		}
		ranking.Moves = append(ranking.Moves, ScoredMove{Move: move, Confidence: sums[i] / float64(counts[i]), Trials: counts[i]})
	}
	if len(ranking.Moves) == 0 {
		return Ranking{}, ErrBudgetExhausted
	}
	if ranking.Partial {
		log.Debug().Msgf("ranking cut short: %d of %d candidates scored", len(ranking.Moves), len(candidates))
	}

	slices.SortStableFunc(ranking.Moves, func(a, b ScoredMove) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})
	if limit > 0 && len(ranking.Moves) > limit {
		ranking.Moves = ranking.Moves[:limit]
	}
	ranking.Metrics = metrics.Complete(ranking.Partial)
	return ranking, nil
}

// batchTrials is the number of trials per goroutine queued in one batch.
const batchTrials = 4

// batch holds the results of rounds [first, last) of a ranking pass.
type batch struct {
	candidates  []game.Move
	first, last int
	scores      []float64
	done        []bool
}

func (b *batch) slot(i, j int) int {
	return (j-b.first)*len(b.candidates) + i
}

// runBatch schedules round by round, candidate by candidate, and waits for
// every queued trial. Trials cut off by ctx leave their slot undone.
func (r *Ranker) runBatch(ctx context.Context, pos game.Position, base uint64, b *batch, metrics Collector) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.goroutines)
	for j := b.first; j < b.last; j++ {
		for i, move := range b.candidates {
			if gctx.Err() != nil {
				return g.Wait()
			}
			j, move := j, move
			slot := b.slot(i, j)
			g.Go(func() error {
				if gctx.Err() != nil {
					return nil
				}
				result, err := r.trial(gctx, pos, move, trialSeed(base, move, j))
				if err != nil {
					if aborted(err) {
						return nil
					}
					return err
				}
				b.scores[slot] = result.score
				b.done[slot] = true
				metrics.AddTrial(result.plies, result.gameOver)
				return nil
			})
		}
	}
	return g.Wait()
}
