package searcher

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Goroutines int
	Candidates int
	Planned    int   // Trials scheduled by the cautiousness and trial budget
	Trials     int64 // Trials that ran to completion
	Plies      int64 // Rollout plies simulated after the candidate moves
	GameOvers  int64 // Rollouts that reached the end of the game before the horizon
	Duration   time.Duration
	Partial    bool
}

type Collector interface {
	Start(goroutines, candidates, planned int)
	AddTrial(plies int, gameOver bool)
	Complete(partial bool) SearchMetric
}

type collector struct {
	goroutines int
	candidates int
	planned    int
	startTime  time.Time
	trials     atomic.Int64
	plies      atomic.Int64
	gameOvers  atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines, candidates, planned int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.candidates = candidates
	m.planned = planned
}

func (m *collector) AddTrial(plies int, gameOver bool) {
	m.trials.Add(1)
	m.plies.Add(int64(plies))
	if gameOver {
		m.gameOvers.Add(1)
	}
}

func (m *collector) Complete(partial bool) SearchMetric {
	return SearchMetric{
		Goroutines: m.goroutines,
		Candidates: m.candidates,
		Planned:    m.planned,
		Trials:     m.trials.Load(),
		Plies:      m.plies.Load(),
		GameOvers:  m.gameOvers.Load(),
		Duration:   time.Since(m.startTime),
		Partial:    partial,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, candidates, planned int) {}
func (m *dummyCollector) AddTrial(plies int, gameOver bool)         {}
func (m *dummyCollector) Complete(partial bool) SearchMetric        { return SearchMetric{Partial: partial} }
