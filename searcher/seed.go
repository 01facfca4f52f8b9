package searcher

import (
	"encoding/binary"
	"fmt"
	"io"

	"chessbot/game"
)

// splitmix64 is a bijective mixer used to spread related seeds apart.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// trialSeed derives the PRNG seed of one trial from the base seed, the move
// and the trial index, so a trial draws the same sequence no matter which
// goroutine runs it or which other moves are ranked alongside it.
func trialSeed(base uint64, m game.Move, trial int) uint64 {
	key := uint64(m.From) | uint64(m.To)<<8 | uint64(m.Promotion)<<16
	return splitmix64(splitmix64(base^key) + uint64(trial))
}

func (r *Ranker) baseSeed() (uint64, error) {
	if r.seeded {
		return r.seed, nil
	}
	var buf [8]byte
	if _, err := io.ReadFull(r.entropy, buf[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRandomness, err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}
