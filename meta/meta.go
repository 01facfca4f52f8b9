// meta/meta.go
package meta

// GO_ROUTINES defines the number of goroutines running rollout trials.
const GO_ROUTINES = 8

// MOVES_AHEAD defines the number of random plies after a candidate move.
const MOVES_AHEAD = 4

// CAUTIOUSNESS defines the number of independent trials per candidate move.
const CAUTIOUSNESS = 20

// MAX_MOVES_AHEAD caps the rollout horizon a config may ask for.
const MAX_MOVES_AHEAD = 200

// MAX_CAUTIOUSNESS caps the number of trials per candidate a config may ask for.
const MAX_CAUTIOUSNESS = 10000

// DEFENSE_TO_ATTACK_RATIO weights own losses against opponent losses.
const DEFENSE_TO_ATTACK_RATIO = 6.0

// TOP_N defines the number of ranked moves shown to the user.
const TOP_N = 5

// MAX_PLIES caps the length of a self-play game.
const MAX_PLIES = 300

// LISTEN_ADDR is the default address of the ranking service.
const LISTEN_ADDR = ":8080"
