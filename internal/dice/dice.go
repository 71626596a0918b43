// Package dice implements classic dice-notation rolling for the ledger's
// roll command.
package dice

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
)

// maxIndividualRolls bounds how many dice are rolled one by one. Larger
// pools use a normal approximation of the pool's sum.
const maxIndividualRolls = 100

var (
	// ErrInvalidNotation indicates a string that is not (N)dS(+K).
	ErrInvalidNotation = errors.New("invalid dice notation")
	// ErrInvalidCount indicates a non-positive number of dice.
	ErrInvalidCount = errors.New("number of dice must be positive")
	// ErrInvalidSides indicates a non-positive number of sides.
	ErrInvalidSides = errors.New("number of sides must be positive")
	// ErrPoolTooLarge indicates a pool whose approximated sum overflows.
	ErrPoolTooLarge = errors.New("dice pool is too large")
)

// Pool describes a single roll request: Count dice of Sides sides plus a
// flat Offset.
type Pool struct {
	Count  int
	Sides  int
	Offset int
}

// Result captures the outcome of rolling a pool.
type Result struct {
	// Rolls holds individual die results, or a single approximated sum for
	// pools above maxIndividualRolls.
	Rolls []int
	// Total is the sum of all rolls plus the pool offset.
	Total int
	// Approximated reports whether Rolls holds a normal-approximation sum
	// instead of individual dice.
	Approximated bool
}

// ParseNotation parses `(N)dS(+K)`, e.g. "d20", "4d8+3".
func ParseNotation(notation string) (Pool, error) {
	countStr, rest, ok := strings.Cut(notation, "d")
	if !ok {
		return Pool{}, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
	}

	pool := Pool{Count: 1}
	if countStr != "" {
		count, err := strconv.Atoi(countStr)
		if err != nil {
			return Pool{}, fmt.Errorf("%w: %q is not a number of rolls", ErrInvalidNotation, countStr)
		}
		pool.Count = count
	}

	sidesStr, offsetStr, hasOffset := strings.Cut(rest, "+")
	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Pool{}, fmt.Errorf("%w: %q is not a number of sides", ErrInvalidNotation, sidesStr)
	}
	pool.Sides = sides

	if hasOffset {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return Pool{}, fmt.Errorf("%w: %q is not an offset", ErrInvalidNotation, offsetStr)
		}
		pool.Offset = offset
	}
	return pool, nil
}

// Roll rolls the pool with the provided random source.
//
// Pools of up to maxIndividualRolls dice are rolled die by die. Larger
// pools draw one sample from the normal approximation of the pool's sum
// (mean n(s+1)/2, variance n(s²−1)/12), clamped to the pool's attainable
// range [n, n·s].
func Roll(rng *rand.Rand, pool Pool) (Result, error) {
	if pool.Count <= 0 {
		return Result{}, ErrInvalidCount
	}
	if pool.Sides <= 0 {
		return Result{}, ErrInvalidSides
	}

	if pool.Count <= maxIndividualRolls {
		rolls := make([]int, pool.Count)
		total := 0
		for i := range rolls {
			rolls[i] = 1 + rng.Intn(pool.Sides)
			total += rolls[i]
		}
		return Result{Rolls: rolls, Total: total + pool.Offset}, nil
	}

	n := float64(pool.Count)
	s := float64(pool.Sides)
	mu := n * (s + 1) / 2
	sigma := math.Sqrt(n * (s*s - 1) / 12)
	if math.IsInf(mu, 0) || math.IsInf(sigma, 0) {
		return Result{}, ErrPoolTooLarge
	}

	sum := int(math.Round(rng.NormFloat64()*sigma + mu))
	sum = min(sum, pool.Count*pool.Sides)
	sum = max(sum, pool.Count)
	return Result{Rolls: []int{sum}, Total: sum + pool.Offset, Approximated: true}, nil
}
