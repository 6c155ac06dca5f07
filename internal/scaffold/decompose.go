package scaffold

import (
	"math"
	"sync"
)

// dpState holds the dynamic programming arrays for reuse via sync.Pool.
type dpState struct {
	dp     []int
	parent []int
}

// dpPool provides reusable DP state objects to reduce GC pressure.
// Pre-allocates for a 10m run at the default resolution.
var dpPool = sync.Pool{
	New: func() interface{} {
		return &dpState{
			dp:     make([]int, 0, 1024),
			parent: make([]int, 0, 1024),
		}
	},
}

// getDPState retrieves a dpState from the pool sized for totals 0..size-1.
// Every total starts unreachable except zero.
func getDPState(size int) *dpState {
	state, _ := dpPool.Get().(*dpState)
	if state == nil {
		state = &dpState{}
	}

	if cap(state.dp) < size {
		state.dp = make([]int, size)
		state.parent = make([]int, size)
	} else {
		state.dp = state.dp[:size]
		state.parent = state.parent[:size]
	}

	for i := range state.dp {
		state.dp[i] = -1
		state.parent[i] = -1
	}
	state.dp[0] = 0

	return state
}

// putDPState returns a dpState to the pool for reuse.
func putDPState(state *dpState) {
	if cap(state.dp) > 100000 {
		state.dp = make([]int, 0, 1024)
		state.parent = make([]int, 0, 1024)
	}
	dpPool.Put(state)
}

func scale(v float64, resolution int) int {
	return int(math.Round(v * float64(resolution)))
}

// MinimalExact returns the shortest sequence of pieces whose lengths add up
// exactly to target, at the given resolution. Pieces are tried in the order
// given and a decomposition only replaces another when it is strictly
// shorter, so among equal-count answers the earliest piece wins at each step.
// The second return value is false when target cannot be built.
func MinimalExact(target float64, pieces []float64, resolution int) ([]float64, bool) {
	total := scale(target, resolution)
	if total <= 0 || len(pieces) == 0 {
		return nil, false
	}
	coins := scaleAll(pieces, resolution)

	state := getDPState(total + 1)
	defer putDPState(state)
	fillTable(state, coins, total)

	if state.dp[total] < 0 {
		return nil, false
	}
	return reconstruct(state, pieces, coins, total), true
}

// MinimalWithOverage returns the sequence whose total is the smallest
// reachable value in [target, target+maxOverage], preferring fewer pieces
// when two totals overshoot by the same amount.
func MinimalWithOverage(target float64, pieces []float64, maxOverage float64, resolution int) ([]float64, bool) {
	low := scale(target, resolution)
	high := scale(target+maxOverage, resolution)
	if low <= 0 || high < low || len(pieces) == 0 {
		return nil, false
	}
	coins := scaleAll(pieces, resolution)

	state := getDPState(high + 1)
	defer putDPState(state)
	fillTable(state, coins, high)

	// Each total has exactly one overshoot and dp already holds its minimal
	// count, so the first reachable total is the answer.
	best := -1
	for i := low; i <= high; i++ {
		if state.dp[i] >= 0 {
			best = i
			break
		}
	}
	if best < 0 {
		return nil, false
	}
	return reconstruct(state, pieces, coins, best), true
}

func scaleAll(pieces []float64, resolution int) []int {
	coins := make([]int, len(pieces))
	for i, p := range pieces {
		coins[i] = scale(p, resolution)
	}
	return coins
}

// fillTable runs the unbounded coin-change recurrence for totals 1..upto.
func fillTable(state *dpState, coins []int, upto int) {
	dp, parent := state.dp, state.parent
	for i := 1; i <= upto; i++ {
		for idx, c := range coins {
			if c <= 0 || c > i || dp[i-c] < 0 {
				continue
			}
			if dp[i] < 0 || dp[i-c]+1 < dp[i] {
				dp[i] = dp[i-c] + 1
				parent[i] = idx
			}
		}
	}
}

func reconstruct(state *dpState, pieces []float64, coins []int, end int) []float64 {
	out := make([]float64, 0, state.dp[end])
	for cur := end; cur > 0; {
		idx := state.parent[cur]
		out = append(out, pieces[idx])
		cur -= coins[idx]
	}
	return out
}
