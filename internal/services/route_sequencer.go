package services

import "time"

// SequenceCandidate is one order considered for a slot: its identity and
// the on-site work it requires.
type SequenceCandidate struct {
	OrderID     string
	WorkMinutes int
}

// SequenceRoute orders candidates within one slot window using a greedy
// nearest-neighbor walk from the depot.
//
// The matrix carries the depot at position 0 and candidate i at position
// i+1. At each step the unvisited candidate with the minimum travel time
// from the current position is selected; ties keep insertion order (the
// comparison is strict). Before a candidate is included, the running clock
// is speculatively advanced by travel plus work; if that would pass
// slotEnd, the walk stops and the subsequence built so far is returned.
// Remaining candidates are left for a later slot or the unscheduled pool.
//
// Single pass, no backtracking, no 2-opt. Optimality is secondary to
// bounded latency and predictable output, and the fallback-capable
// distance estimator already introduces enough variance that exact tour
// optimization would be wasted effort.
func SequenceRoute(candidates []SequenceCandidate, matrix TravelMatrix, slotStart, slotEnd time.Time) []int {
	visited := make([]bool, len(candidates))
	sequence := make([]int, 0, len(candidates))

	clock := slotStart
	current := 0 // depot

	for len(sequence) < len(candidates) {
		best := -1
		bestMinutes := 0
		for i := range candidates {
			if visited[i] {
				continue
			}
			cell := matrix.At(current, i+1)
			if cell == nil {
				// Unreachable: missing coordinates, never zero cost.
				continue
			}
			if best == -1 || cell.DurationMinutes < bestMinutes {
				best = i
				bestMinutes = cell.DurationMinutes
			}
		}
		if best == -1 {
			break
		}

		work := time.Duration(candidates[best].WorkMinutes) * time.Minute
		travel := time.Duration(bestMinutes) * time.Minute
		finish := clock.Add(travel + work)
		if finish.After(slotEnd) {
			break
		}

		visited[best] = true
		sequence = append(sequence, best)
		clock = finish
		current = best + 1
	}

	return sequence
}
