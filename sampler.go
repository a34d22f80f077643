package main

import (
	"container/heap"
	"iter"
	"math"
	"math/rand/v2"
)

type keyedCandidate struct {
	key float64
	Candidate
}

// selectionHeap is a min-heap on key, so the weakest selected item is at [0].
type selectionHeap []keyedCandidate

func (h selectionHeap) Len() int           { return len(h) }
func (h selectionHeap) Less(i, j int) bool { return h[i].key < h[j].key }
func (h selectionHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *selectionHeap) Push(x any) {
	*h = append(*h, x.(keyedCandidate))
}

func (h *selectionHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// sampleKey draws the Efraimidis-Spirakis key ln(u)/w. Keys are negative;
// heavier items tend to land closer to zero.
func sampleKey(rng *rand.Rand, weight float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = math.SmallestNonzeroFloat64
	}
	return math.Log(u) / weight
}

// sampleCandidates picks up to k candidates from the stream in one pass,
// weighted by Candidate.Weight when weighted is set and uniformly otherwise.
// The result is shuffled so its order says nothing about keys or discovery
// order.
func sampleCandidates(candidates iter.Seq[Candidate], k int, weighted bool, rng *rand.Rand) []Candidate {
	if k < 1 {
		return nil
	}

	h := make(selectionHeap, 0, min(k, 1024))
	for c := range candidates {
		w := 1.0
		if weighted {
			if c.Weight <= 0 {
				continue
			}
			w = float64(c.Weight)
		}
		key := sampleKey(rng, w)

		if h.Len() < k {
			heap.Push(&h, keyedCandidate{key: key, Candidate: c})
			continue
		}
		if key > h[0].key {
			h[0] = keyedCandidate{key: key, Candidate: c}
			heap.Fix(&h, 0)
		}
	}

	selected := make([]Candidate, len(h))
	for i, kc := range h {
		selected[i] = kc.Candidate
	}
	rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	return selected
}
