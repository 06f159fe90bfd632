// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sample draws random taxon subsamples for the benchmarks.
package sample

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
)

// ErrSampleTooLarge is returned when more labels are requested than exist.
var ErrSampleTooLarge = errors.New("sample larger than population")

// ErrNegative is returned for a negative universe or sample size.
var ErrNegative = errors.New("negative sample parameters")

// Labels returns size distinct labels prefix+i, with i drawn without
// replacement from [0, universe).
func Labels(rng *rand.Rand, universe, size int, prefix string) ([]string, error) {
	idx, err := Indexes(rng, universe, size)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(idx))
	for i, v := range idx {
		out[i] = prefix + strconv.Itoa(v)
	}
	return out, nil
}

// Indexes returns size distinct integers from [0, universe) in draw order.
func Indexes(rng *rand.Rand, universe, size int) ([]int, error) {
	if universe < 0 || size < 0 {
		return nil, fmt.Errorf("%w: universe=%d size=%d", ErrNegative, universe, size)
	}
	if size > universe {
		return nil, fmt.Errorf("%w: %d of %d", ErrSampleTooLarge, size, universe)
	}

	// Partial Fisher-Yates: only the first size slots are shuffled.
	pool := make([]int, universe)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < size; i++ {
		j := i + rng.IntN(universe-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:size:size], nil
}

// Names draws size distinct entries from names.
func Names(rng *rand.Rand, names []string, size int) ([]string, error) {
	idx, err := Indexes(rng, len(names), size)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(idx))
	for i, v := range idx {
		out[i] = names[v]
	}
	return out, nil
}

// Batch draws n independent label subsamples up front so that sampling cost
// stays outside a timed loop.
func Batch(rng *rand.Rand, n, universe, size int, prefix string) ([][]string, error) {
	out := make([][]string, n)
	for i := range out {
		s, err := Labels(rng, universe, size, prefix)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// NewRand returns a generator seeded from seed, or from the runtime's
// entropy source when seed is 0.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
