// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	t.Run("no scores yields nil", func(t *testing.T) {
		assert.Nil(t, Mean(nil))
		assert.Nil(t, Mean([]int{}))
	})

	t.Run("single score", func(t *testing.T) {
		m := Mean([]int{7})
		require.NotNil(t, m)
		assert.Equal(t, 7.0, *m)
	})

	t.Run("exact mean without rounding", func(t *testing.T) {
		m := Mean([]int{1, 2})
		require.NotNil(t, m)
		assert.Equal(t, 1.5, *m)
	})

	t.Run("mixed scores", func(t *testing.T) {
		m := Mean([]int{10, 5, 3})
		require.NotNil(t, m)
		assert.InDelta(t, 6.0, *m, 1e-9)
	})
}

// stubScoreSource serves canned score sets keyed by title ID.
type stubScoreSource struct {
	scores map[string][]int
	calls  int
}

func (s *stubScoreSource) ScoresForTitles(_ context.Context, titleIDs []string) (map[string][]int, error) {
	s.calls++
	out := make(map[string][]int)
	for _, id := range titleIDs {
		if scores, ok := s.scores[id]; ok {
			out[id] = scores
		}
	}
	return out, nil
}

func TestAggregatorDecorate(t *testing.T) {
	source := &stubScoreSource{scores: map[string][]int{
		"t1": {8, 9},
		"t2": {4},
	}}
	aggregator := NewAggregator(source)

	rated := &Title{ID: "t1"}
	single := &Title{ID: "t2"}
	unrated := &Title{ID: "t3"}

	err := aggregator.Decorate(context.Background(), rated, single, unrated)
	require.NoError(t, err)

	require.NotNil(t, rated.Rating)
	assert.Equal(t, 8.5, *rated.Rating)

	require.NotNil(t, single.Rating)
	assert.Equal(t, 4.0, *single.Rating)

	assert.Nil(t, unrated.Rating, "a title without reviews must stay unrated")

	// One batched lookup regardless of page size.
	assert.Equal(t, 1, source.calls)
}

func TestAggregatorDecorateEmpty(t *testing.T) {
	source := &stubScoreSource{}
	aggregator := NewAggregator(source)

	require.NoError(t, aggregator.Decorate(context.Background()))
	assert.Zero(t, source.calls)
}
