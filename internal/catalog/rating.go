// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import "context"

// ScoreSource supplies the review scores needed to compute title ratings.
//
// # Architecture
//
// The catalog never reads the review tables directly through its own queries'
// business logic; this narrow interface is the only coupling point. The
// postgres title repository implements it with a single grouped query.
type ScoreSource interface {
	// ScoresForTitles returns every review score for each of the given title
	// IDs, keyed by title ID. Titles with no reviews are absent from the map.
	ScoresForTitles(ctx context.Context, titleIDs []string) (map[string][]int, error)
}

// Mean returns the arithmetic mean of the given scores, or nil when the
// slice is empty.
//
// The result is an exact float64 mean with no rounding; presentation-layer
// formatting is the client's concern.
func Mean(scores []int) *float64 {
	if len(scores) == 0 {
		return nil
	}

	sum := 0
	for _, s := range scores {
		sum += s
	}

	mean := float64(sum) / float64(len(scores))
	return &mean
}

// Aggregator decorates titles with their computed rating.
//
// It is invoked by every title read path (single fetch and list) so that the
// rating always reflects the current review set without a denormalized column.
type Aggregator struct {
	scores ScoreSource
}

// NewAggregator constructs an [Aggregator] backed by the given score source.
func NewAggregator(scores ScoreSource) *Aggregator {
	return &Aggregator{scores: scores}
}

// Decorate computes and assigns the Rating field on each of the given titles.
//
// It issues a single batched lookup regardless of the number of titles, so
// list endpoints pay one query per page rather than one per row.
func (aggregator *Aggregator) Decorate(ctx context.Context, titles ...*Title) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]string, 0, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
	}

	scoresByTitle, err := aggregator.scores.ScoresForTitles(ctx, ids)
	if err != nil {
		return err
	}

	for _, t := range titles {
		t.Rating = Mean(scoresByTitle[t.ID])
	}

	return nil
}
