// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import "time"

// Comment is a reply a user attaches to a review.
//
// Comments form a single-level thread under their review: they reference
// the review directly, and replies-to-replies are expressed as further
// comments on the same review.
type Comment struct {
	ID       string `json:"id"`
	ReviewID string `json:"review_id"`
	AuthorID string `json:"-"`
	// Author is the comment author's username, denormalized at read time.
	Author string `json:"author"`
	Text   string `json:"text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
