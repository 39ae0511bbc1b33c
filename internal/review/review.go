// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import "time"

// Review is a scored opinion a user publishes about a title.
//
// # Invariants
//
//   - Score is an integer on the 1..10 scale.
//   - A user holds at most one review per title, enforced both in the
//     service layer and by a unique constraint in storage.
type Review struct {
	ID       string `json:"id"`
	TitleID  string `json:"title_id"`
	AuthorID string `json:"-"`
	// Author is the review author's username, denormalized at read time
	// for display. Registered users always have a username.
	Author string `json:"author"`
	Text   string `json:"text"`
	Score  int    `json:"score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Score bounds for the 1..10 rating scale.
const (
	MinScore = 1
	MaxScore = 10
)
