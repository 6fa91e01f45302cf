package model

import "time"

// Follow is a directed edge: FollowerID follows FollowedID.
//
// The pair (follower_id, followed_id) is the primary key — the store cannot
// hold a duplicate edge, which is what makes Follow idempotent under
// concurrent requests. "Followers" and "following" are the two directional
// views over this one edge set.
type Follow struct {
	FollowerID string    `json:"followerId" db:"follower_id"`
	FollowedID string    `json:"followedId" db:"followed_id"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
}
