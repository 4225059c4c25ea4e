package models

import (
	"time"
)

// User is the persisted identity a websocket channel authenticates as
type User struct {
	ID        int64     `db:"id" json:"id"`
	Nickname  string    `db:"nickname" json:"nickname"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Friendship is an undirected edge between two users
type Friendship struct {
	ID        int64     `db:"id" json:"id"`
	UserAID   int64     `db:"user_a_id" json:"user_a_id"`
	UserBID   int64     `db:"user_b_id" json:"user_b_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FriendEdgeRow is a friendship joined with both users' nicknames
type FriendEdgeRow struct {
	UserAID       int64  `db:"user_a_id"`
	UserANickname string `db:"user_a_nickname"`
	UserBID       int64  `db:"user_b_id"`
	UserBNickname string `db:"user_b_nickname"`
}

// Friendship statuses
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)
