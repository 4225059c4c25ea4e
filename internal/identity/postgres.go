package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/matchmaker/internal/models"
)

// PostgresStore reads users and friendships with sqlx.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open connection pool.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// FindFriendEdges returns accepted friendships where userID is on either side
func (s *PostgresStore) FindFriendEdges(ctx context.Context, userID int64) ([]FriendEdge, error) {
	var rows []models.FriendEdgeRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT f.user_a_id, ua.nickname AS user_a_nickname,
		       f.user_b_id, ub.nickname AS user_b_nickname
		FROM friendships f
		JOIN users ua ON ua.id = f.user_a_id
		JOIN users ub ON ub.id = f.user_b_id
		WHERE (f.user_a_id = $1 OR f.user_b_id = $1)
		  AND f.status = $2
	`, userID, models.FriendshipAccepted)
	if err != nil {
		return nil, fmt.Errorf("select friendships for user %d: %w", userID, err)
	}

	edges := make([]FriendEdge, 0, len(rows))
	for _, r := range rows {
		edges = append(edges, FriendEdge{
			A: Identity{ID: r.UserAID, Nickname: r.UserANickname},
			B: Identity{ID: r.UserBID, Nickname: r.UserBNickname},
		})
	}
	return edges, nil
}

// ResolveByNickname looks a user up by exact nickname
func (s *PostgresStore) ResolveByNickname(ctx context.Context, nickname string) (Identity, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `SELECT id, nickname, created_at FROM users WHERE nickname=$1`, nickname)
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{}, ErrNotFound
	}
	if err != nil {
		return Identity{}, fmt.Errorf("select user %q: %w", nickname, err)
	}
	return Identity{ID: u.ID, Nickname: u.Nickname}, nil
}

// EnsureUser returns the user with nickname, creating it if missing.
// Used by the dev seed tool; the service itself never writes users.
func (s *PostgresStore) EnsureUser(ctx context.Context, nickname string) (Identity, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `
		INSERT INTO users (nickname, created_at) VALUES ($1, NOW())
		ON CONFLICT (nickname) DO UPDATE SET nickname = EXCLUDED.nickname
		RETURNING id, nickname, created_at
	`, nickname)
	if err != nil {
		return Identity{}, fmt.Errorf("upsert user %q: %w", nickname, err)
	}
	return Identity{ID: u.ID, Nickname: u.Nickname}, nil
}

// EnsureFriendship records an accepted friendship between a and b.
func (s *PostgresStore) EnsureFriendship(ctx context.Context, a, b int64) error {
	if a == b {
		return fmt.Errorf("user %d cannot befriend itself", a)
	}
	if a > b {
		a, b = b, a
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO friendships (user_a_id, user_b_id, status, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_a_id, user_b_id) DO UPDATE SET status = EXCLUDED.status
	`, a, b, models.FriendshipAccepted)
	if err != nil {
		return fmt.Errorf("upsert friendship %d-%d: %w", a, b, err)
	}
	log.Printf("[DB] friendship ensured: %d <-> %d", a, b)
	return nil
}
