package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	sessionTTL       = 24 * time.Hour
)

// ErrNoSession is returned when a session id is unknown or expired.
var ErrNoSession = errors.New("no such session")

// Session is the server-side session record. The client only ever holds the
// ID (via cookie); UserID stays 0 until a login upgrades the session.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticated reports whether a login has bound a user to this session.
func (s Session) Authenticated() bool { return s.UserID != 0 }

// Store manages sessions in Redis.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a new session store.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = sessionTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// TTL returns the session lifetime, for cookie max-age.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create stores a new anonymous session and returns it.
func (s *Store) Create(ctx context.Context) (Session, error) {
	id, err := newSessionID()
	if err != nil {
		return Session{}, err
	}
	now := time.Now().UTC()
	sess := Session{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.write(ctx, sess, s.ttl); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Get returns the session by ID, or ErrNoSession if unknown or expired.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	b, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// SetUser binds a user to an existing session (login upgrade). The record is
// rewritten in place and the remaining TTL is preserved: logging in does not
// extend the 24h window. Concurrent upgrades are last-write-wins.
func (s *Store) SetUser(ctx context.Context, id string, userID int64, username string) (Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	sess.UserID = userID
	sess.Username = username
	if err := s.write(ctx, sess, redis.KeepTTL); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Delete removes a session by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+id).Err()
}

func (s *Store) write(ctx context.Context, sess Session, ttl time.Duration) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKeyPrefix+sess.ID, b, ttl).Err()
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
