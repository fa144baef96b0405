package auth_test

import (
	"context"
	"sync"
	"testing"

	auth "github.com/goliatone/go-session-auth"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB opens an in-memory sqlite database with the schema applied.
// MaxOpenConns(1) keeps every query on the same connection, otherwise the
// in-memory database vanishes between pool checkouts.
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := auth.OpenSQLiteDB(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	require.NoError(t, auth.Migrate(context.Background(), db))

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// fastHasher trades bcrypt cost for test speed.
type fastHasher struct{}

func (fastHasher) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (fastHasher) ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return auth.ErrMismatchedHashAndPassword
	}
	return nil
}

// capturingSink records activity events for assertions.
type capturingSink struct {
	mu     sync.Mutex
	events []auth.ActivityEvent
}

func (s *capturingSink) Record(_ context.Context, event auth.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *capturingSink) types() []auth.ActivityEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]auth.ActivityEventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.EventType)
	}
	return out
}

func newTestAuthenticator(t *testing.T) (*auth.Auther, auth.RepositoryManager, *capturingSink) {
	t.Helper()

	repo := auth.NewRepositoryManager(setupTestDB(t))
	sink := &capturingSink{}
	svc := auth.NewAuthenticator(repo).
		WithPasswordAuthenticator(fastHasher{}).
		WithActivitySink(sink)

	return svc, repo, sink
}
