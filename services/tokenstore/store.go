package tokenstore

import (
	"context"
	"errors"

	"wellportal/models"
)

// ErrNoSession is returned by Provider lookups with an empty session id.
var ErrNoSession = errors.New("tokenstore: empty session id")

// Store holds the token pair and user of exactly one browser session.
// Load returns (nil, nil) when nothing is stored. Concurrent writers are
// last-writer-wins.
type Store interface {
	Load(ctx context.Context) (*models.AuthSession, error)
	Save(ctx context.Context, session *models.AuthSession) error
	Clear(ctx context.Context) error
}

// Provider hands out the Store bound to a session id.
type Provider interface {
	For(sid string) Store
}

// emptyStore is handed out for an empty sid so callers fail closed.
type emptyStore struct{}

func (emptyStore) Load(context.Context) (*models.AuthSession, error) { return nil, nil }
func (emptyStore) Save(context.Context, *models.AuthSession) error  { return ErrNoSession }
func (emptyStore) Clear(context.Context) error                      { return nil }

// ErrNotAuthenticated means there is no stored access token to call with.
var ErrNotAuthenticated = errors.New("not authenticated")

// Session loads the stored session and requires an access token on it.
func Session(ctx context.Context, store Store) (*models.AuthSession, error) {
	session, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil || session.AccessToken == "" {
		return nil, ErrNotAuthenticated
	}
	return session, nil
}
