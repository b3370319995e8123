package learnify

import (
	"errors"
	"fmt"
)

// UserStore is the slice of the persistence adapter the authenticator
// needs.
type UserStore interface {
	UserByEmail(email string) (*User, error)
	CreateUser(user *User) error
}

// Authenticator checks credentials against the user collection. Session
// identity is the caller's concern; operations here return the matched
// user and nothing more.
type Authenticator struct {
	store UserStore
}

// NewAuthenticator creates an authenticator backed by the given store.
func NewAuthenticator(store UserStore) *Authenticator {
	return &Authenticator{store: store}
}

// Login matches the credentials against the stored user list. The
// comparison is plaintext, mirroring the seeded local account model.
func (a *Authenticator) Login(email, password string) (*User, error) {
	user, err := a.store.UserByEmail(email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user.Password != password {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Signup registers a new account. Fails with ErrEmailTaken when the
// email is already registered.
func (a *Authenticator) Signup(email, password, name string, role Role) (*User, error) {
	_, err := a.store.UserByEmail(email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user := &User{
		ID:       NewID(),
		Email:    email,
		Role:     role,
		Name:     name,
		Password: password,
	}
	if err := a.store.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}
