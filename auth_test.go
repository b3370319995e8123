package learnify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users map[string]*User // keyed by email
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*User)}
}

func (f *fakeUserStore) UserByEmail(email string) (*User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) CreateUser(user *User) error {
	f.users[user.Email] = user
	return nil
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	store.users["student@example.com"] = &User{
		ID:       "student-1",
		Email:    "student@example.com",
		Role:     RoleStudent,
		Name:     "Alex Johnson",
		Password: "password123",
	}
	auth := NewAuthenticator(store)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: "student@example.com", password: "password123"},
		{name: "wrong password", email: "student@example.com", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "unknown email", email: "ghost@example.com", password: "password123", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := auth.Login(tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "student-1", user.ID)
		})
	}
}

func TestSignup(t *testing.T) {
	store := newFakeUserStore()
	auth := NewAuthenticator(store)

	user, err := auth.Signup("new@example.com", "secret", "New Student", RoleStudent)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, RoleStudent, user.Role)

	// The new account can log in immediately.
	logged, err := auth.Login("new@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	// The email is now taken.
	_, err = auth.Signup("new@example.com", "other", "Someone Else", RoleTeacher)
	assert.ErrorIs(t, err, ErrEmailTaken)
}
