//go:build !integration

package user

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"myShopHub/domain"
	"myShopHub/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users  map[uint]domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Emails(_ context.Context) ([]string, error) {
	var out []string
	for _, u := range r.users {
		out = append(out, u.Email)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeTokenStore struct {
	stored  map[string]domain.Session
	revoked []string
}

func (s *fakeTokenStore) StoreToken(_ context.Context, session domain.Session, _ time.Duration) error {
	s.stored[session.Token] = session
	return nil
}

func (s *fakeTokenStore) RevokeToken(_ context.Context, _ uint, token string) error {
	s.revoked = append(s.revoked, token)
	delete(s.stored, token)
	return nil
}

func (s *fakeTokenStore) RevokeUserTokens(_ context.Context, userID uint) error {
	for token, session := range s.stored {
		if session.UserID == userID {
			s.revoked = append(s.revoked, token)
			delete(s.stored, token)
		}
	}
	return nil
}

func (s *fakeTokenStore) liveFor(userID uint) int {
	n := 0
	for _, session := range s.stored {
		if session.UserID == userID {
			n++
		}
	}
	return n
}

type fakeGoogle struct {
	identity domain.GoogleIdentity
	err      error
}

func (g fakeGoogle) Verify(context.Context, string) (domain.GoogleIdentity, error) {
	return g.identity, g.err
}

type recordingRemover struct {
	removed []string
}

func (r *recordingRemover) Remove(path string) error {
	r.removed = append(r.removed, path)
	return nil
}

func newService(t *testing.T, google GoogleVerifier) (*userService, *fakeUserRepo, *fakeTokenStore, *recordingRemover) {
	t.Helper()
	utils.InitJWT("test-secret", time.Hour)

	repo := newFakeUserRepo()
	tokens := &fakeTokenStore{stored: map[string]domain.Session{}}
	files := &recordingRemover{}
	return NewUserService(repo, validator.New(), tokens, google, files), repo, tokens, files
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, repo, tokens, _ := newService(t, nil)

	token, user, err := svc.Register(ctx, RegisterInput{Name: " Alice ", Email: "Alice@Example.com", Password: "secret"})
	require.NoError(t, err)

	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	require.NotNil(t, user.Password)
	assert.NotEqual(t, "secret", *user.Password)
	assert.Contains(t, tokens.stored, token)

	claims, err := utils.ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)

	t.Run("duplicate email", func(t *testing.T) {
		_, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "alice@example.com", Password: "x"})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, _, err := svc.Register(ctx, RegisterInput{Email: "bob@example.com"})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Len(t, repo.users, 1)
	})

	t.Run("login", func(t *testing.T) {
		_, got, err := svc.Login(ctx, "alice@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alice@example.com", "nope")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

		_, _, err = svc.Login(ctx, "ghost@example.com", "secret")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("logout revokes", func(t *testing.T) {
		require.NoError(t, svc.Logout(ctx, user.ID, token))
		assert.Equal(t, []string{token}, tokens.revoked)
		assert.NotContains(t, tokens.stored, token)
	})
}

func TestGoogleLogin(t *testing.T) {
	ctx := context.Background()
	identity := domain.GoogleIdentity{Subject: "g-1", Email: "Gina@Example.com", Name: "Gina", Picture: "https://img/g.png"}

	t.Run("creates a federated account", func(t *testing.T) {
		svc, repo, _, _ := newService(t, fakeGoogle{identity: identity})

		_, user, err := svc.GoogleLogin(ctx, "id-token")
		require.NoError(t, err)

		assert.Equal(t, "gina@example.com", user.Email)
		assert.Equal(t, domain.ProviderGoogle, user.Provider)
		assert.Nil(t, user.Password)
		require.NotNil(t, user.Avatar)
		assert.Equal(t, identity.Picture, *user.Avatar)
		assert.Len(t, repo.users, 1)

		_, _, err = svc.Login(ctx, "gina@example.com", "anything")
		assert.ErrorIs(t, err, domain.ErrFederatedAccount)
	})

	t.Run("links an existing account and fills the avatar", func(t *testing.T) {
		svc, repo, _, _ := newService(t, fakeGoogle{identity: identity})
		_, existing, err := svc.Register(ctx, RegisterInput{Name: "Gina", Email: "gina@example.com", Password: "pw"})
		require.NoError(t, err)

		_, user, err := svc.GoogleLogin(ctx, "id-token")
		require.NoError(t, err)

		assert.Equal(t, existing.ID, user.ID)
		stored := repo.users[existing.ID]
		require.NotNil(t, stored.Avatar)
		require.NotNil(t, stored.GoogleID)
		assert.Equal(t, "g-1", *stored.GoogleID)
	})

	t.Run("rejected token", func(t *testing.T) {
		svc, _, _, _ := newService(t, fakeGoogle{err: errors.New("audience mismatch")})

		_, _, err := svc.GoogleLogin(ctx, "id-token")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestProfileAndAdminUpdates(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, files := newService(t, nil)

	_, alice, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "pw", Avatar: "/uploads/old.png"})
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)

	t.Run("email must stay unique", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, alice.ID, ProfileUpdate{Email: "BOB@example.com"})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("new avatar replaces the old file", func(t *testing.T) {
		updated, err := svc.UpdateProfile(ctx, alice.ID, ProfileUpdate{Name: "Alicia", Avatar: "/uploads/new.png"})
		require.NoError(t, err)

		assert.Equal(t, "Alicia", updated.Name)
		assert.Equal(t, "/uploads/new.png", *updated.Avatar)
		assert.Equal(t, []string{"/uploads/old.png"}, files.removed)
	})

	t.Run("role must be known", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, alice.ID, "", "owner")
		assert.ErrorIs(t, err, domain.ErrInvalidRole)
		assert.Equal(t, domain.RoleUser, repo.users[alice.ID].Role)
	})

	t.Run("admin promotes", func(t *testing.T) {
		updated, err := svc.UpdateUser(ctx, alice.ID, "", domain.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, updated.Role)
	})

	t.Run("emails and delete", func(t *testing.T) {
		emails, err := svc.RegisteredEmails(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"alice@example.com", "bob@example.com"}, emails)

		require.NoError(t, svc.DeleteAccount(ctx, alice.ID))
		_, err = svc.GetUserByID(ctx, alice.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.True(t, strings.HasPrefix(err.Error(), "user"))
	})
}

func TestDeleteRevokesSessions(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens, _ := newService(t, nil)

	_, alice, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret"})
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "alice@example.com", "secret")
	require.NoError(t, err)
	_, bob, err := svc.Register(ctx, RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "secret"})
	require.NoError(t, err)

	require.Equal(t, 2, tokens.liveFor(alice.ID))

	t.Run("own account", func(t *testing.T) {
		require.NoError(t, svc.DeleteAccount(ctx, alice.ID))
		assert.Zero(t, tokens.liveFor(alice.ID))
		assert.Equal(t, 1, tokens.liveFor(bob.ID))
	})

	t.Run("by admin", func(t *testing.T) {
		require.NoError(t, svc.DeleteUser(ctx, bob.ID))
		assert.Zero(t, tokens.liveFor(bob.ID))
	})

	t.Run("missing user keeps store untouched", func(t *testing.T) {
		revoked := len(tokens.revoked)
		assert.ErrorIs(t, svc.DeleteUser(ctx, 99), domain.ErrNotFound)
		assert.Len(t, tokens.revoked, revoked)
	})
}
