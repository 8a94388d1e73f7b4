package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vilain-Petit-Canard/API-Films/internal/models"
	"github.com/vilain-Petit-Canard/API-Films/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

func newAuth(t *testing.T) (*AuthService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	return NewAuthService(store, bcrypt.MinCost, zerolog.Nop()), store
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, store := newAuth(t)

	acc, err := svc.Register(ctx, models.Credentials{Email: " Ana@Example.com", Password: "Secret1!"})
	require.NoError(t, err)
	assert.Equal(t, models.Account{"courriel": "ana@example.com"}, acc)

	recs, err := store.Collection(models.UsersCollection).Where(ctx, models.FieldEmail, repository.OpEq, "ana@example.com")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	hash := recs[0].Data[models.FieldPassword].(string)
	assert.NotEqual(t, "Secret1!", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("Secret1!")))
}

func TestRegisterRejectsDuplicateNormalizedEmail(t *testing.T) {
	ctx := context.Background()
	svc, store := newAuth(t)

	_, err := svc.Register(ctx, models.Credentials{Email: "j.doe@gmail.com", Password: "Secret1!"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, models.Credentials{Email: "JDoe+other@googlemail.com", Password: "Other2?x"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, store.Count(models.UsersCollection))
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc, store := newAuth(t)

	_, err := svc.Register(context.Background(), models.Credentials{Email: "a@b.co", Password: "short1"})
	assert.ErrorIs(t, err, ErrNonConforming)
	assert.Zero(t, store.Count(models.UsersCollection))
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)
	_, err := svc.Register(ctx, models.Credentials{Email: "ana@example.com", Password: "Secret1!"})
	require.NoError(t, err)

	acc, err := svc.Login(ctx, "ana@example.com", "Secret1!")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", acc["courriel"])
	assert.NotContains(t, acc, models.FieldPassword)

	acc, err = svc.Login(ctx, "  ANA@example.com", "Secret1!")
	require.NoError(t, err, "login normalizes the email like registration")
	assert.NotNil(t, acc)

	_, err = svc.Login(ctx, "ana@example.com", "Wrong1!x")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = svc.Login(ctx, "nobody@example.com", "Secret1!")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestLoginUpgradesLegacyPlaintext(t *testing.T) {
	ctx := context.Background()
	svc, store := newAuth(t)
	users := store.Collection(models.UsersCollection)
	id, err := users.Add(ctx, models.Document{"courriel": "old@example.com", "mdp": "Legacy1!", "nom": "Old"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "old@example.com", "legacy1!")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	acc, err := svc.Login(ctx, "old@example.com", "Legacy1!")
	require.NoError(t, err)
	assert.Equal(t, models.Account{"courriel": "old@example.com", "nom": "Old"}, acc)

	doc, err := users.Get(ctx, id)
	require.NoError(t, err)
	stored := doc["mdp"].(string)
	assert.NotEqual(t, "Legacy1!", stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("Legacy1!")))

	_, err = svc.Login(ctx, "old@example.com", "Legacy1!")
	assert.NoError(t, err, "login still works against the new hash")
}

func TestLoginRejectsEmptyStoredPassword(t *testing.T) {
	ctx := context.Background()
	svc, store := newAuth(t)
	_, _ = store.Collection(models.UsersCollection).Add(ctx, models.Document{"courriel": "x@example.com"})

	_, err := svc.Login(ctx, "x@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}
