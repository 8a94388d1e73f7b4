package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/rs/zerolog"
	"github.com/vilain-Petit-Canard/API-Films/internal/models"
	"github.com/vilain-Petit-Canard/API-Films/internal/repository"
	"github.com/vilain-Petit-Canard/API-Films/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users repository.Collection
	cost  int
	log   zerolog.Logger
}

func NewAuthService(store repository.Store, cost int, log zerolog.Logger) *AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		users: store.Collection(models.UsersCollection),
		cost:  cost,
		log:   log.With().Str("component", "auth").Logger(),
	}
}

// Register validates the credentials, refuses an email that is already
// registered and stores the account with a bcrypt hash of the password.
func (s *AuthService) Register(ctx context.Context, in models.Credentials) (models.Account, error) {
	creds, err := validation.Credentials(in)
	if err != nil {
		return nil, ErrNonConforming
	}

	existing, err := s.users.Where(ctx, models.FieldEmail, repository.OpEq, creds.Email)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.cost)
	if err != nil {
		return nil, err
	}

	doc := models.Document{
		models.FieldEmail:    creds.Email,
		models.FieldPassword: string(hash),
	}

	// The lookup above answers the common case; this insert closes the
	// window between it and a concurrent registration.
	if _, err := s.users.InsertIfAbsent(ctx, models.FieldEmail, creds.Email, doc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.log.Info().Str("email", creds.Email).Msg("account registered")
	return models.PublicAccount(doc), nil
}

// Login checks the password of the first account registered under email.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.Account, error) {
	email = validation.NormalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidEmail
	}

	recs, err := s.users.Where(ctx, models.FieldEmail, repository.OpEq, email)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrInvalidEmail
	}
	if len(recs) > 1 {
		s.log.Warn().Str("email", email).Int("accounts", len(recs)).Msg("duplicate accounts for email")
	}

	acc := recs[0]
	stored, _ := acc.Data[models.FieldPassword].(string)
	if stored == "" {
		return nil, ErrInvalidPassword
	}

	if _, err := bcrypt.Cost([]byte(stored)); err == nil {
		if bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) != nil {
			return nil, ErrInvalidPassword
		}
		return models.PublicAccount(acc.Data), nil
	}

	// Accounts written before hashing was introduced hold the password as is.
	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
		return nil, ErrInvalidPassword
	}
	s.upgradeLegacyPassword(ctx, acc.ID, password)
	return models.PublicAccount(acc.Data), nil
}

func (s *AuthService) upgradeLegacyPassword(ctx context.Context, id, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err == nil {
		err = s.users.Update(ctx, id, models.Document{models.FieldPassword: string(hash)})
	}
	if err != nil {
		s.log.Error().Err(err).Str("account_id", id).Msg("could not rehash legacy password")
		return
	}
	s.log.Info().Str("account_id", id).Msg("legacy password rehashed")
}
