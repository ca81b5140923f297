package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/quizly/internal/errors"
)

type passwordService struct {
	hasher    *pwdhash.PasswordHasher
	dummyHash string
}

// NewPasswordService creates a PasswordService using the interactive Argon2id policy.
func NewPasswordService() (PasswordService, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	dummyHash, err := hasher.Hash([]byte("quizly-dummy-password"))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to compute dummy hash")
	}

	return &passwordService{
		hasher:    hasher,
		dummyHash: dummyHash,
	}, nil
}

func (s *passwordService) Hash(password string) (string, error) {
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hashed, nil
}

func (s *passwordService) Verify(password, hash string) bool {
	ok, err := s.hasher.Verify([]byte(password), hash)
	if err != nil {
		return false
	}
	return ok
}

func (s *passwordService) VerifyDummy(password string) {
	_ = s.Verify(password, s.dummyHash)
}
