package account

import (
	"context"
	"errors"

	"certwatch/internals/security"
	"certwatch/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Service struct {
	repo     *Repository
	tokenSvc *security.TokenService
}

func NewService(repo *Repository, tokenSvc *security.TokenService) *Service {
	return &Service{
		repo:     repo,
		tokenSvc: tokenSvc,
	}
}

func (s *Service) Register(ctx context.Context, cmd RegisterCmd) (uuid.UUID, error) {
	passwordHash, err := security.HashPassword(cmd.Password)
	if err != nil {
		return uuid.UUID{}, err
	}

	// the unique constraint on email decides the winner of concurrent
	// registers, no pre-check needed
	return s.repo.Create(ctx, cmd.Name, cmd.Email, passwordHash)
}

func (s *Service) LogIn(ctx context.Context, cmd LogInCmd) (LogInResult, error) {
	const op string = "service.account.login"

	acc, err := s.repo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		// a missing account reads the same as a wrong password
		var appErr *apperror.Error
		if errors.As(err, &appErr) && appErr.Kind == apperror.NotFound {
			return LogInResult{}, &apperror.Error{
				Kind:    apperror.Unauthorised,
				Op:      op,
				Message: "invalid credentials",
			}
		}
		return LogInResult{}, err
	}

	ok, err := security.ComparePassword(cmd.Password, acc.PasswordHash)
	if err != nil {
		return LogInResult{}, err
	}
	if !ok {
		return LogInResult{}, &apperror.Error{
			Kind:    apperror.Unauthorised,
			Op:      op,
			Message: "invalid credentials",
		}
	}

	token, err := s.tokenSvc.GenerateAccessToken(security.RequestClaims{
		UserID:           acc.ID.String(),
		Email:            acc.Email,
		RegisteredClaims: jwt.RegisteredClaims{},
	})
	if err != nil {
		return LogInResult{}, err
	}

	return LogInResult{
		UserID:      acc.ID,
		AccessToken: token,
	}, nil
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (Account, error) {
	return s.repo.GetByID(ctx, userID)
}

// ClaimTargetSlot reserves one quota slot before a target create.
func (s *Service) ClaimTargetSlot(ctx context.Context, userID uuid.UUID) error {
	return s.repo.IncrementTargetCount(ctx, userID)
}

// ReleaseTargetSlot gives a quota slot back after a target delete or a failed
// create.
func (s *Service) ReleaseTargetSlot(ctx context.Context, userID uuid.UUID) error {
	return s.repo.DecrementTargetCount(ctx, userID)
}
