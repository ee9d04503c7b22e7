package alertrule

import (
	"context"

	"certwatch/pkg/apperror"

	"github.com/google/uuid"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) CreateRule(ctx context.Context, cmd CreateRuleCmd) (uuid.UUID, error) {
	const op string = "service.alertrule.create"

	if !cmd.Type.Known() {
		return uuid.UUID{}, &apperror.Error{
			Kind:    apperror.Unsupported,
			Op:      op,
			Message: "unsupported alert type",
		}
	}
	for _, c := range cmd.Channels {
		if !c.Known() {
			return uuid.UUID{}, &apperror.Error{
				Kind:    apperror.Unsupported,
				Op:      op,
				Message: "unsupported notification channel",
			}
		}
	}

	// severity is a static property of the threshold bucket
	severity := SeverityForThresholdDays(cmd.ThresholdDays)

	return s.repo.Create(ctx, cmd, severity)
}

func (s *Service) GetRule(ctx context.Context, userID, ruleID uuid.UUID) (Rule, error) {
	return s.repo.Get(ctx, userID, ruleID)
}

func (s *Service) ListRules(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]Rule, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// RulesForTarget loads every rule in scope for one check event of the target.
func (s *Service) RulesForTarget(ctx context.Context, userID, targetID uuid.UUID) ([]Rule, error) {
	return s.repo.ListForTarget(ctx, userID, targetID)
}

func (s *Service) SetEnabled(ctx context.Context, userID, ruleID uuid.UUID, enabled bool) error {
	return s.repo.SetEnabled(ctx, userID, ruleID, enabled)
}

func (s *Service) DeleteRule(ctx context.Context, userID, ruleID uuid.UUID) error {
	return s.repo.Delete(ctx, userID, ruleID)
}
