package target

import (
	"context"
	"time"

	"certwatch/internals/modules/incident"
	"certwatch/internals/modules/status"
	"certwatch/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AccountService is the quota surface of the account module.
type AccountService interface {
	ClaimTargetSlot(ctx context.Context, userID uuid.UUID) error
	ReleaseTargetSlot(ctx context.Context, userID uuid.UUID) error
}

// IncidentLog reads the downtime history of a target.
type IncidentLog interface {
	ListByTarget(ctx context.Context, targetID uuid.UUID, limit, offset int32) ([]incident.DowntimeIncident, error)
}

type Service struct {
	repo       *Repository
	cache      Cache
	accounts   AccountService
	incidents  IncidentLog
	staleAfter time.Duration
	logger     *zerolog.Logger
}

func NewService(repo *Repository, cache Cache, accounts AccountService, incidents IncidentLog, staleAfter time.Duration, logger *zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		cache:      cache,
		accounts:   accounts,
		incidents:  incidents,
		staleAfter: staleAfter,
		logger:     logger,
	}
}

func (s *Service) CreateTarget(ctx context.Context, cmd CreateTargetCmd) (uuid.UUID, error) {
	// claim the quota slot first, the conditional increment is the gate
	if err := s.accounts.ClaimTargetSlot(ctx, cmd.UserID); err != nil {
		return uuid.UUID{}, err
	}

	targetID, err := s.repo.Create(ctx, cmd)
	if err != nil {
		if relErr := s.accounts.ReleaseTargetSlot(ctx, cmd.UserID); relErr != nil {
			s.logger.Error().Err(relErr).Str("user_id", cmd.UserID.String()).Msg("failed to release quota slot after create failure")
		}
		return uuid.UUID{}, err
	}

	nextRun := time.Now().Add(time.Duration(cmd.IntervalSec) * time.Second)
	if err := s.cache.Schedule(ctx, targetID.String(), nextRun); err != nil {
		// the reclaimer picks the target up on the next sweep
		s.logger.Warn().Err(err).Str("target_id", targetID.String()).Msg("failed to schedule new target")
	}

	return targetID, nil
}

func (s *Service) GetTarget(ctx context.Context, userID, targetID uuid.UUID) (Target, error) {
	const op string = "service.target.get"

	t, exists := s.cache.GetTarget(ctx, targetID)
	if exists {
		if t.UserID != userID {
			return Target{}, &apperror.Error{
				Kind:    apperror.Forbidden,
				Op:      op,
				Message: "target belongs to another account",
			}
		}
		return t, nil
	}

	tDB, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return Target{}, err
	}
	if tDB.UserID != userID {
		return Target{}, &apperror.Error{
			Kind:    apperror.Forbidden,
			Op:      op,
			Message: "target belongs to another account",
		}
	}
	_ = s.cache.SetTarget(ctx, tDB)

	return tDB, nil
}

// LoadTarget is the read path of the check pipeline, cache first then DB.
func (s *Service) LoadTarget(ctx context.Context, targetID uuid.UUID) (Target, error) {
	t, exists := s.cache.GetTarget(ctx, targetID)
	if exists {
		return t, nil
	}

	tDB, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return Target{}, err
	}
	_ = s.cache.SetTarget(ctx, tDB)

	return tDB, nil
}

func (s *Service) GetAllTargets(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]Target, error) {
	return s.repo.GetAll(ctx, userID, limit, offset)
}

func (s *Service) UpdateTargetStatus(ctx context.Context, userID, targetID uuid.UUID, enable bool) error {
	const op string = "service.target.update_status"

	t, err := s.repo.Get(ctx, userID, targetID)
	if err != nil {
		return err
	}
	if t.Enabled == enable {
		return &apperror.Error{
			Kind:    apperror.Conflict,
			Op:      op,
			Message: "target already in requested state",
		}
	}

	if err := s.repo.SetEnabled(ctx, userID, targetID, enable); err != nil {
		return err
	}

	if enable {
		nextRun := time.Now().Add(time.Duration(t.IntervalSec) * time.Second)
		if err := s.cache.Schedule(ctx, targetID.String(), nextRun); err != nil {
			s.logger.Warn().Err(err).Str("target_id", targetID.String()).Msg("failed to schedule re-enabled target")
		}
		// the cached record still says disabled
		_ = s.cache.DelTarget(ctx, targetID)
		return nil
	}

	s.cleanupDisabled(ctx, targetID)
	return nil
}

func (s *Service) DeleteTarget(ctx context.Context, userID, targetID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, targetID); err != nil {
		return err
	}
	if err := s.accounts.ReleaseTargetSlot(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to release quota slot after delete")
	}
	s.cleanupDisabled(ctx, targetID)
	return nil
}

// cleanupDisabled clears every redis entry tied to a target that stopped
// being checked. Failures are logged, redis TTLs bound the damage.
func (s *Service) cleanupDisabled(ctx context.Context, targetID uuid.UUID) {
	if err := s.cache.DelTarget(ctx, targetID); err != nil {
		s.logger.Warn().Err(err).Str("target_id", targetID.String()).Msg("failed to drop cached target")
	}
	if err := s.cache.DelSchedule(ctx, targetID.String()); err != nil {
		s.logger.Warn().Err(err).Str("target_id", targetID.String()).Msg("failed to drop schedule entry")
	}
	if err := s.cache.ClearOpenIncidentMark(ctx, targetID); err != nil {
		s.logger.Warn().Err(err).Str("target_id", targetID.String()).Msg("failed to clear incident mark")
	}
	if err := s.cache.DelStatus(ctx, targetID); err != nil {
		s.logger.Warn().Err(err).Str("target_id", targetID.String()).Msg("failed to drop status entries")
	}
}

// CurrentStatus composes the live view of a target: the latest classified
// HTTP and certificate checks plus the derived uptime state, which decays to
// unknown when the target is disabled or the latest check went stale.
func (s *Service) CurrentStatus(ctx context.Context, userID, targetID uuid.UUID) (CurrentStatusResponse, error) {
	t, err := s.GetTarget(ctx, userID, targetID)
	if err != nil {
		return CurrentStatusResponse{}, err
	}

	resp := CurrentStatusResponse{
		TargetID: targetID.String(),
		Uptime:   string(status.UptimeUnknown),
	}

	httpStatus, err := s.cache.GetHTTPStatus(ctx, targetID)
	if err != nil {
		return CurrentStatusResponse{}, err
	}
	if httpStatus != nil {
		resp.HTTP = &HTTPStatusView{
			Status:         httpStatus.Status,
			Reason:         httpStatus.Reason,
			StatusCode:     httpStatus.StatusCode,
			ResponseTimeMs: httpStatus.ResponseTimeMs,
			CheckedAt:      httpStatus.CheckedAt,
		}
		resp.Uptime = string(status.CurrentUptime(
			status.UptimeStatus(httpStatus.Status),
			httpStatus.CheckedAt,
			time.Now(),
			t.Enabled,
			s.staleAfter,
		))
	}

	sslStatus, err := s.cache.GetSSLStatus(ctx, targetID)
	if err != nil {
		return CurrentStatusResponse{}, err
	}
	if sslStatus != nil {
		resp.SSL = &SSLStatusView{
			Status:        sslStatus.Status,
			DaysRemaining: sslStatus.DaysRemaining,
			Issuer:        sslStatus.Issuer,
			NotAfter:      sslStatus.NotAfter,
			CheckedAt:     sslStatus.CheckedAt,
		}
	}

	return resp, nil
}

func (s *Service) IncidentHistory(ctx context.Context, userID, targetID uuid.UUID, limit, offset int32) ([]incident.DowntimeIncident, error) {
	if _, err := s.GetTarget(ctx, userID, targetID); err != nil {
		return nil, err
	}
	return s.incidents.ListByTarget(ctx, targetID, limit, offset)
}
