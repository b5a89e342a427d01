package services

import (
	"context"
	"strings"

	"github.com/zaqqye/attendance_backend_v1/internal/cache"
	"github.com/zaqqye/attendance_backend_v1/internal/common"
	"github.com/zaqqye/attendance_backend_v1/internal/logging"
	"github.com/zaqqye/attendance_backend_v1/internal/metrics"
	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
	"github.com/zaqqye/attendance_backend_v1/internal/validation"
)

type PinService struct {
	store   store.Pins
	limiter *cache.AttemptLimiter
	log     logging.Logger
}

func NewPinService(st store.Pins, limiter *cache.AttemptLimiter, log logging.Logger) *PinService {
	return &PinService{store: st, limiter: limiter, log: log.With("service", "pins")}
}

// Validate checks candidate against the stored PINs. client identifies the
// caller for attempt counting; a limiter outage lets the check through.
func (s *PinService) Validate(ctx context.Context, client, candidate string) error {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return common.BadRequest("PIN is required")
	}
	blocked, err := s.limiter.Blocked(ctx, client)
	if err != nil {
		s.log.Warn(ctx, "pin limiter unavailable", "error", err)
	}
	if blocked {
		metrics.PinValidations.WithLabelValues("blocked").Inc()
		return common.TooManyRequests("Too many invalid PIN attempts, try again later")
	}
	ok, err := s.store.PinExists(ctx, candidate)
	if err != nil {
		return common.Internal("database error", err)
	}
	if !ok {
		metrics.PinValidations.WithLabelValues("invalid").Inc()
		if err := s.limiter.Fail(ctx, client); err != nil {
			s.log.Warn(ctx, "pin limiter unavailable", "error", err)
		}
		return common.NotFound("Invalid PIN")
	}
	metrics.PinValidations.WithLabelValues("valid").Inc()
	if err := s.limiter.Reset(ctx, client); err != nil {
		s.log.Warn(ctx, "pin limiter unavailable", "error", err)
	}
	return nil
}

func checkPin(value, missing string) error {
	if value == "" {
		return common.BadRequest(missing)
	}
	if !validation.IsPin(value) {
		return common.BadRequest("PIN must be 1 to 4 digits")
	}
	return nil
}

func (s *PinService) Add(ctx context.Context, value string) (*models.Pin, error) {
	value = strings.TrimSpace(value)
	if err := checkPin(value, "PIN is required"); err != nil {
		return nil, err
	}
	pin, err := s.store.CreatePin(ctx, value)
	if err != nil {
		return nil, fromStore(err, "", "PIN already exists")
	}
	s.log.Info(ctx, "pin added", "pin_id", pin.ID)
	return pin, nil
}

func (s *PinService) Update(ctx context.Context, pinID, value string) (*models.Pin, error) {
	value = strings.TrimSpace(value)
	if err := checkPin(value, "New PIN is required"); err != nil {
		return nil, err
	}
	if !validID(pinID) {
		return nil, common.BadRequest("Invalid PIN ID")
	}
	pin, err := s.store.UpdatePin(ctx, pinID, value)
	if err != nil {
		return nil, fromStore(err, "PIN not found", "PIN already exists")
	}
	return pin, nil
}

func (s *PinService) Delete(ctx context.Context, pinID string) error {
	if !validID(pinID) {
		return common.BadRequest("Invalid PIN ID")
	}
	if err := s.store.DeletePin(ctx, pinID); err != nil {
		return fromStore(err, "PIN not found", "")
	}
	s.log.Info(ctx, "pin deleted", "pin_id", pinID)
	return nil
}

// List returns every PIN, newest first.
func (s *PinService) List(ctx context.Context) ([]models.Pin, error) {
	pins, err := s.store.ListPins(ctx)
	if err != nil {
		return nil, common.Internal("database error", err)
	}
	return pins, nil
}
