package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/arvin-shafiei/rental-app-sub001/internal/models"
	"github.com/arvin-shafiei/rental-app-sub001/internal/repository"
)

var ErrLimitExceeded = errors.New("plan limit exceeded")

// LimitService gates resource creation against per-user plan limits. The
// policy is fail-closed: if the counter cannot be verified, creation is
// refused.
type LimitService struct {
	usageRepo     repository.UsageRepository
	propertyLimit int
	eventLimit    int
}

func NewLimitService(usageRepo repository.UsageRepository, propertyLimit, eventLimit int) *LimitService {
	return &LimitService{
		usageRepo:     usageRepo,
		propertyLimit: propertyLimit,
		eventLimit:    eventLimit,
	}
}

func (service *LimitService) limitFor(resource string) int {
	switch resource {
	case models.ResourceProperties:
		return service.propertyLimit
	case models.ResourceEvents:
		return service.eventLimit
	default:
		return 0
	}
}

// Reserve consumes one unit of the resource's quota before the resource is
// created. Returns ErrLimitExceeded when the plan is exhausted.
func (service *LimitService) Reserve(ctx context.Context, userID string, resource string) error {
	limit := service.limitFor(resource)
	if limit <= 0 {
		return nil
	}

	ok, err := service.usageRepo.TryIncrement(ctx, userID, resource, limit)
	if err != nil {
		return fmt.Errorf("reserving %s quota: %w", resource, err)
	}
	if !ok {
		return ErrLimitExceeded
	}
	return nil
}

// Release returns one unit of quota after a delete, or as the compensating
// action when creation fails after a successful reservation.
func (service *LimitService) Release(ctx context.Context, userID string, resource string) error {
	if service.limitFor(resource) <= 0 {
		return nil
	}
	if err := service.usageRepo.Decrement(ctx, userID, resource); err != nil {
		return fmt.Errorf("releasing %s quota: %w", resource, err)
	}
	return nil
}

// Usage reports the current counter for display surfaces.
func (service *LimitService) Usage(ctx context.Context, userID string, resource string) (used int, limit int, err error) {
	counter, err := service.usageRepo.Get(ctx, userID, resource)
	if err != nil {
		return 0, 0, err
	}
	return counter.Used, service.limitFor(resource), nil
}
