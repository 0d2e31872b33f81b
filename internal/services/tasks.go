package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arvin-shafiei/rental-app-sub001/internal/models"
	"github.com/arvin-shafiei/rental-app-sub001/internal/repository"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrItemOutOfRange   = errors.New("check item index out of range")
)

// CanAssign implements the shared assignment guard. The aggregate creator may
// assign anyone or clear an assignment. Anyone else may only claim a unit for
// themselves, or release a unit currently assigned to them.
func CanAssign(creatorID, requesterID string, current *string, target *string) bool {
	if requesterID == creatorID {
		return true
	}
	if target == nil {
		return current != nil && *current == requesterID
	}
	return *target == requesterID
}

// CanComplete implements the shared completion guard: the creator, or anyone
// when the unit is unassigned, or the assignee.
func CanComplete(creatorID, requesterID string, assignedTo *string) bool {
	if requesterID == creatorID {
		return true
	}
	return assignedTo == nil || *assignedTo == requesterID
}

// TaskService applies the assignment/completion rules shared by agreement
// check items and timeline events.
type TaskService struct {
	agreementRepo repository.AgreementRepository
	eventRepo     repository.EventRepository
	propertyRepo  repository.PropertyRepository
	now           func() time.Time
}

func NewTaskService(
	agreementRepo repository.AgreementRepository,
	eventRepo repository.EventRepository,
	propertyRepo repository.PropertyRepository,
) *TaskService {
	return &TaskService{
		agreementRepo: agreementRepo,
		eventRepo:     eventRepo,
		propertyRepo:  propertyRepo,
		now:           time.Now,
	}
}

// AssignItem sets or clears a check item's assignee together with its
// notification lead time as one write. A nil target clears the assignment.
func (service *TaskService) AssignItem(
	ctx context.Context,
	agreementID string,
	itemIndex int,
	requesterID string,
	target *string,
	notificationDaysBefore *int,
) (models.Agreement, error) {
	agreement, err := service.agreementRepo.FindByID(ctx, agreementID)
	if err != nil {
		return models.Agreement{}, fmt.Errorf("loading agreement: %w", err)
	}
	if itemIndex < 0 || itemIndex >= len(agreement.CheckItems) {
		return models.Agreement{}, ErrItemOutOfRange
	}

	item := agreement.CheckItems[itemIndex]
	if !CanAssign(agreement.CreatedBy, requesterID, item.AssignedTo, target) {
		return models.Agreement{}, ErrPermissionDenied
	}

	item.AssignedTo = target
	item.NotificationDaysBefore = notificationDaysBefore
	agreement.CheckItems[itemIndex] = item

	if err := service.agreementRepo.UpdateCheckItems(ctx, agreement.ID, agreement.CheckItems); err != nil {
		return models.Agreement{}, fmt.Errorf("saving check items: %w", err)
	}
	return agreement, nil
}

// UnassignItem clears the item's assignee and lead time under the same guard.
func (service *TaskService) UnassignItem(ctx context.Context, agreementID string, itemIndex int, requesterID string) (models.Agreement, error) {
	return service.AssignItem(ctx, agreementID, itemIndex, requesterID, nil, nil)
}

// ToggleItem flips a check item's checked state. On completion it stamps who
// completed it and when; on un-completion both stamps are cleared so the pair
// only ever describes the current checked state.
func (service *TaskService) ToggleItem(ctx context.Context, agreementID string, itemIndex int, requesterID string) (models.Agreement, error) {
	agreement, err := service.agreementRepo.FindByID(ctx, agreementID)
	if err != nil {
		return models.Agreement{}, fmt.Errorf("loading agreement: %w", err)
	}
	if itemIndex < 0 || itemIndex >= len(agreement.CheckItems) {
		return models.Agreement{}, ErrItemOutOfRange
	}

	item := agreement.CheckItems[itemIndex]
	if !CanComplete(agreement.CreatedBy, requesterID, item.AssignedTo) {
		return models.Agreement{}, ErrPermissionDenied
	}

	item.Checked = !item.Checked
	if item.Checked {
		now := service.now()
		item.CompletedBy = &requesterID
		item.CompletedAt = &now
	} else {
		item.CompletedBy = nil
		item.CompletedAt = nil
	}
	agreement.CheckItems[itemIndex] = item

	if err := service.agreementRepo.UpdateCheckItems(ctx, agreement.ID, agreement.CheckItems); err != nil {
		return models.Agreement{}, fmt.Errorf("saving check items: %w", err)
	}
	return agreement, nil
}

// ToggleEventComplete flips an event's completion flag. Timeline events carry
// no assignee, so the guard reduces to the event creator or the property
// owner. Agreement entries have no completion toggle of their own.
func (service *TaskService) ToggleEventComplete(ctx context.Context, eventID string, requesterID string) (models.TimelineEvent, error) {
	event, err := service.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return models.TimelineEvent{}, fmt.Errorf("loading event: %w", err)
	}

	if !Classify(event.EventType).SupportsCompletion {
		return models.TimelineEvent{}, ErrPermissionDenied
	}

	if event.UserID != requesterID {
		property, err := service.propertyRepo.FindByID(ctx, event.PropertyID)
		if err != nil {
			return models.TimelineEvent{}, fmt.Errorf("loading property: %w", err)
		}
		if property.OwnerUserID != requesterID {
			return models.TimelineEvent{}, ErrPermissionDenied
		}
	}

	event.IsCompleted = !event.IsCompleted
	if err := service.eventRepo.Update(ctx, event); err != nil {
		return models.TimelineEvent{}, fmt.Errorf("saving event: %w", err)
	}
	return event, nil
}
