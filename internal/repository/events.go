package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/arvin-shafiei/rental-app-sub001/internal/models"
	"github.com/google/uuid"
)

const (
	OrderByStartDateAsc  = "start_date ASC, title ASC"
	OrderByStartDateDesc = "start_date DESC, title ASC"
)

type EventFilter struct {
	PropertyID  *string
	UserID      *string
	EventType   *models.EventType
	StartAfter  *time.Time
	StartBefore *time.Time
	Completed   *bool
	OrderBy     string
}

type EventRepository interface {
	FindByID(ctx context.Context, id string) (models.TimelineEvent, error)
	FindAll(ctx context.Context, filter EventFilter) ([]models.TimelineEvent, error)
	Create(ctx context.Context, event models.TimelineEvent) (models.TimelineEvent, error)
	Update(ctx context.Context, event models.TimelineEvent) error
	Delete(ctx context.Context, id string) error
}

type SQLiteEventRepository struct {
	database *sql.DB
}

func NewEventRepository(database *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{database: database}
}

const eventColumns = `id, property_id, user_id, title, description, event_type,
	start_date, end_date, is_all_day,
	recurrence_type, recurrence_end_date, notification_days_before,
	is_completed, metadata, created_at, updated_at`

func scanEvent(scanner interface{ Scan(...any) error }) (models.TimelineEvent, error) {
	var event models.TimelineEvent
	var metadata string
	err := scanner.Scan(
		&event.ID, &event.PropertyID, &event.UserID, &event.Title, &event.Description, &event.EventType,
		&event.StartDate, &event.EndDate, &event.IsAllDay,
		&event.RecurrenceType, &event.RecurrenceEndDate, &event.NotificationDaysBefore,
		&event.IsCompleted, &metadata, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		return models.TimelineEvent{}, err
	}
	if metadata != "" && metadata != "{}" {
		if err := json.Unmarshal([]byte(metadata), &event.Metadata); err != nil {
			return models.TimelineEvent{}, fmt.Errorf("parsing event metadata: %w", err)
		}
	}
	return event, nil
}

func marshalMetadata(metadata map[string]string) (string, error) {
	if len(metadata) == 0 {
		return "{}", nil
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("encoding event metadata: %w", err)
	}
	return string(encoded), nil
}

func (repository *SQLiteEventRepository) FindByID(ctx context.Context, id string) (models.TimelineEvent, error) {
	event, err := scanEvent(repository.database.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM timeline_events WHERE id = ?", id))
	if err != nil {
		return models.TimelineEvent{}, fmt.Errorf("finding event by id: %w", err)
	}
	return event, nil
}

func (repository *SQLiteEventRepository) FindAll(ctx context.Context, filter EventFilter) ([]models.TimelineEvent, error) {
	query := "SELECT " + eventColumns + " FROM timeline_events WHERE 1=1"

	var args []any

	if filter.PropertyID != nil {
		query += " AND property_id = ?"
		args = append(args, *filter.PropertyID)
	}
	if filter.UserID != nil {
		query += " AND user_id = ?"
		args = append(args, *filter.UserID)
	}
	if filter.EventType != nil {
		query += " AND event_type = ?"
		args = append(args, *filter.EventType)
	}
	if filter.StartAfter != nil {
		query += " AND start_date >= ?"
		args = append(args, *filter.StartAfter)
	}
	if filter.StartBefore != nil {
		query += " AND start_date <= ?"
		args = append(args, *filter.StartBefore)
	}
	if filter.Completed != nil {
		query += " AND is_completed = ?"
		args = append(args, *filter.Completed)
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = OrderByStartDateAsc
	}
	query += " ORDER BY " + orderBy

	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding events: %w", err)
	}
	defer rows.Close()

	var events []models.TimelineEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (repository *SQLiteEventRepository) Create(ctx context.Context, event models.TimelineEvent) (models.TimelineEvent, error) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.EventType == "" {
		event.EventType = models.EventTypeCustom
	}
	if event.RecurrenceType == "" {
		event.RecurrenceType = models.RecurrenceNone
	}
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	metadata, err := marshalMetadata(event.Metadata)
	if err != nil {
		return models.TimelineEvent{}, err
	}

	_, err = repository.database.ExecContext(ctx,
		`INSERT INTO timeline_events (id, property_id, user_id, title, description, event_type,
			start_date, end_date, is_all_day,
			recurrence_type, recurrence_end_date, notification_days_before,
			is_completed, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.PropertyID, event.UserID, event.Title, event.Description, event.EventType,
		event.StartDate, event.EndDate, event.IsAllDay,
		event.RecurrenceType, event.RecurrenceEndDate, event.NotificationDaysBefore,
		event.IsCompleted, metadata, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return models.TimelineEvent{}, fmt.Errorf("creating event: %w", err)
	}
	return event, nil
}

func (repository *SQLiteEventRepository) Update(ctx context.Context, event models.TimelineEvent) error {
	event.UpdatedAt = time.Now()

	metadata, err := marshalMetadata(event.Metadata)
	if err != nil {
		return err
	}

	_, err = repository.database.ExecContext(ctx,
		`UPDATE timeline_events SET title = ?, description = ?, event_type = ?,
			start_date = ?, end_date = ?, is_all_day = ?,
			recurrence_type = ?, recurrence_end_date = ?, notification_days_before = ?,
			is_completed = ?, metadata = ?, updated_at = ?
		WHERE id = ?`,
		event.Title, event.Description, event.EventType,
		event.StartDate, event.EndDate, event.IsAllDay,
		event.RecurrenceType, event.RecurrenceEndDate, event.NotificationDaysBefore,
		event.IsCompleted, metadata, event.UpdatedAt, event.ID,
	)
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}
	return nil
}

func (repository *SQLiteEventRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM timeline_events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	return nil
}
