package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/arvin-shafiei/rental-app-sub001/internal/models"
	"github.com/arvin-shafiei/rental-app-sub001/internal/repository"
	"github.com/arvin-shafiei/rental-app-sub001/internal/testutil"
)

func createTestUser(t *testing.T, db *sql.DB) models.User {
	t.Helper()
	userRepo := repository.NewUserRepository(db)
	user, err := userRepo.Create(context.Background(), models.User{
		OIDCSubject: "sub-" + time.Now().String(),
		Email:       "landlord@example.com",
		Name:        "Test Landlord",
	})
	if err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	return user
}

func createTestProperty(t *testing.T, db *sql.DB, ownerID string) models.Property {
	t.Helper()
	propertyRepo := repository.NewPropertyRepository(db)
	property, err := propertyRepo.Create(context.Background(), models.Property{
		OwnerUserID: ownerID,
		Name:        "12 Elm Street",
		Address:     "12 Elm Street, Springfield",
	})
	if err != nil {
		t.Fatalf("creating test property: %v", err)
	}
	return property
}

func TestEventRepository_CreateAndFindByID(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	eventRepo := repository.NewEventRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db)
	property := createTestProperty(t, db, user.ID)

	leadTime := 7
	event := models.TimelineEvent{
		PropertyID:             property.ID,
		UserID:                 user.ID,
		Title:                  "Lease Start",
		Description:            "New tenancy begins",
		EventType:              models.EventTypeLeaseStart,
		StartDate:              time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
		RecurrenceType:         models.RecurrenceNone,
		NotificationDaysBefore: &leadTime,
		Metadata:               map[string]string{"tenant": "Jane Doe"},
	}

	created, err := eventRepo.Create(ctx, event)
	if err != nil {
		t.Fatalf("creating event: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected non-empty ID")
	}

	found, err := eventRepo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("finding event: %v", err)
	}
	if found.Title != "Lease Start" {
		t.Errorf("expected title 'Lease Start', got '%s'", found.Title)
	}
	if found.EventType != models.EventTypeLeaseStart {
		t.Errorf("expected event type lease_start, got '%s'", found.EventType)
	}
	if found.NotificationDaysBefore == nil || *found.NotificationDaysBefore != 7 {
		t.Errorf("expected notification lead time 7, got %v", found.NotificationDaysBefore)
	}
	if found.Metadata["tenant"] != "Jane Doe" {
		t.Errorf("expected metadata tenant 'Jane Doe', got %v", found.Metadata)
	}
	if found.IsCompleted {
		t.Error("expected new event to be incomplete")
	}
}

func TestEventRepository_FindAll_Filters(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	eventRepo := repository.NewEventRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db)
	property := createTestProperty(t, db, user.ID)
	other := createTestProperty(t, db, user.ID)

	eventRepo.Create(ctx, models.TimelineEvent{
		PropertyID: property.ID, UserID: user.ID, Title: "Rent Due",
		EventType: models.EventTypeRentDue,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	eventRepo.Create(ctx, models.TimelineEvent{
		PropertyID: other.ID, UserID: user.ID, Title: "Inspection",
		EventType: models.EventTypeInspection,
		StartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})

	events, err := eventRepo.FindAll(ctx, repository.EventFilter{PropertyID: &property.ID})
	if err != nil {
		t.Fatalf("finding events by property: %v", err)
	}
	if len(events) != 1 || events[0].Title != "Rent Due" {
		t.Fatalf("expected only 'Rent Due', got %d events", len(events))
	}

	inspection := models.EventTypeInspection
	events, err = eventRepo.FindAll(ctx, repository.EventFilter{EventType: &inspection})
	if err != nil {
		t.Fatalf("finding events by type: %v", err)
	}
	if len(events) != 1 || events[0].Title != "Inspection" {
		t.Fatalf("expected only 'Inspection', got %d events", len(events))
	}

	after := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	events, err = eventRepo.FindAll(ctx, repository.EventFilter{StartAfter: &after})
	if err != nil {
		t.Fatalf("finding events by date: %v", err)
	}
	if len(events) != 1 || events[0].Title != "Inspection" {
		t.Fatalf("expected only the later event, got %d events", len(events))
	}
}

func TestEventRepository_FindAll_Ordering(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	eventRepo := repository.NewEventRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db)
	property := createTestProperty(t, db, user.ID)

	eventRepo.Create(ctx, models.TimelineEvent{
		PropertyID: property.ID, UserID: user.ID, Title: "Later",
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	eventRepo.Create(ctx, models.TimelineEvent{
		PropertyID: property.ID, UserID: user.ID, Title: "Earlier",
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	events, err := eventRepo.FindAll(ctx, repository.EventFilter{})
	if err != nil {
		t.Fatalf("finding events: %v", err)
	}
	if len(events) != 2 || events[0].Title != "Earlier" {
		t.Fatalf("expected ascending order, got %+v", events)
	}

	events, err = eventRepo.FindAll(ctx, repository.EventFilter{OrderBy: repository.OrderByStartDateDesc})
	if err != nil {
		t.Fatalf("finding events descending: %v", err)
	}
	if events[0].Title != "Later" {
		t.Fatalf("expected descending order, got %+v", events)
	}
}

func TestEventRepository_Update(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	eventRepo := repository.NewEventRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db)
	property := createTestProperty(t, db, user.ID)

	created, _ := eventRepo.Create(ctx, models.TimelineEvent{
		PropertyID: property.ID, UserID: user.ID, Title: "Boiler Service",
		EventType: models.EventTypeMaintenance, StartDate: time.Now(),
	})

	created.Title = "Boiler Service (rescheduled)"
	created.IsCompleted = true
	if err := eventRepo.Update(ctx, created); err != nil {
		t.Fatalf("updating event: %v", err)
	}

	found, _ := eventRepo.FindByID(ctx, created.ID)
	if found.Title != "Boiler Service (rescheduled)" {
		t.Errorf("expected updated title, got '%s'", found.Title)
	}
	if !found.IsCompleted {
		t.Error("expected event to be completed")
	}
}

func TestEventRepository_Delete(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	eventRepo := repository.NewEventRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db)
	property := createTestProperty(t, db, user.ID)

	created, _ := eventRepo.Create(ctx, models.TimelineEvent{
		PropertyID: property.ID, UserID: user.ID, Title: "To Delete", StartDate: time.Now(),
	})

	if err := eventRepo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("deleting event: %v", err)
	}

	if _, err := eventRepo.FindByID(ctx, created.ID); err == nil {
		t.Fatal("expected error finding deleted event")
	}
}
