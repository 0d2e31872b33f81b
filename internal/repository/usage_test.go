package repository_test

import (
	"context"
	"testing"

	"github.com/arvin-shafiei/rental-app-sub001/internal/models"
	"github.com/arvin-shafiei/rental-app-sub001/internal/repository"
	"github.com/arvin-shafiei/rental-app-sub001/internal/testutil"
)

func TestUsageRepository_Get_Unseen(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	usageRepo := repository.NewUsageRepository(db)

	user := createTestUser(t, db)

	counter, err := usageRepo.Get(context.Background(), user.ID, models.ResourceProperties)
	if err != nil {
		t.Fatalf("getting counter: %v", err)
	}
	if counter.Used != 0 {
		t.Errorf("expected 0 used, got %d", counter.Used)
	}
}

func TestUsageRepository_TryIncrement_StopsAtLimit(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	usageRepo := repository.NewUsageRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db)

	for i := 0; i < 3; i++ {
		ok, err := usageRepo.TryIncrement(ctx, user.ID, models.ResourceProperties, 3)
		if err != nil {
			t.Fatalf("increment %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("increment %d refused below limit", i)
		}
	}

	ok, err := usageRepo.TryIncrement(ctx, user.ID, models.ResourceProperties, 3)
	if err != nil {
		t.Fatalf("increment at limit: %v", err)
	}
	if ok {
		t.Fatal("expected increment at limit to be refused")
	}

	counter, _ := usageRepo.Get(ctx, user.ID, models.ResourceProperties)
	if counter.Used != 3 {
		t.Errorf("expected 3 used, got %d", counter.Used)
	}
}

func TestUsageRepository_Decrement(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	usageRepo := repository.NewUsageRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db)

	usageRepo.TryIncrement(ctx, user.ID, models.ResourceEvents, 10)
	usageRepo.TryIncrement(ctx, user.ID, models.ResourceEvents, 10)

	if err := usageRepo.Decrement(ctx, user.ID, models.ResourceEvents); err != nil {
		t.Fatalf("decrementing: %v", err)
	}

	counter, _ := usageRepo.Get(ctx, user.ID, models.ResourceEvents)
	if counter.Used != 1 {
		t.Errorf("expected 1 used, got %d", counter.Used)
	}
}

func TestUsageRepository_Decrement_FloorsAtZero(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	usageRepo := repository.NewUsageRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db)

	if err := usageRepo.Decrement(ctx, user.ID, models.ResourceEvents); err != nil {
		t.Fatalf("decrementing empty counter: %v", err)
	}

	counter, _ := usageRepo.Get(ctx, user.ID, models.ResourceEvents)
	if counter.Used != 0 {
		t.Errorf("expected counter to stay at 0, got %d", counter.Used)
	}
}
