package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/arvin-shafiei/rental-app-sub001/internal/models"
	"github.com/arvin-shafiei/rental-app-sub001/internal/repository"
	"github.com/arvin-shafiei/rental-app-sub001/internal/services"
	"github.com/arvin-shafiei/rental-app-sub001/internal/testutil"
)

func newLimitFixture(t *testing.T, propertyLimit, eventLimit int) (*services.LimitService, models.User) {
	t.Helper()
	db := testutil.NewTestDatabase(t)
	userRepo := repository.NewUserRepository(db)
	user, err := userRepo.Create(context.Background(), models.User{
		OIDCSubject: "sub-limits",
		Email:       "limits@example.com",
		Name:        "Limits",
	})
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return services.NewLimitService(repository.NewUsageRepository(db), propertyLimit, eventLimit), user
}

func TestLimitService_ReserveUpToLimit(t *testing.T) {
	limits, user := newLimitFixture(t, 2, 0)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := limits.Reserve(ctx, user.ID, models.ResourceProperties); err != nil {
			t.Fatalf("reserve %d: %v", i, err)
		}
	}

	err := limits.Reserve(ctx, user.ID, models.ResourceProperties)
	if !errors.Is(err, services.ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
}

func TestLimitService_ReleaseFreesQuota(t *testing.T) {
	limits, user := newLimitFixture(t, 1, 0)
	ctx := context.Background()

	if err := limits.Reserve(ctx, user.ID, models.ResourceProperties); err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	if err := limits.Release(ctx, user.ID, models.ResourceProperties); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := limits.Reserve(ctx, user.ID, models.ResourceProperties); err != nil {
		t.Fatalf("reserve after release: %v", err)
	}
}

func TestLimitService_ZeroLimitMeansUnlimited(t *testing.T) {
	limits, user := newLimitFixture(t, 0, 0)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		if err := limits.Reserve(ctx, user.ID, models.ResourceProperties); err != nil {
			t.Fatalf("reserve %d with no limit configured: %v", i, err)
		}
	}
}

func TestLimitService_Usage(t *testing.T) {
	limits, user := newLimitFixture(t, 10, 500)
	ctx := context.Background()

	limits.Reserve(ctx, user.ID, models.ResourceEvents)
	limits.Reserve(ctx, user.ID, models.ResourceEvents)

	used, limit, err := limits.Usage(ctx, user.ID, models.ResourceEvents)
	if err != nil {
		t.Fatalf("reading usage: %v", err)
	}
	if used != 2 || limit != 500 {
		t.Errorf("expected 2/500, got %d/%d", used, limit)
	}
}
