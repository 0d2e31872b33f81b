package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arvin-shafiei/rental-app-sub001/internal/models"
)

type UsageRepository interface {
	Get(ctx context.Context, userID string, resource string) (models.UsageCounter, error)
	// TryIncrement bumps the counter only while it stays under limit and
	// reports whether the increment happened. The check and the bump are one
	// statement, so concurrent requests cannot push usage past the limit.
	TryIncrement(ctx context.Context, userID string, resource string, limit int) (bool, error)
	Decrement(ctx context.Context, userID string, resource string) error
}

type SQLiteUsageRepository struct {
	database *sql.DB
}

func NewUsageRepository(database *sql.DB) *SQLiteUsageRepository {
	return &SQLiteUsageRepository{database: database}
}

func (repository *SQLiteUsageRepository) Get(ctx context.Context, userID string, resource string) (models.UsageCounter, error) {
	counter := models.UsageCounter{UserID: userID, Resource: resource}
	err := repository.database.QueryRowContext(ctx,
		"SELECT used FROM usage_counters WHERE user_id = ? AND resource = ?",
		userID, resource,
	).Scan(&counter.Used)
	if err == sql.ErrNoRows {
		return counter, nil
	}
	if err != nil {
		return models.UsageCounter{}, fmt.Errorf("reading usage counter: %w", err)
	}
	return counter, nil
}

func (repository *SQLiteUsageRepository) TryIncrement(ctx context.Context, userID string, resource string, limit int) (bool, error) {
	if _, err := repository.database.ExecContext(ctx,
		"INSERT OR IGNORE INTO usage_counters (user_id, resource, used) VALUES (?, ?, 0)",
		userID, resource,
	); err != nil {
		return false, fmt.Errorf("seeding usage counter: %w", err)
	}

	result, err := repository.database.ExecContext(ctx,
		"UPDATE usage_counters SET used = used + 1 WHERE user_id = ? AND resource = ? AND used < ?",
		userID, resource, limit,
	)
	if err != nil {
		return false, fmt.Errorf("incrementing usage counter: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking usage increment: %w", err)
	}
	return affected > 0, nil
}

func (repository *SQLiteUsageRepository) Decrement(ctx context.Context, userID string, resource string) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE usage_counters SET used = used - 1 WHERE user_id = ? AND resource = ? AND used > 0",
		userID, resource,
	)
	if err != nil {
		return fmt.Errorf("decrementing usage counter: %w", err)
	}
	return nil
}
