package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arvin-shafiei/rental-app-sub001/internal/models"
	"github.com/google/uuid"
)

type PropertyRepository interface {
	FindByID(ctx context.Context, id string) (models.Property, error)
	FindByOwner(ctx context.Context, ownerUserID string) ([]models.Property, error)
	Create(ctx context.Context, property models.Property) (models.Property, error)
	Update(ctx context.Context, property models.Property) error
	Delete(ctx context.Context, id string) error
}

type SQLitePropertyRepository struct {
	database *sql.DB
}

func NewPropertyRepository(database *sql.DB) *SQLitePropertyRepository {
	return &SQLitePropertyRepository{database: database}
}

func (repository *SQLitePropertyRepository) FindByID(ctx context.Context, id string) (models.Property, error) {
	var property models.Property
	err := repository.database.QueryRowContext(ctx,
		`SELECT id, owner_user_id, name, address, created_at, updated_at
		FROM properties WHERE id = ?`, id,
	).Scan(&property.ID, &property.OwnerUserID, &property.Name, &property.Address, &property.CreatedAt, &property.UpdatedAt)
	if err != nil {
		return models.Property{}, fmt.Errorf("finding property by id: %w", err)
	}
	return property, nil
}

func (repository *SQLitePropertyRepository) FindByOwner(ctx context.Context, ownerUserID string) ([]models.Property, error) {
	rows, err := repository.database.QueryContext(ctx,
		`SELECT id, owner_user_id, name, address, created_at, updated_at
		FROM properties WHERE owner_user_id = ? ORDER BY name`, ownerUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding properties by owner: %w", err)
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var property models.Property
		if err := rows.Scan(&property.ID, &property.OwnerUserID, &property.Name, &property.Address, &property.CreatedAt, &property.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		properties = append(properties, property)
	}
	return properties, rows.Err()
}

func (repository *SQLitePropertyRepository) Create(ctx context.Context, property models.Property) (models.Property, error) {
	if property.ID == "" {
		property.ID = uuid.New().String()
	}
	now := time.Now()
	property.CreatedAt = now
	property.UpdatedAt = now

	_, err := repository.database.ExecContext(ctx,
		`INSERT INTO properties (id, owner_user_id, name, address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		property.ID, property.OwnerUserID, property.Name, property.Address, property.CreatedAt, property.UpdatedAt,
	)
	if err != nil {
		return models.Property{}, fmt.Errorf("creating property: %w", err)
	}
	return property, nil
}

func (repository *SQLitePropertyRepository) Update(ctx context.Context, property models.Property) error {
	property.UpdatedAt = time.Now()
	_, err := repository.database.ExecContext(ctx,
		"UPDATE properties SET name = ?, address = ?, updated_at = ? WHERE id = ?",
		property.Name, property.Address, property.UpdatedAt, property.ID,
	)
	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}
	return nil
}

func (repository *SQLitePropertyRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM properties WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}
	return nil
}
