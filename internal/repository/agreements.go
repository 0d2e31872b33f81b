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

type AgreementRepository interface {
	FindByID(ctx context.Context, id string) (models.Agreement, error)
	FindByProperty(ctx context.Context, propertyID string) ([]models.Agreement, error)
	Create(ctx context.Context, agreement models.Agreement) (models.Agreement, error)
	UpdateCheckItems(ctx context.Context, id string, items []models.CheckItem) error
	Delete(ctx context.Context, id string) error
}

type SQLiteAgreementRepository struct {
	database *sql.DB
}

func NewAgreementRepository(database *sql.DB) *SQLiteAgreementRepository {
	return &SQLiteAgreementRepository{database: database}
}

func (repository *SQLiteAgreementRepository) FindByID(ctx context.Context, id string) (models.Agreement, error) {
	var agreement models.Agreement
	var itemsJSON string
	err := repository.database.QueryRowContext(ctx,
		`SELECT id, property_id, title, created_by, due_date, check_items, created_at
		FROM agreements WHERE id = ?`, id,
	).Scan(
		&agreement.ID, &agreement.PropertyID, &agreement.Title,
		&agreement.CreatedBy, &agreement.DueDate, &itemsJSON, &agreement.CreatedAt,
	)
	if err != nil {
		return models.Agreement{}, fmt.Errorf("finding agreement by id: %w", err)
	}
	if err := json.Unmarshal([]byte(itemsJSON), &agreement.CheckItems); err != nil {
		return models.Agreement{}, fmt.Errorf("unmarshalling check items: %w", err)
	}
	return agreement, nil
}

func (repository *SQLiteAgreementRepository) FindByProperty(ctx context.Context, propertyID string) ([]models.Agreement, error) {
	rows, err := repository.database.QueryContext(ctx,
		`SELECT id, property_id, title, created_by, due_date, check_items, created_at
		FROM agreements WHERE property_id = ? ORDER BY created_at DESC`, propertyID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding agreements by property: %w", err)
	}
	defer rows.Close()

	var agreements []models.Agreement
	for rows.Next() {
		var agreement models.Agreement
		var itemsJSON string
		if err := rows.Scan(
			&agreement.ID, &agreement.PropertyID, &agreement.Title,
			&agreement.CreatedBy, &agreement.DueDate, &itemsJSON, &agreement.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning agreement: %w", err)
		}
		if err := json.Unmarshal([]byte(itemsJSON), &agreement.CheckItems); err != nil {
			return nil, fmt.Errorf("unmarshalling check items: %w", err)
		}
		agreements = append(agreements, agreement)
	}
	return agreements, rows.Err()
}

func (repository *SQLiteAgreementRepository) Create(ctx context.Context, agreement models.Agreement) (models.Agreement, error) {
	if agreement.ID == "" {
		agreement.ID = uuid.New().String()
	}
	agreement.CreatedAt = time.Now()

	if agreement.CheckItems == nil {
		agreement.CheckItems = []models.CheckItem{}
	}
	itemsJSON, err := json.Marshal(agreement.CheckItems)
	if err != nil {
		return models.Agreement{}, fmt.Errorf("marshalling check items: %w", err)
	}

	_, err = repository.database.ExecContext(ctx,
		`INSERT INTO agreements (id, property_id, title, created_by, due_date, check_items, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		agreement.ID, agreement.PropertyID, agreement.Title,
		agreement.CreatedBy, agreement.DueDate, string(itemsJSON), agreement.CreatedAt,
	)
	if err != nil {
		return models.Agreement{}, fmt.Errorf("creating agreement: %w", err)
	}
	return agreement, nil
}

func (repository *SQLiteAgreementRepository) UpdateCheckItems(ctx context.Context, id string, items []models.CheckItem) error {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshalling check items: %w", err)
	}

	_, err = repository.database.ExecContext(ctx,
		"UPDATE agreements SET check_items = ? WHERE id = ?", string(itemsJSON), id,
	)
	if err != nil {
		return fmt.Errorf("updating check items: %w", err)
	}
	return nil
}

func (repository *SQLiteAgreementRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM agreements WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting agreement: %w", err)
	}
	return nil
}
