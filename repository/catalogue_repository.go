package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"textilehub/db"
	"textilehub/models"
)

// CatalogueRepository handles database operations for catalogues
// Implements CatalogueRepositoryInterface
type CatalogueRepository struct{}

// NewCatalogueRepository creates a new CatalogueRepository
func NewCatalogueRepository() *CatalogueRepository {
	return &CatalogueRepository{}
}

// Ensure CatalogueRepository implements CatalogueRepositoryInterface
var _ CatalogueRepositoryInterface = (*CatalogueRepository)(nil)

// List returns the user's catalogues newest first
func (r *CatalogueRepository) List(ctx context.Context, userID string) ([]models.Catalogue, error) {
	query := `SELECT id, user_id, name, created_at FROM catalogues WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalogues: %w", err)
	}
	defer rows.Close()

	var catalogues []models.Catalogue
	for rows.Next() {
		var c models.Catalogue
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan catalogue: %w", err)
		}
		catalogues = append(catalogues, c)
	}
	return catalogues, rows.Err()
}

// GetByID retrieves one catalogue owned by the user
func (r *CatalogueRepository) GetByID(ctx context.Context, userID, id string) (*models.Catalogue, error) {
	query := `SELECT id, user_id, name, created_at FROM catalogues WHERE id = $1 AND user_id = $2`
	var c models.Catalogue
	err := db.DB.QueryRowContext(ctx, query, id, userID).Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("catalogue not found")
		}
		return nil, fmt.Errorf("failed to get catalogue: %w", err)
	}
	return &c, nil
}

// Create inserts a new catalogue. Assigns ID and CreatedAt.
func (r *CatalogueRepository) Create(ctx context.Context, catalogue *models.Catalogue) error {
	catalogue.ID = uuid.New().String()
	catalogue.CreatedAt = time.Now()

	_, err := db.DB.ExecContext(ctx,
		`INSERT INTO catalogues (id, user_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		catalogue.ID, catalogue.UserID, catalogue.Name, catalogue.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert catalogue: %w", err)
	}
	return nil
}

// Update renames an owned catalogue
func (r *CatalogueRepository) Update(ctx context.Context, userID, id, name string) (*models.Catalogue, error) {
	result, err := db.DB.ExecContext(ctx,
		`UPDATE catalogues SET name = $3 WHERE id = $1 AND user_id = $2`, id, userID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to update catalogue: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err == nil && rowsAffected == 0 {
		return nil, fmt.Errorf("catalogue not found")
	}
	return r.GetByID(ctx, userID, id)
}

// Delete removes an owned catalogue. Designs keep existing but lose the
// catalogue reference (handled by ON DELETE SET NULL).
func (r *CatalogueRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := db.DB.ExecContext(ctx,
		`DELETE FROM catalogues WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete catalogue: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err == nil && rowsAffected == 0 {
		return fmt.Errorf("catalogue not found")
	}
	return nil
}
