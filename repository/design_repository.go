package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"textilehub/db"
	"textilehub/models"
)

// DesignRepository handles database operations for designs
// Implements DesignRepositoryInterface
type DesignRepository struct{}

// NewDesignRepository creates a new DesignRepository
func NewDesignRepository() *DesignRepository {
	return &DesignRepository{}
}

// Ensure DesignRepository implements DesignRepositoryInterface
var _ DesignRepositoryInterface = (*DesignRepository)(nil)

const designColumns = `d.id, d.user_id, COALESCE(d.catalogue_id, '') as catalogue_id,
	       COALESCE(c.name, '') as catalogue_name,
	       d.name, d.image, d.wholesale_price, d.retail_price,
	       COALESCE(d.fabric, '') as fabric,
	       COALESCE(d.description, '') as description,
	       d.created_at`

func scanDesign(row interface{ Scan(...interface{}) error }) (*models.Design, error) {
	var d models.Design
	err := row.Scan(&d.ID, &d.UserID, &d.CatalogueID, &d.CatalogueName,
		&d.Name, &d.Image, &d.WholesalePrice, &d.RetailPrice,
		&d.Fabric, &d.Description, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns the user's designs matching the filter parameters, plus the
// total count before pagination.
func (r *DesignRepository) List(ctx context.Context, userID string, filters models.DesignFilters) ([]models.Design, int, error) {
	where := []string{"d.user_id = $1"}
	args := []interface{}{userID}

	addArg := func(clause string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filters.Fabric != "" && filters.Fabric != "All" {
		addArg("d.fabric = $%d", filters.Fabric)
	}
	if filters.Catalogue != "" && filters.Catalogue != "All" {
		addArg("d.catalogue_id = $%d", filters.Catalogue)
	}
	if filters.MinPrice != nil {
		addArg("d.retail_price >= $%d", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		addArg("d.retail_price <= $%d", *filters.MaxPrice)
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(d.description ILIKE $%d OR d.fabric ILIKE $%d)", n, n))
	}

	whereClause := strings.Join(where, " AND ")

	// Total count for pagination
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM designs d WHERE %s`, whereClause)
	if err := db.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count designs: %w", err)
	}

	orderBy := "d.created_at DESC"
	switch filters.SortBy {
	case "price-low":
		orderBy = "d.retail_price ASC"
	case "price-high":
		orderBy = "d.retail_price DESC"
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`
		SELECT %s
		FROM designs d
		LEFT JOIN catalogues c ON c.id = d.catalogue_id
		WHERE %s
		ORDER BY %s
		LIMIT %d OFFSET %d`, designColumns, whereClause, orderBy, limit, offset)

	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list designs: %w", err)
	}
	defer rows.Close()

	var designs []models.Design
	for rows.Next() {
		d, err := scanDesign(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan design: %w", err)
		}
		designs = append(designs, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read designs: %w", err)
	}

	return designs, total, nil
}

// GetByID retrieves one design owned by the user
func (r *DesignRepository) GetByID(ctx context.Context, userID, id string) (*models.Design, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM designs d
		LEFT JOIN catalogues c ON c.id = d.catalogue_id
		WHERE d.id = $1 AND d.user_id = $2`, designColumns)

	d, err := scanDesign(db.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("design not found")
		}
		return nil, fmt.Errorf("failed to get design: %w", err)
	}
	return d, nil
}

// Create inserts a new design. Assigns ID and CreatedAt.
func (r *DesignRepository) Create(ctx context.Context, design *models.Design) error {
	design.ID = uuid.New().String()
	design.CreatedAt = time.Now()

	query := `
		INSERT INTO designs (
			id, user_id, catalogue_id, name, image, wholesale_price, retail_price, fabric, description, source_ref, created_at
		) VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11)
	`
	_, err := db.DB.ExecContext(ctx, query,
		design.ID, design.UserID, design.CatalogueID, design.Name, design.Image,
		design.WholesalePrice, design.RetailPrice, design.Fabric, design.Description,
		design.SourceRef, design.CreatedAt,
	)
	if err != nil {
		log.Printf("❌ Database INSERT error for design %s: %v", design.Name, err)
		return fmt.Errorf("failed to insert design: %w", err)
	}

	log.Printf("💾 Database: inserted design (id: %s, name: %s)", design.ID, design.Name)
	return nil
}

// Update applies a partial update to an owned design and returns the result
func (r *DesignRepository) Update(ctx context.Context, userID, id string, req *models.DesignUpdateRequest) (*models.Design, error) {
	query := `
		UPDATE designs SET
			name = COALESCE($3, name),
			image = COALESCE($4, image),
			wholesale_price = COALESCE($5, wholesale_price),
			retail_price = COALESCE($6, retail_price),
			fabric = COALESCE($7, fabric),
			description = COALESCE($8, description),
			catalogue_id = COALESCE(NULLIF($9, ''), catalogue_id)
		WHERE id = $1 AND user_id = $2
	`
	catalogueID := ""
	if req.CatalogueID != nil {
		catalogueID = *req.CatalogueID
	}

	result, err := db.DB.ExecContext(ctx, query, id, userID,
		req.Name, req.Image, req.WholesalePrice, req.RetailPrice, req.Fabric, req.Description, catalogueID)
	if err != nil {
		return nil, fmt.Errorf("failed to update design: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err == nil && rowsAffected == 0 {
		return nil, fmt.Errorf("design not found")
	}

	return r.GetByID(ctx, userID, id)
}

// Delete removes an owned design
func (r *DesignRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := db.DB.ExecContext(ctx, `DELETE FROM designs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete design: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err == nil && rowsAffected == 0 {
		return fmt.Errorf("design not found")
	}

	log.Printf("🗑️  Database: deleted design (id: %s)", id)
	return nil
}

// Fabrics returns the distinct fabric names used by the user's designs
func (r *DesignRepository) Fabrics(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT DISTINCT fabric FROM designs WHERE user_id = $1 AND fabric IS NOT NULL AND fabric <> '' ORDER BY fabric`
	rows, err := db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fabrics: %w", err)
	}
	defer rows.Close()

	var fabrics []string
	for rows.Next() {
		var fabric string
		if err := rows.Scan(&fabric); err != nil {
			return nil, fmt.Errorf("failed to scan fabric: %w", err)
		}
		fabrics = append(fabrics, fabric)
	}
	return fabrics, rows.Err()
}

// ExistsBySourceRef reports whether the user already has a design imported
// from the given external source reference (e.g. a Drive file ID).
func (r *DesignRepository) ExistsBySourceRef(ctx context.Context, userID, sourceRef string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM designs WHERE user_id = $1 AND source_ref = $2)`
	if err := db.DB.QueryRowContext(ctx, query, userID, sourceRef).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return exists, nil
}
