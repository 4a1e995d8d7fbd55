package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"textilehub/db"
	"textilehub/models"
	"textilehub/utils"
)

// GroupRepository handles database operations for contact groups
// Implements GroupRepositoryInterface
type GroupRepository struct{}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository() *GroupRepository {
	return &GroupRepository{}
}

// Ensure GroupRepository implements GroupRepositoryInterface
var _ GroupRepositoryInterface = (*GroupRepository)(nil)

// List returns the user's groups, members eager-loaded in insertion order
func (r *GroupRepository) List(ctx context.Context, userID string) ([]models.Group, error) {
	query := `SELECT id, user_id, name, created_at, updated_at FROM groups WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read groups: %w", err)
	}

	for i := range groups {
		members, err := r.loadMembers(ctx, groups[i].ID)
		if err != nil {
			return nil, err
		}
		groups[i].Members = members
	}
	return groups, nil
}

// GetByID retrieves one group owned by the user, with members
func (r *GroupRepository) GetByID(ctx context.Context, userID, id string) (*models.Group, error) {
	query := `SELECT id, user_id, name, created_at, updated_at FROM groups WHERE id = $1 AND user_id = $2`
	var g models.Group
	err := db.DB.QueryRowContext(ctx, query, id, userID).Scan(&g.ID, &g.UserID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("group not found")
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := r.loadMembers(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	g.Members = members
	return &g, nil
}

func (r *GroupRepository) loadMembers(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	query := `SELECT id, group_id, name, phone_number, created_at FROM group_members WHERE group_id = $1 ORDER BY created_at ASC`
	rows, err := db.DB.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer rows.Close()

	var members []models.GroupMember
	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(&m.ID, &m.GroupID, &m.Name, &m.PhoneNumber, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// Create inserts a group with its members in one transaction.
// Phone numbers are normalized to digits before insert.
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	group.ID = uuid.New().String()
	now := time.Now()
	group.CreatedAt = now
	group.UpdatedAt = now

	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, user_id, name, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		group.ID, group.UserID, group.Name, group.CreatedAt, group.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	if err := insertMembers(ctx, tx, group.ID, group.Members); err != nil {
		return err
	}
	for i := range group.Members {
		group.Members[i].GroupID = group.ID
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit group: %w", err)
	}

	log.Printf("💾 Database: inserted group (id: %s, members: %d)", group.ID, len(group.Members))
	return nil
}

func insertMembers(ctx context.Context, tx *sql.Tx, groupID string, members []models.GroupMember) error {
	if err := prepareMembers(members); err != nil {
		return err
	}
	for i := range members {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO group_members (id, group_id, name, phone_number, created_at) VALUES ($1, $2, $3, $4, $5)`,
			members[i].ID, groupID, members[i].Name, members[i].PhoneNumber, members[i].CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert group member %s: %w", members[i].Name, err)
		}
	}
	return nil
}

// prepareMembers assigns IDs, normalizes phone numbers, and rejects
// duplicate phones within the batch. Phone numbers are unique per group.
func prepareMembers(members []models.GroupMember) error {
	seen := make(map[string]bool, len(members))
	for i := range members {
		members[i].ID = uuid.New().String()
		members[i].PhoneNumber = utils.NormalizePhone(members[i].PhoneNumber)
		if seen[members[i].PhoneNumber] {
			return fmt.Errorf("member with this phone number already exists in the group")
		}
		seen[members[i].PhoneNumber] = true
		// Stagger created_at so insertion order survives the ORDER BY
		members[i].CreatedAt = time.Now().Add(time.Duration(i) * time.Microsecond)
	}
	return nil
}

// Update renames a group and replaces its member list atomically
func (r *GroupRepository) Update(ctx context.Context, userID string, group *models.Group) error {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE groups SET name = $3, updated_at = $4 WHERE id = $1 AND user_id = $2`,
		group.ID, userID, group.Name, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err == nil && rowsAffected == 0 {
		return fmt.Errorf("group not found")
	}

	// Replace all members
	if _, err := tx.ExecContext(ctx, `DELETE FROM group_members WHERE group_id = $1`, group.ID); err != nil {
		return fmt.Errorf("failed to clear group members: %w", err)
	}
	if err := insertMembers(ctx, tx, group.ID, group.Members); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes an owned group and its members
func (r *GroupRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := db.DB.ExecContext(ctx, `DELETE FROM groups WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err == nil && rowsAffected == 0 {
		return fmt.Errorf("group not found")
	}
	log.Printf("🗑️  Database: deleted group (id: %s)", id)
	return nil
}

// AddMember appends one member to an owned group.
// Fails when the normalized phone number already exists in the group.
func (r *GroupRepository) AddMember(ctx context.Context, userID, groupID string, member *models.GroupMember) error {
	group, err := r.GetByID(ctx, userID, groupID)
	if err != nil {
		return err
	}

	member.PhoneNumber = utils.NormalizePhone(member.PhoneNumber)
	for _, existing := range group.Members {
		if existing.PhoneNumber == member.PhoneNumber {
			return fmt.Errorf("member with this phone number already exists in the group")
		}
	}

	member.ID = uuid.New().String()
	member.GroupID = groupID
	member.CreatedAt = time.Now()

	_, err = db.DB.ExecContext(ctx,
		`INSERT INTO group_members (id, group_id, name, phone_number, created_at) VALUES ($1, $2, $3, $4, $5)`,
		member.ID, member.GroupID, member.Name, member.PhoneNumber, member.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert group member: %w", err)
	}
	return nil
}

// RemoveMember deletes one member from an owned group
func (r *GroupRepository) RemoveMember(ctx context.Context, userID, groupID, memberID string) error {
	if _, err := r.GetByID(ctx, userID, groupID); err != nil {
		return err
	}

	result, err := db.DB.ExecContext(ctx,
		`DELETE FROM group_members WHERE id = $1 AND group_id = $2`, memberID, groupID)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err == nil && rowsAffected == 0 {
		return fmt.Errorf("member not found")
	}
	return nil
}
