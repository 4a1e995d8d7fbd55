package repository

import (
	"context"

	"textilehub/models"
)

// DesignRepositoryInterface defines the contract for design storage operations
type DesignRepositoryInterface interface {
	List(ctx context.Context, userID string, filters models.DesignFilters) ([]models.Design, int, error)
	GetByID(ctx context.Context, userID, id string) (*models.Design, error)
	Create(ctx context.Context, design *models.Design) error
	Update(ctx context.Context, userID, id string, req *models.DesignUpdateRequest) (*models.Design, error)
	Delete(ctx context.Context, userID, id string) error
	Fabrics(ctx context.Context, userID string) ([]string, error)
	ExistsBySourceRef(ctx context.Context, userID, sourceRef string) (bool, error)
}

// CatalogueRepositoryInterface defines the contract for catalogue storage operations
type CatalogueRepositoryInterface interface {
	List(ctx context.Context, userID string) ([]models.Catalogue, error)
	GetByID(ctx context.Context, userID, id string) (*models.Catalogue, error)
	Create(ctx context.Context, catalogue *models.Catalogue) error
	Update(ctx context.Context, userID, id, name string) (*models.Catalogue, error)
	Delete(ctx context.Context, userID, id string) error
}

// GroupRepositoryInterface defines the contract for contact group storage operations
type GroupRepositoryInterface interface {
	List(ctx context.Context, userID string) ([]models.Group, error)
	GetByID(ctx context.Context, userID, id string) (*models.Group, error)
	Create(ctx context.Context, group *models.Group) error
	Update(ctx context.Context, userID string, group *models.Group) error
	Delete(ctx context.Context, userID, id string) error
	AddMember(ctx context.Context, userID, groupID string, member *models.GroupMember) error
	RemoveMember(ctx context.Context, userID, groupID, memberID string) error
}

// UserRepositoryInterface defines the contract for user account storage operations
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
