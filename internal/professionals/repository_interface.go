package professionals

import (
	"context"

	"github.com/CuraLedger-Health/subscription-service/internal/pagination"
)

// RepositoryInterface defines the contract for professional data access
type RepositoryInterface interface {
	CreateProfessional(ctx context.Context, req CreateProfessionalRequest) (*Professional, error)
	GetProfessional(ctx context.Context, id int64) (*Professional, error)
	ListProfessionals(ctx context.Context, params pagination.Params) ([]Professional, int, error)
	UpdateProfessional(ctx context.Context, id int64, req UpdateProfessionalRequest) (*Professional, error)
	DeleteProfessional(ctx context.Context, id int64) error
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
