package professionals

import (
	"context"

	"github.com/CuraLedger-Health/subscription-service/internal/pagination"
)

// ServiceInterface defines the contract for professional directory operations
type ServiceInterface interface {
	CreateProfessional(ctx context.Context, req CreateProfessionalRequest) (*Professional, error)
	GetProfessional(ctx context.Context, id int64) (*Professional, error)
	ListProfessionals(ctx context.Context, params pagination.Params) ([]Professional, pagination.Meta, error)
	UpdateProfessional(ctx context.Context, id int64, req UpdateProfessionalRequest) (*Professional, error)
	DeleteProfessional(ctx context.Context, id int64) error
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
