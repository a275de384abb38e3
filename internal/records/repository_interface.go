package records

import "context"

// RepositoryInterface defines the contract for user and record data access
type RepositoryInterface interface {
	CreateUser(ctx context.Context, email string, req CreateUserRequest) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)

	CreateRecord(ctx context.Context, createdBy string, req CreateRecordRequest) (*Record, error)
	ListRecordsByCreator(ctx context.Context, createdBy string) ([]Record, error)
	UpdateRecord(ctx context.Context, id int64, req UpdateRecordRequest) (*Record, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
