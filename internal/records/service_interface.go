package records

import "context"

// ServiceInterface defines the contract for user and record business logic
type ServiceInterface interface {
	CreateUser(ctx context.Context, email string, req CreateUserRequest) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)

	CreateRecord(ctx context.Context, createdBy string, req CreateRecordRequest) (*Record, error)
	ListRecords(ctx context.Context, createdBy string) ([]Record, error)
	UpdateRecord(ctx context.Context, id int64, req UpdateRecordRequest) (*Record, error)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
