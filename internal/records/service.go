package records

import (
	"context"
	"fmt"
)

type Service struct {
	repo RepositoryInterface
}

func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateUser(ctx context.Context, email string, req CreateUserRequest) (*User, error) {
	if email == "" {
		return nil, ErrMissingEmail
	}
	if req.Username == "" {
		return nil, ErrMissingUsername
	}

	user, err := s.repo.CreateUser(ctx, email, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUserByEmail resolves the application user for an authenticated email.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	if email == "" {
		return nil, ErrMissingEmail
	}
	return s.repo.GetUserByEmail(ctx, email)
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *Service) CreateRecord(ctx context.Context, createdBy string, req CreateRecordRequest) (*Record, error) {
	if req.RecordName == "" {
		return nil, ErrMissingRecordName
	}

	record, err := s.repo.CreateRecord(ctx, createdBy, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}
	return record, nil
}

func (s *Service) ListRecords(ctx context.Context, createdBy string) ([]Record, error) {
	result, err := s.repo.ListRecordsByCreator(ctx, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return result, nil
}

func (s *Service) UpdateRecord(ctx context.Context, id int64, req UpdateRecordRequest) (*Record, error) {
	record, err := s.repo.UpdateRecord(ctx, id, req)
	if err != nil {
		return nil, err
	}
	return record, nil
}
