package professionals

import (
	"context"
	"fmt"

	"github.com/CuraLedger-Health/subscription-service/internal/pagination"
)

type Service struct {
	repo RepositoryInterface
}

func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateProfessional(ctx context.Context, req CreateProfessionalRequest) (*Professional, error) {
	if req.Name == "" {
		return nil, ErrMissingName
	}
	if req.Specialization == "" {
		return nil, ErrMissingSpecialization
	}
	if req.ContactEmail == "" {
		return nil, ErrMissingContactEmail
	}

	professional, err := s.repo.CreateProfessional(ctx, req)
	if err != nil {
		return nil, err
	}
	return professional, nil
}

func (s *Service) GetProfessional(ctx context.Context, id int64) (*Professional, error) {
	return s.repo.GetProfessional(ctx, id)
}

func (s *Service) ListProfessionals(ctx context.Context, params pagination.Params) ([]Professional, pagination.Meta, error) {
	params.Validate()

	professionals, total, err := s.repo.ListProfessionals(ctx, params)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("failed to list professionals: %w", err)
	}
	return professionals, params.CalculateMeta(total), nil
}

func (s *Service) UpdateProfessional(ctx context.Context, id int64, req UpdateProfessionalRequest) (*Professional, error) {
	return s.repo.UpdateProfessional(ctx, id, req)
}

func (s *Service) DeleteProfessional(ctx context.Context, id int64) error {
	return s.repo.DeleteProfessional(ctx, id)
}
