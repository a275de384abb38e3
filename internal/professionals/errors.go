package professionals

import "errors"

var (
	ErrMissingName           = errors.New("name is required")
	ErrMissingSpecialization = errors.New("specialization is required")
	ErrMissingContactEmail   = errors.New("contact email is required")
	ErrProfessionalNotFound  = errors.New("professional not found")
	ErrProfessionalExists    = errors.New("professional with this contact email already exists")
	ErrNoFieldsToUpdate      = errors.New("no fields to update")
)
