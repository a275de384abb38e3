package professionals

import "time"

// Professional is a listed health professional.
type Professional struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Specialization    string     `json:"specialization"`
	PictureURL        string     `json:"picture_url,omitempty"`
	Qualifications    []string   `json:"qualifications"`
	YearsOfExperience int        `json:"years_of_experience,omitempty"`
	ContactEmail      string     `json:"contact_email"`
	ContactPhone      string     `json:"contact_phone,omitempty"`
	EthAddress        string     `json:"eth_address,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

type CreateProfessionalRequest struct {
	Name              string   `json:"name" validate:"required"`
	Specialization    string   `json:"specialization" validate:"required"`
	PictureURL        string   `json:"picture_url"`
	Qualifications    []string `json:"qualifications"`
	YearsOfExperience int      `json:"years_of_experience"`
	ContactEmail      string   `json:"contact_email" validate:"required"`
	ContactPhone      string   `json:"contact_phone"`
	EthAddress        string   `json:"eth_address"`
}

type UpdateProfessionalRequest struct {
	Name              *string   `json:"name,omitempty"`
	Specialization    *string   `json:"specialization,omitempty"`
	PictureURL        *string   `json:"picture_url,omitempty"`
	Qualifications    *[]string `json:"qualifications,omitempty"`
	YearsOfExperience *int      `json:"years_of_experience,omitempty"`
	ContactEmail      *string   `json:"contact_email,omitempty"`
	ContactPhone      *string   `json:"contact_phone,omitempty"`
	EthAddress        *string   `json:"eth_address,omitempty"`
}
