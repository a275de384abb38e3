package professionals

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/CuraLedger-Health/subscription-service/internal/messaging"
	"github.com/CuraLedger-Health/subscription-service/internal/pagination"
	"github.com/lib/pq"
)

type Repository struct {
	db        *sql.DB
	publisher messaging.PublisherInterface
}

func NewRepository(db *sql.DB, publisher messaging.PublisherInterface) *Repository {
	return &Repository{
		db:        db,
		publisher: publisher,
	}
}

func (r *Repository) CreateProfessional(ctx context.Context, req CreateProfessionalRequest) (*Professional, error) {
	professional := &Professional{
		Name:              req.Name,
		Specialization:    req.Specialization,
		PictureURL:        req.PictureURL,
		Qualifications:    req.Qualifications,
		YearsOfExperience: req.YearsOfExperience,
		ContactEmail:      req.ContactEmail,
		ContactPhone:      req.ContactPhone,
		EthAddress:        req.EthAddress,
	}
	if professional.Qualifications == nil {
		professional.Qualifications = []string{}
	}

	query := `
		INSERT INTO health_professionals
		(name, specialization, picture_url, qualifications, years_of_experience, contact_email, contact_phone, eth_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		professional.Name,
		professional.Specialization,
		professional.PictureURL,
		pq.Array(professional.Qualifications),
		professional.YearsOfExperience,
		professional.ContactEmail,
		professional.ContactPhone,
		professional.EthAddress,
	).Scan(&professional.ID, &professional.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrProfessionalExists
		}
		return nil, fmt.Errorf("failed to create professional: %w", err)
	}

	log.Printf("Created professional %d (%s, %s)", professional.ID, professional.Name, professional.Specialization)

	if r.publisher != nil {
		event := messaging.ProfessionalCreatedEvent{
			BaseEvent: messaging.NewBaseEvent(messaging.EventProfessionalCreated),
			Data: messaging.ProfessionalCreatedData{
				ProfessionalID: professional.ID,
				Name:           professional.Name,
				Specialization: professional.Specialization,
				CreatedAt:      professional.CreatedAt,
			},
		}
		if err := r.publisher.Publish(ctx, messaging.EventProfessionalCreated, event); err != nil {
			log.Printf("Warning: failed to publish professional.created event: %v", err)
		}
	}

	return professional, nil
}

func (r *Repository) GetProfessional(ctx context.Context, id int64) (*Professional, error) {
	query := `
		SELECT id, name, specialization, picture_url, qualifications, years_of_experience,
		       contact_email, contact_phone, eth_address, created_at, updated_at
		FROM health_professionals
		WHERE id = $1
	`

	professional := &Professional{}
	var pictureURL, contactPhone, ethAddress sql.NullString
	var yearsOfExperience sql.NullInt64
	var updatedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&professional.ID,
		&professional.Name,
		&professional.Specialization,
		&pictureURL,
		pq.Array(&professional.Qualifications),
		&yearsOfExperience,
		&professional.ContactEmail,
		&contactPhone,
		&ethAddress,
		&professional.CreatedAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProfessionalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get professional: %w", err)
	}

	professional.PictureURL = pictureURL.String
	professional.ContactPhone = contactPhone.String
	professional.EthAddress = ethAddress.String
	professional.YearsOfExperience = int(yearsOfExperience.Int64)
	if updatedAt.Valid {
		professional.UpdatedAt = &updatedAt.Time
	}
	return professional, nil
}

// ListProfessionals returns one page of the directory plus the total count.
func (r *Repository) ListProfessionals(ctx context.Context, params pagination.Params) ([]Professional, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM health_professionals`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count professionals: %w", err)
	}

	query := `
		SELECT id, name, specialization, picture_url, qualifications, years_of_experience,
		       contact_email, contact_phone, eth_address, created_at, updated_at
		FROM health_professionals
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query professionals: %w", err)
	}
	defer rows.Close()

	var professionals []Professional
	for rows.Next() {
		var professional Professional
		var pictureURL, contactPhone, ethAddress sql.NullString
		var yearsOfExperience sql.NullInt64
		var updatedAt sql.NullTime

		if err := rows.Scan(
			&professional.ID,
			&professional.Name,
			&professional.Specialization,
			&pictureURL,
			pq.Array(&professional.Qualifications),
			&yearsOfExperience,
			&professional.ContactEmail,
			&contactPhone,
			&ethAddress,
			&professional.CreatedAt,
			&updatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan professional: %w", err)
		}

		professional.PictureURL = pictureURL.String
		professional.ContactPhone = contactPhone.String
		professional.EthAddress = ethAddress.String
		professional.YearsOfExperience = int(yearsOfExperience.Int64)
		if updatedAt.Valid {
			professional.UpdatedAt = &updatedAt.Time
		}
		professionals = append(professionals, professional)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating professionals: %w", err)
	}

	return professionals, total, nil
}

func (r *Repository) UpdateProfessional(ctx context.Context, id int64, req UpdateProfessionalRequest) (*Professional, error) {
	var updates []string
	var args []interface{}
	argIndex := 1

	if req.Name != nil {
		updates = append(updates, fmt.Sprintf("name = $%d", argIndex))
		args = append(args, *req.Name)
		argIndex++
	}
	if req.Specialization != nil {
		updates = append(updates, fmt.Sprintf("specialization = $%d", argIndex))
		args = append(args, *req.Specialization)
		argIndex++
	}
	if req.PictureURL != nil {
		updates = append(updates, fmt.Sprintf("picture_url = $%d", argIndex))
		args = append(args, *req.PictureURL)
		argIndex++
	}
	if req.Qualifications != nil {
		updates = append(updates, fmt.Sprintf("qualifications = $%d", argIndex))
		args = append(args, pq.Array(*req.Qualifications))
		argIndex++
	}
	if req.YearsOfExperience != nil {
		updates = append(updates, fmt.Sprintf("years_of_experience = $%d", argIndex))
		args = append(args, *req.YearsOfExperience)
		argIndex++
	}
	if req.ContactEmail != nil {
		updates = append(updates, fmt.Sprintf("contact_email = $%d", argIndex))
		args = append(args, *req.ContactEmail)
		argIndex++
	}
	if req.ContactPhone != nil {
		updates = append(updates, fmt.Sprintf("contact_phone = $%d", argIndex))
		args = append(args, *req.ContactPhone)
		argIndex++
	}
	if req.EthAddress != nil {
		updates = append(updates, fmt.Sprintf("eth_address = $%d", argIndex))
		args = append(args, *req.EthAddress)
		argIndex++
	}

	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	updates = append(updates, fmt.Sprintf("updated_at = $%d", argIndex))
	args = append(args, time.Now())
	argIndex++

	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE health_professionals
		SET %s
		WHERE id = $%d
		RETURNING id, name, specialization, picture_url, qualifications, years_of_experience,
		          contact_email, contact_phone, eth_address, created_at, updated_at
	`, strings.Join(updates, ", "), argIndex)

	professional := &Professional{}
	var pictureURL, contactPhone, ethAddress sql.NullString
	var yearsOfExperience sql.NullInt64
	var updatedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&professional.ID,
		&professional.Name,
		&professional.Specialization,
		&pictureURL,
		pq.Array(&professional.Qualifications),
		&yearsOfExperience,
		&professional.ContactEmail,
		&contactPhone,
		&ethAddress,
		&professional.CreatedAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProfessionalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update professional: %w", err)
	}

	professional.PictureURL = pictureURL.String
	professional.ContactPhone = contactPhone.String
	professional.EthAddress = ethAddress.String
	professional.YearsOfExperience = int(yearsOfExperience.Int64)
	if updatedAt.Valid {
		professional.UpdatedAt = &updatedAt.Time
	}

	if r.publisher != nil {
		event := messaging.ProfessionalCreatedEvent{
			BaseEvent: messaging.NewBaseEvent(messaging.EventProfessionalUpdated),
			Data: messaging.ProfessionalCreatedData{
				ProfessionalID: professional.ID,
				Name:           professional.Name,
				Specialization: professional.Specialization,
				CreatedAt:      professional.CreatedAt,
			},
		}
		if err := r.publisher.Publish(ctx, messaging.EventProfessionalUpdated, event); err != nil {
			log.Printf("Warning: failed to publish professional.updated event: %v", err)
		}
	}

	return professional, nil
}

func (r *Repository) DeleteProfessional(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM health_professionals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete professional: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrProfessionalNotFound
	}
	return nil
}
