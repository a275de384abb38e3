package records

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/CuraLedger-Health/subscription-service/internal/messaging"
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

func (r *Repository) CreateUser(ctx context.Context, email string, req CreateUserRequest) (*User, error) {
	user := &User{
		Username:  req.Username,
		Age:       req.Age,
		Location:  req.Location,
		Folders:   []string{},
		CreatedBy: email,
	}

	query := `
		INSERT INTO users (username, age, location, folders, treatment_counts, folder, created_by)
		VALUES ($1, $2, $3, $4, 0, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		user.Username,
		user.Age,
		user.Location,
		pq.Array(user.Folders),
		pq.Array([]string{}),
		user.CreatedBy,
	).Scan(&user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("Created user %d (%s)", user.ID, user.CreatedBy)
	return user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, username, age, location, folders, treatment_counts, created_by
		FROM users
		WHERE created_by = $1
	`

	user := &User{}
	var username, location sql.NullString
	var age sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&username,
		&age,
		&location,
		pq.Array(&user.Folders),
		&user.TreatmentCounts,
		&user.CreatedBy,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	user.Username = username.String
	user.Age = int(age.Int64)
	user.Location = location.String
	return user, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	query := `
		SELECT id, username, age, location, folders, treatment_counts, created_by
		FROM users
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		var username, location sql.NullString
		var age sql.NullInt64
		if err := rows.Scan(
			&user.ID,
			&username,
			&age,
			&location,
			pq.Array(&user.Folders),
			&user.TreatmentCounts,
			&user.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.Username = username.String
		user.Age = int(age.Int64)
		user.Location = location.String
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

func (r *Repository) CreateRecord(ctx context.Context, createdBy string, req CreateRecordRequest) (*Record, error) {
	record := &Record{
		UserID:         req.UserID,
		RecordName:     req.RecordName,
		AnalysisResult: req.AnalysisResult,
		KanbanRecords:  req.KanbanRecords,
		CreatedBy:      createdBy,
	}

	query := `
		INSERT INTO records (user_id, record_name, analysis_result, kanban_records, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		record.UserID,
		record.RecordName,
		record.AnalysisResult,
		record.KanbanRecords,
		record.CreatedBy,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	log.Printf("Created record %d (%s) for user %d", record.ID, record.RecordName, record.UserID)

	if r.publisher != nil {
		event := messaging.RecordCreatedEvent{
			BaseEvent: messaging.NewBaseEvent(messaging.EventRecordCreated),
			Data: messaging.RecordCreatedData{
				RecordID:   record.ID,
				UserID:     record.UserID,
				RecordName: record.RecordName,
				CreatedBy:  record.CreatedBy,
				CreatedAt:  record.CreatedAt,
			},
		}
		if err := r.publisher.Publish(ctx, messaging.EventRecordCreated, event); err != nil {
			log.Printf("Warning: failed to publish record.created event: %v", err)
		}
	}

	return record, nil
}

func (r *Repository) ListRecordsByCreator(ctx context.Context, createdBy string) ([]Record, error) {
	query := `
		SELECT id, user_id, record_name, analysis_result, kanban_records, created_by, created_at
		FROM records
		WHERE created_by = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var result []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.RecordName,
			&rec.AnalysisResult,
			&rec.KanbanRecords,
			&rec.CreatedBy,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return result, nil
}

func (r *Repository) UpdateRecord(ctx context.Context, id int64, req UpdateRecordRequest) (*Record, error) {
	query := `
		UPDATE records
		SET record_name = COALESCE($2, record_name),
		    analysis_result = COALESCE($3, analysis_result),
		    kanban_records = COALESCE($4, kanban_records)
		WHERE id = $1
		RETURNING id, user_id, record_name, analysis_result, kanban_records, created_by, created_at
	`

	rec := &Record{}
	err := r.db.QueryRowContext(ctx, query, id, req.RecordName, req.AnalysisResult, req.KanbanRecords).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.RecordName,
		&rec.AnalysisResult,
		&rec.KanbanRecords,
		&rec.CreatedBy,
		&rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	if r.publisher != nil {
		event := messaging.RecordCreatedEvent{
			BaseEvent: messaging.NewBaseEvent(messaging.EventRecordUpdated),
			Data: messaging.RecordCreatedData{
				RecordID:   rec.ID,
				UserID:     rec.UserID,
				RecordName: rec.RecordName,
				CreatedBy:  rec.CreatedBy,
				CreatedAt:  rec.CreatedAt,
			},
		}
		if err := r.publisher.Publish(ctx, messaging.EventRecordUpdated, event); err != nil {
			log.Printf("Warning: failed to publish record.updated event: %v", err)
		}
	}

	return rec, nil
}
