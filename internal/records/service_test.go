package records

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockRepository struct {
	createUserFunc     func(ctx context.Context, email string, req CreateUserRequest) (*User, error)
	getUserByEmailFunc func(ctx context.Context, email string) (*User, error)
	listUsersFunc      func(ctx context.Context) ([]User, error)
	createRecordFunc   func(ctx context.Context, createdBy string, req CreateRecordRequest) (*Record, error)
	listRecordsFunc    func(ctx context.Context, createdBy string) ([]Record, error)
	updateRecordFunc   func(ctx context.Context, id int64, req UpdateRecordRequest) (*Record, error)
}

func (m *mockRepository) CreateUser(ctx context.Context, email string, req CreateUserRequest) (*User, error) {
	if m.createUserFunc != nil {
		return m.createUserFunc(ctx, email, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	if m.getUserByEmailFunc != nil {
		return m.getUserByEmailFunc(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) ListUsers(ctx context.Context) ([]User, error) {
	if m.listUsersFunc != nil {
		return m.listUsersFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) CreateRecord(ctx context.Context, createdBy string, req CreateRecordRequest) (*Record, error) {
	if m.createRecordFunc != nil {
		return m.createRecordFunc(ctx, createdBy, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) ListRecordsByCreator(ctx context.Context, createdBy string) ([]Record, error) {
	if m.listRecordsFunc != nil {
		return m.listRecordsFunc(ctx, createdBy)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) UpdateRecord(ctx context.Context, id int64, req UpdateRecordRequest) (*Record, error) {
	if m.updateRecordFunc != nil {
		return m.updateRecordFunc(ctx, id, req)
	}
	return nil, errors.New("not implemented")
}

// TestCreateUser_Success tests successful user creation
func TestCreateUser_Success(t *testing.T) {
	mockRepo := &mockRepository{
		createUserFunc: func(ctx context.Context, email string, req CreateUserRequest) (*User, error) {
			return &User{
				ID:        1,
				Username:  req.Username,
				Age:       req.Age,
				Location:  req.Location,
				Folders:   []string{},
				CreatedBy: email,
			}, nil
		},
	}

	service := NewService(mockRepo)
	req := CreateUserRequest{
		Username: "testuser",
		Age:      30,
		Location: "Amsterdam",
	}

	user, err := service.CreateUser(context.Background(), "testuser@example.com", req)

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if user == nil {
		t.Fatal("Expected user, got nil")
	}
	if user.Username != "testuser" {
		t.Errorf("Expected username 'testuser', got '%s'", user.Username)
	}
	if user.CreatedBy != "testuser@example.com" {
		t.Errorf("Expected created_by from email, got '%s'", user.CreatedBy)
	}
}

// TestCreateUser_EmptyUsername tests validation for empty username
func TestCreateUser_EmptyUsername(t *testing.T) {
	mockRepo := &mockRepository{}
	service := NewService(mockRepo)

	user, err := service.CreateUser(context.Background(), "someone@example.com", CreateUserRequest{})

	if !errors.Is(err, ErrMissingUsername) {
		t.Errorf("Expected ErrMissingUsername, got %v", err)
	}
	if user != nil {
		t.Error("Expected nil user")
	}
}

// TestCreateUser_EmptyEmail tests that a user cannot be created without the
// authenticated email that keys the account
func TestCreateUser_EmptyEmail(t *testing.T) {
	mockRepo := &mockRepository{}
	service := NewService(mockRepo)

	user, err := service.CreateUser(context.Background(), "", CreateUserRequest{Username: "x"})

	if !errors.Is(err, ErrMissingEmail) {
		t.Errorf("Expected ErrMissingEmail, got %v", err)
	}
	if user != nil {
		t.Error("Expected nil user")
	}
}

// TestGetUserByEmail_NotFound tests the sentinel passes through unchanged so
// callers can map it to a 404
func TestGetUserByEmail_NotFound(t *testing.T) {
	mockRepo := &mockRepository{
		getUserByEmailFunc: func(ctx context.Context, email string) (*User, error) {
			return nil, ErrUserNotFound
		},
	}
	service := NewService(mockRepo)

	user, err := service.GetUserByEmail(context.Background(), "missing@example.com")

	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
	if user != nil {
		t.Error("Expected nil user")
	}
}

// TestCreateRecord_Success tests successful record creation
func TestCreateRecord_Success(t *testing.T) {
	mockRepo := &mockRepository{
		createRecordFunc: func(ctx context.Context, createdBy string, req CreateRecordRequest) (*Record, error) {
			return &Record{
				ID:             7,
				UserID:         req.UserID,
				RecordName:     req.RecordName,
				AnalysisResult: req.AnalysisResult,
				CreatedBy:      createdBy,
				CreatedAt:      time.Now(),
			}, nil
		},
	}

	service := NewService(mockRepo)
	req := CreateRecordRequest{
		UserID:         1,
		RecordName:     "Blood panel",
		AnalysisResult: "All clear",
	}

	record, err := service.CreateRecord(context.Background(), "owner@example.com", req)

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if record.RecordName != "Blood panel" {
		t.Errorf("Expected record name 'Blood panel', got '%s'", record.RecordName)
	}
	if record.CreatedBy != "owner@example.com" {
		t.Errorf("Expected created_by from caller, got '%s'", record.CreatedBy)
	}
}

// TestCreateRecord_MissingName tests validation for empty record name
func TestCreateRecord_MissingName(t *testing.T) {
	mockRepo := &mockRepository{}
	service := NewService(mockRepo)

	record, err := service.CreateRecord(context.Background(), "owner@example.com", CreateRecordRequest{})

	if !errors.Is(err, ErrMissingRecordName) {
		t.Errorf("Expected ErrMissingRecordName, got %v", err)
	}
	if record != nil {
		t.Error("Expected nil record")
	}
}

// TestListRecords_ScopedToCreator tests that listing passes the creator
// through to the repository
func TestListRecords_ScopedToCreator(t *testing.T) {
	var askedFor string
	mockRepo := &mockRepository{
		listRecordsFunc: func(ctx context.Context, createdBy string) ([]Record, error) {
			askedFor = createdBy
			return []Record{{ID: 1, RecordName: "Scan", CreatedBy: createdBy}}, nil
		},
	}

	service := NewService(mockRepo)
	result, err := service.ListRecords(context.Background(), "alice@example.com")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if askedFor != "alice@example.com" {
		t.Errorf("Expected query scoped to alice@example.com, got '%s'", askedFor)
	}
	if len(result) != 1 {
		t.Errorf("Expected 1 record, got %d", len(result))
	}
}

// TestUpdateRecord_NotFound tests the sentinel passes through unchanged
func TestUpdateRecord_NotFound(t *testing.T) {
	mockRepo := &mockRepository{
		updateRecordFunc: func(ctx context.Context, id int64, req UpdateRecordRequest) (*Record, error) {
			return nil, ErrRecordNotFound
		},
	}
	service := NewService(mockRepo)

	name := "renamed"
	record, err := service.UpdateRecord(context.Background(), 99, UpdateRecordRequest{RecordName: &name})

	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound, got %v", err)
	}
	if record != nil {
		t.Error("Expected nil record")
	}
}
