package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopdeskapp/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskapp/shopdesk-backend/pkg/enums"
	apperrors "github.com/shopdeskapp/shopdesk-backend/pkg/errors"
	"github.com/shopdeskapp/shopdesk-backend/pkg/pagination"
)

type fakeRepository struct {
	createFn func(ctx context.Context, action *models.AdminAction) error
	listFn   func(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error)
	withTx   int
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	f.withTx++
	return f
}

func (f *fakeRepository) Create(ctx context.Context, action *models.AdminAction) error {
	if f.createFn != nil {
		return f.createFn(ctx, action)
	}
	return nil
}

func (f *fakeRepository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params, filters)
	}
	return &ListResult{}, nil
}

func TestService_Record(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	entry := Entry{
		AdminID:     uuid.New(),
		ActionType:  enums.AdminActionUpdate,
		EntityType:  enums.AdminEntityProduct,
		EntityID:    uuid.New(),
		Description: "price changed from 10.00 to 12.00",
	}

	var created *models.AdminAction
	repo.createFn = func(ctx context.Context, action *models.AdminAction) error {
		created = action
		return nil
	}

	if err := svc.Record(context.Background(), nil, entry); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if created == nil {
		t.Fatal("expected admin action to be created")
	}
	if created.AdminID != entry.AdminID || created.ActionType != entry.ActionType {
		t.Fatalf("unexpected action data: %+v", created)
	}
	if created.EntityType != entry.EntityType || created.EntityID != entry.EntityID {
		t.Fatalf("missing entity metadata: %+v", created)
	}
	if created.Description != entry.Description {
		t.Fatalf("description mismatch: %q", created.Description)
	}
}

func TestService_RecordUsesTransaction(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	entry := Entry{
		AdminID:    uuid.New(),
		ActionType: enums.AdminActionInsert,
		EntityType: enums.AdminEntityCustomer,
		EntityID:   uuid.New(),
	}

	if err := svc.Record(context.Background(), &gorm.DB{}, entry); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if repo.withTx != 1 {
		t.Fatalf("expected repository to be rebound to the transaction, got %d", repo.withTx)
	}
}

func TestService_RecordValidation(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	tests := []struct {
		name  string
		entry Entry
	}{
		{
			name: "missing admin id",
			entry: Entry{
				ActionType: enums.AdminActionInsert,
				EntityType: enums.AdminEntityProduct,
				EntityID:   uuid.New(),
			},
		},
		{
			name: "invalid action type",
			entry: Entry{
				AdminID:    uuid.New(),
				ActionType: enums.AdminActionType("not_real"),
				EntityType: enums.AdminEntityProduct,
				EntityID:   uuid.New(),
			},
		},
		{
			name: "invalid entity type",
			entry: Entry{
				AdminID:    uuid.New(),
				ActionType: enums.AdminActionDelete,
				EntityType: enums.AdminEntityType("not_real"),
				EntityID:   uuid.New(),
			},
		},
		{
			name: "missing entity id",
			entry: Entry{
				AdminID:    uuid.New(),
				ActionType: enums.AdminActionDelete,
				EntityType: enums.AdminEntityCategory,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Record(context.Background(), nil, tc.entry)
			if err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
			appErr := apperrors.As(err)
			if appErr == nil || appErr.Code() != apperrors.CodeValidation {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
}

func TestService_RecordRepoError(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	expectedErr := errors.New("boom")
	repo.createFn = func(ctx context.Context, action *models.AdminAction) error {
		return expectedErr
	}

	recordErr := svc.Record(context.Background(), nil, Entry{
		AdminID:    uuid.New(),
		ActionType: enums.AdminActionInsert,
		EntityType: enums.AdminEntityProduct,
		EntityID:   uuid.New(),
	})
	if !errors.Is(recordErr, expectedErr) {
		t.Fatalf("expected repo error to bubble up, got %v", recordErr)
	}
	if appErr := apperrors.As(recordErr); appErr == nil || appErr.Code() != apperrors.CodeInternal {
		t.Fatalf("expected internal code, got %v", recordErr)
	}
}

func TestService_List(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	entityID := uuid.New()
	repo.listFn = func(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
		if filters.EntityID == nil || *filters.EntityID != entityID {
			t.Fatalf("expected entity filter to pass through")
		}
		return &ListResult{Actions: []models.AdminAction{{EntityID: entityID}}}, nil
	}

	result, err := svc.List(context.Background(), pagination.Params{}, ListFilters{EntityID: &entityID})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(result.Actions) != 1 {
		t.Fatalf("expected one action, got %d", len(result.Actions))
	}
}

func TestService_ListRepoError(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	typedErr := apperrors.New(apperrors.CodeValidation, "invalid cursor")
	repo.listFn = func(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
		return nil, typedErr
	}
	_, listErr := svc.List(context.Background(), pagination.Params{}, ListFilters{})
	if appErr := apperrors.As(listErr); appErr == nil || appErr.Code() != apperrors.CodeValidation {
		t.Fatalf("expected typed error to pass through, got %v", listErr)
	}

	plainErr := errors.New("boom")
	repo.listFn = func(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
		return nil, plainErr
	}
	_, listErr = svc.List(context.Background(), pagination.Params{}, ListFilters{})
	if !errors.Is(listErr, plainErr) {
		t.Fatalf("expected repo error to bubble up, got %v", listErr)
	}
	if appErr := apperrors.As(listErr); appErr == nil || appErr.Code() != apperrors.CodeInternal {
		t.Fatalf("expected internal code, got %v", listErr)
	}
}
