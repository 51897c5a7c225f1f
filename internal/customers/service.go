package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopdeskapp/shopdesk-backend/internal/audit"
	"github.com/shopdeskapp/shopdesk-backend/pkg/db"
	"github.com/shopdeskapp/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskapp/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/shopdeskapp/shopdesk-backend/pkg/errors"
	"github.com/shopdeskapp/shopdesk-backend/pkg/pagination"
	"github.com/shopdeskapp/shopdesk-backend/pkg/types"
)

// CustomerInput carries the full editable state of a customer. Both the
// create and edit forms submit every field.
type CustomerInput struct {
	Name        string
	Email       string
	Phone       *string
	Address     types.Address
	CompanyName *string
	TaxID       *string
	DateOfBirth *time.Time
	Gender      *string
	Notes       *string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes customer management operations.
type Service struct {
	repo     *Repository
	tx       txRunner
	recorder audit.Recorder
}

// NewService constructs a customer service instance.
func NewService(repo *Repository, tx txRunner, recorder audit.Recorder) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &Service{repo: repo, tx: tx, recorder: recorder}, nil
}

// Create inserts a customer and records the admin action in the same
// transaction.
func (s *Service) Create(ctx context.Context, adminID uuid.UUID, input CustomerInput) (*models.Customer, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		ID:          uuid.New(),
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		Address:     input.Address,
		CompanyName: input.CompanyName,
		TaxID:       input.TaxID,
		DateOfBirth: input.DateOfBirth,
		Gender:      input.Gender,
		Notes:       input.Notes,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, customer); err != nil {
			if db.IsUniqueViolation(err, "email") {
				return pkgerrors.New(pkgerrors.CodeConflict, "a customer with this email already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert customer")
		}
		return s.recorder.Record(ctx, tx, audit.Entry{
			AdminID:     adminID,
			ActionType:  enums.AdminActionInsert,
			EntityType:  enums.AdminEntityCustomer,
			EntityID:    customer.ID,
			Description: fmt.Sprintf("created customer %q", customer.Name),
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}

	return customer, nil
}

// Update replaces the editable fields of a customer and records the admin
// action in the same transaction.
func (s *Service) Update(ctx context.Context, adminID, customerID uuid.UUID, input CustomerInput) (*models.Customer, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	customer, err := s.loadCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	customer.Name = input.Name
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.Address = input.Address
	customer.CompanyName = input.CompanyName
	customer.TaxID = input.TaxID
	customer.DateOfBirth = input.DateOfBirth
	customer.Gender = input.Gender
	customer.Notes = input.Notes

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, customer); err != nil {
			if db.IsUniqueViolation(err, "email") {
				return pkgerrors.New(pkgerrors.CodeConflict, "a customer with this email already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update customer")
		}
		return s.recorder.Record(ctx, tx, audit.Entry{
			AdminID:     adminID,
			ActionType:  enums.AdminActionUpdate,
			EntityType:  enums.AdminEntityCustomer,
			EntityID:    customer.ID,
			Description: fmt.Sprintf("updated customer %q", customer.Name),
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}

	return customer, nil
}

// Delete removes a customer and records the admin action in the same
// transaction. Orders and their items go with the customer.
func (s *Service) Delete(ctx context.Context, adminID, customerID uuid.UUID) error {
	customer, err := s.loadCustomer(ctx, customerID)
	if err != nil {
		return err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, customerID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete customer")
		}
		return s.recorder.Record(ctx, tx, audit.Entry{
			AdminID:     adminID,
			ActionType:  enums.AdminActionDelete,
			EntityType:  enums.AdminEntityCustomer,
			EntityID:    customerID,
			Description: fmt.Sprintf("deleted customer %q", customer.Name),
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete customer")
	}
	return nil
}

// Get loads one customer.
func (s *Service) Get(ctx context.Context, customerID uuid.UUID) (*models.Customer, error) {
	return s.loadCustomer(ctx, customerID)
}

// List returns a page of customers.
func (s *Service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	result, err := s.repo.List(ctx, params, filters)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	return result, nil
}

func (s *Service) loadCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func validateInput(input *CustomerInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if input.Email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if !strings.Contains(input.Email, "@") {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is invalid")
	}
	if input.DateOfBirth != nil && input.DateOfBirth.After(time.Now()) {
		return pkgerrors.New(pkgerrors.CodeValidation, "date of birth cannot be in the future")
	}
	return nil
}
