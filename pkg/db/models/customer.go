package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopdeskapp/shopdesk-backend/pkg/types"
)

// Customer is a back-office customer record. Deleting a customer cascades to
// their orders and order items.
type Customer struct {
	ID          uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string        `gorm:"column:name;not null"`
	Email       string        `gorm:"column:email;not null;uniqueIndex"`
	Phone       *string       `gorm:"column:phone"`
	Address     types.Address `gorm:"embedded;embeddedPrefix:address_"`
	CompanyName *string       `gorm:"column:company_name"`
	TaxID       *string       `gorm:"column:tax_id"`
	DateOfBirth *time.Time    `gorm:"column:date_of_birth;type:date"`
	Gender      *string       `gorm:"column:gender"`
	Notes       *string       `gorm:"column:notes"`
	Orders      []Order       `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
