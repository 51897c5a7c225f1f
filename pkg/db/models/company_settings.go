package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopdeskapp/shopdesk-backend/pkg/types"
)

// CompanySettings is the single record describing the invoice-issuing
// business. The application reads and writes it through get-or-create
// semantics; only one row is ever meaningful.
type CompanySettings struct {
	ID        uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string        `gorm:"column:name;not null"`
	Address   types.Address `gorm:"embedded;embeddedPrefix:address_"`
	Phone     *string       `gorm:"column:phone"`
	Email     *string       `gorm:"column:email"`
	Website   *string       `gorm:"column:website"`
	TaxID     *string       `gorm:"column:tax_id"`
	LogoURL   *string       `gorm:"column:logo_url"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
