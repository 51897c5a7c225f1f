package enums

import "fmt"

// AdminActionType classifies the write a back-office action record captures.
type AdminActionType string

const (
	AdminActionInsert AdminActionType = "insert"
	AdminActionUpdate AdminActionType = "update"
	AdminActionDelete AdminActionType = "delete"
)

var validAdminActionTypes = []AdminActionType{
	AdminActionInsert,
	AdminActionUpdate,
	AdminActionDelete,
}

// String implements fmt.Stringer.
func (a AdminActionType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdminActionType.
func (a AdminActionType) IsValid() bool {
	for _, candidate := range validAdminActionTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// AdminEntityType names the entity kinds that produce audit records.
type AdminEntityType string

const (
	AdminEntityProduct  AdminEntityType = "product"
	AdminEntityCustomer AdminEntityType = "customer"
	AdminEntityCategory AdminEntityType = "category"
)

var validAdminEntityTypes = []AdminEntityType{
	AdminEntityProduct,
	AdminEntityCustomer,
	AdminEntityCategory,
}

// String implements fmt.Stringer.
func (e AdminEntityType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known AdminEntityType.
func (e AdminEntityType) IsValid() bool {
	for _, candidate := range validAdminEntityTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseAdminEntityType converts raw input into an AdminEntityType.
func ParseAdminEntityType(value string) (AdminEntityType, error) {
	for _, candidate := range validAdminEntityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid admin entity type %q", value)
}
