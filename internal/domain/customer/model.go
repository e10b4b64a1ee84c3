package customer

import (
	"time"

	"github.com/google/uuid"

	"github.com/genelab/genelab/internal/platform/refjson"
)

// Customer maps to the customer table. CustomerID is the identifier the
// legacy backend uses; ID is ours.
type Customer struct {
	ID         uuid.UUID `db:"id" json:"id"`
	CustomerID string    `db:"customer_id" json:"customer_id"`
	FullName   string    `db:"full_name" json:"full_name"`
	Email      *string   `db:"email" json:"email,omitempty"`
	Phone      *string   `db:"phone" json:"phone,omitempty"`
	Address    *string   `db:"address" json:"address,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Field aliases observed across legacy payload variants.
var (
	aliasCustomerID = []string{"customerId", "customerID", "CustomerId", "customer_id"}
	aliasFullName   = []string{"fullname", "fullName", "FullName", "name"}
	aliasEmail      = []string{"email", "Email"}
	aliasPhone      = []string{"phone", "phoneNumber", "Phone"}
	aliasAddress    = []string{"address", "Address"}
)

// IsCustomerRecord reports whether a resolved node looks like a customer.
func IsCustomerRecord(node map[string]any) bool {
	rec := refjson.Record(node)
	return rec.Has(aliasCustomerID...) && rec.Has(aliasFullName...)
}

// FromRecord projects a resolved node onto a Customer.
func FromRecord(rec refjson.Record) *Customer {
	c := &Customer{
		CustomerID: rec.String(aliasCustomerID...),
		FullName:   rec.String(aliasFullName...),
	}
	if v := rec.String(aliasEmail...); v != "" {
		c.Email = &v
	}
	if v := rec.String(aliasPhone...); v != "" {
		c.Phone = &v
	}
	if v := rec.String(aliasAddress...); v != "" {
		c.Address = &v
	}
	return c
}
