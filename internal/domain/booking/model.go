package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/genelab/genelab/internal/platform/refjson"
	"github.com/genelab/genelab/internal/platform/status"
)

// Booking maps to the booking table. BookingID is the identifier the legacy
// backend uses and the join key the kit references.
type Booking struct {
	ID               uuid.UUID    `db:"id" json:"id"`
	BookingID        string       `db:"booking_id" json:"booking_id"`
	CustomerID       string       `db:"customer_id" json:"customer_id"`
	StaffID          *string      `db:"staff_id" json:"staff_id,omitempty"`
	ServiceID        *string      `db:"service_id" json:"service_id,omitempty"`
	Address          *string      `db:"address" json:"address,omitempty"`
	CollectionMethod *string      `db:"collection_method" json:"collection_method,omitempty"`
	Status           status.State `db:"status" json:"status"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time    `db:"updated_at" json:"updated_at"`
}

var (
	aliasBookingID  = []string{"bookingId", "bookingID", "BookingId", "booking_id"}
	aliasCustomerID = []string{"customerId", "customerID", "CustomerId", "customer_id"}
	aliasStaffID    = []string{"staffId", "staffID", "StaffId", "staff_id"}
	aliasServiceID  = []string{"serviceId", "serviceID", "ServiceId", "service_id"}
	aliasAddress    = []string{"address", "Address"}
	aliasMethod     = []string{"collectionMethod", "method", "collection_method"}
	aliasStatus     = []string{"status", "Status", "state"}
)

// IsBookingRecord reports whether a resolved node looks like a booking. Kit
// and result nodes also carry a booking id, so the shape check excludes
// their marker fields.
func IsBookingRecord(node map[string]any) bool {
	rec := refjson.Record(node)
	return rec.Has(aliasBookingID...) &&
		rec.Has(aliasCustomerID...) &&
		!rec.Has("kitId", "kitID", "KitId", "kit_id") &&
		!rec.Has("conclusion", "resultId")
}

// FromRecord projects a resolved node onto a Booking. The raw status string
// is kept as-is; the caller translates it through the codec.
func FromRecord(rec refjson.Record) *Booking {
	b := &Booking{
		BookingID:  rec.String(aliasBookingID...),
		CustomerID: rec.String(aliasCustomerID...),
		Status:     status.State(rec.String(aliasStatus...)),
	}
	if v := rec.String(aliasStaffID...); v != "" {
		b.StaffID = &v
	}
	if v := rec.String(aliasServiceID...); v != "" {
		b.ServiceID = &v
	}
	if v := rec.String(aliasAddress...); v != "" {
		b.Address = &v
	}
	if v := rec.String(aliasMethod...); v != "" {
		b.CollectionMethod = &v
	}
	return b
}
