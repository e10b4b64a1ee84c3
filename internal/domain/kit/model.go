package kit

import (
	"time"

	"github.com/google/uuid"

	"github.com/genelab/genelab/internal/platform/refjson"
	"github.com/genelab/genelab/internal/platform/status"
)

// Kit maps to the kit table. KitID is the identifier the legacy backend
// uses; BookingID joins the kit to its booking by the booking's legacy id.
type Kit struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	KitID       string       `db:"kit_id" json:"kit_id"`
	BookingID   *string      `db:"booking_id" json:"booking_id,omitempty"`
	CustomerID  *string      `db:"customer_id" json:"customer_id,omitempty"`
	StaffID     *string      `db:"staff_id" json:"staff_id,omitempty"`
	Description *string      `db:"description" json:"description,omitempty"`
	Status      status.State `db:"status" json:"status"`
	ReceivedAt  *time.Time   `db:"received_at" json:"received_at,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

var (
	aliasKitID      = []string{"kitId", "kitID", "KitId", "kit_id", "code"}
	aliasBookingID  = []string{"bookingId", "bookingID", "BookingId", "booking_id"}
	aliasCustomerID = []string{"customerId", "customerID", "CustomerId", "customer_id"}
	aliasStaffID    = []string{"staffId", "staffID", "StaffId", "staff_id"}
	aliasDesc       = []string{"description", "Description", "note"}
	aliasStatus     = []string{"status", "Status", "state"}
	aliasReceivedAt = []string{"receivedAt", "receivedDate", "received_at"}
)

// IsKitRecord reports whether a resolved node looks like a kit.
func IsKitRecord(node map[string]any) bool {
	rec := refjson.Record(node)
	return rec.Has(aliasKitID...) && rec.Has(aliasStatus...)
}

// FromRecord projects a resolved node onto a Kit. The raw status string is
// translated through the codec by the caller; Status here carries the raw
// value untouched.
func FromRecord(rec refjson.Record) *Kit {
	k := &Kit{
		KitID:  rec.String(aliasKitID...),
		Status: status.State(rec.String(aliasStatus...)),
	}
	if v := rec.String(aliasBookingID...); v != "" {
		k.BookingID = &v
	}
	if v := rec.String(aliasCustomerID...); v != "" {
		k.CustomerID = &v
	}
	if v := rec.String(aliasStaffID...); v != "" {
		k.StaffID = &v
	}
	if v := rec.String(aliasDesc...); v != "" {
		k.Description = &v
	}
	k.ReceivedAt = rec.Time(aliasReceivedAt...)
	return k
}
