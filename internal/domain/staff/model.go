package staff

import (
	"time"

	"github.com/google/uuid"

	"github.com/genelab/genelab/internal/platform/refjson"
)

// Member maps to the staff_member table. StaffID is the identifier the
// legacy backend uses.
type Member struct {
	ID        uuid.UUID `db:"id" json:"id"`
	StaffID   string    `db:"staff_id" json:"staff_id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Role      *string   `db:"role" json:"role,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Load is a point-in-time count of a member's open bookings.
type Load struct {
	StaffID string `json:"staff_id"`
	Open    int    `json:"open"`
}

var (
	aliasStaffID  = []string{"staffId", "staffID", "StaffId", "staff_id", "employeeId"}
	aliasFullName = []string{"fullname", "fullName", "FullName", "name"}
	aliasEmail    = []string{"email", "Email"}
	aliasPhone    = []string{"phone", "phoneNumber", "Phone"}
	aliasRole     = []string{"role", "position", "Role"}
)

// IsStaffRecord reports whether a resolved node looks like a staff member.
func IsStaffRecord(node map[string]any) bool {
	rec := refjson.Record(node)
	return rec.Has(aliasStaffID...) && rec.Has(aliasFullName...)
}

// FromRecord projects a resolved node onto a Member.
func FromRecord(rec refjson.Record) *Member {
	m := &Member{
		StaffID:  rec.String(aliasStaffID...),
		FullName: rec.String(aliasFullName...),
		Active:   true,
	}
	if v := rec.String(aliasEmail...); v != "" {
		m.Email = &v
	}
	if v := rec.String(aliasPhone...); v != "" {
		m.Phone = &v
	}
	if v := rec.String(aliasRole...); v != "" {
		m.Role = &v
	}
	return m
}
