package testresult

import (
	"time"

	"github.com/google/uuid"

	"github.com/genelab/genelab/internal/platform/refjson"
)

// TestResult maps to the test_result table. Exactly one result exists per
// completed booking; it is written only while the booking moves from
// in-progress to completed.
type TestResult struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ResultID    string     `db:"result_id" json:"result_id"`
	BookingID   string     `db:"booking_id" json:"booking_id"`
	StaffID     *string    `db:"staff_id" json:"staff_id,omitempty"`
	Conclusion  string     `db:"conclusion" json:"conclusion"`
	Description *string    `db:"description" json:"description,omitempty"`
	ResultDate  *time.Time `db:"result_date" json:"result_date,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

var (
	aliasResultID   = []string{"resultId", "resultID", "ResultId", "result_id"}
	aliasBookingID  = []string{"bookingId", "bookingID", "BookingId", "booking_id"}
	aliasStaffID    = []string{"staffId", "staffID", "StaffId", "staff_id"}
	aliasConclusion = []string{"conclusion", "status", "Conclusion"}
	aliasDesc       = []string{"description", "Description", "note"}
	aliasResultDate = []string{"resultDate", "date", "result_date"}
)

// IsResultRecord reports whether a resolved node looks like a test result.
func IsResultRecord(node map[string]any) bool {
	rec := refjson.Record(node)
	return rec.Has(aliasBookingID...) && rec.Has(aliasConclusion...) && !rec.Has(aliasKitMarker...)
}

// aliasKitMarker keeps kit nodes out of the result bucket; both shapes carry
// booking and status fields.
var aliasKitMarker = []string{"kitId", "kitID", "KitId", "kit_id"}

// FromRecord projects a resolved node onto a TestResult.
func FromRecord(rec refjson.Record) *TestResult {
	r := &TestResult{
		ResultID:   rec.String(aliasResultID...),
		BookingID:  rec.String(aliasBookingID...),
		Conclusion: rec.String(aliasConclusion...),
	}
	if v := rec.String(aliasStaffID...); v != "" {
		r.StaffID = &v
	}
	if v := rec.String(aliasDesc...); v != "" {
		r.Description = &v
	}
	r.ResultDate = rec.Time(aliasResultDate...)
	return r
}
