package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/genelab/genelab/internal/domain/kit"
	"github.com/genelab/genelab/internal/domain/testresult"
	"github.com/genelab/genelab/internal/platform/status"
)

type mockRepo struct {
	byID   map[uuid.UUID]*Booking
	byCode map[string]*Booking

	txFails bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		byID:   make(map[uuid.UUID]*Booking),
		byCode: make(map[string]*Booking),
	}
}

func (m *mockRepo) Create(_ context.Context, b *Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.BookingID == "" {
		b.BookingID = b.ID.String()
	}
	if b.Status == "" {
		b.Status = status.BookingPending
	}
	m.byID[b.ID] = b
	m.byCode[b.BookingID] = b
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	b, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return b, nil
}

func (m *mockRepo) GetByCode(_ context.Context, code string) (*Booking, error) {
	b, ok := m.byCode[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *b
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, b *Booking) error {
	m.byID[b.ID] = b
	return nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, next status.State) error {
	b, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	b.Status = next
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.byID, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Booking, int, error) {
	out := make([]*Booking, 0, len(m.byID))
	for _, b := range m.byID {
		out = append(out, b)
	}
	return out, len(out), nil
}

func (m *mockRepo) ListByStaff(_ context.Context, staffID string, limit, offset int) ([]*Booking, int, error) {
	var out []*Booking
	for _, b := range m.byID {
		if b.StaffID != nil && *b.StaffID == staffID {
			out = append(out, b)
		}
	}
	return out, len(out), nil
}

// InTx snapshots state and restores it when fn fails, mimicking rollback.
func (m *mockRepo) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.txFails {
		return fmt.Errorf("begin tx: connection refused")
	}
	snapshot := make(map[uuid.UUID]Booking, len(m.byID))
	for id, b := range m.byID {
		snapshot[id] = *b
	}
	if err := fn(ctx); err != nil {
		for id := range m.byID {
			restored := snapshot[id]
			m.byID[id] = &restored
			m.byCode[restored.BookingID] = &restored
		}
		return err
	}
	return nil
}

type mockKitQuery struct {
	state status.State
	err   error
}

func (m *mockKitQuery) CurrentKitState(_ context.Context, _ string) (status.State, error) {
	return m.state, m.err
}

type mockRecorder struct {
	recorded []*testresult.TestResult
	err      error
}

func (m *mockRecorder) Record(_ context.Context, r *testresult.TestResult) error {
	if m.err != nil {
		return m.err
	}
	m.recorded = append(m.recorded, r)
	return nil
}

type mockPicker struct {
	staffID string
	err     error
}

func (m *mockPicker) PickForBooking(_ context.Context) (string, error) {
	return m.staffID, m.err
}

type mockPusher struct {
	pushed []string
	err    error
}

func (m *mockPusher) PushBookingStatus(_ context.Context, _, rawStatus string) error {
	if m.err != nil {
		return m.err
	}
	m.pushed = append(m.pushed, rawStatus)
	return nil
}

type fixture struct {
	repo     *mockRepo
	kits     *mockKitQuery
	recorder *mockRecorder
	picker   *mockPicker
	pusher   *mockPusher
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newMockRepo(),
		kits:     &mockKitQuery{err: kit.ErrNoKit},
		recorder: &mockRecorder{},
		picker:   &mockPicker{staffID: "S01"},
		pusher:   &mockPusher{},
	}
	f.svc = NewService(f.repo, f.kits, f.recorder, f.picker, f.pusher,
		status.NewCodec(zerolog.Nop()), nil, zerolog.Nop())
	return f
}

func (f *fixture) seed(t *testing.T, code string, s status.State) *Booking {
	t.Helper()
	staffID := "S01"
	b := &Booking{BookingID: code, CustomerID: "C01", StaffID: &staffID, Status: s}
	if err := f.repo.Create(context.Background(), b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return b
}

func TestCreateBooking_AssignsStaff(t *testing.T) {
	f := newFixture()

	b := &Booking{CustomerID: "C01"}
	if err := f.svc.CreateBooking(context.Background(), b); err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.StaffID == nil || *b.StaffID != "S01" {
		t.Errorf("staff id = %v, want S01", b.StaffID)
	}
	if b.Status != status.BookingPending {
		t.Errorf("status = %s, want pending", b.Status)
	}
}

func TestCreateBooking_NoStaff(t *testing.T) {
	f := newFixture()
	f.picker.err = errors.New("no staff available")

	if err := f.svc.CreateBooking(context.Background(), &Booking{CustomerID: "C01"}); err == nil {
		t.Fatal("expected error when allocator fails")
	}
}

func TestRequestTransition_StartRequiresKit(t *testing.T) {
	f := newFixture()
	f.seed(t, "B20", status.BookingPending)

	_, err := f.svc.RequestTransition(context.Background(), "B20",
		TransitionInput{Target: "in-progress"})
	var gv *GuardViolation
	if !errors.As(err, &gv) {
		t.Fatalf("err = %v, want *GuardViolation", err)
	}
	if gv.Reason != ReasonNoKit {
		t.Errorf("reason = %q, want %q", gv.Reason, ReasonNoKit)
	}
	if got, _ := f.repo.GetByCode(context.Background(), "B20"); got.Status != status.BookingPending {
		t.Error("rejected transition mutated state")
	}
}

func TestRequestTransition_StartRequiresKitArrival(t *testing.T) {
	f := newFixture()
	f.seed(t, "B20", status.BookingPending)
	f.kits.err = nil
	f.kits.state = status.KitInUse

	_, err := f.svc.RequestTransition(context.Background(), "B20",
		TransitionInput{Target: "in-progress"})
	var gv *GuardViolation
	if !errors.As(err, &gv) {
		t.Fatalf("err = %v, want *GuardViolation", err)
	}
	if gv.Reason != ReasonKitNotArrived {
		t.Errorf("reason = %q, want %q", gv.Reason, ReasonKitNotArrived)
	}
}

func TestRequestTransition_StartWithArrivedKit(t *testing.T) {
	f := newFixture()
	f.seed(t, "B20", status.BookingPending)
	f.kits.err = nil
	f.kits.state = status.KitExpired

	b, err := f.svc.RequestTransition(context.Background(), "B20",
		TransitionInput{Target: "in-progress"})
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if b.Status != status.BookingInProgress {
		t.Errorf("status = %s, want in-progress", b.Status)
	}
	if len(f.pusher.pushed) != 1 || f.pusher.pushed[0] != "Đang thực hiện" {
		t.Errorf("pushed = %v, want one Vietnamese raw value", f.pusher.pushed)
	}
}

func TestRequestTransition_CompleteRequiresResult(t *testing.T) {
	f := newFixture()
	f.seed(t, "B20", status.BookingInProgress)

	_, err := f.svc.RequestTransition(context.Background(), "B20",
		TransitionInput{Target: "completed"})
	var gv *GuardViolation
	if !errors.As(err, &gv) {
		t.Fatalf("err = %v, want *GuardViolation", err)
	}
	if gv.Reason != ReasonResultRequired {
		t.Errorf("reason = %q, want %q", gv.Reason, ReasonResultRequired)
	}
	if len(f.recorder.recorded) != 0 {
		t.Error("rejected completion recorded a result")
	}
}

func TestRequestTransition_CompletePersistsResult(t *testing.T) {
	f := newFixture()
	f.seed(t, "B20", status.BookingInProgress)

	b, err := f.svc.RequestTransition(context.Background(), "B20",
		TransitionInput{Target: "Hoàn thành", Result: &ResultInput{Conclusion: "negative"}})
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if b.Status != status.BookingCompleted {
		t.Errorf("status = %s, want completed", b.Status)
	}
	if len(f.recorder.recorded) != 1 {
		t.Fatalf("recorded %d results, want 1", len(f.recorder.recorded))
	}
	r := f.recorder.recorded[0]
	if r.BookingID != "B20" || r.Conclusion != "negative" {
		t.Errorf("result = %+v", r)
	}
	if r.StaffID == nil || *r.StaffID != "S01" {
		t.Error("result did not inherit the booking's staff id")
	}
}

func TestRequestTransition_PushFailureRollsBack(t *testing.T) {
	f := newFixture()
	f.seed(t, "B20", status.BookingInProgress)
	f.pusher.err = errors.New("backend rejected all encodings")

	_, err := f.svc.RequestTransition(context.Background(), "B20",
		TransitionInput{Target: "completed", Result: &ResultInput{Conclusion: "negative"}})
	if err == nil {
		t.Fatal("expected error when legacy push fails")
	}
	if got, _ := f.repo.GetByCode(context.Background(), "B20"); got.Status != status.BookingInProgress {
		t.Errorf("status = %s, want in-progress after rollback", got.Status)
	}
}

func TestRequestTransition_CancelFromPending(t *testing.T) {
	f := newFixture()
	f.seed(t, "B20", status.BookingPending)

	b, err := f.svc.RequestTransition(context.Background(), "B20",
		TransitionInput{Target: "Hủy"})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if b.Status != status.BookingCancelled {
		t.Errorf("status = %s, want cancelled", b.Status)
	}
}

func TestRequestTransition_CancelFromTerminalRejected(t *testing.T) {
	f := newFixture()
	f.seed(t, "B20", status.BookingCompleted)

	_, err := f.svc.RequestTransition(context.Background(), "B20",
		TransitionInput{Target: "cancelled"})
	var gv *GuardViolation
	if !errors.As(err, &gv) {
		t.Fatalf("err = %v, want *GuardViolation", err)
	}
	if gv.Reason != ReasonIllegalEdge {
		t.Errorf("reason = %q, want %q", gv.Reason, ReasonIllegalEdge)
	}
}

func TestRequestTransition_UnknownBooking(t *testing.T) {
	f := newFixture()

	_, err := f.svc.RequestTransition(context.Background(), "B99",
		TransitionInput{Target: "cancelled"})
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("err = %v, want wrapped pgx.ErrNoRows", err)
	}
}
