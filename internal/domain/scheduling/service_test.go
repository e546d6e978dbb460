package scheduling

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type mockApptRepo struct {
	appts      []*Appointment
	persisted  int
	persistErr error
}

func (m *mockApptRepo) Reload() error { return nil }
func (m *mockApptRepo) All() []*Appointment {
	out := make([]*Appointment, len(m.appts))
	copy(out, m.appts)
	return out
}
func (m *mockApptRepo) Add(a *Appointment)            { m.appts = append(m.appts, a) }
func (m *mockApptRepo) Replace(appts []*Appointment)  { m.appts = appts }
func (m *mockApptRepo) Persist() error {
	m.persisted++
	return m.persistErr
}

type mockSlotRepo struct {
	defs []*SlotDefinition
}

func (m *mockSlotRepo) Reload() error          { return nil }
func (m *mockSlotRepo) All() []*SlotDefinition { return m.defs }
func (m *mockSlotRepo) ByDoctor(doctorID string) []*SlotDefinition {
	var out []*SlotDefinition
	for _, d := range m.defs {
		if d.DoctorID == doctorID {
			out = append(out, d)
		}
	}
	return out
}
func (m *mockSlotRepo) Add(def *SlotDefinition) error {
	for _, existing := range m.defs {
		if def.Overlaps(existing) {
			return ErrSlotOverlap
		}
	}
	m.defs = append(m.defs, def)
	return nil
}
func (m *mockSlotRepo) ReplaceForDoctor(doctorID string, defs []*SlotDefinition) error {
	var next []*SlotDefinition
	for _, d := range m.defs {
		if d.DoctorID != doctorID {
			next = append(next, d)
		}
	}
	m.defs = append(next, defs...)
	return nil
}

type mockRecordUpdater struct {
	patientID   string
	serviceType string
	medications []string
	calls       int
}

func (m *mockRecordUpdater) AppendOutcome(patientID, serviceType string, medications []string) error {
	m.patientID = patientID
	m.serviceType = serviceType
	m.medications = medications
	m.calls++
	return nil
}

func newTestService(appts *mockApptRepo, slots *mockSlotRepo, records RecordUpdater) *Service {
	svc := NewService(appts, slots, records, 30, zerolog.Nop())
	svc.WithClock(fixedNow)
	seq := 0
	svc.WithIDGenerator(func() string {
		seq++
		return "APPT" + strconv.Itoa(seq)
	})
	return svc
}

func futureDate() time.Time {
	return time.Date(2026, time.June, 22, 0, 0, 0, 0, time.UTC)
}

// weekdaySlots gives D001 a MON-FRI 09:00-17:00 window.
func weekdaySlots(t *testing.T) *mockSlotRepo {
	t.Helper()
	def, err := NewSlotDefinition("D001",
		TimeOfDay{Hour: 9}, TimeOfDay{Hour: 17},
		[]time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday})
	if err != nil {
		t.Fatalf("slot definition: %v", err)
	}
	return &mockSlotRepo{defs: []*SlotDefinition{def}}
}

func TestSchedule_RejectsPast(t *testing.T) {
	repo := &mockApptRepo{}
	svc := newTestService(repo, &mockSlotRepo{}, nil)

	past := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Schedule("P1001", "D001", past, TimeOfDay{Hour: 9}); !errors.Is(err, ErrNotInFuture) {
		t.Fatalf("expected ErrNotInFuture, got %v", err)
	}
	if len(repo.appts) != 0 {
		t.Error("collection must be unchanged after rejection")
	}
	if repo.persisted != 0 {
		t.Error("nothing should be persisted after rejection")
	}
}

func TestSchedule_RejectsEarlierToday(t *testing.T) {
	svc := newTestService(&mockApptRepo{}, weekdaySlots(t), nil)

	// fixedNow is 12:00 on 15 June; 09:00 the same day is in the past.
	today := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Schedule("P1001", "D001", today, TimeOfDay{Hour: 9}); !errors.Is(err, ErrNotInFuture) {
		t.Fatalf("expected ErrNotInFuture, got %v", err)
	}
	if _, err := svc.Schedule("P1001", "D001", today, TimeOfDay{Hour: 14}); err != nil {
		t.Fatalf("later today should be schedulable, got %v", err)
	}
}

func TestSchedule_CreatesPending(t *testing.T) {
	repo := &mockApptRepo{}
	svc := newTestService(repo, weekdaySlots(t), nil)

	appt, err := svc.Schedule("P1001", "D001", futureDate(), TimeOfDay{Hour: 9, Minute: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.Status != StatusPending {
		t.Errorf("expected PENDING, got %s", appt.Status)
	}
	if appt.ID == "" {
		t.Error("expected a generated ID")
	}
	if repo.persisted != 1 {
		t.Errorf("expected 1 persist, got %d", repo.persisted)
	}
}

func TestSchedule_RejectsUnavailableTime(t *testing.T) {
	repo := &mockApptRepo{}
	svc := newTestService(repo, weekdaySlots(t), nil)

	// Off the 30-minute grid.
	if _, err := svc.Schedule("P1001", "D001", futureDate(), TimeOfDay{Hour: 9, Minute: 15}); !errors.Is(err, ErrTimeNotAvailable) {
		t.Fatalf("expected ErrTimeNotAvailable, got %v", err)
	}

	if _, err := svc.Schedule("P1001", "D001", futureDate(), TimeOfDay{Hour: 9, Minute: 30}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Same doctor, same date, same time: already booked.
	if _, err := svc.Schedule("P1002", "D001", futureDate(), TimeOfDay{Hour: 9, Minute: 30}); !errors.Is(err, ErrTimeNotAvailable) {
		t.Fatalf("expected ErrTimeNotAvailable for double booking, got %v", err)
	}
}

func TestSchedule_NoSlotDefinitions(t *testing.T) {
	svc := newTestService(&mockApptRepo{}, &mockSlotRepo{}, nil)

	if _, err := svc.Schedule("P1001", "D001", futureDate(), TimeOfDay{Hour: 9}); !errors.Is(err, ErrNoAvailability) {
		t.Fatalf("expected ErrNoAvailability, got %v", err)
	}
}

func TestConfirm_OnlyFromPending(t *testing.T) {
	repo := &mockApptRepo{appts: []*Appointment{
		{ID: "APPT1", Status: StatusPending, Date: futureDate(), Time: TimeOfDay{Hour: 9}},
		{ID: "APPT2", Status: StatusCancelled, Date: futureDate(), Time: TimeOfDay{Hour: 9}},
	}}
	svc := newTestService(repo, &mockSlotRepo{}, nil)

	if err := svc.Confirm("APPT1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.appts[0].Status != StatusAccepted {
		t.Errorf("expected ACCEPTED, got %s", repo.appts[0].Status)
	}

	if err := svc.Confirm("APPT2"); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}
	if repo.appts[1].Status != StatusCancelled {
		t.Errorf("status must be unchanged, got %s", repo.appts[1].Status)
	}
}

func TestReschedule_ResetsToPending(t *testing.T) {
	repo := &mockApptRepo{appts: []*Appointment{
		{ID: "APPT1", DoctorID: "D001", Status: StatusAccepted, Date: futureDate(), Time: TimeOfDay{Hour: 9}},
	}}
	svc := newTestService(repo, weekdaySlots(t), nil)

	newDate := time.Date(2026, time.June, 29, 0, 0, 0, 0, time.UTC)
	if err := svc.Reschedule("APPT1", newDate, TimeOfDay{Hour: 14}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := repo.appts[0]
	if a.Status != StatusPending {
		t.Errorf("reschedule must reset to PENDING, got %s", a.Status)
	}
	if !a.Date.Equal(newDate) || a.Time != (TimeOfDay{Hour: 14}) {
		t.Errorf("date/time not updated: %v %v", a.Date, a.Time)
	}
}

func TestReschedule_RejectsTerminal(t *testing.T) {
	repo := &mockApptRepo{appts: []*Appointment{
		{ID: "APPT1", Status: StatusCompleted, Date: futureDate(), Time: TimeOfDay{Hour: 9}},
	}}
	svc := newTestService(repo, &mockSlotRepo{}, nil)

	if err := svc.Reschedule("APPT1", futureDate(), TimeOfDay{Hour: 14}); !errors.Is(err, ErrTerminalStatus) {
		t.Fatalf("expected ErrTerminalStatus, got %v", err)
	}
}

func TestCancel_Terminal(t *testing.T) {
	repo := &mockApptRepo{appts: []*Appointment{
		{ID: "APPT1", Status: StatusAccepted, Date: futureDate(), Time: TimeOfDay{Hour: 9}},
	}}
	svc := newTestService(repo, &mockSlotRepo{}, nil)

	if err := svc.Cancel("APPT1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.appts[0].Status != StatusCancelled {
		t.Errorf("expected CANCELLED, got %s", repo.appts[0].Status)
	}
	if err := svc.Cancel("APPT1"); !errors.Is(err, ErrTerminalStatus) {
		t.Fatalf("expected ErrTerminalStatus on second cancel, got %v", err)
	}
}

func TestRecordOutcome_GatedOnTimePassed(t *testing.T) {
	future := &Appointment{
		ID: "APPT1", PatientID: "P1001", DoctorID: "D001",
		Status: StatusAccepted, Date: futureDate(), Time: TimeOfDay{Hour: 9},
	}
	repo := &mockApptRepo{appts: []*Appointment{future}}
	svc := newTestService(repo, &mockSlotRepo{}, nil)

	outcome, _ := NewOutcomeRecord("22/06/2026", "Consultation", "notes")
	if err := svc.RecordOutcome("APPT1", outcome); !errors.Is(err, ErrNotYetHeld) {
		t.Fatalf("expected ErrNotYetHeld, got %v", err)
	}
	if future.Status != StatusAccepted {
		t.Errorf("status must be unchanged, got %s", future.Status)
	}
}

func TestRecordOutcome_CompletesAndSyncsRecord(t *testing.T) {
	held := &Appointment{
		ID: "APPT1", PatientID: "P1001", DoctorID: "D001",
		Status: StatusAccepted,
		Date:   time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC),
		Time:   TimeOfDay{Hour: 9},
	}
	repo := &mockApptRepo{appts: []*Appointment{held}}
	records := &mockRecordUpdater{}
	svc := newTestService(repo, &mockSlotRepo{}, records)

	outcome, _ := NewOutcomeRecord("15/06/2026", "Consultation", "all fine")
	rx, _ := NewPrescription("Aspirin", 2)
	outcome.Prescriptions = append(outcome.Prescriptions, rx)

	if err := svc.RecordOutcome("APPT1", outcome); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if held.Status != StatusCompleted {
		t.Errorf("expected COMPLETED, got %s", held.Status)
	}
	if held.Outcome == nil || held.Outcome.ServiceType != "Consultation" {
		t.Errorf("outcome not attached: %+v", held.Outcome)
	}
	if records.calls != 1 || records.patientID != "P1001" {
		t.Errorf("medical record not updated: %+v", records)
	}
	if len(records.medications) != 1 || records.medications[0] != "Aspirin" {
		t.Errorf("expected medication names forwarded, got %v", records.medications)
	}
}

func TestRecordOutcome_RequiresAccepted(t *testing.T) {
	repo := &mockApptRepo{appts: []*Appointment{
		{ID: "APPT1", Status: StatusPending,
			Date: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), Time: TimeOfDay{Hour: 9}},
	}}
	svc := newTestService(repo, &mockSlotRepo{}, nil)

	outcome, _ := NewOutcomeRecord("01/06/2026", "Consultation", "notes")
	if err := svc.RecordOutcome("APPT1", outcome); !errors.Is(err, ErrNotAccepted) {
		t.Fatalf("expected ErrNotAccepted, got %v", err)
	}
}

func TestMarkPrescriptionDispensed(t *testing.T) {
	rx, _ := NewPrescription("Aspirin", 2)
	appt := &Appointment{
		ID: "APPT1", Status: StatusCompleted,
		Date: futureDate(), Time: TimeOfDay{Hour: 9},
		Outcome: &OutcomeRecord{
			Date: "15/06/2026", ServiceType: "Consultation",
			Prescriptions: []Prescription{rx},
		},
	}
	repo := &mockApptRepo{appts: []*Appointment{appt}}
	svc := newTestService(repo, &mockSlotRepo{}, nil)

	dispensed, err := svc.MarkPrescriptionDispensed("APPT1", "aspirin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dispensed.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", dispensed.Quantity)
	}
	if appt.Outcome.Prescriptions[0].Status != PrescriptionDispensed {
		t.Errorf("prescription not flipped: %s", appt.Outcome.Prescriptions[0].Status)
	}

	if _, err := svc.MarkPrescriptionDispensed("APPT1", "aspirin"); err == nil {
		t.Error("expected error dispensing an already-dispensed prescription")
	}
}

func TestAvailableTimes(t *testing.T) {
	def, err := NewSlotDefinition("D001",
		TimeOfDay{Hour: 9}, TimeOfDay{Hour: 10},
		[]time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday})
	if err != nil {
		t.Fatal(err)
	}
	slots := &mockSlotRepo{defs: []*SlotDefinition{def}}

	// A Monday within the working days.
	monday := time.Date(2026, time.June, 22, 0, 0, 0, 0, time.UTC)

	repo := &mockApptRepo{}
	svc := newTestService(repo, slots, nil)

	times, err := svc.AvailableTimes("D001", monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TimeOfDay{{Hour: 9}, {Hour: 9, Minute: 30}, {Hour: 10}}
	if len(times) != len(want) {
		t.Fatalf("expected %v, got %v", want, times)
	}
	for i := range want {
		if times[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, times)
		}
	}

	// Book 09:30 and it disappears; a cancelled booking does not block.
	repo.appts = []*Appointment{
		{ID: "A1", DoctorID: "D001", Date: monday, Time: TimeOfDay{Hour: 9, Minute: 30}, Status: StatusAccepted},
		{ID: "A2", DoctorID: "D001", Date: monday, Time: TimeOfDay{Hour: 10}, Status: StatusCancelled},
	}
	times, err = svc.AvailableTimes("D001", monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = []TimeOfDay{{Hour: 9}, {Hour: 10}}
	if len(times) != len(want) || times[0] != want[0] || times[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, times)
	}

	// Saturday is outside the working days.
	saturday := time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC)
	times, err = svc.AvailableTimes("D001", saturday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(times) != 0 {
		t.Errorf("expected no times on a non-working day, got %v", times)
	}
}

func TestAvailableTimes_NoDefinitions(t *testing.T) {
	svc := newTestService(&mockApptRepo{}, &mockSlotRepo{}, nil)
	if _, err := svc.AvailableTimes("D001", futureDate()); !errors.Is(err, ErrNoAvailability) {
		t.Fatalf("expected ErrNoAvailability, got %v", err)
	}
}

func TestUpcoming_SortedAndFiltered(t *testing.T) {
	repo := &mockApptRepo{appts: []*Appointment{
		{ID: "A1", DoctorID: "D001", Date: futureDate(), Time: TimeOfDay{Hour: 14}, Status: StatusAccepted},
		{ID: "A2", DoctorID: "D001", Date: futureDate(), Time: TimeOfDay{Hour: 9}, Status: StatusPending},
		{ID: "A3", DoctorID: "D001", Date: futureDate(), Time: TimeOfDay{Hour: 10}, Status: StatusCancelled},
		{ID: "A4", DoctorID: "D002", Date: futureDate(), Time: TimeOfDay{Hour: 9}, Status: StatusPending},
	}}
	svc := newTestService(repo, &mockSlotRepo{}, nil)

	got := svc.Upcoming("D001")
	if len(got) != 2 {
		t.Fatalf("expected 2 upcoming, got %d", len(got))
	}
	if got[0].ID != "A2" || got[1].ID != "A1" {
		t.Errorf("expected chronological order A2,A1, got %s,%s", got[0].ID, got[1].ID)
	}
}

func TestGet_FilterConjunction(t *testing.T) {
	repo := &mockApptRepo{appts: []*Appointment{
		{ID: "A1", PatientID: "P1001", DoctorID: "D001", Status: StatusPending},
		{ID: "A2", PatientID: "P1001", DoctorID: "D002", Status: StatusAccepted},
		{ID: "A3", PatientID: "P1002", DoctorID: "D001", Status: StatusPending},
	}}
	svc := newTestService(repo, &mockSlotRepo{}, nil)

	if got := svc.Get(Filter{PatientID: "P1001"}); len(got) != 2 {
		t.Errorf("patient filter: expected 2, got %d", len(got))
	}
	if got := svc.Get(Filter{PatientID: "p1001", DoctorID: "d001"}); len(got) != 1 || got[0].ID != "A1" {
		t.Errorf("combined filter should be case-insensitive conjunction, got %v", got)
	}
	if got := svc.Get(Filter{}); len(got) != 3 {
		t.Errorf("empty filter is a wildcard, got %d", len(got))
	}
}
