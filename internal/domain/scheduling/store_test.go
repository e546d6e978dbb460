package scheduling

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC) // a Monday

func fixedNow() time.Time { return testNow }

func writeAppointments(t *testing.T, fs afero.Fs, lines ...string) {
	t.Helper()
	content := appointmentHeader + "\n" + strings.Join(lines, "\n") + "\n"
	if err := afero.WriteFile(fs, "appointments.csv", []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestAppointmentStore_DropsStalePending(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeAppointments(t, fs,
		"APPT1,P1001,D001,01/06/2026,09:00,PENDING,-",  // past, pending: dropped
		"APPT2,P1001,D001,20/06/2026,09:00,PENDING,-",  // future: kept
	)

	store := NewAppointmentStore(fs, "appointments.csv", fixedNow, zerolog.Nop())
	if err := store.Reload(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	appts := store.All()
	if len(appts) != 1 {
		t.Fatalf("expected 1 appointment after cleanup, got %d", len(appts))
	}
	if appts[0].ID != "APPT2" {
		t.Errorf("expected APPT2 retained, got %s", appts[0].ID)
	}
}

func TestAppointmentStore_CancelsStaleAccepted(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeAppointments(t, fs,
		"APPT1,P1001,D001,01/06/2026,09:00,ACCEPTED,-",
	)

	store := NewAppointmentStore(fs, "appointments.csv", fixedNow, zerolog.Nop())
	if err := store.Reload(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	appts := store.All()
	if len(appts) != 1 {
		t.Fatalf("expected appointment retained, got %d", len(appts))
	}
	if appts[0].Status != StatusCancelled {
		t.Errorf("expected CANCELLED, got %s", appts[0].Status)
	}
}

func TestAppointmentStore_KeepsCompletedHistory(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeAppointments(t, fs,
		"APPT1,P1001,D001,01/06/2026,09:00,COMPLETED,01/06/2026,Checkup,fine,[]",
	)

	store := NewAppointmentStore(fs, "appointments.csv", fixedNow, zerolog.Nop())
	if err := store.Reload(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	appts := store.All()
	if len(appts) != 1 || appts[0].Status != StatusCompleted {
		t.Errorf("expected completed appointment untouched, got %+v", appts)
	}
}

func TestAppointmentStore_NoDedup(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeAppointments(t, fs,
		"APPT1,P1001,D001,20/06/2026,09:00,PENDING,-",
		"APPT1,P1001,D001,20/06/2026,09:00,PENDING,-",
	)

	store := NewAppointmentStore(fs, "appointments.csv", fixedNow, zerolog.Nop())
	if err := store.Reload(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.All()) != 2 {
		t.Errorf("expected duplicates retained for appointments, got %d", len(store.All()))
	}
}

func TestSlotStore_RejectsOverlap(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewSlotStore(fs, "slots.csv", zerolog.Nop())
	if err := store.Reload(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, _ := NewSlotDefinition("D001",
		TimeOfDay{Hour: 9}, TimeOfDay{Hour: 12}, []time.Weekday{time.Monday})
	if err := store.Add(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	overlapping, _ := NewSlotDefinition("D001",
		TimeOfDay{Hour: 11}, TimeOfDay{Hour: 14}, []time.Weekday{time.Monday})
	if err := store.Add(overlapping); err != ErrSlotOverlap {
		t.Errorf("expected ErrSlotOverlap, got %v", err)
	}

	disjoint, _ := NewSlotDefinition("D001",
		TimeOfDay{Hour: 14}, TimeOfDay{Hour: 17}, []time.Weekday{time.Monday})
	if err := store.Add(disjoint); err != nil {
		t.Errorf("unexpected error for disjoint slot: %v", err)
	}
}

func TestSlotStore_ReplaceForDoctor(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewSlotStore(fs, "slots.csv", zerolog.Nop())
	store.Reload()

	old, _ := NewSlotDefinition("D001",
		TimeOfDay{Hour: 9}, TimeOfDay{Hour: 12}, []time.Weekday{time.Monday})
	other, _ := NewSlotDefinition("D002",
		TimeOfDay{Hour: 9}, TimeOfDay{Hour: 12}, []time.Weekday{time.Monday})
	store.Add(old)
	store.Add(other)

	replacement, _ := NewSlotDefinition("D001",
		TimeOfDay{Hour: 13}, TimeOfDay{Hour: 18}, []time.Weekday{time.Tuesday})
	if err := store.ReplaceForDoctor("D001", []*SlotDefinition{replacement}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defs := store.ByDoctor("D001")
	if len(defs) != 1 || defs[0].Start != (TimeOfDay{Hour: 13}) {
		t.Errorf("expected replacement definition, got %+v", defs)
	}
	if len(store.ByDoctor("D002")) != 1 {
		t.Error("expected other doctor's definitions untouched")
	}
}

func TestSlotStore_PersistsAcrossReload(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewSlotStore(fs, "slots.csv", zerolog.Nop())
	store.Reload()

	def, _ := NewSlotDefinition("D001",
		TimeOfDay{Hour: 9}, TimeOfDay{Hour: 10}, []time.Weekday{time.Monday, time.Friday})
	if err := store.Add(def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fresh := NewSlotStore(fs, "slots.csv", zerolog.Nop())
	if err := fresh.Reload(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defs := fresh.ByDoctor("D001")
	if len(defs) != 1 || len(defs[0].Days) != 2 {
		t.Errorf("expected persisted definition, got %+v", defs)
	}
}
