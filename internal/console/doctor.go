package console

import (
	"errors"
	"strings"
	"time"

	"github.com/hms/hms/internal/config"
	"github.com/hms/hms/internal/domain/identity"
	"github.com/hms/hms/internal/domain/records"
	"github.com/hms/hms/internal/domain/scheduling"
)

func (a *App) doctorMenu(session *identity.Session) {
	for {
		a.prompt.Println("\n---- Doctor Menu ----")
		a.prompt.Println("1. View upcoming appointments")
		a.prompt.Println("2. Accept or decline appointment requests")
		a.prompt.Println("3. Record appointment outcome")
		a.prompt.Println("4. Manage availability")
		a.prompt.Println("5. View patient medical record")
		a.prompt.Println("6. Update patient medical record")
		a.prompt.Println("7. Change password")
		a.prompt.Println("8. Log out")

		choice, ok := a.prompt.Choose("Option", 8)
		if !ok {
			return
		}
		switch choice {
		case 1:
			a.viewUpcoming(session)
		case 2:
			a.decidePending(session)
		case 3:
			a.recordOutcome(session)
		case 4:
			a.manageAvailability(session)
		case 5:
			a.viewPatientRecord()
		case 6:
			a.updatePatientRecord()
		case 7:
			a.changePassword(session)
		case 8:
			return
		}
	}
}

func (a *App) viewUpcoming(session *identity.Session) {
	appts := a.schedule.Upcoming(session.User.ID)
	if len(appts) == 0 {
		a.prompt.Println("No upcoming appointments.")
		return
	}
	for _, appt := range appts {
		a.printAppointment(appt)
	}
}

func (a *App) decidePending(session *identity.Session) {
	pending := a.schedule.Get(scheduling.Filter{DoctorID: session.User.ID, Status: scheduling.StatusPending})
	if len(pending) == 0 {
		a.prompt.Println("No pending requests.")
		return
	}
	for i, appt := range pending {
		a.prompt.Printf("%d. ", i+1)
		a.printAppointment(appt)
	}
	choice, ok := a.prompt.Choose("Request", len(pending))
	if !ok {
		return
	}
	appt := pending[choice-1]
	if a.prompt.Confirm("Accept this appointment?") {
		if err := a.schedule.Confirm(appt.ID); err != nil {
			a.prompt.Println("Could not accept:", err)
			return
		}
		a.prompt.Println("Appointment accepted.")
		return
	}
	if err := a.schedule.Cancel(appt.ID); err != nil {
		a.prompt.Println("Could not decline:", err)
		return
	}
	a.prompt.Println("Appointment declined.")
}

// recordOutcome captures the consultation result for a held appointment:
// service type, notes and any prescriptions.
func (a *App) recordOutcome(session *identity.Session) {
	accepted := a.schedule.Get(scheduling.Filter{DoctorID: session.User.ID, Status: scheduling.StatusAccepted})
	if len(accepted) == 0 {
		a.prompt.Println("No accepted appointments.")
		return
	}
	for i, appt := range accepted {
		a.prompt.Printf("%d. ", i+1)
		a.printAppointment(appt)
	}
	choice, ok := a.prompt.Choose("Appointment", len(accepted))
	if !ok {
		return
	}
	appt := accepted[choice-1]

	serviceType, ok := a.prompt.Line("Service type")
	if !ok {
		return
	}
	notes, ok := a.prompt.Line("Consultation notes")
	if !ok {
		return
	}
	outcome, err := scheduling.NewOutcomeRecord(appt.Date.Format(config.DateLayout), serviceType, notes)
	if err != nil {
		a.prompt.Println("Could not record outcome:", err)
		return
	}

	for a.prompt.Confirm("Add a prescription?") {
		medication, ok := a.prompt.Line("Medication name")
		if !ok {
			break
		}
		quantity, ok := a.prompt.Int("Quantity")
		if !ok {
			break
		}
		rx, err := scheduling.NewPrescription(medication, quantity)
		if err != nil {
			a.prompt.Println("Invalid prescription:", err)
			continue
		}
		outcome.Prescriptions = append(outcome.Prescriptions, rx)
	}

	if err := a.schedule.RecordOutcome(appt.ID, outcome); err != nil {
		if errors.Is(err, scheduling.ErrNotYetHeld) {
			a.prompt.Println("That appointment has not taken place yet.")
			return
		}
		a.prompt.Println("Could not record outcome:", err)
		return
	}
	a.prompt.Println("Outcome recorded; appointment completed.")
}

func (a *App) manageAvailability(session *identity.Session) {
	defs := a.schedule.SlotDefinitions(session.User.ID)
	if len(defs) == 0 {
		a.prompt.Println("No availability defined.")
	}
	for _, def := range defs {
		a.prompt.Printf("%s - %s on %s\n", def.Start, def.End, weekdayList(def.Days))
	}

	if !a.prompt.Confirm("Add a new availability window?") {
		return
	}
	start, ok := a.prompt.Time("Start time")
	if !ok {
		return
	}
	end, ok := a.prompt.Time("End time")
	if !ok {
		return
	}
	daysLine, ok := a.prompt.Line("Working days (e.g. MONDAY;WEDNESDAY)")
	if !ok {
		return
	}
	days, err := parseWeekdays(daysLine)
	if err != nil {
		a.prompt.Println("Invalid days:", err)
		return
	}
	def, err := scheduling.NewSlotDefinition(session.User.ID, start, end, days)
	if err != nil {
		a.prompt.Println("Invalid availability window:", err)
		return
	}
	if err := a.schedule.AddSlotDefinition(def); err != nil {
		if errors.Is(err, scheduling.ErrSlotOverlap) {
			a.prompt.Println("That window overlaps an existing one.")
			return
		}
		a.prompt.Println("Could not add the window:", err)
		return
	}
	a.prompt.Println("Availability added.")
}

func weekdayList(days []time.Weekday) string {
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = strings.ToUpper(d.String())
	}
	return strings.Join(names, ";")
}

func parseWeekdays(s string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, name := range strings.Split(s, ";") {
		day, err := scheduling.ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

func (a *App) viewPatientRecord() {
	patientID, ok := a.prompt.Line("Patient ID")
	if !ok {
		return
	}
	record, err := a.records.Get(patientID)
	if errors.Is(err, records.ErrRecordNotFound) {
		a.prompt.Println("No medical record for that patient.")
		return
	}
	if err != nil {
		a.prompt.Println("Could not load the record:", err)
		return
	}
	a.printRecord(record)
}

func (a *App) updatePatientRecord() {
	patientID, ok := a.prompt.Line("Patient ID")
	if !ok {
		return
	}
	if _, found := a.patients.FindByID(patientID); !found {
		a.prompt.Println("Unknown patient.")
		return
	}
	if diagnosis, ok := a.prompt.Line("Add diagnosis (blank to skip)"); ok {
		if err := a.records.AddDiagnosis(patientID, diagnosis); err != nil {
			a.prompt.Println("Could not add diagnosis:", err)
		}
	}
	if treatment, ok := a.prompt.Line("Add treatment (blank to skip)"); ok {
		if err := a.records.AddTreatment(patientID, treatment); err != nil {
			a.prompt.Println("Could not add treatment:", err)
		}
	}
	a.prompt.Println("Record updated.")
}
