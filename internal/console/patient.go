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

func (a *App) patientMenu(session *identity.Session) {
	for {
		a.prompt.Println("\n---- Patient Menu ----")
		a.prompt.Println("1. View my medical record")
		a.prompt.Println("2. View my appointments")
		a.prompt.Println("3. Schedule an appointment")
		a.prompt.Println("4. Reschedule an appointment")
		a.prompt.Println("5. Cancel an appointment")
		a.prompt.Println("6. View past appointment outcomes")
		a.prompt.Println("7. Change password")
		a.prompt.Println("8. Log out")

		choice, ok := a.prompt.Choose("Option", 8)
		if !ok {
			return
		}
		switch choice {
		case 1:
			a.viewOwnRecord(session)
		case 2:
			a.listAppointments(scheduling.Filter{PatientID: session.User.ID})
		case 3:
			a.scheduleAppointment(session)
		case 4:
			a.rescheduleAppointment(session)
		case 5:
			a.cancelAppointment(session)
		case 6:
			a.viewOutcomes(session)
		case 7:
			a.changePassword(session)
		case 8:
			return
		}
	}
}

func (a *App) viewOwnRecord(session *identity.Session) {
	record, err := a.records.Get(session.User.ID)
	if errors.Is(err, records.ErrRecordNotFound) {
		a.prompt.Println("No medical record on file yet.")
		return
	}
	if err != nil {
		a.prompt.Println("Could not load the record:", err)
		return
	}
	a.printRecord(record)
}

func (a *App) printRecord(record *records.MedicalRecord) {
	a.prompt.Printf("Patient: %s\n", record.PatientID)
	a.prompt.Printf("Diagnoses: %s\n", joinOrNone(record.Diagnoses))
	a.prompt.Printf("Treatments: %s\n", joinOrNone(record.Treatments))
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func (a *App) listAppointments(filter scheduling.Filter) {
	appts := a.schedule.Get(filter)
	if len(appts) == 0 {
		a.prompt.Println("No appointments found.")
		return
	}
	for _, appt := range appts {
		a.printAppointment(appt)
	}
}

func (a *App) printAppointment(appt *scheduling.Appointment) {
	a.prompt.Printf("%s  %s %s  doctor %s  patient %s  [%s]\n",
		appt.ID, appt.Date.Format(config.DateLayout), appt.Time, appt.DoctorID, appt.PatientID, appt.Status)
}

// scheduleAppointment walks the patient through doctor, date and one of the
// doctor's free times.
func (a *App) scheduleAppointment(session *identity.Session) {
	doctorID, ok := a.pickDoctor()
	if !ok {
		return
	}
	date, ok := a.prompt.Date("Appointment date")
	if !ok {
		return
	}
	tod, ok := a.pickAvailableTime(doctorID, date)
	if !ok {
		return
	}
	appt, err := a.schedule.Schedule(session.User.ID, doctorID, date, tod)
	if err != nil {
		a.prompt.Println("Could not schedule:", err)
		return
	}
	a.prompt.Printf("Appointment %s requested for %s %s.\n",
		appt.ID, appt.Date.Format(config.DateLayout), appt.Time)
}

func (a *App) pickDoctor() (string, bool) {
	doctors := a.staff.ByRole(identity.RoleDoctor)
	if len(doctors) == 0 {
		a.prompt.Println("No doctors on file.")
		return "", false
	}
	for i, d := range doctors {
		a.prompt.Printf("%d. %s (%s)\n", i+1, d.Name, d.ID)
	}
	choice, ok := a.prompt.Choose("Doctor", len(doctors))
	if !ok {
		return "", false
	}
	return doctors[choice-1].ID, true
}

func (a *App) pickAvailableTime(doctorID string, date time.Time) (scheduling.TimeOfDay, bool) {
	times, err := a.schedule.AvailableTimes(doctorID, date)
	if err != nil {
		a.prompt.Println("No availability:", err)
		return scheduling.TimeOfDay{}, false
	}
	if len(times) == 0 {
		a.prompt.Println("No free times on that date.")
		return scheduling.TimeOfDay{}, false
	}
	for i, t := range times {
		a.prompt.Printf("%d. %s\n", i+1, t)
	}
	choice, ok := a.prompt.Choose("Time", len(times))
	if !ok {
		return scheduling.TimeOfDay{}, false
	}
	return times[choice-1], true
}

func (a *App) rescheduleAppointment(session *identity.Session) {
	a.listAppointments(scheduling.Filter{PatientID: session.User.ID})
	id, ok := a.prompt.Line("Appointment ID")
	if !ok {
		return
	}
	appt, err := a.schedule.GetByID(id)
	if err != nil || !strings.EqualFold(appt.PatientID, session.User.ID) {
		a.prompt.Println("Appointment not found.")
		return
	}
	date, ok := a.prompt.Date("New date")
	if !ok {
		return
	}
	tod, ok := a.pickAvailableTime(appt.DoctorID, date)
	if !ok {
		return
	}
	if err := a.schedule.Reschedule(id, date, tod); err != nil {
		a.prompt.Println("Could not reschedule:", err)
		return
	}
	a.prompt.Println("Appointment rescheduled; it is pending the doctor's confirmation again.")
}

func (a *App) cancelAppointment(session *identity.Session) {
	id, ok := a.prompt.Line("Appointment ID")
	if !ok {
		return
	}
	appt, err := a.schedule.GetByID(id)
	if err != nil || !strings.EqualFold(appt.PatientID, session.User.ID) {
		a.prompt.Println("Appointment not found.")
		return
	}
	if err := a.schedule.Cancel(id); err != nil {
		a.prompt.Println("Could not cancel:", err)
		return
	}
	a.prompt.Println("Appointment cancelled.")
}

func (a *App) viewOutcomes(session *identity.Session) {
	appts := a.schedule.Get(scheduling.Filter{PatientID: session.User.ID, Status: scheduling.StatusCompleted})
	if len(appts) == 0 {
		a.prompt.Println("No completed appointments.")
		return
	}
	for _, appt := range appts {
		a.printAppointment(appt)
		if appt.Outcome != nil {
			a.printOutcome(appt.Outcome)
		}
	}
}

func (a *App) printOutcome(o *scheduling.OutcomeRecord) {
	a.prompt.Printf("  %s  %s  %s\n", o.Date, o.ServiceType, o.Notes)
	for _, p := range o.Prescriptions {
		a.prompt.Printf("    %s x%d [%s]\n", p.Medication, p.Quantity, p.Status)
	}
}
