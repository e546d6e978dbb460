package console

import (
	"context"
	"strconv"

	"github.com/hms/hms/internal/config"
	"github.com/hms/hms/internal/domain/identity"
	"github.com/hms/hms/internal/domain/scheduling"
	"github.com/hms/hms/internal/platform/receipt"
)

func (a *App) adminMenu(ctx context.Context, session *identity.Session) {
	for {
		a.prompt.Println("\n---- Administrator Menu ----")
		a.prompt.Println("1. View staff")
		a.prompt.Println("2. Add staff member")
		a.prompt.Println("3. Remove staff member")
		a.prompt.Println("4. View patients")
		a.prompt.Println("5. Register patient")
		a.prompt.Println("6. View all appointments")
		a.prompt.Println("7. Manage replenishment requests")
		a.prompt.Println("8. Manage medicines")
		a.prompt.Println("9. Generate receipt")
		a.prompt.Println("10. Change password")
		a.prompt.Println("11. Log out")

		choice, ok := a.prompt.Choose("Option", 11)
		if !ok {
			return
		}
		switch choice {
		case 1:
			a.viewStaff()
		case 2:
			a.addStaff()
		case 3:
			a.removeStaff()
		case 4:
			a.viewPatients()
		case 5:
			a.registerPatient()
		case 6:
			a.listAppointments(scheduling.Filter{})
		case 7:
			a.manageReplenishment()
		case 8:
			a.manageMedicines()
		case 9:
			a.generateReceipt(ctx)
		case 10:
			a.changePassword(session)
		case 11:
			return
		}
	}
}

func (a *App) viewStaff() {
	staff := a.staff.All()
	if len(staff) == 0 {
		a.prompt.Println("No staff on file.")
		return
	}
	for _, u := range staff {
		a.prompt.Printf("%s  %s  %s  %s  age %d\n", u.ID, u.Name, u.Role, u.Gender, u.Age)
	}
}

func (a *App) addStaff() {
	id, ok := a.prompt.Line("User ID (D/A/PH prefix)")
	if !ok {
		return
	}
	name, ok := a.prompt.Line("Name")
	if !ok {
		return
	}
	roleLine, ok := a.prompt.Line("Role (DOCTOR/PHARMACIST/ADMINISTRATOR)")
	if !ok {
		return
	}
	role, err := identity.ParseRole(roleLine)
	if err != nil {
		a.prompt.Println("Invalid role:", err)
		return
	}
	genderLine, ok := a.prompt.Line("Gender")
	if !ok {
		return
	}
	gender, err := identity.ParseGender(genderLine)
	if err != nil {
		a.prompt.Println("Invalid gender:", err)
		return
	}
	age, ok := a.prompt.Int("Age")
	if !ok {
		return
	}
	password, ok := a.prompt.Line("Initial password")
	if !ok {
		return
	}
	hash, err := identity.HashPassword(password)
	if err != nil {
		a.prompt.Println("Could not hash the password:", err)
		return
	}
	user, err := identity.NewStaff(id, name, role, gender, age, hash)
	if err != nil {
		a.prompt.Println("Invalid staff member:", err)
		return
	}
	if err := a.staff.Add(user); err != nil {
		a.prompt.Println("Could not add the staff member:", err)
		return
	}
	a.prompt.Printf("Staff member %s added.\n", user.ID)
}

func (a *App) removeStaff() {
	id, ok := a.prompt.Line("User ID")
	if !ok {
		return
	}
	if err := a.staff.Remove(id); err != nil {
		a.prompt.Println("Could not remove:", err)
		return
	}
	a.prompt.Println("Staff member removed.")
}

func (a *App) viewPatients() {
	patients := a.patients.All()
	if len(patients) == 0 {
		a.prompt.Println("No patients on file.")
		return
	}
	for _, u := range patients {
		a.prompt.Printf("%s  %s  %s  born %s  %s  %s\n",
			u.ID, u.Name, u.Gender, u.Patient.DateOfBirth.Format("2006-01-02"),
			u.Patient.BloodType, u.Patient.ContactInfo)
	}
}

func (a *App) registerPatient() {
	name, ok := a.prompt.Line("Name")
	if !ok {
		return
	}
	dobLine, ok := a.prompt.Line("Date of birth (yyyy-mm-dd)")
	if !ok {
		return
	}
	genderLine, ok := a.prompt.Line("Gender")
	if !ok {
		return
	}
	gender, err := identity.ParseGender(genderLine)
	if err != nil {
		a.prompt.Println("Invalid gender:", err)
		return
	}
	bloodType, ok := a.prompt.Line("Blood type")
	if !ok {
		return
	}
	contact, ok := a.prompt.Line("Contact info")
	if !ok {
		return
	}
	password, ok := a.prompt.Line("Initial password")
	if !ok {
		return
	}
	hash, err := identity.HashPassword(password)
	if err != nil {
		a.prompt.Println("Could not hash the password:", err)
		return
	}
	profile, err := identity.ParsePatientProfile(dobLine, bloodType, contact)
	if err != nil {
		a.prompt.Println("Invalid patient details:", err)
		return
	}
	user, err := identity.NewPatient(a.patients.NextID(), name, gender, profile, hash)
	if err != nil {
		a.prompt.Println("Invalid patient:", err)
		return
	}
	if err := a.patients.Add(user); err != nil {
		a.prompt.Println("Could not register the patient:", err)
		return
	}
	a.prompt.Printf("Patient registered with ID %s.\n", user.ID)
}

func (a *App) manageReplenishment() {
	pending := a.inventory.PendingRequests()
	if len(pending) == 0 {
		a.prompt.Println("No pending replenishment requests.")
		return
	}
	for i, req := range pending {
		newMark := ""
		if req.IsNewMedicine {
			newMark = " (new medicine)"
		}
		a.prompt.Printf("%d. %s x%d requested by %s%s\n",
			i+1, req.MedicineName, req.RequestedStock, req.RequestBy, newMark)
	}
	choice, ok := a.prompt.Choose("Request", len(pending))
	if !ok {
		return
	}
	req := pending[choice-1]
	if a.prompt.Confirm("Approve this request?") {
		if err := a.inventory.Approve(req.MedicineName, req.RequestBy); err != nil {
			a.prompt.Println("Could not approve:", err)
			return
		}
		a.prompt.Println("Request approved; stock updated.")
		return
	}
	if err := a.inventory.Deny(req.MedicineName, req.RequestBy); err != nil {
		a.prompt.Println("Could not deny:", err)
		return
	}
	a.prompt.Println("Request denied.")
}

func (a *App) manageMedicines() {
	a.prompt.Println("1. Add medicine")
	a.prompt.Println("2. Update medicine")
	a.prompt.Println("3. Remove medicine")
	choice, ok := a.prompt.Choose("Option", 3)
	if !ok {
		return
	}
	switch choice {
	case 1:
		name, ok := a.prompt.Line("Name")
		if !ok {
			return
		}
		stock, ok := a.prompt.Int("Initial stock")
		if !ok {
			return
		}
		threshold, ok := a.prompt.Int("Low-stock alert level")
		if !ok {
			return
		}
		if _, err := a.inventory.AddMedicine(name, stock, threshold); err != nil {
			a.prompt.Println("Could not add:", err)
			return
		}
		a.prompt.Println("Medicine added.")
	case 2:
		name, ok := a.prompt.Line("Name")
		if !ok {
			return
		}
		stock, ok := a.prompt.Int("Stock")
		if !ok {
			return
		}
		threshold, ok := a.prompt.Int("Low-stock alert level")
		if !ok {
			return
		}
		if err := a.inventory.UpdateMedicine(name, stock, threshold); err != nil {
			a.prompt.Println("Could not update:", err)
			return
		}
		a.prompt.Println("Medicine updated.")
	case 3:
		name, ok := a.prompt.Line("Name")
		if !ok {
			return
		}
		if err := a.inventory.RemoveMedicine(name); err != nil {
			a.prompt.Println("Could not remove:", err)
			return
		}
		a.prompt.Println("Medicine removed.")
	}
}

// generateReceipt collects billing details for a completed appointment and
// hands them to the external script.
func (a *App) generateReceipt(ctx context.Context) {
	id, ok := a.prompt.Line("Appointment ID")
	if !ok {
		return
	}
	appt, err := a.schedule.GetByID(id)
	if err != nil {
		a.prompt.Println("Appointment not found.")
		return
	}
	patient, found := a.patients.FindByID(appt.PatientID)
	if !found {
		a.prompt.Println("Unknown patient on that appointment.")
		return
	}
	doctorName := appt.DoctorID
	if doctor, found := a.staff.FindByID(appt.DoctorID); found {
		doctorName = doctor.Name
	}
	serviceType := ""
	if appt.Outcome != nil {
		serviceType = appt.Outcome.ServiceType
	}

	amountLine, ok := a.prompt.Line("Total amount")
	if !ok {
		return
	}
	amount, err := parseAmount(amountLine)
	if err != nil {
		a.prompt.Println("Invalid amount:", err)
		return
	}
	method, ok := a.prompt.Line("Payment method")
	if !ok {
		return
	}

	data := receipt.Data{
		AppointmentID: appt.ID,
		PatientName:   patient.Name,
		PatientEmail:  patient.Patient.ContactInfo,
		TotalAmount:   amount,
		PaymentMethod: method,
		Date:          appt.Date.Format(config.DateLayout),
		Time:          appt.Time.String(),
		DoctorName:    doctorName,
		ServiceType:   serviceType,
	}
	if err := a.receipts.Generate(ctx, data); err != nil {
		a.prompt.Println("Receipt generation failed:", err)
		return
	}
	a.prompt.Println("Receipt generated.")
}

func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
