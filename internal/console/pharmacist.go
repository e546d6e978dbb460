package console

import (
	"errors"

	"github.com/hms/hms/internal/domain/identity"
	"github.com/hms/hms/internal/domain/inventory"
	"github.com/hms/hms/internal/domain/scheduling"
)

func (a *App) pharmacistMenu(session *identity.Session) {
	for {
		a.prompt.Println("\n---- Pharmacist Menu ----")
		a.prompt.Println("1. View pending prescriptions")
		a.prompt.Println("2. Dispense a prescription")
		a.prompt.Println("3. View inventory")
		a.prompt.Println("4. View low-stock alerts")
		a.prompt.Println("5. Request replenishment")
		a.prompt.Println("6. Change password")
		a.prompt.Println("7. Log out")

		choice, ok := a.prompt.Choose("Option", 7)
		if !ok {
			return
		}
		switch choice {
		case 1:
			a.viewPendingPrescriptions()
		case 2:
			a.dispensePrescription()
		case 3:
			a.viewInventory()
		case 4:
			a.viewLowStock()
		case 5:
			a.requestReplenishment(session)
		case 6:
			a.changePassword(session)
		case 7:
			return
		}
	}
}

// pendingPrescriptionAppointments returns completed appointments that still
// carry at least one undispensed prescription.
func (a *App) pendingPrescriptionAppointments() []*scheduling.Appointment {
	var out []*scheduling.Appointment
	for _, appt := range a.schedule.Get(scheduling.Filter{Status: scheduling.StatusCompleted}) {
		if appt.Outcome == nil {
			continue
		}
		for _, p := range appt.Outcome.Prescriptions {
			if p.Status == scheduling.PrescriptionPending {
				out = append(out, appt)
				break
			}
		}
	}
	return out
}

func (a *App) viewPendingPrescriptions() {
	appts := a.pendingPrescriptionAppointments()
	if len(appts) == 0 {
		a.prompt.Println("No pending prescriptions.")
		return
	}
	for _, appt := range appts {
		a.printAppointment(appt)
		a.printOutcome(appt.Outcome)
	}
}

// dispensePrescription flips one prescription to DISPENSED and deducts the
// quantity from the inventory.
func (a *App) dispensePrescription() {
	appts := a.pendingPrescriptionAppointments()
	if len(appts) == 0 {
		a.prompt.Println("No pending prescriptions.")
		return
	}
	for i, appt := range appts {
		a.prompt.Printf("%d. ", i+1)
		a.printAppointment(appt)
		a.printOutcome(appt.Outcome)
	}
	choice, ok := a.prompt.Choose("Appointment", len(appts))
	if !ok {
		return
	}
	appt := appts[choice-1]

	medication, ok := a.prompt.Line("Medication to dispense")
	if !ok {
		return
	}
	dispensed, err := a.schedule.MarkPrescriptionDispensed(appt.ID, medication)
	if err != nil {
		a.prompt.Println("Could not dispense:", err)
		return
	}
	if err := a.inventory.Dispense(dispensed.Medication, dispensed.Quantity); err != nil {
		if errors.Is(err, inventory.ErrInsufficientStock) {
			a.prompt.Println("Warning: inventory stock was insufficient; please replenish.")
		} else {
			a.prompt.Println("Warning: stock not deducted:", err)
		}
	}
	a.prompt.Printf("Dispensed %s x%d.\n", dispensed.Medication, dispensed.Quantity)
}

func (a *App) viewInventory() {
	medicines := a.inventory.Medicines()
	if len(medicines) == 0 {
		a.prompt.Println("Inventory is empty.")
		return
	}
	for _, m := range medicines {
		marker := ""
		if m.LowStock() {
			marker = "  [LOW]"
		}
		a.prompt.Printf("%s: %d in stock (alert at %d)%s\n", m.Name, m.Stock, m.LowStockThreshold, marker)
	}
}

func (a *App) viewLowStock() {
	low := a.inventory.LowStock()
	if len(low) == 0 {
		a.prompt.Println("No medicines below their alert threshold.")
		return
	}
	for _, m := range low {
		a.prompt.Printf("%s: %d in stock (alert at %d)\n", m.Name, m.Stock, m.LowStockThreshold)
	}
}

func (a *App) requestReplenishment(session *identity.Session) {
	name, ok := a.prompt.Line("Medicine name")
	if !ok {
		return
	}
	confirmedNew := false
	if _, err := a.inventory.FindMedicine(name); err != nil {
		if !a.prompt.Confirm("That medicine is not in the inventory. Is it new?") {
			a.prompt.Println("Request not created.")
			return
		}
		confirmedNew = true
	}
	quantity, ok := a.prompt.Int("Quantity")
	if !ok {
		return
	}
	if _, err := a.inventory.CreateRequest(name, quantity, session.User.ID, confirmedNew); err != nil {
		a.prompt.Println("Could not create the request:", err)
		return
	}
	a.prompt.Println("Replenishment request created.")
}
