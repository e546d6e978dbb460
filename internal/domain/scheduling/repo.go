package scheduling

// AppointmentRepository holds the in-memory appointment collection and its
// backing file. Reload replaces the collection wholesale from disk; Persist
// rewrites the whole file from the collection.
type AppointmentRepository interface {
	Reload() error
	All() []*Appointment
	Add(a *Appointment)
	Replace(appts []*Appointment)
	Persist() error
}

// SlotRepository holds the doctors' recurring availability definitions.
type SlotRepository interface {
	Reload() error
	All() []*SlotDefinition
	ByDoctor(doctorID string) []*SlotDefinition
	Add(def *SlotDefinition) error
	ReplaceForDoctor(doctorID string, defs []*SlotDefinition) error
}
