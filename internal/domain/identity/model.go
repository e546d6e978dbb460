package identity

import (
	"fmt"
	"strings"
	"time"
)

// Role classifies a user. The role decides the menu the console offers and
// the ID prefix convention the user's identifier must follow.
type Role string

const (
	RolePatient       Role = "PATIENT"
	RoleDoctor        Role = "DOCTOR"
	RolePharmacist    Role = "PHARMACIST"
	RoleAdministrator Role = "ADMINISTRATOR"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RolePatient:
		return RolePatient, nil
	case RoleDoctor:
		return RoleDoctor, nil
	case RolePharmacist:
		return RolePharmacist, nil
	case RoleAdministrator:
		return RoleAdministrator, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IDPrefix returns the identifier prefix required for the role.
func (r Role) IDPrefix() string {
	switch r {
	case RolePatient:
		return "P"
	case RoleDoctor:
		return "D"
	case RoleAdministrator:
		return "A"
	case RolePharmacist:
		return "PH"
	}
	return ""
}

// ValidateUserID checks that the identifier carries the role's prefix
// followed by digits only.
func ValidateUserID(id string, role Role) error {
	prefix := role.IDPrefix()
	if prefix == "" {
		return fmt.Errorf("role %q has no ID prefix", role)
	}
	if !strings.HasPrefix(id, prefix) {
		return fmt.Errorf("user ID %q must start with %q for role %s", id, prefix, role)
	}
	digits := id[len(prefix):]
	if digits == "" {
		return fmt.Errorf("user ID %q has no numeric part", id)
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return fmt.Errorf("user ID %q must be %q followed by digits", id, prefix)
		}
	}
	return nil
}

type Gender string

const (
	GenderMale      Gender = "MALE"
	GenderFemale    Gender = "FEMALE"
	GenderNonBinary Gender = "NON_BINARY"
	GenderOther     Gender = "OTHER"
)

func ParseGender(s string) (Gender, error) {
	switch Gender(strings.ToUpper(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	case GenderNonBinary:
		return GenderNonBinary, nil
	case GenderOther:
		return GenderOther, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// dobLayout is the wire format for patient dates of birth.
const dobLayout = "2006-01-02"

// PatientProfile carries the patient-only attributes. Staff users have a
// nil profile.
type PatientProfile struct {
	DateOfBirth time.Time
	BloodType   string
	ContactInfo string
}

// ParsePatientProfile builds a profile from wire-format fields: date of
// birth as yyyy-MM-dd, blood type and contact info as free text.
func ParsePatientProfile(dateOfBirth, bloodType, contactInfo string) (PatientProfile, error) {
	dob, err := time.Parse(dobLayout, strings.TrimSpace(dateOfBirth))
	if err != nil {
		return PatientProfile{}, fmt.Errorf("invalid date of birth %q", dateOfBirth)
	}
	if strings.TrimSpace(bloodType) == "" {
		return PatientProfile{}, fmt.Errorf("blood type must not be empty")
	}
	return PatientProfile{
		DateOfBirth: dob,
		BloodType:   strings.TrimSpace(bloodType),
		ContactInfo: strings.TrimSpace(contactInfo),
	}, nil
}

// Age returns the patient's age in whole years at the given reference time.
func (p *PatientProfile) Age(at time.Time) int {
	years := at.Year() - p.DateOfBirth.Year()
	anniversary := p.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}

// User is a single account. The Role field plus the optional Patient payload
// replace a type hierarchy: staff carry Age directly, patients derive it
// from the profile's date of birth.
type User struct {
	ID           string
	Name         string
	Role         Role
	Gender       Gender
	Age          int
	PasswordHash string
	Patient      *PatientProfile
}

// NewStaff builds a staff user (doctor, pharmacist or administrator).
func NewStaff(id, name string, role Role, gender Gender, age int, passwordHash string) (*User, error) {
	if role == RolePatient {
		return nil, fmt.Errorf("staff user cannot have role %s", RolePatient)
	}
	if err := ValidateUserID(id, role); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("name must not be empty")
	}
	if age <= 0 {
		return nil, fmt.Errorf("age must be positive")
	}
	return &User{ID: id, Name: name, Role: role, Gender: gender, Age: age, PasswordHash: passwordHash}, nil
}

// NewPatient builds a patient user. Age is derived from the date of birth.
func NewPatient(id, name string, gender Gender, profile PatientProfile, passwordHash string) (*User, error) {
	if err := ValidateUserID(id, RolePatient); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("name must not be empty")
	}
	if profile.DateOfBirth.IsZero() {
		return nil, fmt.Errorf("date of birth is required")
	}
	if strings.TrimSpace(profile.BloodType) == "" {
		return nil, fmt.Errorf("blood type must not be empty")
	}
	u := &User{
		ID:           id,
		Name:         name,
		Role:         RolePatient,
		Gender:       gender,
		PasswordHash: passwordHash,
		Patient:      &profile,
	}
	u.Age = profile.Age(time.Now())
	return u, nil
}
