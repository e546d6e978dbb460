package identity

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	staffHeader   = "UserID,Name,Role,Gender,Age,Password"
	patientHeader = "UserID,Name,DateOfBirth,Gender,BloodType,ContactInfo,Password"
)

// StaffCodec reads and writes the staff roster file. Patients never appear
// in it; a PATIENT role in the staff file is a malformed line.
type StaffCodec struct{}

func (StaffCodec) Header() string { return staffHeader }

func (StaffCodec) Parse(line string) (*User, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 6 {
		return nil, fmt.Errorf("expected 6 fields, got %d", len(fields))
	}
	role, err := ParseRole(fields[2])
	if err != nil {
		return nil, err
	}
	gender, err := ParseGender(fields[3])
	if err != nil {
		return nil, err
	}
	age, err := strconv.Atoi(strings.TrimSpace(fields[4]))
	if err != nil {
		return nil, fmt.Errorf("invalid age %q", fields[4])
	}
	return NewStaff(strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1]),
		role, gender, age, strings.TrimSpace(fields[5]))
}

func (StaffCodec) Format(u *User) string {
	return strings.Join([]string{
		u.ID,
		u.Name,
		string(u.Role),
		string(u.Gender),
		strconv.Itoa(u.Age),
		u.PasswordHash,
	}, ",")
}

// PatientCodec reads and writes the patient roster file.
type PatientCodec struct{}

func (PatientCodec) Header() string { return patientHeader }

func (PatientCodec) Parse(line string) (*User, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 7 {
		return nil, fmt.Errorf("expected 7 fields, got %d", len(fields))
	}
	dob, err := time.Parse(dobLayout, strings.TrimSpace(fields[2]))
	if err != nil {
		return nil, fmt.Errorf("invalid date of birth %q", fields[2])
	}
	gender, err := ParseGender(fields[3])
	if err != nil {
		return nil, err
	}
	profile := PatientProfile{
		DateOfBirth: dob,
		BloodType:   strings.TrimSpace(fields[4]),
		ContactInfo: strings.TrimSpace(fields[5]),
	}
	return NewPatient(strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1]),
		gender, profile, strings.TrimSpace(fields[6]))
}

func (PatientCodec) Format(u *User) string {
	return strings.Join([]string{
		u.ID,
		u.Name,
		u.Patient.DateOfBirth.Format(dobLayout),
		string(u.Gender),
		u.Patient.BloodType,
		u.Patient.ContactInfo,
		u.PasswordHash,
	}, ",")
}
