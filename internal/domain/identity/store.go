package identity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/hms/hms/internal/platform/csvstore"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrDuplicateID  = errors.New("user ID already exists")
)

// UserRepository is the common surface over the staff and patient rosters.
type UserRepository interface {
	Reload() error
	All() []*User
	FindByID(id string) (*User, bool)
	Add(u *User) error
	Update(u *User) error
	Remove(id string) error
}

// userStore is the CSV-backed implementation shared by both rosters; only
// the codec and file differ.
type userStore struct {
	store *csvstore.Store[*User]
	users []*User
}

func newUserStore(fs afero.Fs, path string, codec csvstore.Codec[*User], log zerolog.Logger) *userStore {
	return &userStore{
		store: csvstore.New[*User](fs, path, codec, csvstore.Options{Dedup: true}, log),
	}
}

func (s *userStore) Reload() error {
	users, err := s.store.Load()
	if err != nil {
		return err
	}
	s.users = users
	return nil
}

func (s *userStore) All() []*User {
	out := make([]*User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *userStore) FindByID(id string) (*User, bool) {
	for _, u := range s.users {
		if strings.EqualFold(u.ID, id) {
			return u, true
		}
	}
	return nil, false
}

func (s *userStore) Add(u *User) error {
	if _, ok := s.FindByID(u.ID); ok {
		return ErrDuplicateID
	}
	s.users = append(s.users, u)
	return s.store.Save(s.users)
}

func (s *userStore) Update(u *User) error {
	for i, existing := range s.users {
		if strings.EqualFold(existing.ID, u.ID) {
			s.users[i] = u
			return s.store.Save(s.users)
		}
	}
	return ErrUserNotFound
}

func (s *userStore) Remove(id string) error {
	for i, u := range s.users {
		if strings.EqualFold(u.ID, id) {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return s.store.Save(s.users)
		}
	}
	return ErrUserNotFound
}

// StaffStore holds doctors, pharmacists and administrators.
type StaffStore struct {
	*userStore
}

func NewStaffStore(fs afero.Fs, path string, log zerolog.Logger) *StaffStore {
	return &StaffStore{newUserStore(fs, path, StaffCodec{}, log)}
}

// ByRole returns all staff with the given role.
func (s *StaffStore) ByRole(role Role) []*User {
	var out []*User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out
}

// PatientStore holds the patient roster.
type PatientStore struct {
	*userStore
}

func NewPatientStore(fs afero.Fs, path string, log zerolog.Logger) *PatientStore {
	return &PatientStore{newUserStore(fs, path, PatientCodec{}, log)}
}

// NextID generates the next patient identifier by incrementing the highest
// numeric suffix in use. An empty roster starts at P1001.
func (s *PatientStore) NextID() string {
	maxID := 0
	for _, u := range s.users {
		n, err := strconv.Atoi(strings.TrimPrefix(u.ID, "P"))
		if err != nil {
			continue
		}
		if n > maxID {
			maxID = n
		}
	}
	if maxID == 0 {
		return "P1001"
	}
	return fmt.Sprintf("P%d", maxID+1)
}
