// Package console implements the interactive role menus. Every menu is a
// thin wrapper over the domain services: it prompts, calls, prints and
// never holds state beyond the active session.
package console

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/config"
	"github.com/hms/hms/internal/domain/identity"
	"github.com/hms/hms/internal/domain/inventory"
	"github.com/hms/hms/internal/domain/records"
	"github.com/hms/hms/internal/domain/scheduling"
	"github.com/hms/hms/internal/platform/receipt"
)

// App wires the domain services behind the console. The session is passed
// into each menu explicitly; there is no ambient current user.
type App struct {
	cfg       *config.Config
	prompt    *Prompter
	auth      *identity.AuthService
	staff     *identity.StaffStore
	patients  *identity.PatientStore
	schedule  *scheduling.Service
	records   *records.Service
	inventory *inventory.Service
	receipts  *receipt.Generator
	log       zerolog.Logger
}

type Deps struct {
	Config    *config.Config
	Auth      *identity.AuthService
	Staff     *identity.StaffStore
	Patients  *identity.PatientStore
	Schedule  *scheduling.Service
	Records   *records.Service
	Inventory *inventory.Service
	Receipts  *receipt.Generator
	Log       zerolog.Logger
}

func NewApp(in io.Reader, out io.Writer, deps Deps) *App {
	return &App{
		cfg:       deps.Config,
		prompt:    NewPrompter(in, out),
		auth:      deps.Auth,
		staff:     deps.Staff,
		patients:  deps.Patients,
		schedule:  deps.Schedule,
		records:   deps.Records,
		inventory: deps.Inventory,
		receipts:  deps.Receipts,
		log:       deps.Log,
	}
}

// Run is the login loop: authenticate, dispatch to the role's menu, repeat
// until the console input ends or the user quits at the login prompt.
func (a *App) Run(ctx context.Context) error {
	a.prompt.Println("==== Hospital Management System ====")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		userID, ok := a.prompt.Line("User ID (blank to quit)")
		if !ok {
			a.prompt.Println("Goodbye.")
			return nil
		}
		password, ok := a.prompt.Line("Password")
		if !ok {
			continue
		}

		session, err := a.auth.Login(userID, password)
		if err != nil {
			a.prompt.Println("Invalid user ID or password.")
			continue
		}
		a.prompt.Printf("Welcome, %s (%s).\n", session.User.Name, session.User.Role)

		a.dispatch(ctx, session)
		a.auth.Logout(session.Token)
	}
}

// dispatch routes the session to its role's menu loop.
func (a *App) dispatch(ctx context.Context, session *identity.Session) {
	switch session.User.Role {
	case identity.RolePatient:
		a.patientMenu(session)
	case identity.RoleDoctor:
		a.doctorMenu(session)
	case identity.RolePharmacist:
		a.pharmacistMenu(session)
	case identity.RoleAdministrator:
		a.adminMenu(ctx, session)
	default:
		a.prompt.Printf("No menu for role %s.\n", session.User.Role)
	}
}

// changePassword is shared by every role menu.
func (a *App) changePassword(session *identity.Session) {
	newPassword, ok := a.prompt.Line("New password")
	if !ok {
		return
	}
	if err := a.auth.ChangePassword(session, newPassword); err != nil {
		a.prompt.Println("Password not changed:", err)
		return
	}
	a.prompt.Println("Password changed successfully.")
}
