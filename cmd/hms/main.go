package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/hms/hms/internal/config"
	"github.com/hms/hms/internal/console"
	"github.com/hms/hms/internal/domain/identity"
	"github.com/hms/hms/internal/domain/inventory"
	"github.com/hms/hms/internal/domain/records"
	"github.com/hms/hms/internal/domain/scheduling"
	"github.com/hms/hms/internal/platform/receipt"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hms",
		Short: "Console hospital management system",
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the interactive console",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole()
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write starter data files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seedData()
		},
	}
}

func newLogger() zerolog.Logger {
	// Logs go to stderr so they never interleave with the menus.
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return logger
}

func runConsole() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	fs := afero.NewOsFs()
	if err := fs.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("failed to create data directory")
	}

	staff := identity.NewStaffStore(fs, cfg.StaffPath(), logger)
	patients := identity.NewPatientStore(fs, cfg.PatientPath(), logger)
	appts := scheduling.NewAppointmentStore(fs, cfg.AppointmentPath(), time.Now, logger)
	slots := scheduling.NewSlotStore(fs, cfg.SlotPath(), logger)
	recordStore := records.NewStore(fs, cfg.MedicalRecPath(), logger)
	medicines := inventory.NewMedicineStore(fs, cfg.MedicinePath(), logger)
	requests := inventory.NewRequestStore(fs, cfg.ReplenishPath(), logger)

	stores := []interface{ Reload() error }{
		staff, patients, appts, slots, recordStore, medicines, requests,
	}
	for _, store := range stores {
		if err := store.Reload(); err != nil {
			logger.Fatal().Err(err).Msg("failed to load data files")
		}
	}

	recordSvc := records.NewService(recordStore, logger)
	scheduleSvc := scheduling.NewService(appts, slots, recordSvc, cfg.SlotStepMinutes, logger)
	inventorySvc := inventory.NewService(medicines, requests, logger)
	authSvc := identity.NewAuthService(staff, patients, logger)
	receipts := receipt.NewGenerator(cfg.ReceiptCommand, cfg.ReceiptScript, logger)

	app := console.NewApp(os.Stdin, os.Stdout, console.Deps{
		Config:    cfg,
		Auth:      authSvc,
		Staff:     staff,
		Patients:  patients,
		Schedule:  scheduleSvc,
		Records:   recordSvc,
		Inventory: inventorySvc,
		Receipts:  receipts,
		Log:       logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// seedData writes a small starter roster so a fresh install is usable:
// one administrator, one doctor with availability, one pharmacist, one
// patient and a few medicines. Existing files are left alone.
func seedData() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := afero.NewOsFs()
	if err := fs.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}

	if exists, _ := afero.Exists(fs, cfg.StaffPath()); exists {
		logger.Info().Str("path", cfg.StaffPath()).Msg("staff file already present; not seeding")
		return nil
	}

	hash, err := identity.HashPassword("password")
	if err != nil {
		return err
	}

	staff := identity.NewStaffStore(fs, cfg.StaffPath(), logger)
	if err := staff.Reload(); err != nil {
		return err
	}
	seedStaff := []struct {
		id, name string
		role     identity.Role
		gender   identity.Gender
		age      int
	}{
		{"A001", "Grace Ho", identity.RoleAdministrator, identity.GenderFemale, 39},
		{"D001", "Alice Tan", identity.RoleDoctor, identity.GenderFemale, 45},
		{"PH001", "Carol Ng", identity.RolePharmacist, identity.GenderFemale, 31},
	}
	for _, s := range seedStaff {
		u, err := identity.NewStaff(s.id, s.name, s.role, s.gender, s.age, hash)
		if err != nil {
			return err
		}
		if err := staff.Add(u); err != nil {
			return err
		}
	}

	patients := identity.NewPatientStore(fs, cfg.PatientPath(), logger)
	if err := patients.Reload(); err != nil {
		return err
	}
	profile, err := identity.ParsePatientProfile("1990-06-15", "O+", "bob@example.com")
	if err != nil {
		return err
	}
	patient, err := identity.NewPatient("P1001", "Bob Lee", identity.GenderMale, profile, hash)
	if err != nil {
		return err
	}
	if err := patients.Add(patient); err != nil {
		return err
	}

	slots := scheduling.NewSlotStore(fs, cfg.SlotPath(), logger)
	if err := slots.Reload(); err != nil {
		return err
	}
	def, err := scheduling.NewSlotDefinition("D001",
		scheduling.TimeOfDay{Hour: 9}, scheduling.TimeOfDay{Hour: 17},
		[]time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday})
	if err != nil {
		return err
	}
	if err := slots.Add(def); err != nil {
		return err
	}

	medicines := inventory.NewMedicineStore(fs, cfg.MedicinePath(), logger)
	if err := medicines.Reload(); err != nil {
		return err
	}
	seedMedicines := []struct {
		name             string
		stock, threshold int
	}{
		{"Paracetamol", 200, 50},
		{"Ibuprofen", 150, 40},
		{"Amoxicillin", 80, 20},
	}
	for _, m := range seedMedicines {
		med, err := inventory.NewMedicine(m.name, m.stock, m.threshold)
		if err != nil {
			return err
		}
		if err := medicines.Add(med); err != nil {
			return err
		}
	}

	logger.Info().Str("dir", cfg.DataDir).Msg("starter data written; all passwords are \"password\"")
	return nil
}
