package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// DateLayout and TimeLayout are the wire formats used throughout the CSV
// files: dd/MM/yyyy dates and 24-hour HH:mm times.
const (
	DateLayout = "02/01/2006"
	TimeLayout = "15:04"
)

type Config struct {
	Env             string `mapstructure:"ENV"`
	DataDir         string `mapstructure:"DATA_DIR"`
	AppointmentFile string `mapstructure:"APPOINTMENT_FILE"`
	SlotFile        string `mapstructure:"SLOT_FILE"`
	StaffFile       string `mapstructure:"STAFF_FILE"`
	PatientFile     string `mapstructure:"PATIENT_FILE"`
	MedicalRecFile  string `mapstructure:"MEDICAL_RECORD_FILE"`
	MedicineFile    string `mapstructure:"MEDICINE_FILE"`
	ReplenishFile   string `mapstructure:"REPLENISH_FILE"`
	SlotStepMinutes int    `mapstructure:"SLOT_STEP_MINUTES"`
	ReceiptCommand  string `mapstructure:"RECEIPT_COMMAND"`
	ReceiptScript   string `mapstructure:"RECEIPT_SCRIPT"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("APPOINTMENT_FILE", "AppointmentData.csv")
	v.SetDefault("SLOT_FILE", "AppointmentSlotData.csv")
	v.SetDefault("STAFF_FILE", "StaffData.csv")
	v.SetDefault("PATIENT_FILE", "PatientData.csv")
	v.SetDefault("MEDICAL_RECORD_FILE", "MedicalRecordsData.csv")
	v.SetDefault("MEDICINE_FILE", "MedicineData.csv")
	v.SetDefault("REPLENISH_FILE", "ReplenishmentRequestData.csv")
	v.SetDefault("SLOT_STEP_MINUTES", 30)
	v.SetDefault("RECEIPT_COMMAND", "python3")
	v.SetDefault("RECEIPT_SCRIPT", "scripts/generate_receipt.py")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("ENV")
	v.BindEnv("DATA_DIR")
	v.BindEnv("APPOINTMENT_FILE")
	v.BindEnv("SLOT_FILE")
	v.BindEnv("STAFF_FILE")
	v.BindEnv("PATIENT_FILE")
	v.BindEnv("MEDICAL_RECORD_FILE")
	v.BindEnv("MEDICINE_FILE")
	v.BindEnv("REPLENISH_FILE")
	v.BindEnv("SLOT_STEP_MINUTES")
	v.BindEnv("RECEIPT_COMMAND")
	v.BindEnv("RECEIPT_SCRIPT")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration can drive the console application.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.SlotStepMinutes <= 0 {
		return fmt.Errorf("SLOT_STEP_MINUTES must be positive, got %d", c.SlotStepMinutes)
	}
	return nil
}

// Path helpers resolve entity files against the data directory.

func (c *Config) AppointmentPath() string { return filepath.Join(c.DataDir, c.AppointmentFile) }
func (c *Config) SlotPath() string        { return filepath.Join(c.DataDir, c.SlotFile) }
func (c *Config) StaffPath() string       { return filepath.Join(c.DataDir, c.StaffFile) }
func (c *Config) PatientPath() string     { return filepath.Join(c.DataDir, c.PatientFile) }
func (c *Config) MedicalRecPath() string  { return filepath.Join(c.DataDir, c.MedicalRecFile) }
func (c *Config) MedicinePath() string    { return filepath.Join(c.DataDir, c.MedicineFile) }
func (c *Config) ReplenishPath() string   { return filepath.Join(c.DataDir, c.ReplenishFile) }
