// Package receipt shells out to the external receipt generator. The script
// builds and emails a PDF; this side only supplies the data.
package receipt

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog"
)

// Data is the receipt payload, passed to the script as positional
// arguments in field order.
type Data struct {
	AppointmentID string
	PatientName   string
	PatientEmail  string
	TotalAmount   float64
	PaymentMethod string
	Date          string
	Time          string
	DoctorName    string
	ServiceType   string
}

func (d Data) args() []string {
	return []string{
		d.AppointmentID,
		d.PatientName,
		d.PatientEmail,
		strconv.FormatFloat(d.TotalAmount, 'f', 2, 64),
		d.PaymentMethod,
		d.Date,
		d.Time,
		d.DoctorName,
		d.ServiceType,
	}
}

// Generator runs the configured interpreter and script.
type Generator struct {
	command string
	script  string
	log     zerolog.Logger
}

func NewGenerator(command, script string, log zerolog.Logger) *Generator {
	return &Generator{command: command, script: script, log: log}
}

// Generate invokes the script with the receipt data. Script output is
// logged; a non-zero exit is returned as an error with the captured stderr.
func (g *Generator) Generate(ctx context.Context, data Data) error {
	args := append([]string{g.script}, data.args()...)
	cmd := exec.CommandContext(ctx, g.command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		g.log.Error().Err(err).Str("stderr", stderr.String()).
			Str("appointment_id", data.AppointmentID).Msg("receipt generation failed")
		return fmt.Errorf("run receipt script: %w: %s", err, stderr.String())
	}
	if out := stdout.String(); out != "" {
		g.log.Info().Str("output", out).Msg("receipt script output")
	}
	g.log.Info().Str("appointment_id", data.AppointmentID).Msg("receipt generated")
	return nil
}
