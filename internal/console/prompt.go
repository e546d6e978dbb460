package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hms/hms/internal/config"
	"github.com/hms/hms/internal/domain/scheduling"
)

// Prompter reads console input line by line. Every prompt treats blank
// input as a cancel, returning ok=false so menus fall back gracefully.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) Println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Line prompts for one line of input. Blank input cancels.
func (p *Prompter) Line(label string) (string, bool) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	return line, true
}

// Int prompts until a valid integer is entered or the prompt is cancelled.
func (p *Prompter) Int(label string) (int, bool) {
	for {
		line, ok := p.Line(label)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			p.Println("Please enter a number.")
			continue
		}
		return n, true
	}
}

// Date prompts for a dd/MM/yyyy date.
func (p *Prompter) Date(label string) (time.Time, bool) {
	for {
		line, ok := p.Line(label + " (dd/mm/yyyy)")
		if !ok {
			return time.Time{}, false
		}
		d, err := time.Parse(config.DateLayout, line)
		if err != nil {
			p.Println("Please enter the date as dd/mm/yyyy.")
			continue
		}
		return d, true
	}
}

// Time prompts for an HH:mm time of day.
func (p *Prompter) Time(label string) (scheduling.TimeOfDay, bool) {
	for {
		line, ok := p.Line(label + " (hh:mm)")
		if !ok {
			return scheduling.TimeOfDay{}, false
		}
		t, err := scheduling.ParseTimeOfDay(line)
		if err != nil {
			p.Println("Please enter the time as hh:mm.")
			continue
		}
		return t, true
	}
}

// Confirm prompts for a yes/no answer. Anything other than "yes"/"y" is no.
func (p *Prompter) Confirm(label string) bool {
	line, ok := p.Line(label + " (yes/no)")
	if !ok {
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	}
	return false
}

// Choose prompts for a 1-based selection from a short menu. Zero or blank
// cancels.
func (p *Prompter) Choose(label string, max int) (int, bool) {
	for {
		n, ok := p.Int(label)
		if !ok || n == 0 {
			return 0, false
		}
		if n < 1 || n > max {
			p.Printf("Please choose between 1 and %d.\n", max)
			continue
		}
		return n, true
	}
}
