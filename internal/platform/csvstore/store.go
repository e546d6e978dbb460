// Package csvstore implements the flat-file persistence layer shared by every
// entity type. A file is a header line followed by one formatted record per
// line; every mutation rewrites the whole file through an atomic temp-file
// rename so a failed write never damages the original.
package csvstore

import (
	"bufio"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Codec translates between a domain record and its single-line wire form.
type Codec[T any] interface {
	// Header returns the first line of the file.
	Header() string
	// Parse decodes one data line. An error marks the line as unparseable;
	// the store logs and skips it.
	Parse(line string) (T, error)
	// Format encodes one record as a data line.
	Format(item T) string
}

// Options tune per-entity store behaviour.
type Options struct {
	// Dedup drops records whose formatted line is byte-identical to an
	// earlier one during Load, keeping the first occurrence.
	Dedup bool
}

// Store reads and writes one entity type's CSV file.
type Store[T any] struct {
	fs    afero.Fs
	path  string
	codec Codec[T]
	opts  Options
	log   zerolog.Logger
}

func New[T any](fs afero.Fs, path string, codec Codec[T], opts Options, log zerolog.Logger) *Store[T] {
	return &Store[T]{fs: fs, path: path, codec: codec, opts: opts, log: log}
}

// Path returns the file this store persists to.
func (s *Store[T]) Path() string { return s.path }

// Load reads the whole file into memory, skipping the header. A missing file
// is not an error: the collection is simply empty. Malformed lines are logged
// and dropped; the load continues.
func (s *Store[T]) Load() ([]T, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug().Str("path", s.path).Msg("data file missing, starting empty")
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	var items []T
	seen := map[string]bool{}
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false // header
			continue
		}
		if line == "" {
			continue
		}
		item, err := s.codec.Parse(line)
		if err != nil {
			s.log.Warn().Str("path", s.path).Str("line", line).Err(err).Msg("skipping malformed record")
			continue
		}
		if s.opts.Dedup {
			key := s.codec.Format(item)
			if seen[key] {
				s.log.Debug().Str("path", s.path).Str("line", line).Msg("dropping duplicate record")
				continue
			}
			seen[key] = true
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return items, nil
}

// Save rewrites the file with the header and every record. The new content is
// written to a temporary file first and renamed over the original, so the
// original survives a failed write.
func (s *Store[T]) Save(items []T) error {
	tmp := s.path + ".tmp"
	if err := s.writeAll(tmp, items); err != nil {
		_ = s.fs.Remove(tmp)
		return err
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func (s *Store[T]) writeAll(path string, items []T) error {
	f, err := s.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, s.codec.Header())
	for _, item := range items {
		fmt.Fprintln(w, s.codec.Format(item))
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// Append adds a single record to the end of the file, writing the header
// first when the file does not exist yet.
func (s *Store[T]) Append(item T) error {
	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}
	f, err := s.fs.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()
	if !exists {
		if _, err := fmt.Fprintln(f, s.codec.Header()); err != nil {
			return fmt.Errorf("write header %s: %w", s.path, err)
		}
	}
	if _, err := fmt.Fprintln(f, s.codec.Format(item)); err != nil {
		return fmt.Errorf("append %s: %w", s.path, err)
	}
	return nil
}
