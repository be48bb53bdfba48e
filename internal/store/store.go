// Package store persists per-user collections as whole-file JSON documents,
// one document per domain. The layout is shared with earlier versions of the
// tracker: a root object keyed by stringified user id.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	DomainIncome           Domain = "income"
	DomainExpenses         Domain = "expenses"
	DomainAutoIncome       Domain = "auto_income"
	DomainAutoExpenses     Domain = "auto_expenses"
	DomainCategories       Domain = "categories"
	DomainIncomeCategories Domain = "income_categories"
	DomainSettings         Domain = "settings"
)

// Domain names one data file. The file lives at <dir>/<domain>.json.
type Domain string

// Domains lists every domain the store manages.
var Domains = []Domain{
	DomainIncome,
	DomainExpenses,
	DomainAutoIncome,
	DomainAutoExpenses,
	DomainCategories,
	DomainIncomeCategories,
	DomainSettings,
}

// ParseError reports a domain file whose content could not be decoded. It is
// not recovered locally; callers abort the current operation.
type ParseError struct {
	Domain Domain
	Path   string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s domain file %s: %v", e.Domain, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Store reads and writes whole domain files. There is no locking: concurrent
// read-modify-write cycles on the same domain are last-writer-wins.
type Store struct {
	dir string
}

// New creates a store rooted at dir and bootstraps every missing domain file
// with an empty document.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	s := &Store{dir: dir}
	for _, d := range Domains {
		if err := s.ensure(d); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Path(d Domain) string {
	return filepath.Join(s.dir, string(d)+".json")
}

func (s *Store) ensure(d Domain) error {
	path := s.Path(d)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s domain file: %w", d, err)
	}
	if err := writeFileAtomic(path, []byte("{}")); err != nil {
		return fmt.Errorf("bootstrap %s domain file: %w", d, err)
	}
	slog.Info("Bootstrapped empty domain file", "domain", d, "path", path)
	return nil
}

// Load reads the whole domain file into a user-keyed map. A missing file is
// bootstrapped to an empty document first.
func Load[C any](s *Store, d Domain) (map[string]C, error) {
	if err := s.ensure(d); err != nil {
		return nil, err
	}
	path := s.Path(d)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s domain file: %w", d, err)
	}
	data := make(map[string]C)
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &ParseError{Domain: d, Path: path, Err: err}
	}
	return data, nil
}

// Save rewrites the whole domain file from the given mapping.
func Save[C any](s *Store, d Domain, data map[string]C) error {
	if data == nil {
		data = make(map[string]C)
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s domain: %w", d, err)
	}
	if err := writeFileAtomic(s.Path(d), raw); err != nil {
		return fmt.Errorf("write %s domain file: %w", d, err)
	}
	return nil
}

// writeFileAtomic writes via a temp file and rename so a crash mid-write
// never leaves a truncated domain file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// IsParseError reports whether err stems from a malformed domain file.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
