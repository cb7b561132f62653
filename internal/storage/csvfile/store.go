// Package csvfile stores leads as rows of a UTF-8 CSV file meant to be opened
// in spreadsheet software.
package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"leadapi/internal/lead"
	"leadapi/internal/storage"
)

// Columns is the header row, in record field order.
var Columns = []string{"timestamp", "email", "name", "courses_json"}

var bom = []byte{0xEF, 0xBB, 0xBF}

const filePerm fs.FileMode = 0o644

// Store appends rows to a single CSV file. It holds no open handle between
// calls; each Append opens, writes and closes the file.
type Store struct {
	path string
}

func New(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("csv path is required")
	}
	return &Store{path: filepath.Clean(path)}, nil
}

func (s *Store) Kind() string { return "csv" }

// Path returns the file the store writes to.
func (s *Store) Path() string { return s.path }

// Initialize creates the file with a BOM-prefixed header when it is missing or
// empty. An existing non-empty file is left untouched.
func (s *Store) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(s.path)
	switch {
	case err == nil && info.Size() > 0:
		return nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return storage.Unavailable("stat csv", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return storage.Unavailable("create csv dir", err)
		}
	}

	header := appendRow(append([]byte(nil), bom...), Columns)
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return storage.Unavailable("create csv", err)
	}
	if _, err := f.Write(header); err != nil {
		_ = f.Close()
		return storage.Unavailable("write csv header", err)
	}
	return storage.Unavailable("close csv", f.Close())
}

// Append writes rec as one row. The row is encoded up front and handed to the
// OS in a single write on an O_APPEND descriptor; concurrent appenders are not
// serialized beyond what the platform's append semantics guarantee.
func (s *Store) Append(ctx context.Context, rec lead.Record) (storage.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return storage.Receipt{}, err
	}

	row := appendRow(nil, rec.Fields())

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, filePerm)
	if err != nil {
		return storage.Receipt{}, storage.Unavailable("open csv", err)
	}
	if _, err := f.Write(row); err != nil {
		_ = f.Close()
		return storage.Receipt{}, storage.Unavailable("append csv", err)
	}
	if err := f.Close(); err != nil {
		return storage.Receipt{}, storage.Unavailable("close csv", err)
	}
	return storage.Receipt{}, nil
}
