package dmlrt

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Reader loads the records of a source. location is a file path, or a
// connection string for DB sources.
type Reader interface {
	Read(ctx context.Context, location string) ([]*Record, error)
}

// Writer stores the output records at location.
type Writer interface {
	Write(ctx context.Context, location string, records []*Record) error
}

// columnsOf returns the top-level keys of records in first-seen order.
func columnsOf(records []*Record) []string {
	seen := map[string]bool{}

	var cols []string

	for _, r := range records {
		for _, k := range r.Keys() {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}

	return cols
}

// writeFile writes data next to path and renames it into place.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create %v", dir)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, "failed to write %v", path)
	}

	if _, err = tmp.Write(data); err == nil {
		err = tmp.Close()
	} else {
		_ = tmp.Close()
	}

	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}

	if err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrapf(err, "failed to write %v", path)
	}

	return nil
}
