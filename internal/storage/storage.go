package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/akleg-senators/internal/legislator"
)

// ResolvePath expands a leading "~/" and makes path absolute.
func ResolvePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return abs, nil
}

// WriteRecords writes records to path as an indented JSON array, creating parent
// directories as needed. It returns the absolute path written.
func WriteRecords(path string, records []*legislator.Record) (string, error) {
	abs, err := ResolvePath(path)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	if records == nil {
		records = []*legislator.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding records: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(abs)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() // nolint:errcheck
		return "", fmt.Errorf("writing records: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close() // nolint:errcheck
		return "", fmt.Errorf("setting file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), abs); err != nil {
		return "", fmt.Errorf("replacing %s: %w", abs, err)
	}
	return abs, nil
}

// ReadRecords loads a file written by WriteRecords.
func ReadRecords(path string) ([]*legislator.Record, error) {
	abs, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	var records []*legislator.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing records: %w", err)
	}
	return records, nil
}
