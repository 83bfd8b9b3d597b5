package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/matsen/profiles/internal/profile"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// scanLines calls fn for each non-empty line of a JSONL file.
// A missing file has no lines.
func scanLines(path string, fn func(lineNum int, line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening records file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}
		if err := fn(lineNum, line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading records file: %w", err)
	}
	return nil
}

// ReadAll reads all records from a JSONL file.
func ReadAll(path string) ([]profile.Record, error) {
	var records []profile.Record
	err := scanLines(path, func(lineNum int, line []byte) error {
		var r profile.Record
		if err := json.Unmarshal(line, &r); err != nil {
			return fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// WriteAll writes all records to a JSONL file atomically.
// Uses temp file + rename for atomic operation.
func WriteAll(path string, records []profile.Record) error {
	// Create temp file in same directory for atomic rename
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*.jsonl")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	w := bufio.NewWriter(tmpFile)
	for i, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			tmpFile.Close()
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
		if _, err := w.Write(data); err != nil {
			tmpFile.Close()
			return fmt.Errorf("writing record %d: %w", i, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmpFile.Close()
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("flushing records: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}

// ExportJSONL writes every stored record to path and returns how many were
// written.
func (s *Store) ExportJSONL(ctx context.Context, path string) (int, error) {
	records, err := s.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	if err := WriteAll(path, records); err != nil {
		return 0, fmt.Errorf("exporting records: %w", err)
	}
	s.logger.Info("records exported", zap.String("path", path), zap.Int("count", len(records)))
	return len(records), nil
}

// ImportResult is the outcome for one line of an import file.
type ImportResult struct {
	Line   int    `json:"line"`
	Mobile string `json:"mobileNumber,omitempty"`
	ID     int64  `json:"id,omitempty"`
	Err    error  `json:"-"`
}

// Imported reports whether the line was stored.
func (r ImportResult) Imported() bool {
	return r.Err == nil
}

// ImportJSONL creates a record for every line of path. Each line must match
// the record schema and is then passed to check (which may be nil). A line
// that is malformed, fails the check or collides with a stored mobile number
// is reported in its result and does not stop the import. The returned error
// is only for failures that stop the import as a whole.
func (s *Store) ImportJSONL(ctx context.Context, path string, check func(profile.Record) error) ([]ImportResult, error) {
	if _, err := s.conn(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening import file: %w", err)
	}

	var results []ImportResult
	err := scanLines(path, func(lineNum int, line []byte) error {
		res := ImportResult{Line: lineNum}
		defer func() { results = append(results, res) }()

		if err := checkLineShape(line); err != nil {
			res.Err = fmt.Errorf("%w: line %d: %w", ErrMalformedRecord, lineNum, err)
			return nil
		}
		var r profile.Record
		if err := json.Unmarshal(line, &r); err != nil {
			res.Err = fmt.Errorf("%w: parsing line %d: %w", ErrMalformedRecord, lineNum, err)
			return nil
		}
		res.Mobile = r.MobileNumber

		if check != nil {
			if err := check(r); err != nil {
				res.Err = err
				return nil
			}
		}

		id, err := s.Create(ctx, r)
		if err != nil {
			if IsStorageUnavailable(err) {
				return err
			}
			res.Err = err
			return nil
		}
		res.ID = id
		return nil
	})
	if err != nil {
		return results, err
	}

	imported := 0
	for _, r := range results {
		if r.Imported() {
			imported++
		}
	}
	s.logger.Info("records imported",
		zap.String("path", path), zap.Int("imported", imported), zap.Int("lines", len(results)))
	return results, nil
}
