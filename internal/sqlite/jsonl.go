// This file provides JSONL snapshot support with atomic writes. Snapshots
// give the pantry a git-friendly text form for backup and device-to-device
// transfer.
package sqlite

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/stocklist/pkg/types"
)

// ExportJSONL writes one JSONL file per table into dir, creating it if
// needed. Files are written atomically so a crash never leaves a truncated
// snapshot behind.
func (b *Backend) ExportJSONL(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	for _, name := range types.StandardTableNames {
		table, err := b.GetTable(name)
		if err != nil {
			return fmt.Errorf("exporting %s: %w", name, err)
		}
		entities, err := table.Fetch(nil)
		if err != nil {
			return fmt.Errorf("exporting %s: %w", name, err)
		}

		records := make([]json.RawMessage, 0, len(entities))
		for _, e := range entities {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("marshaling %s record: %w", name, err)
			}
			records = append(records, data)
		}

		path := filepath.Join(dir, name+".jsonl")
		if err := writeJSONL(path, records); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// ImportJSONL loads JSONL snapshot files from dir, upserting records by
// their IDs. Missing files are skipped; so are malformed lines, matching
// the tolerance of the note codec toward externally-edited data.
func (b *Backend) ImportJSONL(dir string) error {
	for _, name := range types.StandardTableNames {
		path := filepath.Join(dir, name+".jsonl")
		records, err := readJSONL(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("reading %s: %w", path, err)
		}

		table, err := b.GetTable(name)
		if err != nil {
			return fmt.Errorf("importing %s: %w", name, err)
		}

		for _, rec := range records {
			id, entity, err := decodeSnapshotRecord(name, rec)
			if err != nil {
				// Skip records that do not decode into the entity type.
				continue
			}
			if _, err := table.Set(id, entity); err != nil {
				if isValidationError(err) {
					continue
				}
				return fmt.Errorf("importing %s record %s: %w", name, id, err)
			}
		}
	}
	return nil
}

// isValidationError reports whether err is an entity validation failure, as
// opposed to a storage failure. Validation failures in snapshot records are
// skipped on import.
func isValidationError(err error) bool {
	return errors.Is(err, types.ErrInvalidName) ||
		errors.Is(err, types.ErrInvalidQuantity) ||
		errors.Is(err, types.ErrInvalidIntent) ||
		errors.Is(err, types.ErrInvalidData)
}

// decodeSnapshotRecord unmarshals one JSONL line into the entity struct for
// the named table and returns the entity's ID.
func decodeSnapshotRecord(tableName string, rec json.RawMessage) (string, any, error) {
	switch tableName {
	case types.ItemsTable:
		var e types.Item
		if err := json.Unmarshal(rec, &e); err != nil {
			return "", nil, err
		}
		return e.ItemID, &e, nil
	case types.EntriesTable:
		var e types.Entry
		if err := json.Unmarshal(rec, &e); err != nil {
			return "", nil, err
		}
		return e.EntryID, &e, nil
	case types.ActivitiesTable:
		var e types.Activity
		if err := json.Unmarshal(rec, &e); err != nil {
			return "", nil, err
		}
		return e.ActivityID, &e, nil
	default:
		return "", nil, fmt.Errorf("unknown table %q", tableName)
	}
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
