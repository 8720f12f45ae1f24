// Package integration provides CLI integration tests for pantry.
package integration

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// pantryBin is the path to the built pantry binary.
	pantryBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetPantryBin sets the path to the pantry binary (called from TestMain).
func SetPantryBin(path string) {
	pantryBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated test environment with its own config and data directory.
type TestEnv struct {
	t       *testing.T
	TempDir string
	Config  string
	DataDir string
}

// NewTestEnv creates a new isolated test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build pantry: %v", buildErr)
	}
	if pantryBin == "" {
		t.Fatal("pantry binary not built (pantryBin is empty)")
	}

	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data")
	configDir := filepath.Join(tempDir, "config")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := "backend: sqlite\ndata_dir: " + dataDir + "\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &TestEnv{
		t:       t,
		TempDir: tempDir,
		Config:  configDir,
		DataDir: dataDir,
	}
}

// CmdResult holds the result of a pantry command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunPantry executes the pantry CLI with the given arguments.
func (e *TestEnv) RunPantry(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.Config, "--data-dir", e.DataDir}, args...)
	cmd := exec.Command(pantryBin, allArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run pantry: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunPantry executes the pantry CLI and fails the test if it returns non-zero.
func (e *TestEnv) MustRunPantry(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunPantry(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("pantry %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// Item mirrors the inventory batch JSON shape for parsing CLI output.
type Item struct {
	ItemID      string  `json:"item_id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Quantity    float64 `json:"quantity"`
	TotalVolume float64 `json:"total_volume"`
	Unit        string  `json:"unit"`
	ExpiryDate  string  `json:"expiry_date"`
	IsOpen      bool    `json:"is_open"`
	Location    string  `json:"location"`
}

// Entry mirrors the shopping-list entry JSON shape.
type Entry struct {
	EntryID  string `json:"entry_id"`
	ItemName string `json:"item_name"`
	Brand    string `json:"brand"`
	Note     string `json:"note"`
	Done     bool   `json:"done"`
}

// EntryView mirrors the decoded entry view JSON shape.
type EntryView struct {
	Entry       Entry          `json:"entry"`
	VisibleNote string         `json:"visible_note"`
	Meta        map[string]any `json:"meta"`
}

// Group mirrors the grouped inventory JSON shape.
type Group struct {
	ItemName      string  `json:"item_name"`
	TotalQuantity float64 `json:"total_quantity"`
	Unit          string  `json:"unit"`
	Batches       []Item  `json:"batches"`
}

// ConsumeResult mirrors the consumption result JSON shape.
type ConsumeResult struct {
	Success            bool    `json:"success"`
	ConsumedAmount     float64 `json:"consumed_amount"`
	RemainingToConsume float64 `json:"remaining_to_consume"`
	Message            string  `json:"message"`
	AffectedBatches    []struct {
		ItemID      string  `json:"item_id"`
		Brand       string  `json:"brand"`
		ExpiryDate  string  `json:"expiry_date"`
		Deducted    float64 `json:"deducted"`
		OldQuantity float64 `json:"old_quantity"`
		NewQuantity float64 `json:"new_quantity"`
	} `json:"affected_batches"`
}

// Activity mirrors the activity log JSON shape.
type Activity struct {
	ActivityID string         `json:"activity_id"`
	Intent     string         `json:"intent"`
	RawInput   string         `json:"raw_input"`
	Detail     map[string]any `json:"detail"`
}

// ReadJSONLFile reads a JSONL file (one JSON object per line) and returns a slice.
func ReadJSONLFile[T any](t *testing.T, path string) []T {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open JSONL file %s: %v", path, err)
	}
	defer f.Close()

	var results []T
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record T
		if err := json.Unmarshal(line, &record); err != nil {
			t.Fatalf("failed to parse JSONL line in %s: %v", path, err)
		}
		results = append(results, record)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("failed to scan JSONL file %s: %v", path, err)
	}
	return results
}
