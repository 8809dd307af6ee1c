package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunDoctorCmd
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSON(t *testing.T) {
	dir := isolateConfig(t)
	fakeChrome := filepath.Join(dir, "chrome")
	writeFile(t, fakeChrome, "")
	t.Setenv("ROD_BROWSER_BIN", fakeChrome)

	env, stdout, _ := testEnv()
	code := runDoctorCmd([]string{"--json"}, env)

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout.String())
	}

	if !result.Chrome.Found || result.Chrome.Path != fakeChrome {
		t.Errorf("chrome = %+v", result.Chrome)
	}
	if !result.Config.Valid {
		t.Errorf("config should be valid, errors = %v", result.Errors)
	}
	if !result.System.TempWritable {
		t.Error("temp dir should be writable")
	}
	// The fake binary cannot report a version, which is only a warning.
	if result.Status == "errors" || code != ExitSuccess {
		t.Errorf("status = %q, code = %d, errors = %v", result.Status, code, result.Errors)
	}
}

func TestRunDoctorCmd_MissingChrome(t *testing.T) {
	dir := isolateConfig(t)
	t.Setenv("ROD_BROWSER_BIN", filepath.Join(dir, "missing"))

	env, stdout, _ := testEnv()
	code := runDoctorCmd(nil, env)

	if code != ExitGeneral {
		t.Errorf("exit code = %d, want %d", code, ExitGeneral)
	}
	out := stdout.String()
	for _, want := range []string{"[ERROR] Not found", "Status: Not ready"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunDoctorCmd_BadFlag(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	if code := runDoctorCmd([]string{"--nope"}, env); code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
}

// ---------------------------------------------------------------------------
// TestIsContainer
// ---------------------------------------------------------------------------

func TestIsContainer_Override(t *testing.T) {
	t.Setenv("MDSTUDIO_CONTAINER", "1")

	got, hint := isContainer()
	if !got || hint != "MDSTUDIO_CONTAINER=1" {
		t.Errorf("isContainer() = %v, %q", got, hint)
	}
}
