// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Tests parseTime, truncate, padRight, filterMetrics, flags, and an end-to-end run.
package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/healthai/internal/models"
	"github.com/harperreed/healthai/internal/storage"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "date and time with space", input: "2025-01-31 08:30"},
		{name: "date and time with T", input: "2025-01-31T08:30"},
		{name: "date only", input: "2025-01-31"},
		{name: "RFC3339", input: "2025-01-31T08:30:00Z"},
		{name: "RFC3339 with offset", input: "2025-01-31T08:30:00+05:00"},
		{name: "invalid format", input: "31-01-2025", wantErr: true},
		{name: "invalid random string", input: "not a date", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseTime(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("parseTime(%q) expected error, got nil", tt.input)
				}
				return
			}

			if err != nil {
				t.Errorf("parseTime(%q) unexpected error: %v", tt.input, err)
				return
			}

			if result.IsZero() {
				t.Errorf("parseTime(%q) returned zero time", tt.input)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world this is a long string", 10, "hello w..."},
		{"", 10, ""},
		{"hello", 3, "..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"hi", 5, "hi   "},
		{"hello", 5, "hello"},
		{"hello world", 5, "hello world"},
		{"", 3, "   "},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.length); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestShortIDAndFormatValue(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID short = %q", got)
	}
	if got := formatValue(72); got != "72" {
		t.Errorf("formatValue(72) = %q", got)
	}
	if got := formatValue(7.5); got != "7.5" {
		t.Errorf("formatValue(7.5) = %q", got)
	}
}

func TestFilterMetrics(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	ms := []models.HealthMetric{
		{ID: "a", Type: models.MetricSteps, Timestamp: base},
		{ID: "b", Type: models.MetricHeartRate, Timestamp: base.Add(time.Hour)},
		{ID: "c", Type: models.MetricSteps, Timestamp: base.Add(2 * time.Hour)},
	}

	all := filterMetrics(ms, "", 0)
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Errorf("expected newest first, got %+v", all)
	}

	steps := filterMetrics(ms, models.MetricSteps, 0)
	if len(steps) != 2 || steps[0].ID != "c" {
		t.Errorf("expected 2 steps newest first, got %+v", steps)
	}

	limited := filterMetrics(ms, "", 1)
	if len(limited) != 1 || limited[0].ID != "c" {
		t.Errorf("expected only newest, got %+v", limited)
	}

	if ms[0].ID != "a" {
		t.Error("filterMetrics must not reorder its input")
	}
}

func TestMetricTypeList(t *testing.T) {
	list := metricTypeList()
	for _, mt := range models.AllMetricTypes {
		if !strings.Contains(list, string(mt)) {
			t.Errorf("metricTypeList missing %s", mt)
		}
	}
}

func TestRootCmdFlags(t *testing.T) {
	if rootCmd.Use != "healthai" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "healthai")
	}
	for _, name := range []string{"config", "backend", "email", "password"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected --%s persistent flag", name)
		}
	}
}

func TestAddCmdFlags(t *testing.T) {
	for _, name := range []string{"at", "unit", "source"} {
		if addCmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected --%s flag on add command", name)
		}
	}
	if def := addCmd.Flags().Lookup("source").DefValue; def != "CLI" {
		t.Errorf("Expected default source CLI, got %s", def)
	}
}

func TestListCmdFlags(t *testing.T) {
	limitFlag := listCmd.Flags().Lookup("limit")
	if limitFlag == nil {
		t.Fatal("Expected --limit flag on list command")
	}
	if limitFlag.DefValue != "20" {
		t.Errorf("Expected default limit 20, got %s", limitFlag.DefValue)
	}
	if listCmd.Flags().Lookup("analyze") == nil {
		t.Error("Expected --analyze flag on list command")
	}
}

func TestSubcommands(t *testing.T) {
	tests := map[string][]string{
		"root":     {"add", "list", "analyze", "insights", "ask", "sources", "user", "serve", "mcp", "export", "import", "config", "migrate", "sync"},
		"insights": {"generate"},
		"sources":  {"connect"},
		"user":     {"register", "whoami"},
		"config":   {"show", "path", "init"},
		"sync":     {"link", "unlink", "status", "now", "repair", "reset", "wipe"},
	}
	lookup := map[string][]string{}
	for _, c := range rootCmd.Commands() {
		lookup["root"] = append(lookup["root"], c.Name())
		for _, sub := range c.Commands() {
			lookup[c.Name()] = append(lookup[c.Name()], sub.Name())
		}
	}

	for parent, want := range tests {
		have := strings.Join(lookup[parent], ",")
		for _, name := range want {
			if !strings.Contains(","+have+",", ","+name+",") {
				t.Errorf("Expected %s subcommand %q, have %s", parent, name, have)
			}
		}
	}
}

func TestSetupSkippedForConfigCommands(t *testing.T) {
	for _, c := range []string{"show", "path", "init"} {
		cmd, _, err := rootCmd.Find([]string{"config", c})
		if err != nil {
			t.Fatalf("find config %s: %v", c, err)
		}
		if cmd.Annotations[skipSetup] != "true" {
			t.Errorf("config %s should skip storage setup", c)
		}
	}
}

// execute runs the CLI against a private sqlite data directory.
func execute(t *testing.T, dataDir string, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HEALTHAI_BACKEND", "sqlite")
	t.Setenv("HEALTHAI_DATA_DIR", dataDir)
	t.Setenv("HEALTHAI_LOG_LEVEL", "error")

	configPath, backendFlag, userEmail, userPassword = "", "", "", ""
	exportOutput = ""
	listType, listLimit, listAnalyze = "", 20, false
	addAt, addUnit, addSource = "", "", "CLI"
	migrateTo, migrateDryRun, migrateForce = "", false, false

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if current != nil {
		// PersistentPostRunE is skipped when RunE fails.
		_ = current.kv.Close()
		current = nil
	}
	return err
}

func TestAddAndExportEndToEnd(t *testing.T) {
	dataDir := t.TempDir()

	if err := execute(t, dataDir, "add", "heart_rate", "64"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := execute(t, dataDir, "list", "--analyze"); err != nil {
		t.Fatalf("list: %v", err)
	}

	out := filepath.Join(t.TempDir(), "backup.json")
	if err := execute(t, dataDir, "export", "json", "-o", out); err != nil {
		t.Fatalf("export: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	doc, err := storage.ParseExport(raw)
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if doc.UserID != models.DemoUserID {
		t.Errorf("export user = %q, want demo user", doc.UserID)
	}

	found := false
	for _, m := range doc.Metrics {
		if m.Type == models.MetricHeartRate && m.Value == 64 && m.Source == "CLI" && m.Unit == "bpm" {
			found = true
		}
	}
	if !found {
		t.Error("exported document missing the added heart_rate metric")
	}
}

func TestRegisterAndActAsUser(t *testing.T) {
	dataDir := t.TempDir()

	if err := execute(t, dataDir, "user", "register", "ada@example.com", "Ada", "--password", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := execute(t, dataDir, "user", "register", "ADA@example.com", "Ada", "--password", "secret1"); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if err := execute(t, dataDir, "--email", "ada@example.com", "--password", "secret1", "add", "steps", "1200"); err != nil {
		t.Fatalf("add as user: %v", err)
	}
	if err := execute(t, dataDir, "--email", "nobody@example.com", "--password", "secret1", "list"); err == nil {
		t.Error("expected unknown account to fail")
	}
}

func TestAddRejectsUnknownType(t *testing.T) {
	err := execute(t, t.TempDir(), "add", "glucose", "5")
	if err == nil || !strings.Contains(err.Error(), "unknown metric type") {
		t.Errorf("expected unknown metric type error, got %v", err)
	}
}

func TestMigrateRejectsSameBackend(t *testing.T) {
	err := execute(t, t.TempDir(), "migrate", "--to", "sqlite")
	if err == nil || !strings.Contains(err.Error(), "same as the source") {
		t.Errorf("expected same-backend error, got %v", err)
	}
}

func TestHasData(t *testing.T) {
	dir := t.TempDir()

	if got, err := hasData(""); got || err != nil {
		t.Errorf("hasData(\"\") = %v, %v", got, err)
	}
	if got, err := hasData(filepath.Join(dir, "missing")); got || err != nil {
		t.Errorf("hasData(missing) = %v, %v", got, err)
	}

	badger := filepath.Join(dir, "badger")
	if err := os.MkdirAll(badger, 0750); err != nil {
		t.Fatal(err)
	}
	if got, _ := hasData(badger); got {
		t.Error("empty directory should not count as data")
	}
	if err := os.WriteFile(filepath.Join(badger, "MANIFEST"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if got, _ := hasData(badger); !got {
		t.Error("non-empty directory should count as data")
	}

	db := filepath.Join(dir, "healthai.db")
	if err := os.WriteFile(db, []byte("sqlite"), 0600); err != nil {
		t.Fatal(err)
	}
	if got, _ := hasData(db); !got {
		t.Error("non-empty file should count as data")
	}
}

func TestMigrateRefusesPopulatedDestination(t *testing.T) {
	dataDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dataDir, "badger"), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "badger", "MANIFEST"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	err := execute(t, dataDir, "migrate", "--to", "badger")
	if err == nil || !strings.Contains(err.Error(), "--force") {
		t.Errorf("expected populated destination error, got %v", err)
	}
}
