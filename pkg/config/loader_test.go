package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const minimalYAML = `
database:
  driver: sqlite
  database: ./accounts.db
template:
  path: ./welcome_letter_draft.docx
output:
  dir: ./letters
`

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "welcomer.yaml")
	if err := os.WriteFile(configFile, []byte(minimalYAML), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	cfg, err := LoadConfigFile(configFile)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Database.DriverName() != "sqlite3" {
		t.Errorf("expected driver name sqlite3, got %s", cfg.Database.DriverName())
	}
	if cfg.Database.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %s", cfg.Database.Timeout)
	}
	if cfg.Template.FontSize != 9 {
		t.Errorf("expected default font size 9, got %v", cfg.Template.FontSize)
	}
	if cfg.Template.CellNormalization != "all" {
		t.Errorf("expected cell normalization all, got %s", cfg.Template.CellNormalization)
	}
	if cfg.Output.Prefix != "welcome_letter_" {
		t.Errorf("unexpected prefix %q", cfg.Output.Prefix)
	}
	if cfg.Letter.CountryCode != "+91" || cfg.Letter.Currency != "Rs." {
		t.Errorf("unexpected letter defaults %+v", cfg.Letter)
	}
	if cfg.Batch.Workers != 1 {
		t.Errorf("expected 1 worker, got %d", cfg.Batch.Workers)
	}
	if cfg.Logger.Level != "info" || cfg.Logger.Format != "simple" {
		t.Errorf("unexpected logger defaults %+v", cfg.Logger)
	}
}

func TestLoadConfigFile_NotFound(t *testing.T) {
	if _, err := LoadConfigFile("/nonexistent/welcomer.yaml"); err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := Load([]byte("database: [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_JSON(t *testing.T) {
	data := `{"database":{"driver":"sqlite","database":"a.db"},"template":{"path":"t.docx"},"output":{"dir":"out"}}`
	cfg, err := Load([]byte(data))
	if err != nil {
		t.Fatalf("failed to load JSON config: %v", err)
	}
	if cfg.Template.Path != "t.docx" {
		t.Errorf("expected template path t.docx, got %s", cfg.Template.Path)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	_, err := Load([]byte(minimalYAML + "colour: blue\n"))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("WELCOMER_TEST_HOST", "db.internal")
	t.Setenv("WELCOMER_TEST_PASSWORD", "s3cret")

	data := `
database:
  driver: sqlserver
  host: ${WELCOMER_TEST_HOST}
  database: IntegraLive
  username: ${WELCOMER_TEST_USER:-reporting}
  password: $WELCOMER_TEST_PASSWORD
  timeout: 5s
template:
  path: t.docx
output:
  dir: out
batch:
  workers: "4"
`
	cfg, err := Load([]byte(data))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Database.Host != "db.internal" {
		t.Errorf("expected expanded host, got %q", cfg.Database.Host)
	}
	if cfg.Database.Username != "reporting" {
		t.Errorf("expected default username, got %q", cfg.Database.Username)
	}
	if cfg.Database.Password != "s3cret" {
		t.Errorf("expected expanded password, got %q", cfg.Database.Password)
	}
	if cfg.Database.Port != 1433 {
		t.Errorf("expected default sqlserver port, got %d", cfg.Database.Port)
	}
	if cfg.Database.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %s", cfg.Database.Timeout)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Batch.Workers)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing driver",
			yaml:    "template: {path: t.docx}\noutput: {dir: out}\n",
			wantErr: "database: driver is required",
		},
		{
			name:    "missing host",
			yaml:    "database: {driver: postgres, database: x}\ntemplate: {path: t.docx}\noutput: {dir: out}\n",
			wantErr: "host is required",
		},
		{
			name:    "missing template",
			yaml:    "database: {driver: sqlite, database: x}\noutput: {dir: out}\n",
			wantErr: "template: path is required",
		},
		{
			name:    "missing output",
			yaml:    "database: {driver: sqlite, database: x}\ntemplate: {path: t.docx}\n",
			wantErr: "output: dir is required",
		},
		{
			name:    "bad cell normalization",
			yaml:    "database: {driver: sqlite, database: x}\ntemplate: {path: t.docx, cell_normalization: some}\noutput: {dir: out}\n",
			wantErr: "invalid cell_normalization",
		},
		{
			name:    "bad driver",
			yaml:    "database: {driver: oracle, database: x}\ntemplate: {path: t.docx}\noutput: {dir: out}\n",
			wantErr: "invalid driver",
		},
		{
			name:    "bad log level",
			yaml:    minimalYAML + "logger: {level: loud}\n",
			wantErr: "invalid log level",
		},
		{
			name:    "bad log format",
			yaml:    minimalYAML + "logger: {format: json}\n",
			wantErr: "logger: invalid log format",
		},
		{
			name:    "bad exporter",
			yaml:    minimalYAML + "observability: {tracing: {enabled: true, exporter: zipkin}}\n",
			wantErr: "invalid exporter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoggerConfig_Validate(t *testing.T) {
	valid := []LoggerConfig{
		{},
		{Level: "debug", Format: "verbose"},
		{Level: "WARNING", Format: "colored"},
		{Level: "error", Format: "simple", File: "welcomer.log"},
	}
	for _, c := range valid {
		if err := c.Validate(); err != nil {
			t.Errorf("expected %+v to be valid, got %v", c, err)
		}
	}

	invalid := []LoggerConfig{
		{Level: "trace"},
		{Format: "json"},
		{Format: "Verbose"},
	}
	for _, c := range invalid {
		if err := c.Validate(); err == nil {
			t.Errorf("expected %+v to be rejected", c)
		}
	}
}

func TestLoadDotEnvForConfig(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("WELCOMER_DOTENV_PROBE=from-file\n"), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Setenv("WELCOMER_DOTENV_PROBE", "")
	os.Unsetenv("WELCOMER_DOTENV_PROBE")

	if err := LoadDotEnvForConfig(filepath.Join(tmpDir, "welcomer.yaml")); err != nil {
		t.Fatalf("LoadDotEnvForConfig failed: %v", err)
	}
	if got := os.Getenv("WELCOMER_DOTENV_PROBE"); got != "from-file" {
		t.Errorf("expected variable from .env, got %q", got)
	}
}
