package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	InputDir  string `toml:"input_dir"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Languages contains the subtitle language selection. RipLanguage is the
// IETF code handed to pgsrip (en, ro); OCRLanguage is the Tesseract code
// (eng, ron) used for traineddata lookups.
type Languages struct {
	RipLanguage string `toml:"rip_language"`
	OCRLanguage string `toml:"ocr_language"`
}

// Tools contains locations of the external binaries and data directories.
type Tools struct {
	PgsripCommand string `toml:"pgsrip_command"`
	TesseractPath string `toml:"tesseract_path"`
	TessdataDir   string `toml:"tessdata_dir"`
	MKVToolNixDir string `toml:"mkvtoolnix_dir"`
}

// Rip contains flags passed through to the pgsrip invocation. MaxWorkers
// controls pgsrip's own internal parallelism; subocr itself runs one
// external process at a time.
type Rip struct {
	Tags           []string `toml:"tags"`
	MaxWorkers     int      `toml:"max_workers"`
	Force          bool     `toml:"force"`
	RipAll         bool     `toml:"rip_all"`
	DebugVerbose   bool     `toml:"debug_verbose"`
	KeepTemp       bool     `toml:"keep_temp"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	SettleMillis   int      `toml:"settle_ms"`
}

// Models configures where traineddata archives are downloaded from.
type Models struct {
	GitHubOwner string `toml:"github_owner"`
	GitHubRepo  string `toml:"github_repo"`
	AssetName   string `toml:"asset_name"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for subocr.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Languages Languages `toml:"languages"`
	Tools     Tools     `toml:"tools"`
	Rip       Rip       `toml:"rip"`
	Models    Models    `toml:"models"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/subocr/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second and third
// return values report the resolved path and whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Write persists the configuration as TOML at path, creating parent
// directories as needed.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Dump encodes the configuration as TOML to w.
func (c *Config) Dump(w io.Writer) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// WriteSample writes the commented sample configuration to path. It refuses
// to overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("subocr.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the input, output, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.InputDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// MkvmergeBinary returns the expected mkvmerge executable path inside the
// configured MKVToolNix directory.
func (c *Config) MkvmergeBinary() string {
	return filepath.Join(c.Tools.MKVToolNixDir, "mkvmerge")
}

// MkvextractBinary returns the expected mkvextract executable path inside
// the configured MKVToolNix directory.
func (c *Config) MkvextractBinary() string {
	return filepath.Join(c.Tools.MKVToolNixDir, "mkvextract")
}

// applyEnvOverrides honours the environment variables the original tooling
// used, taking precedence over file contents.
func (c *Config) applyEnvOverrides() {
	overrides := []struct {
		key    string
		target *string
	}{
		{"INPUT_DIR", &c.Paths.InputDir},
		{"OUTPUT_DIR", &c.Paths.OutputDir},
		{"LOG_DIR", &c.Paths.LogDir},
		{"PGSRIP_LANG", &c.Languages.RipLanguage},
		{"TESS_LANG", &c.Languages.OCRLanguage},
		{"TESSERACT_EXE", &c.Tools.TesseractPath},
		{"TESSDATA_PREFIX", &c.Tools.TessdataDir},
		{"MKVTOOLNIX_DIR", &c.Tools.MKVToolNixDir},
	}
	for _, o := range overrides {
		if value := strings.TrimSpace(os.Getenv(o.key)); value != "" {
			*o.target = value
		}
	}
}

// ExpandPath expands a leading ~ and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
