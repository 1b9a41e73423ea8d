package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"subocr/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// tesseractStub answers the probes the preflight checks issue.
const tesseractStub = `#!/bin/sh
case "$1" in
--version)
	echo 'tesseract 5.3.4'
	exit 0
	;;
--list-langs)
	echo 'List of available languages (2):'
	echo 'eng'
	echo 'osd'
	exit 0
	;;
esac
exit 1
`

// NewConfig produces a config seeded with unique temp directories per test.
// Input, output, and log directories are created, and the external binaries
// (pgsrip, tesseract, mkvmerge, mkvextract) are stubbed inside the temp
// tree so preflight checks pass without a real installation.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.InputDir = filepath.Join(base, "input")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Tools.TessdataDir = ""

	for _, dir := range []string{cfgVal.Paths.InputDir, cfgVal.Paths.OutputDir, cfgVal.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	binDir := filepath.Join(base, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	exitZero := []byte("#!/bin/sh\nexit 0\n")
	for _, name := range []string{"pgsrip", "mkvmerge", "mkvextract"} {
		if err := os.WriteFile(filepath.Join(binDir, name), exitZero, 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(binDir, "tesseract"), []byte(tesseractStub), 0o755); err != nil {
		t.Fatalf("write stub tesseract: %v", err)
	}
	cfgVal.Tools.PgsripCommand = filepath.Join(binDir, "pgsrip")
	cfgVal.Tools.TesseractPath = filepath.Join(binDir, "tesseract")
	cfgVal.Tools.MKVToolNixDir = binDir

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLanguages sets the rip and OCR language codes on the test config.
func WithLanguages(rip, ocr string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Languages.RipLanguage = rip
		b.cfg.Languages.OCRLanguage = ocr
	}
}

// WithTessdataDir points the test config at a tessdata directory.
func WithTessdataDir(dir string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tools.TessdataDir = dir
	}
}

// WithRipTimeout overrides the pgsrip timeout on the test config.
func WithRipTimeout(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Rip.TimeoutSeconds = seconds
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.InputDir)
}

// BinDir returns the stub binary directory backing the generated config.
func BinDir(cfg *config.Config) string {
	return cfg.Tools.MKVToolNixDir
}
