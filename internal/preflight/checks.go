package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"subocr/internal/config"
	"subocr/internal/deps"
	"subocr/internal/language"
	"subocr/internal/services/tesseract"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckPgsrip verifies that the pgsrip command resolves to an executable.
func CheckPgsrip(command string) Result {
	const name = "pgsrip"

	statuses := deps.CheckBinaries([]deps.Requirement{{Name: name, Command: command}})
	status := statuses[0]
	if !status.Available {
		return Result{Name: name, Detail: status.Detail}
	}
	return Result{Name: name, Passed: true, Detail: status.Command}
}

// CheckTesseract verifies the Tesseract binary and whether the configured
// OCR language is installed. A reachable binary without the language still
// passes but carries a warning; pgsrip may be pointed at a different
// tessdata directory at rip time.
func CheckTesseract(ctx context.Context, command, ocrLanguage string) Result {
	const name = "Tesseract"

	client, err := tesseract.New(command)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	inspection, err := client.Inspect(ctx, ocrLanguage)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if !inspection.HasLanguage {
		return Result{
			Name:    name,
			Passed:  true,
			Warning: true,
			Detail:  fmt.Sprintf("%s (language %q not installed)", inspection.Version, ocrLanguage),
		}
	}
	return Result{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("%s (%s available)", inspection.Version, ocrLanguage),
	}
}

// CheckTessdata verifies that the traineddata file for the OCR language
// exists in the configured tessdata directory.
func CheckTessdata(dir, ocrLanguage string) Result {
	const name = "Tessdata"

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a directory)", dir)}
	}
	file := filepath.Join(dir, language.TrainedDataFile(ocrLanguage))
	if _, err := os.Stat(file); err != nil {
		return Result{
			Name:    name,
			Passed:  true,
			Warning: true,
			Detail:  fmt.Sprintf("%s missing (run 'subocr models download')", file),
		}
	}
	return Result{Name: name, Passed: true, Detail: file}
}

// CheckMKVToolNix verifies that mkvmerge and mkvextract resolve. pgsrip
// needs both to demux PGS streams out of Matroska containers.
func CheckMKVToolNix(mkvmerge, mkvextract string) Result {
	const name = "MKVToolNix"

	statuses := deps.CheckBinaries([]deps.Requirement{
		{Name: "mkvmerge", Command: mkvmerge},
		{Name: "mkvextract", Command: mkvextract},
	})
	var missing []string
	for _, status := range statuses {
		if !status.Available {
			missing = append(missing, status.Name)
		}
	}
	if len(missing) > 0 {
		return Result{Name: name, Detail: fmt.Sprintf("missing: %s", strings.Join(missing, ", "))}
	}
	return Result{Name: name, Passed: true, Detail: "mkvmerge and mkvextract found"}
}

// CheckSystemDeps evaluates all external binaries for the given config.
// The status command and batch preflight both use this to avoid
// duplicating the requirements list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "pgsrip",
			Command:     cfg.Tools.PgsripCommand,
			Description: "Required for PGS subtitle extraction and OCR",
		},
		{
			Name:        "Tesseract",
			Command:     cfg.Tools.TesseractPath,
			Description: "Required for OCR of subtitle images",
		},
		{
			Name:        "mkvmerge",
			Command:     cfg.MkvmergeBinary(),
			Description: "Required for Matroska stream inspection",
		},
		{
			Name:        "mkvextract",
			Command:     cfg.MkvextractBinary(),
			Description: "Required for PGS stream demuxing",
		},
	}
	return deps.CheckBinaries(requirements)
}
