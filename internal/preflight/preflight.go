package preflight

import (
	"context"

	"subocr/internal/config"
)

// Result reports the outcome of a single preflight check. Warning marks a
// passing check with a caveat worth surfacing, such as a missing OCR
// language that pgsrip would only trip over at rip time.
type Result struct {
	Name    string
	Passed  bool
	Warning bool
	Detail  string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Input directory", cfg.Paths.InputDir))
	results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	results = append(results, CheckPgsrip(cfg.Tools.PgsripCommand))
	results = append(results, CheckTesseract(ctx, cfg.Tools.TesseractPath, cfg.Languages.OCRLanguage))

	if cfg.Tools.TessdataDir != "" {
		results = append(results, CheckTessdata(cfg.Tools.TessdataDir, cfg.Languages.OCRLanguage))
	}

	results = append(results, CheckMKVToolNix(cfg.MkvmergeBinary(), cfg.MkvextractBinary()))

	return results
}

// Passed reports whether every result passed, warnings included.
func Passed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
