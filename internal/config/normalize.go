package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTools(); err != nil {
		return err
	}
	c.normalizeLanguages()
	c.normalizeRip()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.InputDir, err = expandPath(c.Paths.InputDir); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() error {
	var err error
	c.Tools.PgsripCommand = strings.TrimSpace(c.Tools.PgsripCommand)
	if c.Tools.PgsripCommand == "" {
		c.Tools.PgsripCommand = defaultPgsripCommand
	}
	c.Tools.TesseractPath = strings.TrimSpace(c.Tools.TesseractPath)
	if c.Tools.TesseractPath == "" {
		c.Tools.TesseractPath = defaultTesseractPath
	}
	// Bare command names resolve through PATH; only expand real paths.
	if strings.ContainsAny(c.Tools.TesseractPath, "/\\~") {
		if c.Tools.TesseractPath, err = expandPath(c.Tools.TesseractPath); err != nil {
			return fmt.Errorf("tools.tesseract_path: %w", err)
		}
	}
	if dir := strings.TrimSpace(c.Tools.TessdataDir); dir != "" {
		if c.Tools.TessdataDir, err = expandPath(dir); err != nil {
			return fmt.Errorf("tools.tessdata_dir: %w", err)
		}
	} else {
		c.Tools.TessdataDir = ""
	}
	if dir := strings.TrimSpace(c.Tools.MKVToolNixDir); dir != "" {
		if c.Tools.MKVToolNixDir, err = expandPath(dir); err != nil {
			return fmt.Errorf("tools.mkvtoolnix_dir: %w", err)
		}
	} else {
		c.Tools.MKVToolNixDir = ""
	}
	return nil
}

func (c *Config) normalizeLanguages() {
	c.Languages.RipLanguage = strings.ToLower(strings.TrimSpace(c.Languages.RipLanguage))
	c.Languages.OCRLanguage = strings.ToLower(strings.TrimSpace(c.Languages.OCRLanguage))
}

func (c *Config) normalizeRip() {
	tags := make([]string, 0, len(c.Rip.Tags))
	for _, tag := range c.Rip.Tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	c.Rip.Tags = tags
	if c.Rip.MaxWorkers <= 0 {
		c.Rip.MaxWorkers = defaultMaxWorkers
	}
	if c.Rip.TimeoutSeconds <= 0 {
		c.Rip.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Rip.SettleMillis < 0 {
		c.Rip.SettleMillis = defaultSettleMillis
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
