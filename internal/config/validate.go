package config

import (
	"errors"
	"fmt"

	"subocr/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLanguages(); err != nil {
		return err
	}
	if err := c.validateRip(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.InputDir == "" {
		return errors.New("paths.input_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validateLanguages() error {
	if c.Languages.RipLanguage == "" {
		return errors.New("languages.rip_language must be set (IETF code, e.g. \"en\")")
	}
	if !language.Valid(c.Languages.RipLanguage) {
		return fmt.Errorf("languages.rip_language %q is not a recognized language code", c.Languages.RipLanguage)
	}
	if c.Languages.OCRLanguage == "" {
		return errors.New("languages.ocr_language must be set (Tesseract code, e.g. \"eng\")")
	}
	if !language.Valid(c.Languages.OCRLanguage) {
		return fmt.Errorf("languages.ocr_language %q is not a recognized language code", c.Languages.OCRLanguage)
	}
	return nil
}

func (c *Config) validateRip() error {
	if c.Rip.MaxWorkers < 1 {
		return errors.New("rip.max_workers must be at least 1")
	}
	if c.Rip.TimeoutSeconds < 1 {
		return errors.New("rip.timeout_seconds must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
