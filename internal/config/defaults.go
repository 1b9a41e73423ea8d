package config

const (
	defaultInputDir       = "~/subocr/input"
	defaultOutputDir      = "~/subocr/output"
	defaultLogDir         = "~/.local/share/subocr/logs"
	defaultRipLanguage    = "en"
	defaultOCRLanguage    = "eng"
	defaultPgsripCommand  = "pgsrip"
	defaultTesseractPath  = "tesseract"
	defaultMaxWorkers     = 4
	defaultTimeoutSeconds = 3600
	defaultSettleMillis   = 500
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultModelsOwner    = "ProXtech-pro"
	defaultModelsRepo     = "Subtitle_ocr"
	defaultModelsAsset    = "tessdata_best_min.zip"
)

func defaultTags() []string {
	return []string{"ocr", "tidy", "no-sdh", "no-style"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:  defaultInputDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Languages: Languages{
			RipLanguage: defaultRipLanguage,
			OCRLanguage: defaultOCRLanguage,
		},
		Tools: Tools{
			PgsripCommand: defaultPgsripCommand,
			TesseractPath: defaultTesseractPath,
		},
		Rip: Rip{
			Tags:           defaultTags(),
			MaxWorkers:     defaultMaxWorkers,
			Force:          true,
			TimeoutSeconds: defaultTimeoutSeconds,
			SettleMillis:   defaultSettleMillis,
		},
		Models: Models{
			GitHubOwner: defaultModelsOwner,
			GitHubRepo:  defaultModelsRepo,
			AssetName:   defaultModelsAsset,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
