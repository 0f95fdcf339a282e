package config

const (
	FormatWebP = "webp"
	FormatJPEG = "jpeg"
	FormatPNG  = "png"

	ExistingReplace = "replace"
	ExistingBackup  = "backup"
	ExistingAbort   = "abort"
)

const (
	defaultLogDir           = "~/.local/share/pictowebp/logs"
	defaultStateDir         = "~/.local/share/pictowebp"
	defaultFormat           = FormatWebP
	defaultQuality          = 80
	defaultWorkers          = 16
	defaultChunkFactor      = 32
	defaultExistingOutput   = ExistingBackup
	defaultRedrawEvery      = 10
	defaultRedrawIntervalMS = 100
	defaultLogBucketPercent = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

var defaultExtensions = []string{"png", "jpg", "jpeg"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Conversion: Conversion{
			Format:         defaultFormat,
			Quality:        defaultQuality,
			Workers:        defaultWorkers,
			ChunkFactor:    defaultChunkFactor,
			Extensions:     append([]string(nil), defaultExtensions...),
			ExistingOutput: defaultExistingOutput,
		},
		Progress: Progress{
			RedrawEvery:      defaultRedrawEvery,
			RedrawIntervalMS: defaultRedrawIntervalMS,
			LogBucketPercent: defaultLogBucketPercent,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
