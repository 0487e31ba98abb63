package config

const (
	defaultStateDir               = "~/.local/share/diarist"
	defaultLogDir                 = "~/.local/share/diarist/logs"
	defaultAssemblyAIBaseURL      = "https://api.assemblyai.com"
	defaultAssemblyAITimeout      = 60
	defaultPollIntervalSeconds    = 5
	defaultMaxTransientRetries    = 3
	defaultDocumentTitle          = "Speaker-Tagged Transcript"
	defaultPageSize               = PageSizeLetter
	defaultMargin                 = 72
	defaultLineHeight             = 14
	defaultTitleGap               = 24
	defaultTitleFont              = "Helvetica"
	defaultTitleFontStyle         = "B"
	defaultTitleFontSize          = 14
	defaultBodyFont               = "Helvetica"
	defaultBodyFontSize           = 10
	defaultFFmpegBinary           = "ffmpeg"
	defaultCaptureSampleRate      = 16000
	defaultCaptureChannels        = 1
	defaultRecordingRetentionHrs  = 168
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultConfigPathValue        = "~/.config/diarist/config.toml"
	defaultProjectConfigFile      = "diarist.toml"
	defaultEnvFileInConfigDir     = "~/.config/diarist/.env"
	defaultProjectEnvFile         = ".env"
	credentialEnvPrimary          = "AAI_TOKEN"
	credentialEnvSecondary        = "ASSEMBLYAI_API_KEY"
	envFileOverrideVariable       = "DIARIST_ENV"
	defaultHistoryDatabaseName    = "history.db"
	defaultRunLockName            = "diarist.lock"
	defaultLogFileName            = "diarist.log"
	defaultRecordingDirectoryName = "recordings"
)

// Page size names accepted by document.page_size.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		AssemblyAI: AssemblyAI{
			BaseURL:        defaultAssemblyAIBaseURL,
			TimeoutSeconds: defaultAssemblyAITimeout,
		},
		Jobs: Jobs{
			PollIntervalSeconds: defaultPollIntervalSeconds,
			MaxTransientRetries: defaultMaxTransientRetries,
		},
		Document: Document{
			Title:          defaultDocumentTitle,
			PageSize:       defaultPageSize,
			Margin:         defaultMargin,
			LineHeight:     defaultLineHeight,
			TitleGap:       defaultTitleGap,
			TitleFont:      defaultTitleFont,
			TitleFontStyle: defaultTitleFontStyle,
			TitleFontSize:  defaultTitleFontSize,
			BodyFont:       defaultBodyFont,
			BodyFontSize:   defaultBodyFontSize,
		},
		Capture: Capture{
			FFmpegBinary:   defaultFFmpegBinary,
			SampleRate:     defaultCaptureSampleRate,
			Channels:       defaultCaptureChannels,
			RetentionHours: defaultRecordingRetentionHrs,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
