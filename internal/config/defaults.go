package config

const (
	defaultWorkDir             = "~/.local/share/speakerscript/work"
	defaultStateDir            = "~/.local/state/speakerscript"
	defaultTranscriptionModel  = "large-v3"
	defaultTranscriptionLang   = "fr"
	defaultVADMethod           = "silero"
	defaultDiarizationModel    = "pyannote/speaker-diarization-3.1"
	defaultSpeakerOrder        = "label"
	defaultNoOverlap           = "nearest"
	defaultFormat              = "text"
	defaultHistoryEnabled      = true
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultConfigRelativePath  = "~/.config/speakerscript/config.toml"
	projectConfigFilename      = "speakerscript.toml"
	historyDatabaseFilename    = "history.db"
	defaultFFmpegBinary        = "ffmpeg"
	defaultUVXBinary           = "uvx"
	defaultFFprobeBinary       = "ffprobe"
	dotEnvFilename             = ".env"
	defaultTranscriptExtension = ".txt"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:  defaultWorkDir,
			StateDir: defaultStateDir,
		},
		Transcription: Transcription{
			Model:     defaultTranscriptionModel,
			Language:  defaultTranscriptionLang,
			VADMethod: defaultVADMethod,
		},
		Diarization: Diarization{
			Model: defaultDiarizationModel,
		},
		Align: Align{
			SpeakerOrder: defaultSpeakerOrder,
			NoOverlap:    defaultNoOverlap,
			Format:       defaultFormat,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
