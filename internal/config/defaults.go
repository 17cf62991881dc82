package config

const (
	defaultScanRoot            = "."
	defaultOutputDir           = "roms"
	defaultLogDir              = "logs"
	defaultDataDir             = ".romaudit"
	defaultBufferSizeKiB       = 1024
	defaultMmapThresholdMiB    = 10
	defaultSimilarityTolerance = 0.9
	defaultDuplicatePrefix     = "duplicates"
	defaultUnknownPrefix       = "unknown"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

func defaultStopWords() []string {
	return []string{"the", "of", "and", "a", "an", "in", "on", "at", "to", "for"}
}

func defaultAlgorithms() []string {
	return []string{"crc32", "md5", "sha1"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ScanRoot:  defaultScanRoot,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			DataDir:   defaultDataDir,
		},
		Hashing: Hashing{
			Algorithms:       defaultAlgorithms(),
			BufferSizeKiB:    defaultBufferSizeKiB,
			MmapThresholdMiB: defaultMmapThresholdMiB,
		},
		Naming: Naming{
			StopWords:           defaultStopWords(),
			SimilarityTolerance: defaultSimilarityTolerance,
		},
		Holding: Holding{
			DuplicatePrefix: defaultDuplicatePrefix,
			UnknownPrefix:   defaultUnknownPrefix,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
