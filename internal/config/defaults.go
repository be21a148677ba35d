package config

const (
	defaultDataDir   = "~/.local/share/aurapin"
	defaultImagesDir = "~/.local/share/aurapin/images"
	defaultLogDir    = "~/.local/share/aurapin/logs"

	defaultFeedTimeoutSeconds = 60

	defaultDisclaimer   = "#Ad #CommissionsEarned"
	defaultHashtagCount = 3

	defaultGenerationBaseURL        = "https://api.openai.com/v1/chat/completions"
	defaultGenerationModel          = "gpt-4o-mini"
	defaultGenerationTimeoutSeconds = 30

	defaultImageTargetWidth    = 1000
	defaultImageTargetHeight   = 1500
	defaultImageMinWidth       = 600
	defaultImageMinHeight      = 900
	defaultImageJPEGQuality    = 85
	defaultImageTimeoutSeconds = 30

	defaultPinterestBaseURL        = "https://api.pinterest.com/v5"
	defaultPinterestTimeoutSeconds = 30

	defaultMaxProducts = 5

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

var defaultHashtagPool = []string{
	"HomeDecor",
	"InteriorDesign",
	"DreamHome",
	"HomeInspo",
	"AffiliateMarketing",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			ImagesDir: defaultImagesDir,
			LogDir:    defaultLogDir,
		},
		Feed: Feed{
			TimeoutSeconds: defaultFeedTimeoutSeconds,
		},
		Content: Content{
			Disclaimer:   defaultDisclaimer,
			HashtagPool:  append([]string{}, defaultHashtagPool...),
			HashtagCount: defaultHashtagCount,
		},
		Generation: Generation{
			BaseURL:        defaultGenerationBaseURL,
			Model:          defaultGenerationModel,
			TimeoutSeconds: defaultGenerationTimeoutSeconds,
		},
		Images: Images{
			TargetWidth:    defaultImageTargetWidth,
			TargetHeight:   defaultImageTargetHeight,
			MinWidth:       defaultImageMinWidth,
			MinHeight:      defaultImageMinHeight,
			JPEGQuality:    defaultImageJPEGQuality,
			TimeoutSeconds: defaultImageTimeoutSeconds,
		},
		Pinterest: Pinterest{
			BaseURL:        defaultPinterestBaseURL,
			TimeoutSeconds: defaultPinterestTimeoutSeconds,
		},
		Curation: Curation{
			MaxProducts: defaultMaxProducts,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
