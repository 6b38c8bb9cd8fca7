package fontposter

type Config struct {
	// Directory scanned for fonts in batch mode
	FontDir string
	// Persisted font paths are relative to this directory
	SiteRoot string
	// Directory where posters are written, emptied at the start of batch mode
	ImageDir string
	// Transient HTML page loaded by the browser, overwritten for every font and never removed
	HTMLPath string
	Capture  CaptureOptions
}

func NewDefaultConfig() *Config {
	return &Config{
		FontDir:  "docs/fonts",
		SiteRoot: "docs",
		ImageDir: "docs/images",
		HTMLPath: "scripts/poster.html",
		Capture: CaptureOptions{
			Viewport: Viewport{
				Width:             420,
				Height:            180,
				DeviceScaleFactor: 1,
			},
			JPEGQuality: 90,
		},
	}
}
