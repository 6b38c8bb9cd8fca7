package config

import (
	"strings"

	"github.com/SeakMengs/FontPoster/internal/env"
	"github.com/SeakMengs/FontPoster/internal/util"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	ENV     string `validate:"required"`
	Paths   PathConfig
	Poster  PosterConfig
	Browser BrowserConfig
	Minio   MinioConfig
}

type PathConfig struct {
	// Root directory scanned for fonts in batch mode
	FontDir string `validate:"required"`
	// Persisted font paths are relative to this directory
	SiteRoot string `validate:"required"`
	// Poster images are written here, it is emptied at the start of batch mode
	ImageDir string `validate:"required"`
	// JSON array of font records
	MetadataPath string `validate:"required"`
	// Transient HTML page loaded by the browser, overwritten for every font
	HTMLPath string `validate:"required"`
}

type PosterConfig struct {
	Width       int `validate:"gt=0"`
	Height      int `validate:"gt=0"`
	JPEGQuality int `validate:"gte=1,lte=100"`
}

type BrowserConfig struct {
	// Empty means let rod find or download a browser
	Bin       string
	NoSandbox bool
}

type MinioConfig struct {
	ENABLED    bool
	ENDPOINT   string `validate:"required_if=ENABLED true"`
	ACCESS_KEY string `validate:"required_if=ENABLED true"`
	SECRET_KEY string `validate:"required_if=ENABLED true"`
	USE_SSL    bool
	BUCKET     string `validate:"required_if=ENABLED true"`
	// Object key prefix, posters go under <PREFIX>/images
	PREFIX string
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.ENV, "production")
}

// ValidationError lists every invalid field of a Config.
type ValidationError struct {
	Fields []util.FieldError
	err    error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

// Validate returns a *ValidationError when any field is invalid.
func (c Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return &ValidationError{Fields: util.GenerateErrorMessages(err, nil), err: err}
	}

	return nil
}

func GetConfig() Config {
	return Config{
		ENV: env.GetString("ENV", "development"),
		Paths: PathConfig{
			FontDir:      env.GetString("FONT_DIR", "docs/fonts"),
			SiteRoot:     env.GetString("SITE_ROOT", "docs"),
			ImageDir:     env.GetString("IMAGE_DIR", "docs/images"),
			MetadataPath: env.GetString("METADATA_PATH", "scripts/data.json"),
			HTMLPath:     env.GetString("HTML_PATH", "scripts/poster.html"),
		},
		Poster: PosterConfig{
			Width:       env.GetInt("POSTER_WIDTH", 420),
			Height:      env.GetInt("POSTER_HEIGHT", 180),
			JPEGQuality: env.GetInt("POSTER_JPEG_QUALITY", 90),
		},
		Browser: BrowserConfig{
			Bin:       env.GetString("BROWSER_BIN", ""),
			NoSandbox: env.GetBool("BROWSER_NO_SANDBOX", false),
		},
		// Publishing is opt-in, by default the tool only touches the local filesystem
		Minio: MinioConfig{
			ENABLED:    env.GetBool("MINIO_ENABLED", false),
			ENDPOINT:   env.GetString("MINIO_ENDPOINT", "127.0.0.1:9000"),
			ACCESS_KEY: env.GetString("MINIO_ACCESS_KEY", ""),
			SECRET_KEY: env.GetString("MINIO_SECRET_KEY", ""),
			USE_SSL:    env.GetBool("MINIO_USE_SSL", false),
			BUCKET:     env.GetString("MINIO_BUCKET", "fontposter"),
			PREFIX:     env.GetString("MINIO_PREFIX", ""),
		},
	}
}
