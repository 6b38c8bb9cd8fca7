package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	appcontext "github.com/SeakMengs/FontPoster/internal/app_context"
	"github.com/SeakMengs/FontPoster/internal/config"
	"github.com/SeakMengs/FontPoster/internal/env"
	filestorage "github.com/SeakMengs/FontPoster/internal/file_storage"
	"github.com/SeakMengs/FontPoster/internal/util"
	"github.com/SeakMengs/FontPoster/pkg/fontposter"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

type browser interface {
	fontposter.Screenshotter
	Close() error
}

type browserLauncher func(ctx context.Context) (browser, error)

func main() {
	cfg := config.GetConfig()

	logger := util.NewRunLogger(cfg.ENV, uuid.NewString())
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logInvalidConfig(logger, err)
		logger.Fatalf("Invalid configuration: %v", err)
	}
	logger.Debugw("Configuration", "paths", cfg.Paths, "poster", cfg.Poster, "browser", cfg.Browser, "publish", cfg.Minio.ENABLED)

	app := &appcontext.Application{
		Config:  &cfg,
		Logger:  logger,
		Console: util.NewStdoutConsole(),
	}

	if cfg.Minio.ENABLED {
		s3, err := filestorage.NewMinioClient(&cfg.Minio)
		if err != nil {
			logger.Fatalf("Error connecting to minio: %v", err)
		}
		app.S3 = s3
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	launch := func(ctx context.Context) (browser, error) {
		return fontposter.NewRodBrowser(ctx, fontposter.BrowserOptions{
			Bin:       cfg.Browser.Bin,
			NoSandbox: cfg.Browser.NoSandbox,
		})
	}

	if err := run(ctx, app, ParseArgs(os.Args[1:]), launch); err != nil {
		stop()
		logger.Fatalf("Font poster generation failed: %v", err)
	}
}

// One line per invalid field so every problem shows up in a single run.
func logInvalidConfig(logger *zap.SugaredLogger, err error) {
	var ve *config.ValidationError
	if !errors.As(err, &ve) {
		return
	}
	for _, f := range ve.Fields {
		logger.Errorw("Invalid configuration", "field", f.Field, "message", f.Message)
	}
}

func generatorConfig(cfg *config.Config) fontposter.Config {
	return fontposter.Config{
		FontDir:  cfg.Paths.FontDir,
		SiteRoot: cfg.Paths.SiteRoot,
		ImageDir: cfg.Paths.ImageDir,
		HTMLPath: cfg.Paths.HTMLPath,
		Capture: fontposter.CaptureOptions{
			Viewport: fontposter.Viewport{
				Width:             cfg.Poster.Width,
				Height:            cfg.Poster.Height,
				DeviceScaleFactor: 1,
			},
			JPEGQuality: cfg.Poster.JPEGQuality,
		},
	}
}

// Metadata is loaded once here, threaded through the generator and written
// back only when the whole run succeeded.
func run(ctx context.Context, app *appcontext.Application, inv Invocation, launch browserLauncher) error {
	if inv.Mode == ModeUsage {
		app.Console.Usage()
		return nil
	}

	metadataPath := app.Config.Paths.MetadataPath
	records, err := fontposter.LoadFontRecords(metadataPath)
	if err != nil {
		return err
	}
	app.Logger.Debugf("Loaded %d font records from %q", len(records), metadataPath)

	b, err := launch(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			app.Logger.Warnf("Failed to close browser: %v", err)
		}
	}()

	gen := fontposter.NewPosterGenerator(generatorConfig(app.Config), b, app.Console, app.Logger)

	var res *fontposter.GenerateResult
	switch inv.Mode {
	case ModeSingle:
		res, err = gen.GenerateOne(ctx, records, inv.FontPath)
	case ModeBatch:
		res, err = gen.GenerateAll(ctx, records)
	default:
		return fmt.Errorf("unknown mode %d", inv.Mode)
	}
	if err != nil {
		return err
	}
	if res == nil {
		return nil
	}

	if err := fontposter.SaveFontRecords(metadataPath, res.Records); err != nil {
		return err
	}
	app.Logger.Infof("Saved metadata for %d fonts to %q", len(res.Records), metadataPath)

	if app.S3 != nil {
		return publish(ctx, app, res, inv.Mode)
	}

	return nil
}
