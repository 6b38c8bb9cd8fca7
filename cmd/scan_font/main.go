package main

import (
	"errors"
	"fmt"

	"github.com/SeakMengs/FontPoster/internal/config"
	"github.com/SeakMengs/FontPoster/internal/env"
	"github.com/SeakMengs/FontPoster/internal/util"
	"github.com/SeakMengs/FontPoster/pkg/fontposter"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

// Rebuild the font metadata from the font directory without rendering any
// poster. Useful after moving fonts around when the posters are still valid.
func main() {
	cfg := config.GetConfig()
	logger := util.NewLogger(cfg.ENV)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		var ve *config.ValidationError
		if errors.As(err, &ve) {
			for _, f := range ve.Fields {
				logger.Errorw("Invalid configuration", "field", f.Field, "message", f.Message)
			}
		}
		logger.Fatalf("Invalid configuration: %v", err)
	}

	previous, err := fontposter.LoadFontRecords(cfg.Paths.MetadataPath)
	if err != nil {
		logger.Fatalf("Failed to load font metadata: %v", err)
	}

	files, err := fontposter.ScanFontDir(cfg.Paths.FontDir)
	if err != nil {
		logger.Fatalf("Failed to scan font directory: %v", err)
	}

	discovered := make([]fontposter.FontRecord, 0, len(files))
	for _, f := range files {
		name := fontposter.FontNameFromPath(f)
		if name == "" {
			continue
		}
		discovered = append(discovered, fontposter.FontRecord{
			Name: name,
			Path: fontposter.RecordPath(cfg.Paths.SiteRoot, f),
		})
	}

	fonts := fontposter.RebuildFontRecords(previous, discovered)
	if err := fontposter.SaveFontRecords(cfg.Paths.MetadataPath, fonts); err != nil {
		logger.Fatalf("Failed to write font metadata: %v", err)
	}

	fmt.Printf("Saved metadata for %d fonts to %q\n", len(fonts), cfg.Paths.MetadataPath)
}
