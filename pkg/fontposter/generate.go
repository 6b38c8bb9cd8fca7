package fontposter

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/SeakMengs/FontPoster/internal/util"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// Reporter receives the progress lines shown to the user.
type Reporter interface {
	Success(imagePath string, fontPath string)
	Skip(fontPath string)
}

type GenerateResult struct {
	Records FontRecords
	// Poster files written during the run, in render order
	Posters []string
}

// PosterGenerator renders fonts one at a time through a single Screenshotter.
type PosterGenerator struct {
	cfg      Config
	shooter  Screenshotter
	reporter Reporter
	logger   *zap.SugaredLogger
}

func NewPosterGenerator(cfg Config, shooter Screenshotter, reporter Reporter, logger *zap.SugaredLogger) *PosterGenerator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &PosterGenerator{
		cfg:      cfg,
		shooter:  shooter,
		reporter: reporter,
		logger:   logger,
	}
}

func PosterFileName(name string) string {
	return name + "-poster.jpg"
}

func (g *PosterGenerator) PosterPath(name string) string {
	return filepath.Join(g.cfg.ImageDir, PosterFileName(name))
}

// Render the poster of one font and return the image path.
func (g *PosterGenerator) CreatePoster(ctx context.Context, fontPath string, name string) (string, error) {
	htmlPath, err := filepath.Abs(g.cfg.HTMLPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve html path: %w", err)
	}
	fontAbs, err := filepath.Abs(fontPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve font path: %w", err)
	}
	fontURL, err := filepath.Rel(filepath.Dir(htmlPath), fontAbs)
	if err != nil {
		return "", fmt.Errorf("failed to relate font to html page: %w", err)
	}

	html := GenerateHTML(filepath.ToSlash(fontURL), PosterText(name))
	if err := util.EnsureParentDir(htmlPath); err != nil {
		return "", err
	}
	if err := os.WriteFile(htmlPath, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("failed to write html page: %w", err)
	}

	g.logger.Debugw("Capturing poster", "font", fontPath, "name", name)
	img, err := g.shooter.Capture(ctx, fileURL(htmlPath), g.cfg.Capture)
	if err != nil {
		return "", fmt.Errorf("failed to capture poster of %s: %w", fontPath, err)
	}
	if mtype := mimetype.Detect(img); !mtype.Is("image/jpeg") {
		return "", fmt.Errorf("screenshot of %s is %s, expected image/jpeg", fontPath, mtype.String())
	}

	imagePath := g.PosterPath(name)
	if err := util.EnsureParentDir(imagePath); err != nil {
		return "", err
	}
	if err := os.WriteFile(imagePath, img, 0644); err != nil {
		return "", fmt.Errorf("failed to write poster: %w", err)
	}

	g.reporter.Success(filepath.ToSlash(imagePath), fontPath)
	return imagePath, nil
}

// Single mode. The record of the font is upserted into records and its poster
// rendered. A font path without a usable name leaves everything untouched and
// returns a nil result.
func (g *PosterGenerator) GenerateOne(ctx context.Context, records FontRecords, fontPath string) (*GenerateResult, error) {
	name := FontNameFromPath(fontPath)
	if name == "" {
		g.logger.Warnw("Font path has no usable name, nothing to do", "font", fontPath)
		return nil, nil
	}

	updated := records.Upsert(name, RecordPath(g.cfg.SiteRoot, fontPath))

	poster, err := g.CreatePoster(ctx, fontPath, name)
	if err != nil {
		return nil, err
	}

	return &GenerateResult{
		Records: updated,
		Posters: []string{poster},
	}, nil
}

// Batch mode. The image directory is emptied, every font under FontDir is
// rendered in discovery order and the index is rebuilt from what was found.
// The first failure stops the run.
func (g *PosterGenerator) GenerateAll(ctx context.Context, previous FontRecords) (*GenerateResult, error) {
	if err := util.EmptyDir(g.cfg.ImageDir); err != nil {
		return nil, fmt.Errorf("failed to empty image directory: %w", err)
	}

	files, err := ScanFontDir(g.cfg.FontDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan font directory: %w", err)
	}
	g.logger.Infof("Found %d font files in %s", len(files), g.cfg.FontDir)

	var discovered []FontRecord
	var posters []string
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := FontNameFromPath(file)
		if IsSkipped(name) {
			g.reporter.Skip(file)
			continue
		}
		if name == "" {
			g.logger.Warnw("Font file has no usable name, skipping", "font", file)
			continue
		}

		discovered = append(discovered, FontRecord{Name: name, Path: RecordPath(g.cfg.SiteRoot, file)})

		poster, err := g.CreatePoster(ctx, file, name)
		if err != nil {
			return nil, err
		}
		posters = append(posters, poster)
	}

	return &GenerateResult{
		Records: RebuildFontRecords(previous, discovered),
		Posters: posters,
	}, nil
}

func fileURL(absPath string) string {
	p := filepath.ToSlash(absPath)
	// Windows paths need a leading slash to form file:///C:/...
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
