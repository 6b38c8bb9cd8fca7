package fontposter

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Smallest byte sequence sniffed as image/jpeg.
var fakeJPEG = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

type fakeShooter struct {
	calls []string
	pages []string
	opts  []CaptureOptions
	// fail on the n-th call, counting from 1
	failOn int
	img    []byte
	// path of the html page to snapshot on each call
	htmlPath string
}

func (f *fakeShooter) Capture(ctx context.Context, pageURL string, opts CaptureOptions) ([]byte, error) {
	f.calls = append(f.calls, pageURL)
	f.opts = append(f.opts, opts)
	if f.htmlPath != "" {
		b, err := os.ReadFile(f.htmlPath)
		if err != nil {
			return nil, err
		}
		f.pages = append(f.pages, string(b))
	}
	if f.failOn == len(f.calls) {
		return nil, errors.New("navigation failed")
	}
	if f.img != nil {
		return f.img, nil
	}
	return fakeJPEG, nil
}

type recordingReporter struct {
	successes []string
	skips     []string
}

func (r *recordingReporter) Success(imagePath string, fontPath string) {
	r.successes = append(r.successes, imagePath)
}

func (r *recordingReporter) Skip(fontPath string) {
	r.skips = append(r.skips, fontPath)
}

type fixture struct {
	root     string
	cfg      Config
	shooter  *fakeShooter
	reporter *recordingReporter
	gen      *PosterGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()

	cfg := *NewDefaultConfig()
	cfg.FontDir = filepath.Join(root, "docs", "fonts")
	cfg.SiteRoot = filepath.Join(root, "docs")
	cfg.ImageDir = filepath.Join(root, "docs", "images")
	cfg.HTMLPath = filepath.Join(root, "scripts", "poster.html")

	shooter := &fakeShooter{htmlPath: cfg.HTMLPath}
	reporter := &recordingReporter{}

	return &fixture{
		root:     root,
		cfg:      cfg,
		shooter:  shooter,
		reporter: reporter,
		gen:      NewPosterGenerator(cfg, shooter, reporter, nil),
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	for _, e := range entries {
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func TestCreatePoster(t *testing.T) {
	f := newFixture(t)
	writeFiles(t, f.cfg.FontDir, "serif/My_Font-Bold.ttf")
	fontPath := filepath.Join(f.cfg.FontDir, "serif", "My_Font-Bold.ttf")

	got, err := f.gen.CreatePoster(context.Background(), fontPath, "My_Font-Bold")
	if err != nil {
		t.Fatalf("CreatePoster() error = %v", err)
	}

	want := filepath.Join(f.cfg.ImageDir, "My_Font-Bold-poster.jpg")
	if got != want {
		t.Errorf("CreatePoster() = %q, want %q", got, want)
	}
	img, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("poster not written: %v", err)
	}
	if diff := cmp.Diff(fakeJPEG, img); diff != "" {
		t.Errorf("poster content mismatch (-want +got):\n%s", diff)
	}

	if len(f.shooter.calls) != 1 {
		t.Fatalf("Expected 1 capture, got %d", len(f.shooter.calls))
	}
	if !strings.HasPrefix(f.shooter.calls[0], "file:///") || !strings.HasSuffix(f.shooter.calls[0], "/scripts/poster.html") {
		t.Errorf("unexpected page url %q", f.shooter.calls[0])
	}
	if diff := cmp.Diff(f.cfg.Capture, f.shooter.opts[0]); diff != "" {
		t.Errorf("capture options mismatch (-want +got):\n%s", diff)
	}

	page := f.shooter.pages[0]
	if !strings.Contains(page, "url('../docs/fonts/serif/My_Font-Bold.ttf')") {
		t.Errorf("html page does not reference the font relative to itself:\n%s", page)
	}
	if !strings.Contains(page, "<div>My Font Bold字体</div>") {
		t.Errorf("html page does not contain the poster text:\n%s", page)
	}

	if diff := cmp.Diff([]string{filepath.ToSlash(want)}, f.reporter.successes); diff != "" {
		t.Errorf("reported successes mismatch (-want +got):\n%s", diff)
	}
}

func TestCreatePosterRejectsNonJPEG(t *testing.T) {
	f := newFixture(t)
	f.shooter.img = []byte("\x89PNG\r\n\x1a\n")
	writeFiles(t, f.cfg.FontDir, "A.ttf")

	_, err := f.gen.CreatePoster(context.Background(), filepath.Join(f.cfg.FontDir, "A.ttf"), "A")
	if err == nil {
		t.Fatalf("CreatePoster() should reject a non jpeg screenshot")
	}
	if _, statErr := os.Stat(filepath.Join(f.cfg.ImageDir, "A-poster.jpg")); !os.IsNotExist(statErr) {
		t.Errorf("no poster should be written on failure")
	}
}

func TestGenerateOne(t *testing.T) {
	f := newFixture(t)
	writeFiles(t, f.cfg.FontDir, "B.ttf", "C.otf")

	loaded := FontRecords{
		{Name: "A", Path: "fonts/A.ttf"},
		{Name: "B", Path: "fonts/old/B.ttf"},
	}

	t.Run("existing font", func(t *testing.T) {
		res, err := f.gen.GenerateOne(context.Background(), loaded, filepath.Join(f.cfg.FontDir, "B.ttf"))
		if err != nil {
			t.Fatalf("GenerateOne() error = %v", err)
		}
		if diff := cmp.Diff([]string{"A", "B"}, names(res.Records)); diff != "" {
			t.Errorf("names mismatch (-want +got):\n%s", diff)
		}
		if res.Records[1].Path != "fonts/B.ttf" {
			t.Errorf("Path = %q, want fonts/B.ttf", res.Records[1].Path)
		}
		if diff := cmp.Diff([]string{filepath.Join(f.cfg.ImageDir, "B-poster.jpg")}, res.Posters); diff != "" {
			t.Errorf("posters mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("new font", func(t *testing.T) {
		res, err := f.gen.GenerateOne(context.Background(), loaded, filepath.Join(f.cfg.FontDir, "C.otf"))
		if err != nil {
			t.Fatalf("GenerateOne() error = %v", err)
		}
		if diff := cmp.Diff([]string{"A", "B", "C"}, names(res.Records)); diff != "" {
			t.Errorf("names mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("path without a name", func(t *testing.T) {
		calls := len(f.shooter.calls)
		res, err := f.gen.GenerateOne(context.Background(), loaded, filepath.Join(f.cfg.FontDir, ".ttf"))
		if err != nil {
			t.Fatalf("GenerateOne() error = %v", err)
		}
		if res != nil {
			t.Errorf("GenerateOne() = %+v, want nil result", res)
		}
		if len(f.shooter.calls) != calls {
			t.Errorf("no capture expected")
		}
	})

	t.Run("capture failure", func(t *testing.T) {
		f.shooter.failOn = len(f.shooter.calls) + 1
		defer func() { f.shooter.failOn = 0 }()

		if _, err := f.gen.GenerateOne(context.Background(), loaded, filepath.Join(f.cfg.FontDir, "B.ttf")); err == nil {
			t.Errorf("GenerateOne() should propagate capture errors")
		}
	})
}

func TestGenerateAll(t *testing.T) {
	f := newFixture(t)
	writeFiles(t, f.cfg.FontDir,
		"Roboto.ttf",
		"cjk/思源-黑体.otf",
		"__hidden.ttf",
		"notes.txt",
	)
	writeFiles(t, f.cfg.ImageDir, "Removed-poster.jpg")

	previous := FontRecords{
		{Name: "Removed", Path: "fonts/Removed.ttf"},
		{Name: "Roboto", Path: "fonts/old.ttf", Extra: []ExtraField{{Key: "desc", Value: json.RawMessage(`"sans"`)}}},
	}

	res, err := f.gen.GenerateAll(context.Background(), previous)
	if err != nil {
		t.Fatalf("GenerateAll() error = %v", err)
	}

	gotNames := names(res.Records)
	sort.Strings(gotNames)
	if diff := cmp.Diff([]string{"Roboto", "思源-黑体"}, gotNames); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	roboto, _ := res.Records.Find("Roboto")
	if roboto == nil || roboto.Path != "fonts/Roboto.ttf" || string(roboto.Extra[0].Value) != `"sans"` {
		t.Errorf("Roboto record = %+v", roboto)
	}
	cjk, _ := res.Records.Find("思源-黑体")
	if cjk == nil || cjk.Path != "fonts/cjk/思源-黑体.otf" {
		t.Errorf("CJK record = %+v", cjk)
	}

	if diff := cmp.Diff([]string{"Roboto-poster.jpg", "思源-黑体-poster.jpg"}, listDir(t, f.cfg.ImageDir)); diff != "" {
		t.Errorf("image directory mismatch (-want +got):\n%s", diff)
	}
	if len(res.Posters) != 2 {
		t.Errorf("Expected 2 posters, got %d", len(res.Posters))
	}
	if diff := cmp.Diff([]string{filepath.Join(f.cfg.FontDir, "__hidden.ttf")}, f.reporter.skips); diff != "" {
		t.Errorf("skips mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateAllStopsOnFirstFailure(t *testing.T) {
	f := newFixture(t)
	writeFiles(t, f.cfg.FontDir, "A.ttf", "B.ttf", "C.ttf")
	f.shooter.failOn = 2

	if _, err := f.gen.GenerateAll(context.Background(), nil); err == nil {
		t.Fatalf("GenerateAll() should fail")
	}
	if len(f.shooter.calls) != 2 {
		t.Errorf("Expected processing to stop after the failing font, got %d captures", len(f.shooter.calls))
	}
}

func TestGenerateAllCancelled(t *testing.T) {
	f := newFixture(t)
	writeFiles(t, f.cfg.FontDir, "A.ttf")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.gen.GenerateAll(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("GenerateAll() error = %v, want context.Canceled", err)
	}
	if len(f.shooter.calls) != 0 {
		t.Errorf("no capture expected after cancellation")
	}
}

func TestFileURL(t *testing.T) {
	if got := fileURL("/tmp/scripts/poster.html"); got != "file:///tmp/scripts/poster.html" {
		t.Errorf("fileURL() = %q", got)
	}
}
