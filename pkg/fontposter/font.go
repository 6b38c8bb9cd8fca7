package fontposter

import (
	"io/fs"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Fonts whose name starts with this prefix are kept out of batch runs.
const SkipPrefix = "__"

var fontExtensions = []string{".ttf", ".otf"}

func IsFontFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, fe := range fontExtensions {
		if ext == fe {
			return true
		}
	}
	return false
}

// Scan through the directory and collect .ttf and .otf files at any depth, in
// walk order. Any error aborts the scan.
func ScanFontDir(dir string) ([]string, error) {
	var fonts []string

	err := filepath.Walk(dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if !IsFontFile(info.Name()) {
			return nil
		}

		fonts = append(fonts, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return fonts, nil
}

// Font name used as the metadata key and poster file name: the base name
// without extension, trimmed and in NFC form so the key does not depend on how
// the filesystem stores accented or CJK names.
func FontNameFromPath(fontPath string) string {
	base := filepath.Base(fontPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return norm.NFC.String(strings.TrimSpace(name))
}

func IsSkipped(name string) bool {
	return strings.HasPrefix(name, SkipPrefix)
}

// Path stored in the metadata, relative to siteRoot with forward slashes.
// Fonts outside siteRoot lose their leading path segment instead.
func RecordPath(siteRoot string, fontPath string) string {
	absRoot, rootErr := filepath.Abs(siteRoot)
	absFont, fontErr := filepath.Abs(fontPath)
	if rootErr == nil && fontErr == nil {
		rel, err := filepath.Rel(absRoot, absFont)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return filepath.ToSlash(rel)
		}
	}

	return filepath.ToSlash(removeRootPathSegment(filepath.Clean(fontPath)))
}

func removeRootPathSegment(p string) string {
	segments := strings.Split(p, string(filepath.Separator))
	if len(segments) > 1 {
		segments = segments[1:]
	}
	return strings.Join(segments, string(filepath.Separator))
}
