// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pdiddy/export-engine/pkg/types"
)

// FontSet holds resolved TTF file paths for the builtin renderer. Regular is
// always set; Bold, Italic, and Mono fall back to Regular; CJK is empty when
// no CJK-capable face was configured or discovered.
type FontSet struct {
	Regular string
	Bold    string
	Italic  string
	Mono    string
	CJK     string
}

// fontSearchDirs lists the roots scanned when a font path is not configured.
func fontSearchDirs() []string {
	dirs := []string{
		"/usr/share/fonts",
		"/usr/local/share/fonts",
		"/Library/Fonts",
		"/System/Library/Fonts",
		`C:\Windows\Fonts`,
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".fonts"),
			filepath.Join(home, ".local", "share", "fonts"),
		)
	}
	return dirs
}

// Discovery candidates per face, in preference order. CJK candidates are
// restricted to single-face TTFs; gopdf does not read TTC collections.
var (
	regularCandidates = []string{
		"DejaVuSans.ttf", "LiberationSans-Regular.ttf",
		"NotoSans-Regular.ttf", "FreeSans.ttf", "Arial.ttf",
	}
	boldCandidates = []string{
		"DejaVuSans-Bold.ttf", "LiberationSans-Bold.ttf",
		"NotoSans-Bold.ttf", "FreeSansBold.ttf",
	}
	italicCandidates = []string{
		"DejaVuSans-Oblique.ttf", "LiberationSans-Italic.ttf",
		"NotoSans-Italic.ttf", "FreeSansOblique.ttf",
	}
	monoCandidates = []string{
		"DejaVuSansMono.ttf", "LiberationMono-Regular.ttf",
		"NotoSansMono-Regular.ttf", "FreeMono.ttf",
	}
	cjkCandidates = []string{
		"NotoSansSC-Regular.ttf", "NotoSansCJK-Regular.ttf",
		"SourceHanSansSC-Regular.ttf", "WenQuanYiMicroHei.ttf",
		"DroidSansFallbackFull.ttf", "DroidSansFallback.ttf",
		"unifont.ttf",
	}
)

// ResolveFonts validates configured font paths and discovers unset ones.
// A regular face that cannot be resolved is a configuration error (R4.1);
// a missing CJK face is deferred until CJK content is actually rendered (R4.3).
func ResolveFonts(cfg types.FontConfig) (FontSet, error) {
	regular, err := resolveFace("regular", cfg.Regular, regularCandidates)
	if err != nil {
		return FontSet{}, err
	}
	if regular == "" {
		return FontSet{}, fmt.Errorf(
			"%w: no regular font configured and none found under system font directories",
			types.ErrRenderConfiguration)
	}

	set := FontSet{Regular: regular}

	if set.Bold, err = resolveFace("bold", cfg.Bold, boldCandidates); err != nil {
		return FontSet{}, err
	}
	if set.Italic, err = resolveFace("italic", cfg.Italic, italicCandidates); err != nil {
		return FontSet{}, err
	}
	if set.Mono, err = resolveFace("mono", cfg.Mono, monoCandidates); err != nil {
		return FontSet{}, err
	}
	if set.CJK, err = resolveFace("cjk", cfg.CJK, cjkCandidates); err != nil {
		return FontSet{}, err
	}

	// Style faces degrade to the regular face; CJK never does (a Latin
	// face would render placeholder boxes, which R4.3 forbids).
	if set.Bold == "" {
		set.Bold = regular
	}
	if set.Italic == "" {
		set.Italic = regular
	}
	if set.Mono == "" {
		set.Mono = regular
	}

	return set, nil
}

// resolveFace returns the path for one face: a configured path must exist;
// an empty configuration falls back to discovery and may resolve to "".
func resolveFace(name, configured string, candidates []string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", fmt.Errorf("%w: %s font %s: %v",
				types.ErrRenderConfiguration, name, configured, err)
		}
		return configured, nil
	}
	return discoverFont(candidates), nil
}

// discoverFont walks the system font directories looking for the first
// candidate basename, in candidate preference order.
func discoverFont(candidates []string) string {
	found := make(map[string]string)

	for _, root := range fontSearchDirs() {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			base := filepath.Base(path)
			for _, c := range candidates {
				if base == c && found[c] == "" {
					found[c] = path
				}
			}
			return nil
		})
	}

	for _, c := range candidates {
		if found[c] != "" {
			return found[c]
		}
	}
	return ""
}
