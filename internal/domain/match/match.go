// Package match locates the label source for a video inside the label root
// directory. Matching is by name only and never reads file contents.
package match

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrNoMatch is returned when nothing in the label root relates to the
// video stem. Callers treat it as a per-video condition, not a failure.
var ErrNoMatch = errors.New("no matching label source")

// Match is the resolved label source for one video.
type Match struct {
	// Sources are the label files to parse, in parse order.
	Sources []string
	// Extra lists additional matching entries that were ignored under the
	// first-match-wins policy. Surfaced to the user as a warning.
	Extra []string
}

// Find resolves the label source for a video stem under root.
//
// Two shapes are supported:
//   - a label file whose stem equals or starts with the video stem
//     (clip01.txt, clip01_session2.txt);
//   - a directory whose name contains the video stem, holding one label
//     file per frame range; its files are ordered by the numeric suffix in
//     their names (scene_2.txt before scene_10.txt).
//
// Candidates are considered in lexicographic order and the first one wins.
// Case sensitivity follows whatever the host filesystem reported, since
// comparison is on literal directory entry names.
func Find(root, stem, ext string) (Match, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return Match{}, fmt.Errorf("read label root: %w", err)
	}

	var candidates []os.DirEntry
	for _, e := range entries {
		if e.IsDir() {
			if strings.Contains(e.Name(), stem) {
				candidates = append(candidates, e)
			}
			continue
		}
		name := e.Name()
		if !strings.EqualFold(filepath.Ext(name), ext) {
			continue
		}
		base := strings.TrimSuffix(name, filepath.Ext(name))
		if base == stem || strings.HasPrefix(base, stem) {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return Match{}, ErrNoMatch
	}

	// os.ReadDir already sorts by name; exact file match still beats a
	// prefix or directory match so clip1.txt is not shadowed by clip1_x.txt.
	sort.SliceStable(candidates, func(i, j int) bool {
		return rank(candidates[i], stem, ext) < rank(candidates[j], stem, ext)
	})

	m := Match{}
	for _, c := range candidates[1:] {
		m.Extra = append(m.Extra, filepath.Join(root, c.Name()))
	}

	winner := candidates[0]
	if !winner.IsDir() {
		m.Sources = []string{filepath.Join(root, winner.Name())}
		return m, nil
	}

	dir := filepath.Join(root, winner.Name())
	files, err := labelFilesIn(dir, ext)
	if err != nil {
		return Match{}, err
	}
	if len(files) == 0 {
		return Match{}, ErrNoMatch
	}
	m.Sources = files
	return m, nil
}

func rank(e os.DirEntry, stem, ext string) int {
	if !e.IsDir() && e.Name() == stem+ext {
		return 0
	}
	if !e.IsDir() {
		return 1
	}
	return 2
}

func labelFilesIn(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read label dir: %w", err)
	}

	type numbered struct {
		path string
		num  int
		ok   bool
	}
	var files []numbered
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		n, ok := trailingIndex(e.Name())
		files = append(files, numbered{path: filepath.Join(dir, e.Name()), num: n, ok: ok})
	}

	// Numeric suffixes define the intended order (frame-indexed files);
	// anything without one keeps lexicographic order after them.
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		switch {
		case a.ok && b.ok:
			return a.num < b.num
		case a.ok != b.ok:
			return a.ok
		default:
			return a.path < b.path
		}
	})

	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.path)
	}
	return out, nil
}

// trailingIndex extracts the numeric suffix after the last underscore of a
// filename stem: "clip01_12.txt" -> 12.
func trailingIndex(name string) (int, bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	i := strings.LastIndexByte(base, '_')
	if i < 0 || i == len(base)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(base[i+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}
