package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// videoExtensions lists the container formats pgsrip can demux PGS
// streams from.
var videoExtensions = map[string]bool{
	".mkv": true,
	".mp4": true,
	".m4v": true,
	".ts":  true,
}

// IsVideo reports whether the path carries a supported video extension.
func IsVideo(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// Stem returns the filename without directory or extension. It names the
// SRT files pgsrip produces next to a video.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ScanDirectory returns the absolute paths of all videos directly inside
// dir, sorted by name. Subdirectories are not descended into; batch input
// folders are flat by convention.
func ScanDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var videos []string
	for _, entry := range entries {
		if entry.IsDir() || !IsVideo(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		videos = append(videos, path)
	}
	sort.Strings(videos)
	return videos, nil
}

// Resolve expands the argument into a list of videos: a directory is
// scanned, a single video file is returned as-is, and anything else is an
// error.
func Resolve(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return ScanDirectory(path)
	}
	if !IsVideo(path) {
		return nil, fmt.Errorf("%s is not a supported video file", path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return []string{path}, nil
}
