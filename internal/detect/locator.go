package detect

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ModTimeTolerance absorbs filesystem timestamp granularity when comparing
// snapshots; a file counts as modified only when its mtime moved by more
// than this amount.
const ModTimeTolerance = 100 * time.Microsecond

// Snapshot records the last-modified time of every .srt file across the
// given directories, keyed by resolved path. Missing directories and
// unreadable entries are skipped.
func Snapshot(dirs ...string) map[string]time.Time {
	seen := make(map[string]time.Time)
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if !strings.EqualFold(filepath.Ext(entry.Name()), ".srt") {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if resolved, err := filepath.Abs(path); err == nil {
				path = resolved
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			seen[path] = info.ModTime()
		}
	}
	return seen
}

// Diff returns the files that are new in after or whose modification time
// advanced beyond the tolerance, ordered most-recently-modified first as
// observed at diff time. Files that vanished between the snapshot and the
// diff sort last.
func Diff(before, after map[string]time.Time) []string {
	var candidates []string
	for path, mtime := range after {
		prev, existed := before[path]
		if !existed || mtime.After(prev.Add(ModTimeTolerance)) {
			candidates = append(candidates, path)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return currentModTime(candidates[i]).After(currentModTime(candidates[j]))
	})
	return candidates
}

func currentModTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// Choose picks the best candidate for a source video: the first whose
// basename starts with the video's stem (case-insensitive), or the
// most-recently-modified candidate when none match. Returns "" for an
// empty candidate list.
func Choose(candidates []string, videoStem string) string {
	if len(candidates) == 0 {
		return ""
	}
	prefix := strings.ToLower(strings.TrimSpace(videoStem))
	if prefix != "" {
		for _, candidate := range candidates {
			name := strings.ToLower(filepath.Base(candidate))
			if strings.HasPrefix(name, prefix) {
				return candidate
			}
		}
	}
	return candidates[0]
}

// Stem returns the file name without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
