package analysis

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Report captures the heuristic assessment of a single SRT file.
// Status is always set, even when the file could not be read.
type Report struct {
	Size                  int64   `json:"size"`
	LineCount             int     `json:"lines"`
	EmptyLineCount        int     `json:"empty_lines"`
	SubtitleCount         int     `json:"subtitles"`
	TimeSequenceCount     int     `json:"time_sequences"`
	AverageSubtitleLength float64 `json:"avg_subtitle_length"`
	DurationSeconds       float64 `json:"duration_seconds"`
	Status                string  `json:"status"`
	HasContent            bool    `json:"has_content"`
}

// Fixed status labels for the failure and encoding paths. Tier labels live in
// rules.go next to the rules that produce them.
const (
	StatusMissing = "MISSING"
	StatusEmpty   = "EMPTY"
	StatusLatin1  = "LATIN-1 ENCODING"
)

var (
	sequencePattern  = regexp.MustCompile(`(?m)^\s*\d+\s*$`)
	timeRangePattern = regexp.MustCompile(`\d{2}:\d{2}:\d{2},\d{3}\s*-->\s*\d{2}:\d{2}:\d{2},\d{3}`)
	timestampPattern = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2}),(\d{3})`)
)

// Analyze inspects the SRT file at path and returns a quality report.
// It never returns an error; every failure mode maps to a Status value.
func Analyze(path string) Report {
	report := Report{Status: "UNKNOWN"}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			report.Status = StatusMissing
			return report
		}
		report.Status = "READ ERROR: " + errorKind(err)
		return report
	}

	data, err := os.ReadFile(path)
	if err != nil {
		report.Status = "READ ERROR: " + errorKind(err)
		return report
	}

	content := decodeContent(data, &report)

	report.Size = info.Size()
	if report.Size == 0 {
		report.Status = StatusEmpty
		return report
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				report.Status = "ANALYSIS ERROR: " + panicKind(r)
			}
		}()
		computeCounts(content, &report)
	}()

	return report
}

// decodeContent interprets raw file bytes as UTF-8, falling back to Latin-1
// when the bytes are not valid UTF-8. The fallback marks the report with
// StatusLatin1, which later classification steps may overwrite.
func decodeContent(data []byte, report *Report) string {
	if utf8.Valid(data) {
		return string(data)
	}
	report.Status = StatusLatin1
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(rune(b))
	}
	return sb.String()
}

func computeCounts(content string, report *Report) {
	lines := splitLines(content)
	report.LineCount = len(lines)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			report.EmptyLineCount++
		}
	}

	report.SubtitleCount = len(sequencePattern.FindAllString(content, -1))
	report.TimeSequenceCount = len(timeRangePattern.FindAllString(content, -1))

	report.AverageSubtitleLength = averageTextLineLength(content)
	report.HasContent = report.SubtitleCount > 0 && report.TimeSequenceCount > 0
	report.DurationSeconds = lastTimestampSeconds(content)

	report.Status = classify(*report)
}

// averageTextLineLength strips index lines and timestamp ranges, then
// averages the length of the remaining trimmed non-empty lines.
func averageTextLineLength(content string) float64 {
	text := sequencePattern.ReplaceAllString(content, "")
	text = timeRangePattern.ReplaceAllString(text, "")

	var total, count int
	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		total += len(trimmed)
		count++
	}
	if count == 0 {
		return 0.0
	}
	return float64(total) / float64(count)
}

// lastTimestampSeconds converts the final HH:MM:SS,mmm token in the file to
// seconds. Timestamps are assumed monotonically increasing; an out-of-order
// file silently yields a wrong duration rather than an error.
func lastTimestampSeconds(content string) float64 {
	matches := timestampPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return 0.0
	}
	last := matches[len(matches)-1]
	hours, _ := strconv.Atoi(last[1])
	minutes, _ := strconv.Atoi(last[2])
	seconds, _ := strconv.Atoi(last[3])
	millis, _ := strconv.Atoi(last[4])
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000.0
}

// splitLines mirrors text splitting on any line-break style without counting
// a trailing newline as an extra empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	case errors.Is(err, fs.ErrNotExist):
		return "not found"
	default:
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return pathErr.Err.Error()
		}
		return err.Error()
	}
}

func panicKind(v any) string {
	if err, ok := v.(error); ok {
		return errorKind(err)
	}
	return fmt.Sprintf("%v", v)
}
