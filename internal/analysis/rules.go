package analysis

import "fmt"

// InconsistencyThreshold is the absolute difference between the index-line
// count and the timestamp-range count above which a file is flagged as
// inconsistent. The value is inherited behavior, not a tuned parameter.
const InconsistencyThreshold = 5

// verySmallSizeBytes is the file size below which content counts are not
// trusted enough to tier the file.
const verySmallSizeBytes = 100

// Tier status labels, ordered from worst to best.
const (
	StatusVerySmall    = "VERY SMALL"
	StatusNoSubtitles  = "NO SUBTITLES"
	StatusFewSubtitles = "FEW SUBTITLES"
	StatusMedium       = "MEDIUM"
	StatusGood         = "GOOD"
	StatusVeryGood     = "VERY GOOD"
	StatusExcellent    = "EXCELLENT"
)

type tierRule struct {
	label string
	match func(r Report) bool
}

// tierRules is evaluated top to bottom; the first matching rule wins.
// Keeping the precedence as an ordered list makes it auditable in isolation.
var tierRules = []tierRule{
	{StatusVerySmall, func(r Report) bool { return r.Size < verySmallSizeBytes }},
	{StatusNoSubtitles, func(r Report) bool { return r.SubtitleCount == 0 && r.TimeSequenceCount == 0 }},
	{StatusFewSubtitles, func(r Report) bool { return r.SubtitleCount < 5 }},
	{StatusMedium, func(r Report) bool { return r.SubtitleCount < 20 }},
	{StatusGood, func(r Report) bool { return r.SubtitleCount < 50 }},
	{StatusVeryGood, func(r Report) bool { return r.SubtitleCount < 100 }},
	{StatusExcellent, func(r Report) bool { return true }},
}

// classify tiers the report and then applies the inconsistency override.
// The override replaces whatever tier matched, including tiers that already
// replaced an encoding status set during reading.
func classify(r Report) string {
	status := r.Status
	for _, rule := range tierRules {
		if rule.match(r) {
			status = rule.label
			break
		}
	}
	if override, ok := inconsistencyOverride(r); ok {
		status = override
	}
	return status
}

func inconsistencyOverride(r Report) (string, bool) {
	if r.SubtitleCount == 0 || r.TimeSequenceCount == 0 {
		return "", false
	}
	diff := r.SubtitleCount - r.TimeSequenceCount
	if diff < 0 {
		diff = -diff
	}
	if diff <= InconsistencyThreshold {
		return "", false
	}
	return fmt.Sprintf("INCONSISTENT (%d vs %d)", r.SubtitleCount, r.TimeSequenceCount), true
}

// Tier reports whether status belongs to the ok, warning, or error tier.
// Unknown labels (including INCONSISTENT overrides) count as warnings.
func Tier(status string) string {
	switch status {
	case StatusMedium, StatusGood, StatusVeryGood, StatusExcellent:
		return "ok"
	case StatusNoSubtitles, StatusMissing, StatusEmpty:
		return "error"
	default:
		return "warning"
	}
}
