package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"subocr/internal/analysis"
)

type exportEntry struct {
	Video     string          `json:"video"`
	Success   bool            `json:"success"`
	Message   string          `json:"message,omitempty"`
	OutputSRT string          `json:"output_srt,omitempty"`
	Analysis  analysis.Report `json:"analysis"`
}

type exportDocument struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Results     []exportEntry `json:"results"`
}

// ExportJSON writes the records as an indented JSON document.
func ExportJSON(w io.Writer, records []Record) error {
	doc := exportDocument{
		GeneratedAt: time.Now().UTC(),
		Results:     make([]exportEntry, 0, len(records)),
	}
	for _, record := range records {
		doc.Results = append(doc.Results, exportEntry{
			Video:     record.Video,
			Success:   record.Success,
			Message:   record.Message,
			OutputSRT: record.OutputSRT,
			Analysis:  record.Report,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}

// csvHeader lists the flattened CSV columns in output order.
var csvHeader = []string{
	"video", "success", "message", "output_srt",
	"status", "size", "lines", "subtitles", "time_sequences",
	"empty_lines", "avg_subtitle_length", "duration_seconds",
}

// ExportCSV writes the records as CSV with a header row.
func ExportCSV(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, record := range records {
		row := []string{
			record.Video,
			strconv.FormatBool(record.Success),
			record.Message,
			record.OutputSRT,
			record.Report.Status,
			strconv.FormatInt(record.Report.Size, 10),
			strconv.Itoa(record.Report.LineCount),
			strconv.Itoa(record.Report.SubtitleCount),
			strconv.Itoa(record.Report.TimeSequenceCount),
			strconv.Itoa(record.Report.EmptyLineCount),
			strconv.FormatFloat(record.Report.AverageSubtitleLength, 'f', 2, 64),
			strconv.FormatFloat(record.Report.DurationSeconds, 'f', 2, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
