package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteSRT writes a syntactically valid SRT file with the requested number
// of subtitle blocks, spaced two seconds apart.
func WriteSRT(t testing.TB, path string, blocks int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < blocks; i++ {
		from := start.Add(time.Duration(i) * 2 * time.Second)
		to := from.Add(1500 * time.Millisecond)
		if _, err := f.WriteString(formatBlock(i+1, from, to)); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

func formatBlock(index int, from, to time.Time) string {
	const layout = "15:04:05,000"
	return fmt.Sprintf("%d\n%s --> %s\nSubtitle line %d\n\n",
		index, from.Format(layout), to.Format(layout), index)
}
