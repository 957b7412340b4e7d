package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Log levels recognized in numdeck log lines.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Read returns at most maxLines from the end of the file at path.
// A missing file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level returns the log level token of a numdeck log line, or "" when the
// line carries none. Lines are space separated with the level in the third
// field: "2025-06-01 14:32:15 INFO message". Only the leading fields are
// inspected so level words inside messages are not misread.
func Level(line string) string {
	fields := strings.Fields(line)
	limit := min(len(fields), 3)
	for _, f := range fields[:limit] {
		switch f {
		case LevelDebug, LevelInfo, LevelWarn, LevelError:
			return f
		}
	}
	return ""
}
