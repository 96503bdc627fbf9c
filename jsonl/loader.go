// Package jsonl loads tasks from JSON Lines files.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/questlog"
)

// Compile-time interface verification.
var _ questlog.TaskLoader = (*Loader)(nil)

// Loader loads Task records from JSONL files, one task per line.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// maxLineSize is the maximum size for a single JSONL line (4MB).
const maxLineSize = 4 * 1024 * 1024

// Load reads a JSONL file and returns all Task records in file order.
// Blank lines and lines starting with "#" are skipped.
func (l *Loader) Load(path string) ([]questlog.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tasks []questlog.Task
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var t questlog.Task
		if err := json.Unmarshal([]byte(line), &t); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if t.Title == "" {
			return nil, fmt.Errorf("line %d: task has no title", lineNum)
		}
		tasks = append(tasks, t)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}
