// Package runlog keeps the human-readable log.txt written next to the plots
// of each run.
package runlog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
)

// Path is the output folder for a run started at now:
// <root>/<2006-Jan-02>/<15:04:05>: <note>
func Path(
	root, note string,
	now time.Time,
) string {
	folder := now.Format("15:04:05")
	if note != "" {
		folder += ": " + note
	}
	return filepath.Join(root, now.Format("2006-Jan-02"), folder)
}

type Log struct {
	lines []string
}

func (l *Log) Printf(
	format string,
	args ...interface{},
) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *Log) Lines() []string {
	return l.lines
}

// Write creates dir if needed and stores the log as dir/log.txt.
func (l *Log) Write(
	dir string,
) error {
	// Make run folder if it doesn't already exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fiterrors.Wrap(err, fiterrors.KindPersistence, "create %s", dir)
	}

	path := filepath.Join(dir, "log.txt")
	txt, err := os.Create(path)
	if err != nil {
		return fiterrors.Wrap(err, fiterrors.KindPersistence, "create %s", path)
	}
	defer txt.Close()

	w := bufio.NewWriter(txt)
	for _, line := range l.lines {
		if _, err := w.WriteString(line); err != nil {
			return fiterrors.Wrap(err, fiterrors.KindPersistence, "write %s", path)
		}
	}
	if err := w.Flush(); err != nil {
		return fiterrors.Wrap(err, fiterrors.KindPersistence, "write %s", path)
	}
	return nil
}
