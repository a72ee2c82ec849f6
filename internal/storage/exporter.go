// Package storage writes derived games and played-with summaries as JSON
// lines, optionally gzip-compressed.
package storage

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"matchhistory/internal/history"
	"matchhistory/internal/playedwith"
)

// Record kinds written in the "kind" field of each line
const (
	KindGame         = "game"
	KindRelationship = "relationship"
)

// Line is one JSONL row
type Line struct {
	Kind         string               `json:"kind"`
	Owner        string               `json:"owner"`
	Game         *history.DerivedGame `json:"game,omitempty"`
	Relationship *playedwith.Summary  `json:"relationship,omitempty"`
}

// Exporter writes JSONL to a file; a path ending in .gz is gzip-compressed
type Exporter struct {
	mu     sync.Mutex
	owner  string
	file   *os.File
	gz     *gzip.Writer
	writer *bufio.Writer
	lines  int
}

// NewExporter creates (truncating) the export file at path
func NewExporter(path, owner string) (*Exporter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create export file: %w", err)
	}

	e := &Exporter{owner: owner, file: f}
	var w io.Writer = f
	if strings.HasSuffix(path, ".gz") {
		e.gz = gzip.NewWriter(f)
		w = e.gz
	}
	e.writer = bufio.NewWriter(w)
	return e, nil
}

// WriteGames writes one line per game
func (e *Exporter) WriteGames(games []history.DerivedGame) error {
	for i := range games {
		if err := e.writeLine(Line{Kind: KindGame, Owner: e.owner, Game: &games[i]}); err != nil {
			return err
		}
	}
	return nil
}

// WriteRelationships writes one summary line per relationship
func (e *Exporter) WriteRelationships(rels []*playedwith.Relationship) error {
	for _, rel := range rels {
		s := rel.Summary()
		if err := e.writeLine(Line{Kind: KindRelationship, Owner: e.owner, Relationship: &s}); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeLine(line Line) error {
	data, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := e.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	e.lines++
	return nil
}

// Lines returns how many records have been written
func (e *Exporter) Lines() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lines
}

// Close flushes and closes the file
func (e *Exporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.writer.Flush(); err != nil {
		e.file.Close()
		return fmt.Errorf("failed to flush: %w", err)
	}
	if e.gz != nil {
		if err := e.gz.Close(); err != nil {
			e.file.Close()
			return fmt.Errorf("failed to close gzip stream: %w", err)
		}
	}
	return e.file.Close()
}
