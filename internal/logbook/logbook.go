// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package logbook persists samples as CSV files on disk.
//
// Each process appends to its own session file, log_<unix>.csv, so a
// crash never corrupts the consolidated history. Consolidate folds
// finished session files into co2_log.csv.
package logbook

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfilimonov/co2meter/co2mon"
)

// Header is the first line of every exported CSV document.
const Header = "timestamp,co2,temp"

const (
	mainName      = "co2_log.csv"
	sessionPrefix = "log_"
)

// Book writes samples to a per-session CSV file under a directory.
type Book struct {
	dir  string
	name string
	log  logrus.FieldLogger

	mu sync.Mutex
	f  *os.File
}

// New creates a logbook rooted at dir. The session file is named after
// the current Unix time and created lazily on the first sample.
func New(dir string, log logrus.FieldLogger) *Book {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Book{
		dir:  dir,
		name: fmt.Sprintf("%s%d.csv", sessionPrefix, time.Now().Unix()),
		log:  log,
	}
}

// SessionPath returns the path of this process' session file.
func (b *Book) SessionPath() string {
	return filepath.Join(b.dir, b.name)
}

// MainPath returns the path of the consolidated log file.
func (b *Book) MainPath() string {
	return filepath.Join(b.dir, mainName)
}

// Line renders a sample as one CSV row. Absent fields are left empty.
func Line(s co2mon.Sample) string {
	co2 := ""
	if s.HasCO2 {
		co2 = fmt.Sprintf("%d", int(s.CO2))
	}
	temp := ""
	if s.HasTemperature {
		temp = fmt.Sprintf("%.1f", s.Temperature.Celsius())
	}
	return fmt.Sprintf("%s,%s,%s", s.Time.Format(co2mon.TimeLayout), co2, temp)
}

// Accept implements co2mon.Sink. A write failure is logged and the
// sample dropped; persistence never stops the monitor.
func (b *Book) Accept(s co2mon.Sample) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.f == nil {
		f, err := os.OpenFile(b.SessionPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			b.log.WithError(err).Warn("logbook: cannot open session file")
			return
		}
		b.f = f
	}
	if _, err := fmt.Fprintln(b.f, Line(s)); err != nil {
		b.log.WithError(err).Warn("logbook: write failed")
	}
}

// Close flushes and closes the session file, if one was created.
func (b *Book) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.f == nil {
		return nil
	}
	err := b.f.Close()
	b.f = nil
	return err
}

// Consolidate appends every finished session file in the directory to
// the main log, oldest first, and removes the session files. The
// current session file is left alone.
func (b *Book) Consolidate() error {
	names, err := b.sessionFiles()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}
	main, err := os.OpenFile(b.MainPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer main.Close()
	for _, name := range names {
		p := filepath.Join(b.dir, name)
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if len(data) > 0 {
			if _, err := main.Write(data); err != nil {
				return err
			}
		}
		if err := os.Remove(p); err != nil {
			return err
		}
	}
	return nil
}

// Read assembles a CSV document (Header plus rows) from the main log
// and/or the session files, in that order.
func (b *Book) Read(includeMain, includeSessions bool) (string, error) {
	var sb strings.Builder
	sb.WriteString(Header + "\n")
	if includeMain {
		data, err := os.ReadFile(b.MainPath())
		if err != nil && !os.IsNotExist(err) {
			return "", err
		}
		sb.Write(data)
	}
	if includeSessions {
		names, err := b.sessionFiles()
		if err != nil {
			return "", err
		}
		names = append(names, b.name)
		for _, name := range names {
			data, err := os.ReadFile(filepath.Join(b.dir, name))
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return "", err
			}
			sb.Write(data)
		}
	}
	return sb.String(), nil
}

// sessionFiles lists finished session files, sorted by name. Names
// embed the Unix start time, so lexical order is chronological until
// the year 2286.
func (b *Book) sessionFiles() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == b.name {
			continue
		}
		if strings.HasPrefix(name, sessionPrefix) && strings.HasSuffix(name, ".csv") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
