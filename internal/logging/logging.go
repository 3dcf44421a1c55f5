// SPDX-License-Identifier: MPL-2.0

// Package logging builds the process logger from the "log" config section.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/modboot/modboot/pkg/modinit"
)

// Section is the name of the config section read by New.
const Section = "log"

// Options holds the settings read from the log section.
type Options struct {
	Level      log.Level
	Formatter  log.Formatter
	Timestamp  bool
	TimeFormat string
	Prefix     string
	Caller     bool
}

// ParseOptions reads the log section. Absent keys keep the defaults: info
// level, text formatter, no timestamps.
func ParseOptions(section modinit.Section) (Options, error) {
	opts := Options{Level: log.InfoLevel, Formatter: log.TextFormatter, TimeFormat: time.Kitchen}

	if lvl, ok := section.String("level"); ok {
		parsed, err := log.ParseLevel(lvl)
		if err != nil {
			return opts, fmt.Errorf("%s.level: %w", Section, err)
		}
		opts.Level = parsed
	}

	if f, ok := section.String("formatter"); ok {
		switch strings.ToLower(f) {
		case "text":
			opts.Formatter = log.TextFormatter
		case "json":
			opts.Formatter = log.JSONFormatter
		case "logfmt":
			opts.Formatter = log.LogfmtFormatter
		default:
			return opts, fmt.Errorf("%s.formatter: unknown formatter %q (valid: text, json, logfmt)", Section, f)
		}
	}

	var err error
	if opts.Timestamp, err = section.Bool("timestamp", false); err != nil {
		return opts, fmt.Errorf("%s: %w", Section, err)
	}
	if opts.Caller, err = section.Bool("caller", false); err != nil {
		return opts, fmt.Errorf("%s: %w", Section, err)
	}
	opts.TimeFormat = section.StringOr("time_format", opts.TimeFormat)
	opts.Prefix = section.StringOr("prefix", "")
	return opts, nil
}

// New creates a logger writing to w configured from the log section.
func New(w io.Writer, section modinit.Section) (*log.Logger, error) {
	opts, err := ParseOptions(section)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.Timestamp,
		TimeFormat:      opts.TimeFormat,
		ReportCaller:    opts.Caller,
		Prefix:          opts.Prefix,
	}), nil
}
