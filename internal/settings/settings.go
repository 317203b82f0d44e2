// Package settings reads the agent's plain-text key=value configuration
// files: one "attr=value" pair per line, whitespace stripped, lines
// starting with ';' ignored, later duplicate keys overwrite earlier ones.
package settings

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	fieldDelimiter   = "="
	commentDelimiter = ';'
)

// ParseError reports a malformed line in a settings file.
type ParseError struct {
	File string
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return errors.Errorf("settings: syntax error in %q at line %d: %q", e.File, e.Line, e.Text).Error()
}

// MissingStrictSettingError is returned when a strict getter can't find its key.
type MissingStrictSettingError struct {
	Attr string
}

func (e *MissingStrictSettingError) Error() string {
	return "settings: undefined configuration parameter '" + e.Attr + "'"
}

// Settings holds the parsed attribute/value map of a config file.
type Settings struct {
	values map[string]string
}

// Load reads and parses the settings file at path.
func Load(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "settings: could not open file %q", path)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads settings from r. name is used only for error messages.
func Parse(r io.Reader, name string) (*Settings, error) {
	s := &Settings{values: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.Join(strings.Fields(scanner.Text()), "")
		if line == "" {
			continue
		}
		if line[0] == commentDelimiter {
			continue
		}
		pos := strings.Index(line, fieldDelimiter)
		if pos < 0 {
			return nil, &ParseError{File: name, Line: lineNo, Text: line}
		}
		attr := line[:pos]
		val := line[pos+1:]
		s.values[attr] = val
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "settings: failed reading %q", name)
	}
	return s, nil
}

// GetBoolDefault returns the boolean value of attr, or false if absent.
func (s *Settings) GetBoolDefault(attr string) bool {
	v, ok := s.values[attr]
	if !ok {
		return false
	}
	return v == "1"
}

// GetBool returns the boolean value of attr, erroring if it is absent.
func (s *Settings) GetBool(attr string) (bool, error) {
	v, ok := s.values[attr]
	if !ok {
		return false, &MissingStrictSettingError{Attr: attr}
	}
	return v == "1", nil
}

// GetFloatDefault returns the float value of attr, or -1.0 if absent.
func (s *Settings) GetFloatDefault(attr string) float64 {
	v, ok := s.values[attr]
	if !ok {
		return -1.0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return -1.0
	}
	return f
}

// GetFloat returns the float value of attr, erroring if it is absent or non-numeric.
func (s *Settings) GetFloat(attr string) (float64, error) {
	v, ok := s.values[attr]
	if !ok {
		return 0, &MissingStrictSettingError{Attr: attr}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "settings: %q is not numeric", attr)
	}
	return f, nil
}

// GetIntDefault returns the integer value of attr, or -1 if absent.
func (s *Settings) GetIntDefault(attr string) int {
	v, ok := s.values[attr]
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}

// GetInt returns the integer value of attr, erroring if it is absent or non-numeric.
func (s *Settings) GetInt(attr string) (int, error) {
	v, ok := s.values[attr]
	if !ok {
		return 0, &MissingStrictSettingError{Attr: attr}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "settings: %q is not numeric", attr)
	}
	return n, nil
}

// GetStringDefault returns the string value of attr, or "" if absent.
func (s *Settings) GetStringDefault(attr string) string {
	return s.values[attr]
}

// GetString returns the string value of attr, erroring if it is absent.
func (s *Settings) GetString(attr string) (string, error) {
	v, ok := s.values[attr]
	if !ok {
		return "", &MissingStrictSettingError{Attr: attr}
	}
	return v, nil
}

// Has reports whether attr was present in the parsed file.
func (s *Settings) Has(attr string) bool {
	_, ok := s.values[attr]
	return ok
}
