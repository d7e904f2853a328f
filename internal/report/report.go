// Package report renders a sample into one of the supported encodings and writes it
// to a fixed file name inside the configured output directory.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Dicklesworthstone/sysreport/internal/model"
)

// Encoding is a report serialization.
type Encoding string

const (
	Text Encoding = "text"
	JSON Encoding = "json"
	CSV  Encoding = "csv"
)

const baseName = "system_report"

var ErrUnknownEncoding = errors.New("unknown report encoding")

// Encodings lists the accepted values in help order.
func Encodings() []Encoding { return []Encoding{Text, JSON, CSV} }

func ParseEncoding(s string) (Encoding, error) {
	for _, e := range Encodings() {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
}

// FileName is the fixed file name the encoding is written to.
func (e Encoding) FileName() string {
	switch e {
	case JSON:
		return baseName + ".json"
	case CSV:
		return baseName + ".csv"
	default:
		return baseName + ".txt"
	}
}

// Writer overwrites the report file on every call.
type Writer struct {
	Dir string
}

func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{Dir: dir}
}

func (w *Writer) Path(enc Encoding) string {
	return filepath.Join(w.Dir, enc.FileName())
}

// Write renders s and replaces the report file for enc. For text the rendered report
// is returned; JSON and CSV return a one-line confirmation naming the file.
func (w *Writer) Write(s model.Sample, enc Encoding) (output, path string, err error) {
	path = w.Path(enc)

	var buf bytes.Buffer
	switch enc {
	case Text:
		buf.WriteString(RenderText(s))
	case JSON:
		err = encodeJSON(&buf, s)
	case CSV:
		err = encodeCSV(&buf, s)
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownEncoding, string(enc))
	}
	if err != nil {
		return "", path, fmt.Errorf("encode %s report: %w", enc, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", path, fmt.Errorf("write report %s: %w", path, err)
	}

	if enc == Text {
		return buf.String(), path, nil
	}
	return Confirmation(path), path, nil
}

func Confirmation(path string) string { return "Report saved as " + path }

// ReadLast returns the contents of the last report written for enc in dir.
func ReadLast(dir string, enc Encoding) ([]byte, error) {
	path := NewWriter(dir).Path(enc)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	return data, nil
}

// percent prints the shortest form of a percentage: 85, 43.2.
func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
