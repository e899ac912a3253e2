// Package phonelist derives the list of corporate phone numbers held by active
// users, formatted for national display.
package phonelist

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nyaruka/phonenumbers"

	"phonebook/internal/directory/models"
	"phonebook/pkg/platform/sentinel"
	"phonebook/pkg/platform/strings"
)

// DefaultRegion is the region assumed for numbers without an international prefix.
const DefaultRegion = "GB"

// Header is the first line of a written phone number list.
const Header = "phone number"

// Extractor formats phone numbers relative to a fixed default region.
type Extractor struct {
	region string
}

func NewExtractor(region string) *Extractor {
	if region == "" {
		region = DefaultRegion
	}
	return &Extractor{region: region}
}

// Extract returns every phone number on the active users in national format,
// deduplicated in first-seen order. A number that cannot be parsed fails the
// whole extraction.
func (e *Extractor) Extract(active []models.UserRecord) ([]string, error) {
	formatted := make([]string, 0, len(active))
	for _, user := range active {
		for _, pn := range user.PhoneNumbers {
			national, err := e.Format(pn.Number)
			if err != nil {
				return nil, fmt.Errorf("user %s: %w", user.ID, err)
			}
			formatted = append(formatted, national)
		}
	}
	return strings.Dedupe(formatted), nil
}

// Format renders a single raw number in the national format of its region.
func (e *Extractor) Format(raw string) (string, error) {
	parsed, err := phonenumbers.Parse(raw, e.region)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", sentinel.ErrInvalidPhoneNumber, raw, err)
	}
	return phonenumbers.Format(parsed, phonenumbers.NATIONAL), nil
}

// WriteCSV writes the header line followed by one number per line.
func WriteCSV(w io.Writer, numbers []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{Header}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, n := range numbers {
		if err := cw.Write([]string{n}); err != nil {
			return fmt.Errorf("write phone number: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileSink writes the list to a file, replacing any previous list atomically.
type FileSink struct {
	Path string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path}
}

func (s *FileSink) WritePhoneNumbers(ctx context.Context, numbers []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".phone-numbers-*")
	if err != nil {
		return fmt.Errorf("create phone number list: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, numbers); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close phone number list: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("publish phone number list: %w", err)
	}
	return nil
}
