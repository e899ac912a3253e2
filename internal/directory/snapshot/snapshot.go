// Package snapshot loads the incoming user snapshot from extract files and
// combines extracts from several upstream systems into one.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"phonebook/internal/directory/models"
	"phonebook/internal/directory/ports"
	"phonebook/pkg/platform/sentinel"
)

// Decode reads a JSON array of raw users. Every record must carry an
// emailAddress.
func Decode(r io.Reader) ([]models.RawUser, error) {
	var users []models.RawUser
	if err := json.NewDecoder(r).Decode(&users); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot: %v", sentinel.ErrInvalidInput, err)
	}
	for i, u := range users {
		if strings.TrimSpace(u.EmailAddress) == "" {
			return nil, fmt.Errorf("%w: snapshot record %d has no emailAddress", sentinel.ErrInvalidInput, i)
		}
	}
	if users == nil {
		users = []models.RawUser{}
	}
	return users, nil
}

// FileSource loads a single extract file.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Load(ctx context.Context) ([]models.RawUser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: snapshot %s does not exist", sentinel.ErrInvalidInput, s.Path)
		}
		return nil, fmt.Errorf("open snapshot %s: %w", s.Path, err)
	}
	defer f.Close()

	users, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", s.Path, err)
	}
	return users, nil
}

// Combine merges two extracts keyed by normalised e-mail address. Fields of a
// record in b overwrite those of the matching record in a; phone numbers are
// replaced only when b supplies them. Records found only in b are appended.
// Neither input is modified.
func Combine(a, b []models.RawUser) []models.RawUser {
	positions := make(map[string]int, len(a)+len(b))
	out := make([]models.RawUser, 0, len(a)+len(b))

	for _, group := range [][]models.RawUser{a, b} {
		for _, u := range group {
			id := u.ID()
			pos, ok := positions[id]
			if !ok {
				positions[id] = len(out)
				out = append(out, clone(u))
				continue
			}
			out[pos] = overlay(out[pos], u)
		}
	}
	return out
}

func overlay(base, top models.RawUser) models.RawUser {
	merged := clone(base)
	merged.EmailAddress = top.EmailAddress
	maps.Copy(merged.Attributes, top.Attributes)
	if top.PhoneNumbers != nil {
		merged.PhoneNumbers = append([]string{}, top.PhoneNumbers...)
	}
	return merged
}

func clone(u models.RawUser) models.RawUser {
	out := models.RawUser{
		EmailAddress: u.EmailAddress,
		Attributes:   maps.Clone(u.Attributes),
	}
	if out.Attributes == nil {
		out.Attributes = map[string]any{}
	}
	if u.PhoneNumbers != nil {
		out.PhoneNumbers = append([]string{}, u.PhoneNumbers...)
	}
	return out
}

// CombinedSource loads every source in order and folds them with Combine.
type CombinedSource struct {
	sources []ports.SnapshotSource
}

func NewCombinedSource(sources ...ports.SnapshotSource) *CombinedSource {
	return &CombinedSource{sources: sources}
}

func (s *CombinedSource) Load(ctx context.Context) ([]models.RawUser, error) {
	if len(s.sources) == 0 {
		return nil, fmt.Errorf("%w: no snapshot sources configured", sentinel.ErrInvalidInput)
	}

	var combined []models.RawUser
	for i, src := range s.sources {
		users, err := src.Load(ctx)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			combined = users
			continue
		}
		combined = Combine(combined, users)
	}
	return combined, nil
}

// FromPaths builds a source reading the given extract files left to right.
func FromPaths(paths []string) ports.SnapshotSource {
	if len(paths) == 1 {
		return NewFileSource(paths[0])
	}
	sources := make([]ports.SnapshotSource, len(paths))
	for i, p := range paths {
		sources[i] = NewFileSource(p)
	}
	return NewCombinedSource(sources...)
}
