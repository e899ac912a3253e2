package orgstatus

import (
	"context"
	"fmt"
	"maps"

	"phonebook/pkg/platform/sentinel"
)

// StaticSource serves a fixed mapping.
type StaticSource map[string]bool

func (s StaticSource) OrgStatus(ctx context.Context) (map[string]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("organisation status: %w", sentinel.ErrReferenceDataMissing)
	}
	return maps.Clone(map[string]bool(s)), nil
}
