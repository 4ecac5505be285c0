// Package activitylog exports Azure activity log events to CSV.
package activitylog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/monitor/armmonitor"
)

// Header is the first CSV row, matching the columns of the portal export.
var Header = []string{
	"Correlation id",
	"Operation name",
	"Status",
	"Event category",
	"Level",
	"Time",
	"Subscription",
	"Event initiated by",
	"Resource type",
	"Resource group",
	"Resource",
}

// Pager yields pages of activity log events.
type Pager interface {
	More() bool
	NextPage(ctx context.Context) ([]*armmonitor.EventData, error)
}

// Filter builds the OData filter for events in [start, end], optionally
// restricted to one resource.
func Filter(start, end time.Time, resourceID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "eventTimestamp ge '%s' and eventTimestamp le '%s'",
		start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
	if resourceID != "" {
		fmt.Fprintf(&b, " and resourceId eq '%s'", resourceID)
	}
	return b.String()
}

// Export writes the header and one row per event to w and returns the number
// of events written.
func Export(ctx context.Context, p Pager, w io.Writer) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return 0, err
	}

	n := 0
	for p.More() {
		events, err := p.NextPage(ctx)
		if err != nil {
			return n, fmt.Errorf("list activity logs: %w", err)
		}
		for _, e := range events {
			if e == nil {
				continue
			}
			if err := cw.Write(row(e)); err != nil {
				return n, err
			}
			n++
		}
	}
	cw.Flush()
	return n, cw.Error()
}

// ExportFile writes the CSV to path through a temporary sibling, so path is
// replaced only by a complete export.
func ExportFile(ctx context.Context, p Pager, path string) (int, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, err
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}
	n, err := Export(ctx, p, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return n, err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return n, err
	}
	return n, nil
}

func row(e *armmonitor.EventData) []string {
	var level, ts string
	if e.Level != nil {
		level = string(*e.Level)
	}
	if e.EventTimestamp != nil {
		ts = e.EventTimestamp.UTC().Format(time.RFC3339Nano)
	}
	return []string{
		str(e.CorrelationID),
		localized(e.OperationName),
		localized(e.Status),
		value(e.Category),
		level,
		ts,
		str(e.SubscriptionID),
		str(e.Caller),
		value(e.ResourceType),
		str(e.ResourceGroupName),
		str(e.ResourceID),
	}
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func localized(s *armmonitor.LocalizableString) string {
	if s == nil {
		return ""
	}
	return str(s.LocalizedValue)
}

func value(s *armmonitor.LocalizableString) string {
	if s == nil {
		return ""
	}
	return str(s.Value)
}
