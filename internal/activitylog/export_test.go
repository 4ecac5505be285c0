package activitylog

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/monitor/armmonitor"
)

// fakePager serves fixed pages, failing on page failAt when err is set.
type fakePager struct {
	pages  [][]*armmonitor.EventData
	next   int
	failAt int
	err    error
}

func (f *fakePager) More() bool {
	return f.next < len(f.pages)
}

func (f *fakePager) NextPage(ctx context.Context) ([]*armmonitor.EventData, error) {
	if f.err != nil && f.next == f.failAt {
		return nil, f.err
	}
	page := f.pages[f.next]
	f.next++
	return page, nil
}

func sampleEvent() *armmonitor.EventData {
	level := armmonitor.EventLevelInformational
	return &armmonitor.EventData{
		CorrelationID:     to.Ptr("c0ffee"),
		OperationName:     &armmonitor.LocalizableString{Value: to.Ptr("Microsoft.Compute/virtualMachines/start/action"), LocalizedValue: to.Ptr("Start Virtual Machine")},
		Status:            &armmonitor.LocalizableString{Value: to.Ptr("Succeeded"), LocalizedValue: to.Ptr("Succeeded")},
		Category:          &armmonitor.LocalizableString{Value: to.Ptr("Administrative"), LocalizedValue: to.Ptr("Administrative")},
		Level:             &level,
		EventTimestamp:    to.Ptr(time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)),
		SubscriptionID:    to.Ptr("sub-1"),
		Caller:            to.Ptr("ops@example.com"),
		ResourceType:      &armmonitor.LocalizableString{Value: to.Ptr("Microsoft.Compute/virtualMachines")},
		ResourceGroupName: to.Ptr("bench-rg"),
		ResourceID:        to.Ptr("/subscriptions/sub-1/resourceGroups/bench-rg/providers/Microsoft.Compute/virtualMachines/vm1"),
	}
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	return rows
}

func TestExport(t *testing.T) {
	p := &fakePager{pages: [][]*armmonitor.EventData{
		{sampleEvent(), nil},
		{},
		{{CorrelationID: to.Ptr("bare")}},
	}}

	var buf bytes.Buffer
	n, err := Export(context.Background(), p, &buf)
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if n != 2 {
		t.Errorf("Export() = %d events, want 2", n)
	}

	rows := readCSV(t, buf.Bytes())
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header plus 2", len(rows))
	}
	if !reflect.DeepEqual(rows[0], Header) {
		t.Errorf("header = %v", rows[0])
	}
	want := []string{
		"c0ffee",
		"Start Virtual Machine",
		"Succeeded",
		"Administrative",
		"Informational",
		"2024-05-01T12:30:00Z",
		"sub-1",
		"ops@example.com",
		"Microsoft.Compute/virtualMachines",
		"bench-rg",
		"/subscriptions/sub-1/resourceGroups/bench-rg/providers/Microsoft.Compute/virtualMachines/vm1",
	}
	if !reflect.DeepEqual(rows[1], want) {
		t.Errorf("row = %v\nwant  %v", rows[1], want)
	}
	// Missing fields become empty cells.
	if rows[2][0] != "bare" || rows[2][1] != "" || rows[2][4] != "" || rows[2][5] != "" {
		t.Errorf("sparse row = %v", rows[2])
	}
}

func TestExport_PageError(t *testing.T) {
	boom := errors.New("throttled")
	p := &fakePager{
		pages:  [][]*armmonitor.EventData{{sampleEvent()}, {sampleEvent()}},
		failAt: 1,
		err:    boom,
	}
	n, err := Export(context.Background(), p, &bytes.Buffer{})
	if !errors.Is(err, boom) {
		t.Fatalf("Export() error = %v, want %v", err, boom)
	}
	if n != 1 {
		t.Errorf("Export() = %d events before the failure, want 1", n)
	}
}

func TestExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "activity_logs.csv")
	p := &fakePager{pages: [][]*armmonitor.EventData{{sampleEvent()}}}

	n, err := ExportFile(context.Background(), p, path)
	if err != nil {
		t.Fatalf("ExportFile() error: %v", err)
	}
	if n != 1 {
		t.Errorf("ExportFile() = %d, want 1", n)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if rows := readCSV(t, data); len(rows) != 2 {
		t.Errorf("file has %d rows, want 2", len(rows))
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary export file left behind")
	}
}

func TestExportFile_FailureKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity_logs.csv")
	if err := os.WriteFile(path, []byte("previous\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := &fakePager{pages: [][]*armmonitor.EventData{{sampleEvent()}}, err: errors.New("denied")}

	if _, err := ExportFile(context.Background(), p, path); err == nil {
		t.Fatal("ExportFile() should fail")
	}
	data, _ := os.ReadFile(path)
	if string(data) != "previous\n" {
		t.Errorf("file after failed export = %q", data)
	}
}

func TestFilter(t *testing.T) {
	end := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -1)

	tests := []struct {
		name       string
		resourceID string
		want       string
	}{
		{
			name: "time window only",
			want: "eventTimestamp ge '2024-05-01T00:00:00Z' and eventTimestamp le '2024-05-02T00:00:00Z'",
		},
		{
			name:       "with resource",
			resourceID: "/subscriptions/s/resourceGroups/rg",
			want:       "eventTimestamp ge '2024-05-01T00:00:00Z' and eventTimestamp le '2024-05-02T00:00:00Z' and resourceId eq '/subscriptions/s/resourceGroups/rg'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filter(start, end, tt.resourceID); got != tt.want {
				t.Errorf("Filter() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := Filter(start.In(time.FixedZone("X", 3600)), end, ""); !strings.HasPrefix(got, "eventTimestamp ge '2024-05-01T00:00:00Z'") {
		t.Errorf("Filter() does not normalize to UTC: %q", got)
	}
}
