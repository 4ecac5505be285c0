package activitylog

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/monitor/armmonitor"
)

// Client lists activity log events for one subscription.
type Client struct {
	logs *armmonitor.ActivityLogsClient
}

// NewClient creates a Client authenticated with cred.
func NewClient(subscriptionID string, cred azcore.TokenCredential) (*Client, error) {
	logs, err := armmonitor.NewActivityLogsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create activity logs client: %w", err)
	}
	return &Client{logs: logs}, nil
}

// NewDefaultClient creates a Client using the environment, managed identity
// or Azure CLI login, in the order azidentity tries them.
func NewDefaultClient(subscriptionID string) (*Client, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	return NewClient(subscriptionID, cred)
}

// List returns a pager over the events matching filter.
func (c *Client) List(filter string) Pager {
	return &eventPager{p: c.logs.NewListPager(filter, nil)}
}

// Since returns a pager over the events of the last days days that end at
// now, optionally restricted to resourceID.
func (c *Client) Since(now time.Time, days int, resourceID string) Pager {
	return c.List(Filter(now.AddDate(0, 0, -days), now, resourceID))
}

type eventPager struct {
	p *runtime.Pager[armmonitor.ActivityLogsClientListResponse]
}

func (e *eventPager) More() bool {
	return e.p.More()
}

func (e *eventPager) NextPage(ctx context.Context) ([]*armmonitor.EventData, error) {
	resp, err := e.p.NextPage(ctx)
	if err != nil {
		return nil, err
	}
	return resp.Value, nil
}
