package blobstore

import "context"

const reportContentType = "application/toml"

// Publisher uploads benchmark reports to a fixed name in a Store.
type Publisher struct {
	store *Store
	name  string
}

// NewPublisher returns a Publisher writing to name in store.
func NewPublisher(store *Store, name string) *Publisher {
	return &Publisher{store: store, name: name}
}

// Publish uploads data, overwriting the previous report.
func (p *Publisher) Publish(ctx context.Context, data []byte) error {
	return p.store.Upload(ctx, p.name, data, reportContentType)
}

// Name returns the blob name reports are written to.
func (p *Publisher) Name() string {
	return p.name
}
