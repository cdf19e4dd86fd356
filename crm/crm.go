// Package crm pushes analyzed deals into a contact management system.
// CRM work is strictly best effort: implementations return synthetic
// identifiers instead of errors so a CRM outage never fails a run.
package crm

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Contact is the broker or seller attached to a deal.
type Contact struct {
	Name  string
	Email string
	Firm  string
}

// Client creates CRM records for a completed run. Every method returns
// an identifier; failures are absorbed and reported as synthetic IDs.
type Client interface {
	UpsertContact(ctx context.Context, c Contact) string
	CreateNote(ctx context.Context, contactID, body string) string
	CreateTask(ctx context.Context, contactID, title string, due time.Time) string
}

// DemoClient fabricates deterministic record IDs without any network
// calls. Used whenever no real CRM is configured.
type DemoClient struct {
	log *zap.Logger
}

func NewDemoClient(log *zap.Logger) *DemoClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &DemoClient{log: log}
}

func syntheticID(kind string, parts ...string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%s_demo_%05d", kind, h.Sum32()%100000)
}

func (c *DemoClient) UpsertContact(ctx context.Context, contact Contact) string {
	id := syntheticID("contact", contact.Name, contact.Email, contact.Firm)
	c.log.Info("crm contact upserted",
		zap.String("contact_id", id), zap.String("name", contact.Name))
	return id
}

func (c *DemoClient) CreateNote(ctx context.Context, contactID, body string) string {
	id := syntheticID("note", contactID, body)
	c.log.Info("crm note created",
		zap.String("note_id", id), zap.String("contact_id", contactID))
	return id
}

func (c *DemoClient) CreateTask(ctx context.Context, contactID, title string, due time.Time) string {
	id := syntheticID("task", contactID, title)
	c.log.Info("crm task created",
		zap.String("task_id", id), zap.String("contact_id", contactID),
		zap.Time("due", due))
	return id
}
