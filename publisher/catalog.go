package publisher

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/erraggy/oaspublish/oaserrors"
	"go.yaml.in/yaml/v4"
)

// Catalog holds the curated text the publisher injects into a document.
//
// A Catalog is not modified by the publisher and may be shared between
// Publishers once built.
type Catalog struct {
	// TagOrder lists curated tags in the order they are emitted.
	TagOrder []string
	// TagDescriptions maps normalized tag names to their description.
	TagDescriptions map[string]string
	// OperationDescriptions maps operationId to a replacement description.
	OperationDescriptions map[string]string
	// SchemaDescriptions maps schema names to a replacement description.
	SchemaDescriptions map[string]string
}

// TagDescription returns the curated description for a tag, or
// "<name> endpoints." when the tag is not curated.
func (c *Catalog) TagDescription(name string) string {
	if desc, ok := c.TagDescriptions[name]; ok {
		return desc
	}
	return name + " endpoints."
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	return &Catalog{
		TagOrder:              slices.Clone(c.TagOrder),
		TagDescriptions:       maps.Clone(c.TagDescriptions),
		OperationDescriptions: maps.Clone(c.OperationDescriptions),
		SchemaDescriptions:    maps.Clone(c.SchemaDescriptions),
	}
}

var defaultTags = []struct{ name, description string }{
	{"insight", "Core insight endpoints: records, transcripts, generation, and chat."},
	{"insight_public", "Public insight endpoints for shared/public access."},
	{"projects", "Project management endpoints."},
	{"project_reports", "Project report generation and management endpoints."},
	{"project_reports_public", "Public project report endpoints."},
	{"prompts", "Custom prompts management endpoints."},
	{"presets", "Presets and templates endpoints."},
	{"agent", "AI agent threads and chat endpoints."},
	{"interviews", "AI interviewer room and session endpoints."},
	{"webhooks", "Incoming webhook endpoints."},
}

var defaultOperationDescriptions = map[string]string{
	"chat_agent_chat_post": "Send a message to the AI agent and receive a streaming response.\n\n" +
		"Request body:\n" +
		"- thread_id: Agent thread ID\n" +
		"- message: User message text\n\n" +
		"Returns:\n" +
		"- Streaming response chunks",
	"get_threads_agent_threads_get": "Get all agent threads for the current user.\n\n" +
		"Returns:\n" +
		"- List of user threads",
	"create_thread_agent_threads_post": "Create a new agent thread.\n\n" +
		"Request body:\n" +
		"- name: Optional thread name\n\n" +
		"Returns:\n" +
		"- Created thread object",
	"update_thread_agent_threads__thread_id__patch": "Update an existing agent thread.\n\n" +
		"Path params:\n" +
		"- thread_id: Thread ID\n\n" +
		"Request body:\n" +
		"- name: New thread name\n\n" +
		"Returns:\n" +
		"- Updated thread object",
	"delete_thread_agent_threads__thread_id__delete": "Soft-delete an agent thread.\n\n" +
		"Path params:\n" +
		"- thread_id: Thread ID",
	"get_thread_agent_threads__thread_id__get": "Get an agent thread by ID.\n\n" +
		"Path params:\n" +
		"- thread_id: Thread ID\n\n" +
		"Returns:\n" +
		"- Thread object",
	"get_history_agent_threads__thread_id__history_get": "Get message history for an agent thread.\n\n" +
		"Path params:\n" +
		"- thread_id: Thread ID\n\n" +
		"Returns:\n" +
		"- Ordered list of thread messages",
	"cancel_chat_agent_chat_cancel_post": "Cancel an in-progress chat request.\n\n" +
		"Request body:\n" +
		"- thread_id: Thread ID\n\n" +
		"Returns:\n" +
		"- Cancellation status",
}

var defaultSchemaDescriptions = map[string]string{
	"AgentMessageDTO":     "Data transfer object for an agent message.",
	"AgentThreadDTO":      "Data transfer object for an agent thread.",
	"CancelChatRequest":   "Request model for canceling an in-progress chat.",
	"CreateThreadRequest": "Request model for creating an agent thread.",
	"UpdateThreadRequest": "Request model for updating an agent thread.",

	"Services__AgentService__models__ChatRequest": "Request model for sending a chat message.",
}

// DefaultCatalog returns a fresh copy of the built-in catalog.
func DefaultCatalog() *Catalog {
	c := &Catalog{
		TagOrder:              make([]string, 0, len(defaultTags)),
		TagDescriptions:       make(map[string]string, len(defaultTags)),
		OperationDescriptions: maps.Clone(defaultOperationDescriptions),
		SchemaDescriptions:    maps.Clone(defaultSchemaDescriptions),
	}
	for _, t := range defaultTags {
		c.TagOrder = append(c.TagOrder, t.name)
		c.TagDescriptions[t.name] = t.description
	}
	return c
}

// catalogFile is the on-disk shape of a catalog.
type catalogFile struct {
	Tags []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"tags"`
	Operations map[string]string `yaml:"operations"`
	Schemas    map[string]string `yaml:"schemas"`
}

// LoadCatalog reads a catalog from a YAML or JSON file:
//
//	tags:
//	  - name: billing
//	    description: Billing endpoints.
//	operations:
//	  createInvoice: Create an invoice.
//	schemas:
//	  Invoice: An invoice.
//
// Tag names are normalized the same way operation tags are.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "catalog", Value: path, Message: "cannot read catalog", Cause: err}
	}
	c, err := ParseCatalog(data)
	if err != nil {
		var cfgErr *oaserrors.ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Value = path
		}
		return nil, err
	}
	return c, nil
}

// ParseCatalog decodes catalog bytes. See LoadCatalog for the format.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &oaserrors.ConfigError{Option: "catalog", Message: "invalid catalog", Cause: err}
	}

	c := &Catalog{
		TagDescriptions:       make(map[string]string, len(f.Tags)),
		OperationDescriptions: f.Operations,
		SchemaDescriptions:    f.Schemas,
	}
	if c.OperationDescriptions == nil {
		c.OperationDescriptions = map[string]string{}
	}
	if c.SchemaDescriptions == nil {
		c.SchemaDescriptions = map[string]string{}
	}
	for i, t := range f.Tags {
		name := strings.ToLower(strings.TrimSpace(t.Name))
		if name == "" {
			return nil, &oaserrors.ConfigError{Option: "catalog", Message: fmt.Sprintf("tags[%d]: name is required", i)}
		}
		if _, dup := c.TagDescriptions[name]; dup {
			return nil, &oaserrors.ConfigError{Option: "catalog", Message: fmt.Sprintf("tags[%d]: duplicate tag %q", i, name)}
		}
		desc := t.Description
		if desc == "" {
			desc = name + " endpoints."
		}
		c.TagOrder = append(c.TagOrder, name)
		c.TagDescriptions[name] = desc
	}
	return c, nil
}
