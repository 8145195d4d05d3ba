package publisher

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/oaspublish/document"
	"github.com/erraggy/oaspublish/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serverURLs(doc *document.Document) []string {
	var urls []string
	for _, s := range document.Items(doc.Get(document.KeyServers)) {
		u, _ := document.StringValue(document.Lookup(s, "url"))
		urls = append(urls, u)
	}
	return urls
}

func TestDefaultServers(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		changed bool
		want    []string
	}{
		{"missing", `{"openapi": "3.0.0"}`, true, []string{DefaultServerURL}},
		{"empty list", `{"servers": []}`, true, []string{DefaultServerURL}},
		{"not a list", `{"servers": "nope"}`, true, []string{DefaultServerURL}},
		{"kept", `{"servers": [{"url": "https://api.example.com"}]}`, false, []string{"https://api.example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.src)
			assert.Equal(t, tt.changed, DefaultServers(doc, DefaultServerURL))
			assert.Equal(t, tt.want, serverURLs(doc))

			once, err := doc.MarshalJSON()
			require.NoError(t, err)
			assert.False(t, DefaultServers(doc, DefaultServerURL), "second run is a no-op")
			twice, err := doc.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, string(once), string(twice))
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	doc := mustParse(t, `
paths:
  /agent/chat:
    post:
      operationId: chat_agent_chat_post
      description: Отправить сообщение
    x-meta:
      operationId: chat_agent_chat_post
  /other:
    get:
      operationId: other
      description: keep me
components:
  schemas:
    AgentThreadDTO:
      type: object
      description: Тред
    CancelChatRequest: "not a mapping"
    Unrelated: {description: untouched}
`)
	got := ApplyOverrides(doc, DefaultCatalog())

	assert.Equal(t, []string{"chat_agent_chat_post"}, got.Operations)
	assert.Equal(t, []string{"AgentThreadDTO"}, got.Schemas)

	ops := doc.Routes()[0].Operations()
	assert.Contains(t, ops[0].Description(), "Send a message to the AI agent")
	assert.Equal(t, "keep me", doc.Routes()[1].Operations()[0].Description())

	thread := doc.Component(document.KeySchemas, "AgentThreadDTO")
	desc, _ := document.StringValue(document.Lookup(thread, "description"))
	assert.Equal(t, "Data transfer object for an agent thread.", desc)
	assert.Equal(t, []string{"type", "description"}, document.Keys(thread))

	meta := document.Lookup(document.Lookup(doc.Get(document.KeyPaths), "/agent/chat"), "x-meta")
	assert.Nil(t, document.Lookup(meta, "description"), "non-operation entries are not overridden")
}

func TestNewOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p, err := New()
		require.NoError(t, err)
		assert.Equal(t, DefaultServerURL, p.DefaultServerURL)
		assert.Equal(t, DefaultAdminTag, p.AdminTag)
		assert.Equal(t, DefaultAdminPathSegment, p.AdminPathSegment)
		assert.NotNil(t, p.Catalog)
		assert.IsType(t, NopLogger{}, p.Logger)
	})

	t.Run("valid overrides", func(t *testing.T) {
		p, err := New(
			WithDefaultServerURL("http://localhost:8080/api"),
			WithAdminTag(" Internal "),
			WithAdminPathSegment("/_internal"),
			WithCatalog(&Catalog{}),
			WithLogger(nil),
		)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/api", p.DefaultServerURL)
		assert.Equal(t, "internal", p.AdminTag)
		assert.Equal(t, "/_internal", p.AdminPathSegment)
		assert.IsType(t, NopLogger{}, p.Logger)
	})

	invalid := []struct {
		name   string
		opt    Option
		option string
	}{
		{"relative server url", WithDefaultServerURL("/custdev"), "server-url"},
		{"unparseable server url", WithDefaultServerURL("http://[::1"), "server-url"},
		{"blank admin tag", WithAdminTag("   "), "admin-tag"},
		{"empty admin segment", WithAdminPathSegment(""), "admin-segment"},
		{"nil catalog", WithCatalog(nil), "catalog"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			require.Error(t, err)
			assert.True(t, errors.Is(err, oaserrors.ErrConfig))
			var cfgErr *oaserrors.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.option, cfgErr.Option)
		})
	}
}

func TestPublishScenarioAdminPathRemoved(t *testing.T) {
	doc := mustParse(t, `{
  "openapi": "3.1.0",
  "paths": {
    "/v1/users": {"get": {"tags": ["User"], "operationId": "listUsers"}},
    "/v1/admin/users": {"get": {"tags": ["Admin"], "operationId": "adminListUsers"}}
  }
}`)
	res, err := Publish(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"/v1/users"}, document.Keys(doc.Get(document.KeyPaths)))
	assert.Equal(t, []string{"user"}, doc.Routes()[0].Operations()[0].RawTags())

	require.Len(t, res.Tags, 1)
	assert.Equal(t, "user", res.Tags[0].Name)
	assert.Equal(t, "user endpoints.", res.Tags[0].Description)
	assert.Equal(t, "User", res.Tags[0].DisplayName)

	tags := document.Items(doc.Get(document.KeyTags))
	require.Len(t, tags, 1)
	name, _ := document.StringValue(document.Lookup(tags[0], "name"))
	assert.Equal(t, "user", name)

	assert.Equal(t, 2, res.Considered)
	assert.Equal(t, 1, res.Retained)
	assert.Equal(t, 1, res.Removed)
}

func TestPublishScenarioMixedTagsDropRoute(t *testing.T) {
	doc := mustParse(t, `
paths:
  /v1/accounts:
    get:
      tags: [Admin, User]
    post:
      tags: [User]
  /v1/pets:
    get:
      tags: [Pets]
`)
	res, err := Publish(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"/v1/pets"}, document.Keys(doc.Get(document.KeyPaths)))
	assert.Equal(t, map[string]int{"pets": 1}, res.TagUsage, "operations of dropped routes are not tallied")
	require.Len(t, res.Removals, 2)
	assert.Equal(t, ReasonAdminTag, res.Removals[0].Reason)
	assert.Equal(t, ReasonRouteSuperseded, res.Removals[1].Reason)
	assert.Equal(t, res.Considered, res.Retained+res.Removed)
}

func TestPublishScenarioSchemaChain(t *testing.T) {
	doc := mustParse(t, `
paths:
  /things:
    get:
      responses:
        "200":
          content:
            application/json:
              schema: {$ref: "#/components/schemas/A"}
components:
  schemas:
    A: {properties: {b: {$ref: "#/components/schemas/B"}}}
    B: {properties: {c: {$ref: "#/components/schemas/C"}}}
    C: {type: string}
    D: {type: string}
`)
	res, err := Publish(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, document.Keys(doc.Components(document.KeySchemas)))
	assert.Equal(t, []string{"D"}, res.PrunedSchemas)
}

func TestPublishScenarioNoServers(t *testing.T) {
	doc := mustParse(t, `{"openapi": "3.0.3", "paths": {}}`)
	res, err := Publish(doc)
	require.NoError(t, err)

	assert.True(t, res.ServersDefaulted)
	assert.Equal(t, []string{DefaultServerURL}, serverURLs(doc))
}

func TestPublishKeepsKeyOrder(t *testing.T) {
	doc := mustParse(t, `{
  "openapi": "3.1.0",
  "tags": [{"name": "stale"}],
  "info": {"title": "x"},
  "paths": {},
  "components": {"schemas": {"A": {}}}
}`)
	_, err := Publish(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"openapi", "tags", "info", "paths", "components", "servers"}, document.Keys(doc.Root()))
	assert.Empty(t, document.Items(doc.Get(document.KeyTags)), "tags is always replaced")
}

func TestPublishIsIdempotent(t *testing.T) {
	doc := mustParse(t, chainDoc)
	_, err := Publish(doc)
	require.NoError(t, err)
	first, err := doc.MarshalIndentJSON("  ")
	require.NoError(t, err)

	res, err := Publish(doc)
	require.NoError(t, err)
	second, err := doc.MarshalIndentJSON("  ")
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Empty(t, res.PrunedSchemas)
	assert.Empty(t, res.Removals)
}

func TestPublishLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	doc := mustParse(t, `
paths:
  /admin/x: {get: {}}
components:
  schemas:
    Gone: {}
`)
	_, err := Publish(doc, WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "removed route")
	assert.Contains(t, out, "path=/admin/x")
	assert.Contains(t, out, "pruned schema")
	assert.Contains(t, out, "schema=Gone")
	assert.Contains(t, out, "published document")
	assert.Contains(t, out, "considered=1")
}

func TestPublishWithLoadedCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tags:
  - name: Zebra
    description: Stripes.
operations:
  op1: Curated text.
`), 0o600))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)

	doc := mustParse(t, `
paths:
  /a: {get: {operationId: op1, tags: [alpha]}}
  /z: {get: {tags: [zebra]}}
`)
	res, err := Publish(doc, WithCatalog(catalog))
	require.NoError(t, err)

	require.Len(t, res.Tags, 2)
	assert.Equal(t, TagMetadata{Name: "zebra", Description: "Stripes.", DisplayName: "Zebra"}, res.Tags[0])
	assert.Equal(t, "alpha", res.Tags[1].Name)
	assert.Equal(t, "Curated text.", doc.Routes()[0].Operations()[0].Description())
}
