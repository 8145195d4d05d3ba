package publisher

import (
	"testing"

	"github.com/erraggy/oaspublish/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectRefs(t *testing.T) {
	doc := mustParse(t, `
a: {$ref: "#/components/schemas/Pet"}
b:
  - $ref: "#/components/schemas/Pet"
  - $ref: "#/components/schemas/Owner/properties/name"
  - $ref: "#/components/responses/NotFound"
  - $ref: "%23/components/schemas/Encoded%20Name"
  - $ref: "#/components/schemas/a~1b~0c"
  - $ref: 12
c:
  properties:
    $ref: {type: string}
`)
	got := CollectRefs(doc.Root(), SchemaRefPrefix)
	assert.Equal(t, []string{"Pet", "Owner", "Encoded Name", "a/b~c"}, got)

	assert.Equal(t, []string{"NotFound"}, CollectRefs(doc.Root(), "#/components/responses/"))
}

func TestCollectRefsCyclicAliases(t *testing.T) {
	doc := mustParse(t, `
node: &n
  $ref: "#/components/schemas/Loop"
  self: *n
`)
	assert.Equal(t, []string{"Loop"}, CollectRefs(doc.Root(), SchemaRefPrefix))
}

func TestCollectRefsDeepNesting(t *testing.T) {
	root := document.NewMapping("$ref", SchemaRefPrefix+"Deep")
	for range 10000 {
		root = document.NewMapping("items", root)
	}
	assert.Equal(t, []string{"Deep"}, CollectRefs(root, SchemaRefPrefix))
}

const chainDoc = `
openapi: 3.1.0
paths:
  /a:
    get:
      responses:
        "200":
          content:
            application/json:
              schema: {$ref: "#/components/schemas/A"}
        "404": {$ref: "#/components/responses/NotFound"}
components:
  responses:
    NotFound:
      content:
        application/json:
          schema: {$ref: "#/components/schemas/Problem"}
    Unused:
      content:
        application/json:
          schema: {$ref: "#/components/schemas/Orphan"}
  schemas:
    D: {type: string}
    A:
      type: object
      properties:
        b: {$ref: "#/components/schemas/B"}
    Orphan: {type: string}
    B:
      type: array
      items: {$ref: "#/components/schemas/C"}
    C:
      type: object
      properties:
        parent: {$ref: "#/components/schemas/A"}
        ghost: {$ref: "#/components/schemas/Missing"}
    Problem: {type: object}
`

func TestPruneSchemas(t *testing.T) {
	doc := mustParse(t, chainDoc)

	pruned := PruneSchemas(doc)
	assert.Equal(t, []string{"D", "Orphan"}, pruned)
	assert.Equal(t, []string{"A", "B", "C", "Problem"}, document.Keys(doc.Components(document.KeySchemas)))

	assert.Empty(t, PruneSchemas(doc), "pruning is a fixed point")
	assert.Equal(t, []string{"A", "B", "C", "Problem"}, document.Keys(doc.Components(document.KeySchemas)))

	assert.NotNil(t, doc.Component("responses", "Unused"), "only schemas are pruned")
}

func TestPruneSchemasFromWebhooks(t *testing.T) {
	doc := mustParse(t, `
paths: {}
webhooks:
  newPet:
    post:
      requestBody:
        content:
          application/json:
            schema: {$ref: "#/components/schemas/Pet"}
components:
  schemas:
    Pet: {type: object}
    Other: {type: object}
`)
	assert.Equal(t, []string{"Other"}, PruneSchemas(doc))
}

func TestPruneSchemasLeavesMissingSectionsAlone(t *testing.T) {
	doc := mustParse(t, `{"paths": {}}`)
	assert.Empty(t, PruneSchemas(doc))
	assert.Empty(t, PruneSecuritySchemes(doc))
	assert.Nil(t, doc.Get(document.KeyComponents), "components is never invented")

	doc = mustParse(t, `{"paths": {}, "components": {"schemas": {}}}`)
	assert.Empty(t, PruneSchemas(doc))
	assert.NotNil(t, doc.Components(document.KeySchemas))
}

func TestPruneSecuritySchemes(t *testing.T) {
	doc := mustParse(t, `
security:
  - global: []
paths:
  /pets:
    get:
      security:
        - bearer: []
        - apiKey: []
          oauth: [read]
    post:
      security:
        - $ref: "#/components/securitySchemes/refd"
webhooks:
  ping:
    post:
      security:
        - hook: []
components:
  securitySchemes:
    bearer: {type: http, scheme: bearer}
    unused: {type: http, scheme: basic}
    apiKey: {type: apiKey, in: header, name: X-Key}
    oauth: {type: oauth2}
    global: {type: http, scheme: bearer}
    refd: {type: http, scheme: bearer}
    hook: {type: http, scheme: bearer}
`)
	pruned := PruneSecuritySchemes(doc)
	assert.Equal(t, []string{"unused"}, pruned)
	assert.Equal(t,
		[]string{"bearer", "apiKey", "oauth", "global", "refd", "hook"},
		document.Keys(doc.Components(document.KeySecuritySchemes)))
}

func TestPruneSecuritySchemesUsedOnlyByRemovedOperation(t *testing.T) {
	doc := mustParse(t, `
paths:
  /admin/keys:
    get:
      security: [{adminOnly: []}]
  /pets:
    get:
      tags: [Admin]
      security: [{taggedAdminOnly: []}]
  /public:
    get:
      security: [{shared: []}]
  /internal:
    get:
      tags: [admin]
      security: [{shared: []}]
components:
  securitySchemes:
    adminOnly: {type: http, scheme: bearer}
    taggedAdminOnly: {type: http, scheme: bearer}
    shared: {type: http, scheme: bearer}
`)
	FilterOperations(doc, "admin", "/admin")
	pruned := PruneSecuritySchemes(doc)

	assert.Equal(t, []string{"adminOnly", "taggedAdminOnly"}, pruned)
	assert.Equal(t, []string{"shared"}, document.Keys(doc.Components(document.KeySecuritySchemes)))
}

func TestReachableSchemasAreReachable(t *testing.T) {
	doc := mustParse(t, chainDoc)
	PruneSchemas(doc)

	reachable := ReachableSchemas(doc)
	for _, name := range document.Keys(doc.Components(document.KeySchemas)) {
		require.True(t, reachable[name], "retained schema %s must be reachable", name)
	}
}

func TestPublishDropsAdminWebhookAndItsComponents(t *testing.T) {
	doc := mustParse(t, `
openapi: 3.1.0
paths:
  /pets:
    get:
      security: [{bearer: []}]
      responses:
        "200":
          content:
            application/json:
              schema: {$ref: "#/components/schemas/A"}
webhooks:
  petAdopted:
    post:
      tags: [Pets]
      requestBody:
        content:
          application/json:
            schema: {$ref: "#/components/schemas/B"}
  internalHook:
    post:
      tags: [Admin]
      security: [{adminKey: []}]
      requestBody:
        content:
          application/json:
            schema: {$ref: "#/components/schemas/AdminOnly"}
components:
  schemas:
    A: {properties: {b: {$ref: "#/components/schemas/B"}}}
    B: {properties: {a: {$ref: "#/components/schemas/A"}}}
    AdminOnly: {type: object}
    D: {type: object}
  securitySchemes:
    bearer: {type: http, scheme: bearer}
    adminKey: {type: apiKey, in: header, name: X-Admin}
`)
	res, err := Publish(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"petAdopted"}, document.Keys(doc.Get(document.KeyWebhooks)))
	require.Len(t, res.WebhookRemovals, 1)
	assert.Equal(t, "internalHook", res.WebhookRemovals[0].Path)
	assert.True(t, res.WebhookRemovals[0].Webhook)
	assert.Equal(t, 1, res.Considered, "webhooks stay out of the operation counts")

	assert.Equal(t, []string{"A", "B"}, document.Keys(doc.Components(document.KeySchemas)))
	assert.ElementsMatch(t, []string{"AdminOnly", "D"}, res.PrunedSchemas)
	assert.Equal(t, []string{"bearer"}, document.Keys(doc.Components(document.KeySecuritySchemes)))
	assert.Equal(t, []string{"adminKey"}, res.PrunedSecuritySchemes)
}
