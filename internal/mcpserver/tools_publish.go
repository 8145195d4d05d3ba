package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/erraggy/oaspublish/document"
	"github.com/erraggy/oaspublish/publisher"
	"github.com/erraggy/oaspublish/sink"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type publishInput struct {
	Spec            specInput `json:"spec"                       jsonschema:"The OAS document to publish"`
	ServerURL       string    `json:"server_url,omitempty"       jsonschema:"Server URL to declare when the document has none (default OASPUBLISH_SERVER_URL)"`
	AdminTag        string    `json:"admin_tag,omitempty"        jsonschema:"Tag marking administrative operations (default admin)"`
	AdminSegment    string    `json:"admin_segment,omitempty"    jsonschema:"Path substring marking administrative routes (default /admin)"`
	Format          string    `json:"format,omitempty"           jsonschema:"Output format: json (default) or yaml"`
	Output          string    `json:"output,omitempty"           jsonschema:"File path to write the published document. If omitted the document is returned inline when include_document is true."`
	IncludeDocument bool      `json:"include_document,omitempty" jsonschema:"Include the full published document in output"`
	Offset          int       `json:"offset,omitempty"           jsonschema:"Skip the first N removals (for pagination)"`
	Limit           int       `json:"limit,omitempty"            jsonschema:"Maximum number of removals to return (default 100)"`
}

type removalSummary struct {
	Path       string   `json:"path"`
	Method     string   `json:"method,omitempty"`
	Reason     string   `json:"reason"`
	Tags       []string `json:"tags,omitempty"`
	Operations int      `json:"operations"`
}

type tagSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DisplayName string `json:"display_name"`
}

type publishOutput struct {
	Considered            int              `json:"considered"`
	Retained              int              `json:"retained"`
	Removed               int              `json:"removed"`
	ServersDefaulted      bool             `json:"servers_defaulted,omitempty"`
	Returned              int              `json:"returned"`
	Removals              []removalSummary `json:"removals,omitempty"`
	WebhookRemovals       []removalSummary `json:"webhook_removals,omitempty"`
	Tags                  []tagSummary     `json:"tags,omitempty"`
	OverriddenOperations  []string         `json:"overridden_operations,omitempty"`
	OverriddenSchemas     []string         `json:"overridden_schemas,omitempty"`
	PrunedSchemas         []string         `json:"pruned_schemas,omitempty"`
	PrunedSecuritySchemes []string         `json:"pruned_security_schemes,omitempty"`
	WrittenTo             string           `json:"written_to,omitempty"`
	Document              string           `json:"document,omitempty"`
}

func handlePublish(ctx context.Context, _ *mcp.CallToolRequest, input publishInput) (*mcp.CallToolResult, publishOutput, error) {
	format := document.FormatJSON
	if input.Format != "" {
		f, err := document.ParseFormat(input.Format)
		if err != nil {
			return errResult(err), publishOutput{}, nil
		}
		format = f
	}

	p, err := publisher.New(buildPublisherOptions(input)...)
	if err != nil {
		return errResult(err), publishOutput{}, nil
	}

	loaded, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), publishOutput{}, nil
	}

	result := p.Publish(loaded.Document)

	output := publishOutput{
		Considered:            result.Considered,
		Retained:              result.Retained,
		Removed:               result.Removed,
		ServersDefaulted:      result.ServersDefaulted,
		OverriddenOperations:  result.Overrides.Operations,
		OverriddenSchemas:     result.Overrides.Schemas,
		PrunedSchemas:         result.PrunedSchemas,
		PrunedSecuritySchemes: result.PrunedSecuritySchemes,
	}

	output.Removals = paginate(summarizeRemovals(result.Removals), input.Offset, input.Limit)
	output.Returned = len(output.Removals)
	output.WebhookRemovals = summarizeRemovals(result.WebhookRemovals)

	output.Tags = makeSlice[tagSummary](len(result.Tags))
	for _, t := range result.Tags {
		output.Tags = append(output.Tags, tagSummary{Name: t.Name, Description: t.Description, DisplayName: t.DisplayName})
	}

	if input.Output != "" || input.IncludeDocument {
		data, err := sink.New(sink.WithFormat(format)).Render(result.Document)
		if err != nil {
			return errResult(err), publishOutput{}, nil
		}
		if input.Output != "" {
			dest, err := filepath.Abs(filepath.Clean(input.Output))
			if err != nil {
				return errResult(fmt.Errorf("invalid output path: %w", err)), publishOutput{}, nil
			}
			if err := sink.WriteFile(dest, data); err != nil {
				return errResult(fmt.Errorf("failed to write output file: %w", err)), publishOutput{}, nil
			}
			output.WrittenTo = dest
		}
		if input.IncludeDocument {
			output.Document = string(data)
		}
	}

	return nil, output, nil
}

func summarizeRemovals(removals []publisher.Removal) []removalSummary {
	out := makeSlice[removalSummary](len(removals))
	for _, r := range removals {
		out = append(out, removalSummary{
			Path:       r.Path,
			Method:     r.Method,
			Reason:     string(r.Reason),
			Tags:       r.Tags,
			Operations: r.Operations,
		})
	}
	return out
}

// buildPublisherOptions layers tool arguments over the server defaults.
func buildPublisherOptions(input publishInput) []publisher.Option {
	opts := []publisher.Option{
		publisher.WithDefaultServerURL(firstNonEmpty(input.ServerURL, cfg.ServerURL)),
		publisher.WithAdminTag(firstNonEmpty(input.AdminTag, cfg.AdminTag)),
		publisher.WithAdminPathSegment(firstNonEmpty(input.AdminSegment, cfg.AdminPathSegment)),
	}
	if cfg.CatalogPath != "" {
		opts = append(opts, func(p *publisher.Publisher) error {
			catalog, err := publisher.LoadCatalog(cfg.CatalogPath)
			if err != nil {
				return err
			}
			p.Catalog = catalog
			return nil
		})
	}
	return opts
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
