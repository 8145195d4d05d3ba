package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalOAS30Spec is a minimal valid OAS 3.0 spec for security tests.
const minimalOAS30Spec = `openapi: "3.0.0"
info:
  title: Test
  version: "1.0.0"
paths:
  /test:
    get:
      operationId: test
      responses:
        "200":
          description: OK
`

func TestPublishTool_OutputPathSymlinkRejected(t *testing.T) {
	specCache.reset()
	tmpDir := t.TempDir()
	realFile := filepath.Join(tmpDir, "real.yaml")
	linkFile := filepath.Join(tmpDir, "link.yaml")

	require.NoError(t, os.WriteFile(realFile, []byte("placeholder"), 0o600))
	require.NoError(t, os.Symlink(realFile, linkFile))

	input := publishInput{
		Spec:   specInput{Content: minimalOAS30Spec},
		Output: linkFile,
	}
	result, _, err := handlePublish(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError, "expected error for symlink output path")
	text := result.Content[0].(*mcp.TextContent).Text
	assert.Contains(t, text, "symlink")

	data, err := os.ReadFile(realFile)
	require.NoError(t, err)
	assert.Equal(t, "placeholder", string(data), "symlink target must be untouched")
}

func TestPublishTool_OutputPathNormalized(t *testing.T) {
	specCache.reset()
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "sub")
	require.NoError(t, os.Mkdir(subDir, 0o755))

	// Use a path with redundant components that cleans to a valid location.
	messyPath := subDir + string(filepath.Separator) + "." + string(filepath.Separator) + "output.yaml"

	input := publishInput{
		Spec:   specInput{Content: minimalOAS30Spec},
		Output: messyPath,
	}
	_, output, err := handlePublish(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	expected := filepath.Join(subDir, "output.yaml")
	assert.Equal(t, expected, output.WrittenTo)

	data, err := os.ReadFile(expected)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestPublishTool_OutputFilePermissions(t *testing.T) {
	specCache.reset()
	outPath := filepath.Join(t.TempDir(), "public.json")

	input := publishInput{
		Spec:   specInput{Content: minimalOAS30Spec},
		Output: outPath,
	}
	_, output, err := handlePublish(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotEmpty(t, output.WrittenTo)

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	perm := info.Mode().Perm()
	assert.Equal(t, os.FileMode(0o644), perm, "expected 0644 permissions, got %o", perm)
}

func TestPublishTool_URLToLoopbackBlocked(t *testing.T) {
	specCache.reset()
	saved := cfg.AllowPrivateIPs
	t.Cleanup(func() { cfg.AllowPrivateIPs = saved })
	cfg.AllowPrivateIPs = false

	input := publishInput{Spec: specInput{URL: "http://127.0.0.1:1/openapi.json"}}
	result, _, err := handlePublish(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	text := result.Content[0].(*mcp.TextContent).Text
	assert.Contains(t, text, "blocked request to private/loopback IP")
}
