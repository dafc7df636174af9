package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `metadataMap:
  - __class__: url-based-resource
    resource_class: App\Author
    url: /authors/1234
    extractor: AuthorExtractor
  - __class__: route-based-collection
    collection_class: App\AuthorCollection
    collection_relation: authors
    route: authors.list
`

// writeTestDocument writes content into a fresh temp directory and returns
// the file path.
func writeTestDocument(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateCommand(t *testing.T) {
	t.Run("has correct usage", func(t *testing.T) {
		cmd := NewValidateCommand()
		assert.Equal(t, "validate [file]", cmd.Use)
		assert.NotEmpty(t, cmd.Short)
		assert.NotEmpty(t, cmd.Long)
	})

	t.Run("accepts at most one argument", func(t *testing.T) {
		cmd := NewValidateCommand()
		assert.NoError(t, cmd.Args(cmd, []string{}))
		assert.NoError(t, cmd.Args(cmd, []string{"hal.yaml"}))
		assert.Error(t, cmd.Args(cmd, []string{"a.yaml", "b.yaml"}))
	})
}

func TestRunValidate_ValidDocument(t *testing.T) {
	path := writeTestDocument(t, "hal.yaml", sampleDocument)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "is valid")
	assert.Contains(t, output, "2 metadata classes compiled")
}

func TestRunValidate_SingleClass(t *testing.T) {
	path := writeTestDocument(t, "hal.json", `{
  "metadataMap": [
    {
      "__class__": "url-based-resource",
      "resource_class": "App\\Author",
      "url": "/authors/1234",
      "extractor": "AuthorExtractor"
    }
  ]
}`)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "1 metadata class compiled")
}

func TestRunValidate_MissingRequiredElement(t *testing.T) {
	path := writeTestDocument(t, "hal.yaml", `metadataMap:
  - __class__: url-based-resource
    resource_class: App\Author
    extractor: AuthorExtractor
`)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	assert.Contains(t, err.Error(), `missing "url" element`)
}

func TestRunValidate_UnknownMetadataClass(t *testing.T) {
	path := writeTestDocument(t, "hal.yaml", `metadataMap:
  - __class__: no-such-type
    resource_class: App\Author
`)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `Invalid metadata class provided: "no-such-type"`)
}

func TestRunValidate_NoDocumentFound(t *testing.T) {
	oldWd, _ := os.Getwd()
	os.Chdir(t.TempDir())
	defer os.Chdir(oldWd)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no metadata document found")
	assert.Contains(t, buf.String(), "NO METADATA DOCUMENT")
	assert.Contains(t, buf.String(), "halmeta scaffold")
}

func TestRunValidate_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to read metadata configuration")
}
