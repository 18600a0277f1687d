package browser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	doc, err := parseDocument(strings.NewReader(`<!DOCTYPE html>
<html lang="en"><head><title> Projects – Uploader </title></head>
<body><main data-page="projects"><h1>Projects</h1><h1>Second</h1></main></body></html>`))
	require.NoError(t, err)

	assert.Equal(t, Document{Lang: "en", Name: "projects", Title: "Projects – Uploader", Heading: "Projects"}, doc)
}

func TestParseDocument_Empty(t *testing.T) {
	doc, err := parseDocument(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Document{}, doc)
}
