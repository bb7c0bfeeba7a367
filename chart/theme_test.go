package chart

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plainSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" data-note="a>b" viewBox="0 0 800 600"><g><circle r="10"/></g></svg>`

func TestEmbedStylesheet(t *testing.T) {
	out := string(EmbedStylesheet([]byte(plainSVG), []byte(".sun { fill: gold; }")))

	svgOpen := `viewBox="0 0 800 600">`
	i := strings.Index(out, svgOpen)
	require.NotEqual(t, -1, i)

	rest := out[i+len(svgOpen):]
	assert.True(t, strings.HasPrefix(rest,
		"\n<style type=\"text/css\">\n<![CDATA[\n.sun { fill: gold; }\n]]>\n</style>\n<g>",
	), rest)
	assert.True(t, strings.HasSuffix(out, "</g></svg>"))
}

func TestEmbedStylesheetUnchanged(t *testing.T) {
	styled := `<svg><style>.a{}</style><g/></svg>`
	assert.Equal(t, styled, string(EmbedStylesheet([]byte(styled), []byte(".b{}"))))

	notSVG := `{"name":"Ada"}`
	assert.Equal(t, notSVG, string(EmbedStylesheet([]byte(notSVG), []byte(".b{}"))))

	assert.Equal(t, plainSVG, string(EmbedStylesheet([]byte(plainSVG), nil)))
}

func TestEmbedStylesheetEscapesCDATAEnd(t *testing.T) {
	out := string(EmbedStylesheet([]byte(`<svg></svg>`), []byte(`a]]>b`)))
	assert.Contains(t, out, "a]]]]><![CDATA[>b")
	assert.Equal(t, 1, strings.Count(out, "<style"))
}

func TestLoadTheme(t *testing.T) {
	css, err := loadTheme(filepath.Join(t.TempDir(), "missing.css"))
	require.NoError(t, err)
	assert.Nil(t, css)

	path := filepath.Join(t.TempDir(), "astral.css")
	require.NoError(t, os.WriteFile(path, []byte(".moon{}"), 0o600))
	css, err = loadTheme(path)
	require.NoError(t, err)
	assert.Equal(t, ".moon{}", string(css))
}
