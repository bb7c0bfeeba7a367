package chart

import (
	"bytes"
	"errors"
	"io/fs"
	"os"

	"github.com/golang/glog"
	"golang.org/x/net/html"
)

// EmbedStylesheet inserts css as a <style> element directly after the opening
// <svg> tag. Documents that already carry a <style> element, or that have no
// <svg> start tag, are returned unchanged.
func EmbedStylesheet(svg []byte, css []byte) []byte {
	if len(css) == 0 {
		return svg
	}

	z := html.NewTokenizer(bytes.NewReader(svg))
	z.AllowCDATA(true)

	var (
		offset   int
		insertAt = -1
	)

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		offset += len(z.Raw())

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		name, _ := z.TagName()
		switch string(name) {
		case "style":
			return svg
		case "svg":
			if insertAt < 0 && tt == html.StartTagToken {
				insertAt = offset
			}
		}
	}

	if insertAt < 0 {
		return svg
	}

	var b bytes.Buffer
	b.Grow(len(svg) + len(css) + 64)
	b.Write(svg[:insertAt])
	b.WriteString("\n<style type=\"text/css\">\n<![CDATA[\n")
	// "]]>" would end the section early, so split it across two sections
	b.Write(bytes.ReplaceAll(css, []byte("]]>"), []byte("]]]]><![CDATA[>")))
	b.WriteString("\n]]>\n</style>\n")
	b.Write(svg[insertAt:])

	return b.Bytes()
}

// loadTheme reads the stylesheet at path. A missing file is not an error, the
// chart is simply served without styling.
func loadTheme(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}

	css, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if glog.V(2) {
			glog.Infof("Theme %s not found, serving unstyled charts", path)
		}
		return nil, nil
	}

	return css, err
}
