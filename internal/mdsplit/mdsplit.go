// Package mdsplit splits a markdown corpus at level-1 and level-2 heading
// boundaries into retrieval chunks.
package mdsplit

import (
	"strings"

	"github.com/flexigpt/agentgate-go/spec"
)

// Split cuts the text at every "# " and "## " line. Each chunk keeps its
// heading line in Text and carries the heading path (level-1 heading,
// then level-2 if present). Deeper headings stay inside their chunk.
// Text before the first heading becomes a chunk with an empty path.
func Split(markdown string) []spec.RetrievedChunk {
	lines := strings.Split(markdown, "\n")

	var chunks []spec.RetrievedChunk
	var cur []string
	var h1, h2 string

	flush := func() {
		text := strings.TrimSpace(strings.Join(cur, "\n"))
		cur = nil
		if text == "" {
			return
		}
		var path []string
		if h1 != "" {
			path = append(path, h1)
		}
		if h2 != "" {
			path = append(path, h2)
		}
		chunks = append(chunks, spec.RetrievedChunk{HeadingPath: path, Text: text})
	}

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "# "):
			flush()
			h1 = strings.TrimSpace(strings.TrimPrefix(line, "# "))
			h2 = ""
		case strings.HasPrefix(line, "## "):
			flush()
			h2 = strings.TrimSpace(strings.TrimPrefix(line, "## "))
		}
		cur = append(cur, line)
	}
	flush()

	return chunks
}
