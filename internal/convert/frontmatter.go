// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/fetchd/pkg/types"
)

// AddFrontmatter prepends a YAML frontmatter block describing doc to its
// Markdown body.
func AddFrontmatter(doc types.Document) (string, error) {
	meta, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(meta)
	b.WriteString("---\n\n")
	b.WriteString(doc.Markdown)
	return b.String(), nil
}
