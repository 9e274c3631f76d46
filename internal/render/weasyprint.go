// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/pdiddy/export-engine/internal/container"
	"github.com/pdiddy/export-engine/internal/markdown"
	"github.com/pdiddy/export-engine/pkg/types"
)

const imageWeasyprint = "weasyprint:latest"

// htmlShell wraps Goldmark HTML output for weasyprint. The font stack ends
// in Noto Sans CJK, which the weasyprint image ships, so CJK content renders
// without extra configuration.
const htmlShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: "DejaVu Sans", "Noto Sans", "Noto Sans CJK SC", sans-serif; font-size: 11pt; line-height: 1.45; color: #212121; margin: 2cm; }
pre { background: #f6f8fa; padding: 6pt; white-space: pre-wrap; }
code { font-family: "DejaVu Sans Mono", "Noto Sans Mono", monospace; color: #a62639; }
pre code { color: #24292e; }
table { border-collapse: collapse; width: 100%%; }
th, td { border: 0.4pt solid #b4b4b4; padding: 4pt; }
th { background: #f0f0f0; }
blockquote { border-left: 3pt solid #c8c8c8; margin-left: 0; padding-left: 14pt; }
a { color: #0563c1; }
</style>
</head>
<body>
%s</body>
</html>
`

// Weasyprint renders by piping Goldmark HTML through a weasyprint container
// image (`weasyprint - -`), PDF on stdout.
type Weasyprint struct {
	runtime container.Runtime
}

// NewWeasyprint verifies the weasyprint image exists in the given runtime
// before returning the engine.
func NewWeasyprint(rt container.Runtime) (*Weasyprint, error) {
	if err := rt.ImageExists(imageWeasyprint); err != nil {
		return nil, fmt.Errorf("%w: weasyprint image not available in %s: %v",
			types.ErrRenderConfiguration, rt.Name(), err)
	}
	return &Weasyprint{runtime: rt}, nil
}

// Backend identifies this engine in history records.
func (e *Weasyprint) Backend() types.RenderBackend { return types.BackendWeasyprint }

// Render converts the document source to HTML and runs it through the
// container.
func (e *Weasyprint) Render(ctx context.Context, doc *markdown.Document, title string) (*Result, error) {
	body, err := doc.ToHTML()
	if err != nil {
		return nil, fmt.Errorf("rendering HTML: %w", err)
	}
	page := fmt.Sprintf(htmlShell, html.EscapeString(title), body)

	var out bytes.Buffer
	if err := e.runtime.Run(ctx, imageWeasyprint, []string{"-", "-"}, strings.NewReader(page), &out); err != nil {
		return nil, fmt.Errorf("%w: weasyprint: %v", types.ErrRenderConfiguration, err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("%w: weasyprint produced empty output", types.ErrRenderConfiguration)
	}

	data := out.Bytes()
	return &Result{Data: data, Pages: countPages(data)}, nil
}
