package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// noteHTML converts note markdown into a full HTML document laid out at
// widthPx. Math spans ($...$ and $$...$$) pass through goldmark untouched
// and are typeset by KaTeX in the page before any measurement happens, so
// measuring and printing see the same glyphs. KaTeX renders malformed math
// inline in error color instead of failing the panel.
func noteHTML(md string, widthPx int, baseFontPx float64) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(md), &body); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return fmt.Sprintf(pageTemplate, baseFontPx, widthPx, body.String()), nil
}

// pageTemplate args: base font px, panel width px, rendered body HTML.
// The sheet uses rem units throughout so the fit script can scale the whole
// panel by adjusting the root font size alone.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/katex.min.css">
<script src="https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/katex.min.js"></script>
<script src="https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/contrib/auto-render.min.js"></script>
<style>
  html { font-size: %[1]gpx; }
  html, body { margin: 0; padding: 0; }
  body {
    width: %[2]dpx;
    box-sizing: border-box;
    padding: 0.9rem 1.1rem;
    font-family: Georgia, "Times New Roman", serif;
    font-size: 1rem;
    line-height: 1.45;
    color: #1a1a1a;
    background: #fffdf7;
  }
  p { margin: 0 0 0.6rem; }
  strong { color: #00306b; }
  .katex-display { margin: 0.5rem 0; }
</style>
</head>
<body>
%[3]s
<script>
window.__typeset = false;
document.addEventListener("DOMContentLoaded", function () {
  if (window.renderMathInElement) {
    try {
      renderMathInElement(document.body, {
        delimiters: [
          {left: "$$", right: "$$", display: true},
          {left: "$", right: "$", display: false}
        ],
        throwOnError: false
      });
    } catch (e) { /* leave raw math in place */ }
  }
  window.__typeset = true;
});
</script>
</body>
</html>
`
