// Package markdown renders coto content to HTML for browser surfaces.
//
// Two renderers are overridden on top of the stock goldmark HTML output:
// links always open in a new tab (forced target/rel, title always present),
// and images carry an onload hook so the page can re-scroll the timeline once
// late-loading images settle.
package markdown

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// ImageLoadedJS is the browser-side function each rendered image calls when it
// finishes loading. Pages that embed rendered cotos define it to emit the
// timeline's ImageLoaded event (which re-scrolls to the bottom).
const ImageLoadedJS = "cotoImageLoaded"

const imageOnLoad = "window." + ImageLoadedJS + "&&window." + ImageLoadedJS + "(this)"

var cotoMarkdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		// Do not allow raw HTML passthrough (avoid XSS).
		// Note: we intentionally do NOT use html.WithUnsafe().
		//
		// Cotos are chat-like: a single newline is a visible break.
		html.WithHardWraps(),
		renderer.WithNodeRenderers(
			util.Prioritized(&cotoNodeRenderer{}, 500),
		),
	),
)

// Render converts coto markdown to HTML. Render errors degrade to escaped
// preformatted text rather than surfacing (timeline errors are swallowed).
func Render(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return template.HTML("")
	}
	var b bytes.Buffer
	if err := cotoMarkdown.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	// goldmark output is trusted only because raw HTML is disabled above.
	return template.HTML(b.String())
}

// cotoNodeRenderer overrides link, autolink and image rendering. Priority 500
// beats the stock HTML renderer (1000) for just these kinds.
type cotoNodeRenderer struct{}

func (r *cotoNodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindAutoLink, r.renderAutoLink)
	reg.Register(ast.KindImage, r.renderImage)
}

// linkAttrs are forced on every anchor regardless of the source markdown, and
// the title attribute is always present (empty when the source has none).
const linkAttrs = `" target="_blank" rel="noopener noreferrer">`

func (r *cotoNodeRenderer) renderLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<a href="`)
	if !html.IsDangerousURL(n.Destination) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	}
	_, _ = w.WriteString(`" title="`)
	if n.Title != nil {
		_, _ = w.Write(util.EscapeHTML(n.Title))
	}
	_, _ = w.WriteString(linkAttrs)
	return ast.WalkContinue, nil
}

func (r *cotoNodeRenderer) renderAutoLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.AutoLink)
	if !entering {
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<a href="`)
	url := n.URL(source)
	label := n.Label(source)
	if n.AutoLinkType == ast.AutoLinkEmail && !bytes.HasPrefix(bytes.ToLower(url), []byte("mailto:")) {
		_, _ = w.WriteString("mailto:")
	}
	if !html.IsDangerousURL(url) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(url, false)))
	}
	_, _ = w.WriteString(`" title="`)
	_, _ = w.WriteString(linkAttrs)
	_, _ = w.Write(util.EscapeHTML(label))
	_, _ = w.WriteString("</a>")
	return ast.WalkContinue, nil
}

func (r *cotoNodeRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)
	_, _ = w.WriteString(`<img src="`)
	if !html.IsDangerousURL(n.Destination) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	}
	_, _ = w.WriteString(`" alt="`)
	_, _ = w.Write(util.EscapeHTML(altText(n, source)))
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(n.Title))
		_ = w.WriteByte('"')
	}
	// The load hook: lets the page re-scroll once the final height is known.
	_, _ = w.WriteString(` onload="` + imageOnLoad + `">`)
	return ast.WalkSkipChildren, nil
}

// altText collects the plain text under an image node for its alt attribute.
func altText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.Write(altText(c, source))
		}
	}
	return buf.Bytes()
}
