package markdown

import (
	"strings"
	"testing"
)

func TestRenderLink_ForcesNewTabAttributes(t *testing.T) {
	got := string(Render(`see [the docs](https://example.com/docs)`))
	want := `<a href="https://example.com/docs" title="" target="_blank" rel="noopener noreferrer">the docs</a>`
	if !strings.Contains(got, want) {
		t.Fatalf("link attributes not forced:\n got  %s\n want substring %s", got, want)
	}
}

func TestRenderLink_KeepsExplicitTitle(t *testing.T) {
	got := string(Render(`[x](https://example.com "Example")`))
	if !strings.Contains(got, `title="Example"`) {
		t.Fatalf("explicit title lost: %s", got)
	}
	if !strings.Contains(got, `target="_blank"`) || !strings.Contains(got, `rel="noopener noreferrer"`) {
		t.Fatalf("forced attributes missing with explicit title: %s", got)
	}
}

func TestRenderAutoLink_AlsoOpensNewTab(t *testing.T) {
	// GFM linkify turns bare URLs into autolinks; they must behave like links.
	got := string(Render(`visit https://example.com now`))
	if !strings.Contains(got, `target="_blank"`) || !strings.Contains(got, `rel="noopener noreferrer"`) {
		t.Fatalf("autolink should open in a new tab: %s", got)
	}
	if !strings.Contains(got, `>https://example.com</a>`) {
		t.Fatalf("autolink label lost: %s", got)
	}
}

func TestRenderSoftBreak_BecomesHardBreak(t *testing.T) {
	got := string(Render("line one\nline two"))
	if !strings.Contains(got, "<br") {
		t.Fatalf("single newline should render as a visible break: %s", got)
	}
}

func TestRenderImage_CarriesLoadHook(t *testing.T) {
	got := string(Render(`![a cat](https://example.com/cat.png)`))
	if !strings.Contains(got, `src="https://example.com/cat.png"`) {
		t.Fatalf("image src lost: %s", got)
	}
	if !strings.Contains(got, `alt="a cat"`) {
		t.Fatalf("image alt lost: %s", got)
	}
	if !strings.Contains(got, ImageLoadedJS) || !strings.Contains(got, "onload=") {
		t.Fatalf("image load hook missing: %s", got)
	}
}

func TestRenderImage_TitleOnlyWhenPresent(t *testing.T) {
	got := string(Render(`![a](https://example.com/a.png "A title")`))
	if !strings.Contains(got, `title="A title"`) {
		t.Fatalf("image title lost: %s", got)
	}
	got = string(Render(`![a](https://example.com/a.png)`))
	if strings.Contains(got, `title=`) {
		t.Fatalf("image without title should not grow one: %s", got)
	}
}

func TestRenderRawHTML_IsNeutralized(t *testing.T) {
	got := string(Render(`<script>alert("x")</script>`))
	if strings.Contains(got, "<script>") {
		t.Fatalf("raw HTML must not pass through: %s", got)
	}
}

func TestRenderDangerousURL_Dropped(t *testing.T) {
	got := string(Render(`[x](javascript:alert(1))`))
	if strings.Contains(got, "javascript:") {
		t.Fatalf("dangerous URL must be dropped: %s", got)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := string(Render("   \n ")); got != "" {
		t.Fatalf("blank input should render empty; got %q", got)
	}
}

func TestRenderEmojiShortcode(t *testing.T) {
	got := string(Render(`ship it :rocket:`))
	if strings.Contains(got, ":rocket:") {
		t.Fatalf("emoji shortcode should be replaced: %s", got)
	}
}
