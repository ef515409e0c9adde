package readme

import (
	"strings"
	"testing"
)

func TestResolveImageURL(t *testing.T) {
	tr := New("", "")
	testCases := []struct {
		name string
		src  string
		want string
	}{
		{"relative", "images/pic.png", "https://raw.githubusercontent.com/o/r/main/images/pic.png"},
		{"dot slash", "./docs/a.svg", "https://raw.githubusercontent.com/o/r/main/docs/a.svg"},
		{"parent", "../assets/b.png", "https://raw.githubusercontent.com/o/r/main/assets/b.png"},
		{"dot then parent", "./../c.png", "https://raw.githubusercontent.com/o/r/main/c.png"},
		{"deep parent keeps remainder", "../../d.png", "https://raw.githubusercontent.com/o/r/main/../d.png"},
		{"repo absolute", "/logo.png", "https://raw.githubusercontent.com/o/r/main/logo.png"},
		{"https", "https://example.com/x.png", "https://example.com/x.png"},
		{"http", "http://example.com/x.png", "http://example.com/x.png"},
		{"protocol relative", "//cdn.example.com/y.png", "//cdn.example.com/y.png"},
		{"data uri", "data:image/png;base64,AAAA", "data:image/png;base64,AAAA"},
		{"empty", "", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tr.ResolveImageURL("o", "r", tc.src); got != tc.want {
				t.Fatalf("ResolveImageURL(%q) = %q, want %q", tc.src, got, tc.want)
			}
		})
	}
}

func TestResolveImageURLCustomBase(t *testing.T) {
	tr := New("http://raw.local/", "develop")
	if got := tr.ResolveImageURL("o", "r", "a.png"); got != "http://raw.local/o/r/develop/a.png" {
		t.Fatalf("unexpected url %s", got)
	}
}

func TestToHTMLRewritesMarkdownImages(t *testing.T) {
	tr := New("", "")
	md := "Intro ![logo](images/logo.png \"The logo\") and ![abs](https://example.com/x.png) plus [link](docs/readme.md)\n\n" +
		"![ref][badge]\n\n[badge]: ./badges/ci.svg\n"
	out, err := tr.ToHTML(md, "o", "r")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	for _, want := range []string{
		`<img src="https://raw.githubusercontent.com/o/r/main/images/logo.png" alt="logo" title="The logo">`,
		`<img src="https://example.com/x.png" alt="abs">`,
		`<a href="docs/readme.md">link</a>`,
		`<img src="https://raw.githubusercontent.com/o/r/main/badges/ci.svg" alt="ref">`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %s", want, out)
		}
	}
}

func TestToHTMLLeavesImagesInCodeUntouched(t *testing.T) {
	tr := New("", "")
	md := "Use `![x](a.png)` inline.\n\n```md\n![y](b.png)\n<img src=\"c.png\">\n```\n\n![z](d.png)\n"
	out, err := tr.ToHTML(md, "o", "r")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	for _, want := range []string{
		`<code>![x](a.png)</code>`,
		"![y](b.png)\n&lt;img src=&quot;c.png&quot;&gt;",
		`<img src="https://raw.githubusercontent.com/o/r/main/d.png" alt="z">`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %s", want, out)
		}
	}
	if strings.Contains(out, "main/a.png") || strings.Contains(out, "main/b.png") || strings.Contains(out, "main/c.png") {
		t.Fatalf("code content must not be rewritten: %s", out)
	}
}

func TestRewriteHTMLImages(t *testing.T) {
	tr := New("", "")
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "double quoted",
			in:   `<p><img width="40" src="./a.png" alt="a"></p>`,
			want: `<p><img width="40" src="https://raw.githubusercontent.com/o/r/main/a.png" alt="a"></p>`,
		},
		{
			name: "single quoted",
			in:   `<img src='b.gif'>`,
			want: `<img src="https://raw.githubusercontent.com/o/r/main/b.gif">`,
		},
		{
			name: "unquoted",
			in:   `<img src=pic.png>`,
			want: `<img src="https://raw.githubusercontent.com/o/r/main/pic.png">`,
		},
		{
			name: "uppercase tag and attribute",
			in:   `<IMG SRC="pic.png" ALT="x">`,
			want: `<img src="https://raw.githubusercontent.com/o/r/main/pic.png" alt="x">`,
		},
		{
			name: "self closing",
			in:   `<img src="/logo.png" />`,
			want: `<img src="https://raw.githubusercontent.com/o/r/main/logo.png"/>`,
		},
		{
			name: "absolute untouched",
			in:   `<img src="https://x.io/c.png" alt="c">`,
			want: `<img src="https://x.io/c.png" alt="c">`,
		},
		{
			name: "other tags untouched",
			in:   `<a HREF="pic.png">pic</a> <source src="v.mp4">`,
			want: `<a HREF="pic.png">pic</a> <source src="v.mp4">`,
		},
		{
			name: "escaped markup untouched",
			in:   `<pre><code>&lt;img src="a.png"&gt;</code></pre>`,
			want: `<pre><code>&lt;img src="a.png"&gt;</code></pre>`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tr.RewriteHTMLImages(tc.in, "o", "r")
			if err != nil {
				t.Fatalf("RewriteHTMLImages: %v", err)
			}
			if got != tc.want {
				t.Fatalf("unexpected rewrite:\n got: %s\nwant: %s", got, tc.want)
			}
		})
	}
}

func TestToHTMLCodeBlocks(t *testing.T) {
	tr := New("", "")
	md := "```rust\nfn main() { println!(\"<hi>\"); }\n```\n\n```\nplain\n```\n"
	out, err := tr.ToHTML(md, "o", "r")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(out, `<pre><code class="language-rust">fn main() { println!(&quot;&lt;hi&gt;&quot;); }`) {
		t.Fatalf("rust block not tagged/escaped: %s", out)
	}
	if !strings.Contains(out, `<pre><code class="language-text">plain`) {
		t.Fatalf("default language missing: %s", out)
	}
	if strings.Count(out, "</code></pre>") != 2 {
		t.Fatalf("expected two closed code blocks: %s", out)
	}
}

func TestToHTMLRewritesBothImageForms(t *testing.T) {
	tr := New("", "")
	md := "# Title\n\n![shot](docs/shot.png)\n\n<img src=\"./banner.svg\" width=\"100\">\n"
	out, err := tr.ToHTML(md, "octo", "demo")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	for _, want := range []string{
		`src="https://raw.githubusercontent.com/octo/demo/main/docs/shot.png"`,
		`src="https://raw.githubusercontent.com/octo/demo/main/banner.svg"`,
		"<h1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %s", want, out)
		}
	}
}
