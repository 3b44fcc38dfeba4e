package fonts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/jmylchreest/orgpage/pkg/document"
	"github.com/jmylchreest/orgpage/pkg/fetcher"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		css       string
		want      Face
		wantFound bool
	}{
		{
			name: "font-face with first src url",
			css: `body { font-family: Arial; }
@font-face {
  font-family: "Company Sans";
  src: url('/fonts/cs.woff2') format('woff2'), url(/fonts/cs.woff) format('woff');
}`,
			want:      Face{Family: "Company Sans", URL: "/fonts/cs.woff2"},
			wantFound: true,
		},
		{
			name:      "font-face without src",
			css:       `@font-face{font-family:Foo}`,
			want:      Face{Family: "Foo"},
			wantFound: true,
		},
		{
			name: "font-face wins over google import",
			css: `@import url('https://fonts.googleapis.com/css2?family=Roboto&display=swap');
@font-face { font-family: 'Brand'; src: url(brand.ttf); }`,
			want:      Face{Family: "Brand", URL: "brand.ttf"},
			wantFound: true,
		},
		{
			name:      "google fonts import",
			css:       `@import url('https://fonts.googleapis.com/css2?family=PT+Sans:wght@400&display=swap'); body { font-family: Arial; }`,
			want:      Face{Family: "PT Sans"},
			wantFound: true,
		},
		{
			name:      "body rule first entry",
			css:       `h1 { font-family: Impact; } body { margin: 0; font-family: "Helvetica Neue", Arial, sans-serif; }`,
			want:      Face{Family: "Helvetica Neue"},
			wantFound: true,
		},
		{
			name:      "tbody is not body",
			css:       `tbody { font-family: Courier; } body { font-family: Georgia; }`,
			want:      Face{Family: "Georgia"},
			wantFound: true,
		},
		{
			name:      "any declaration",
			css:       `.title { font-family: Verdana, sans-serif; }`,
			want:      Face{Family: "Verdana"},
			wantFound: true,
		},
		{
			name:      "keywords and variables skipped",
			css:       `body { font-family: var(--main-font); } .x { font-family: inherit; } .y { font-family: Tahoma; }`,
			want:      Face{Family: "Tahoma"},
			wantFound: true,
		},
		{
			name:      "nothing",
			css:       `p { color: red; }`,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := Detect(tt.css)
			if found != tt.wantFound {
				t.Fatalf("Detect() found = %v, want %v", found, tt.wantFound)
			}
			if got != tt.want {
				t.Errorf("Detect() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStylesheets(t *testing.T) {
	doc, err := document.ParseString(`<html><head>
<link rel="stylesheet" href="/a.css">
<link rel="preload stylesheet" href="b.css">
<link rel="icon" href="/favicon.ico">
<link rel="stylesheet">
</head></html>`, "https://example.org/dir/")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	got := Stylesheets(doc)
	want := []string{"https://example.org/a.css", "https://example.org/dir/b.css"}
	if !slices.Equal(got, want) {
		t.Errorf("Stylesheets() = %q, want %q", got, want)
	}
}

func newSite(t *testing.T, files map[string]string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestDetector_Find_SkipsFailedStylesheet(t *testing.T) {
	srv, _ := newSite(t, map[string]string{
		"/css/site.css": `@font-face { font-family: "Site Font"; src: url("../fonts/site.woff2"); }`,
	})
	doc, err := document.ParseString(`<html><head>
<link rel="stylesheet" href="/css/missing.css">
<link rel="stylesheet" href="/css/site.css">
</head></html>`, srv.URL+"/")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	det, found, failures := NewDetector(fetcher.NewStatic(fetcher.StaticConfig{}), fetcher.Options{}).Find(context.Background(), doc)

	if !found {
		t.Fatal("expected a font to be found")
	}
	if det.Family != "Site Font" {
		t.Errorf("Family = %q", det.Family)
	}
	if det.URL != srv.URL+"/fonts/site.woff2" {
		t.Errorf("URL = %q", det.URL)
	}
	if det.Stylesheet != srv.URL+"/css/site.css" {
		t.Errorf("Stylesheet = %q", det.Stylesheet)
	}
	if len(failures) != 1 || !errors.Is(failures[0], fetcher.ErrFetchFailed) {
		t.Errorf("failures = %v, want one fetch failure", failures)
	}
}

func TestDetector_Find_StopsAtFirstMatch(t *testing.T) {
	srv, hits := newSite(t, map[string]string{
		"/a.css": `body { font-family: Georgia; }`,
		"/b.css": `body { font-family: Arial; }`,
	})
	doc, err := document.ParseString(`<html><head>
<link rel="stylesheet" href="/a.css">
<link rel="stylesheet" href="/b.css">
<style>body { font-family: Tahoma; }</style>
</head></html>`, srv.URL+"/")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	det, found, _ := NewDetector(fetcher.NewStatic(fetcher.StaticConfig{}), fetcher.Options{}).Find(context.Background(), doc)

	if !found || det.Family != "Georgia" {
		t.Errorf("Find() = %+v, %v; want Georgia", det, found)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("expected 1 stylesheet request, got %d", n)
	}
}

func TestDetector_Find_InlineStyle(t *testing.T) {
	doc, err := document.ParseString(`<html><head>
<style>@font-face { font-family: Inline; src: url(/f/inline.woff); }</style>
</head></html>`, "https://example.org/page/")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	det, found, failures := NewDetector(fetcher.NewStatic(fetcher.StaticConfig{}), fetcher.Options{}).Find(context.Background(), doc)

	if !found {
		t.Fatal("expected inline font")
	}
	if det.Family != "Inline" || det.URL != "https://example.org/f/inline.woff" {
		t.Errorf("Find() = %+v", det)
	}
	if det.Stylesheet != "" {
		t.Errorf("Stylesheet = %q, want empty", det.Stylesheet)
	}
	if len(failures) != 0 {
		t.Errorf("failures = %v", failures)
	}
}

func TestDetector_Find_NothingFound(t *testing.T) {
	doc, err := document.ParseString(`<html><body>plain</body></html>`, "https://example.org/")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	_, found, failures := NewDetector(fetcher.NewStatic(fetcher.StaticConfig{}), fetcher.Options{}).Find(context.Background(), doc)

	if found {
		t.Error("expected no font")
	}
	if len(failures) != 0 {
		t.Errorf("failures = %v", failures)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"https://example.org/css/a.css", "../fonts/x.woff2", "https://example.org/fonts/x.woff2"},
		{"https://example.org/css/a.css", "https://cdn.example.org/x.woff", "https://cdn.example.org/x.woff"},
		{"https://example.org/css/a.css", "data:font/woff2;base64,AAAA", "data:font/woff2;base64,AAAA"},
		{"https://example.org/css/a.css", "", ""},
		{"", "/x.woff", "/x.woff"},
	}
	for _, tt := range tests {
		if got := resolve(tt.base, tt.ref); got != tt.want {
			t.Errorf("resolve(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
		}
	}
}
