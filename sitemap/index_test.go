package sitemap

import (
	"reflect"
	"testing"

	"github.com/janesferr/Regression-test/models"
)

func TestCanonicalPath(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "https://example.com/", want: "/"},
		{raw: "https://example.com", want: "/"},
		{raw: "https://example.com/about/", want: "/about"},
		{raw: "https://example.com/about", want: "/about"},
		{raw: "https://example.com/about///", want: "/about"},
		{raw: "https://example.com/about?utm=1", want: "/about"},
		{raw: "https://example.com/about#team", want: "/about"},
		{raw: "https://example.com/Blog/Posts/", want: "/Blog/Posts"},
		{raw: "  https://example.com/padded/  ", want: "/padded"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := CanonicalPath(tt.raw)
			if err != nil {
				t.Fatalf("CanonicalPath(%q): %v", tt.raw, err)
			}
			if got != tt.want {
				t.Fatalf("CanonicalPath(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestBuildIndexFromSitemap(t *testing.T) {
	r, transport := newTestReader(t)
	transport.RegisterResponder("GET", "http://source.test/page-sitemap.xml", xmlResponder(200, `<?xml version="1.0"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://source.test/</loc></url>
  <url><loc>https://source.test/about/</loc></url>
  <url><loc>https://source.test/about?v=2</loc></url>
</urlset>`))

	idx := BuildIndex(r, "source", "http://source.test", "http://source.test/page-sitemap.xml")

	if idx.Degraded {
		t.Fatalf("index should not be degraded")
	}
	wantPaths := []string{"/", "/about"}
	if got := idx.Paths(); !reflect.DeepEqual(got, wantPaths) {
		t.Fatalf("paths = %v, want %v", got, wantPaths)
	}
	// Duplicate canonical path: last sitemap entry wins.
	url, _ := idx.URL("/about")
	if url != "https://source.test/about?v=2" {
		t.Fatalf("url for /about = %q, want last entry", url)
	}
}

func TestBuildIndexFallsBackOnFetchFailure(t *testing.T) {
	r, transport := newTestReader(t)
	transport.RegisterResponder("GET", "http://target.test/page-sitemap.xml", xmlResponder(500, "boom"))

	idx := BuildIndex(r, "target", "http://target.test", "http://target.test/page-sitemap.xml")

	if !idx.Degraded {
		t.Fatalf("index should be flagged degraded")
	}
	if idx.Len() != 1 {
		t.Fatalf("len = %d, want 1", idx.Len())
	}
	url, ok := idx.URL("/")
	if !ok || url != "http://target.test" {
		t.Fatalf("root url = %q (ok=%v), want base URL", url, ok)
	}
}

func TestBuildIndexFallsBackOnEmptySitemap(t *testing.T) {
	r, transport := newTestReader(t)
	transport.RegisterResponder("GET", "http://source.test/page-sitemap.xml", xmlResponder(200, `<?xml version="1.0"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"></urlset>`))

	idx := BuildIndex(r, "source", "http://source.test", "http://source.test/page-sitemap.xml")

	if !idx.Degraded || idx.Len() != 1 {
		t.Fatalf("empty sitemap should degrade to homepage-only index, got len=%d degraded=%v", idx.Len(), idx.Degraded)
	}
}

func buildIndexFromPairs(label, base string, pairs [][2]string) *models.SiteIndex {
	idx := models.NewSiteIndex(label, base)
	for _, pair := range pairs {
		idx.Add(pair[0], pair[1])
	}
	return idx
}

func TestReconcileOrderAndSides(t *testing.T) {
	source := buildIndexFromPairs("source", "http://source.test", [][2]string{
		{"/", "http://source.test/"},
		{"/about", "http://source.test/about/"},
		{"/contact", "http://source.test/contact/"},
	})
	target := buildIndexFromPairs("target", "http://target.test", [][2]string{
		{"/", "http://target.test/"},
		{"/about", "http://target.test/about/"},
		{"/pricing", "http://target.test/pricing/"},
	})

	items := Reconcile(source, target)

	wantPaths := []string{"/", "/about", "/contact", "/pricing"}
	if len(items) != len(wantPaths) {
		t.Fatalf("items = %d, want %d", len(items), len(wantPaths))
	}
	for i, want := range wantPaths {
		if items[i].Path != want {
			t.Fatalf("items[%d].Path = %q, want %q", i, items[i].Path, want)
		}
	}

	if items[2].Path != "/contact" || items[2].TargetURL != "" || items[2].SourceURL == "" {
		t.Fatalf("/contact should be source-only: %+v", items[2])
	}
	if items[3].Path != "/pricing" || items[3].SourceURL != "" || items[3].TargetURL == "" {
		t.Fatalf("/pricing should be target-only: %+v", items[3])
	}
	if items[1].SourceURL == "" || items[1].TargetURL == "" {
		t.Fatalf("/about should exist on both sides: %+v", items[1])
	}
}

func TestReconcileNoDuplicates(t *testing.T) {
	source := buildIndexFromPairs("source", "s", [][2]string{
		{"/", "s/"}, {"/a", "s/a"},
	})
	target := buildIndexFromPairs("target", "t", [][2]string{
		{"/a", "t/a"}, {"/", "t/"}, {"/b", "t/b"},
	})

	items := Reconcile(source, target)

	seen := make(map[string]bool)
	for _, item := range items {
		if seen[item.Path] {
			t.Fatalf("duplicate path %q in work list", item.Path)
		}
		seen[item.Path] = true
	}
	if len(items) != 3 {
		t.Fatalf("items = %d, want union size 3", len(items))
	}
}

func TestReconcileAgainstDegradedTarget(t *testing.T) {
	source := buildIndexFromPairs("source", "http://source.test", [][2]string{
		{"/", "http://source.test/"},
		{"/about", "http://source.test/about/"},
		{"/contact", "http://source.test/contact/"},
	})
	target := models.NewSiteIndex("target", "http://target.test")
	target.Degraded = true
	target.Add("/", "http://target.test")

	items := Reconcile(source, target)

	if len(items) != 3 {
		t.Fatalf("items = %d, want every source path", len(items))
	}
	if items[0].TargetURL == "" {
		t.Fatalf("root should still be compared against the degraded target")
	}
	for _, item := range items[1:] {
		if item.TargetURL != "" {
			t.Fatalf("%s should have no target URL against degraded index", item.Path)
		}
	}
}
