// Package catalog is the example project shipped with the framework: an
// observer that crawls a site, a finding describing one page, and an adapter
// that loads pages into the relational and time-series sinks.
package catalog

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"lantern/etl-core/internal/pipeline/item"
	"lantern/etl-core/internal/pipeline/observation"
)

const observerName = "pages"

// PageObserver seeds the crawl and extracts page findings plus follow-up
// observations from every response.
type PageObserver struct {
	rt      item.Runtime
	start   string
	allowed []string
	initial []item.Observation
}

var _ item.Observer = (*PageObserver)(nil)

// NewPageObserver builds the observer rooted at start. Follow-up links are
// restricted to the start prefix, so the crawl never leaves the site.
func NewPageObserver(start string) item.ObserverFactory {
	return func(rt item.Runtime) item.Observer {
		o := &PageObserver{
			rt:      rt,
			start:   start,
			allowed: []string{start},
		}
		o.initial = []item.Observation{
			observation.NewHTTPObservation(start, o.allowed, o.observePage),
		}
		return o
	}
}

func (o *PageObserver) Name() string { return observerName }

func (o *PageObserver) Labels() []string { return []string{"example", "html"} }

func (o *PageObserver) InitialObservations() []item.Observation { return o.initial }

// observePage parses one response: emit a finding for the page itself and an
// observation for every same-site link.
func (o *PageObserver) observePage(ctx context.Context, resp *observation.Response) item.Result {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		panic(err) // surfaced by the worker as a callback failure
	}

	return func(yield func(item.Item) bool) {
		finding := PageFinding{
			URL:   resp.URL,
			Title: strings.TrimSpace(doc.Find("title").First().Text()),
		}
		if !yield(finding) {
			return
		}

		for _, node := range doc.Find("a[href]").EachIter() {
			href, _ := node.Attr("href")
			target := absoluteURL(resp.URL, href)
			if target == "" {
				continue
			}
			next := observation.NewHTTPObservation(target, o.allowed, o.observePage)
			if !yield(next) {
				return
			}
		}
	}
}

// absoluteURL resolves href against base and strips fragments. Returns ""
// for links that cannot be followed (mailto, javascript, malformed).
func absoluteURL(base, href string) string {
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	if strings.Contains(href, ":") && !strings.HasPrefix(href, "http") {
		return ""
	}
	if strings.HasPrefix(href, "http") {
		return trimFragment(href)
	}
	return trimFragment(strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(href, "/"))
}

func trimFragment(u string) string {
	if i := strings.IndexByte(u, '#'); i >= 0 {
		return u[:i]
	}
	return u
}
