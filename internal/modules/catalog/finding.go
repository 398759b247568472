package catalog

import "lantern/etl-core/internal/pipeline/item"

// TagPage marks findings produced by the page observer.
const TagPage = item.Tag("catalog.page")

// PageFinding is the immutable record extracted from one fetched page.
type PageFinding struct {
	URL   string
	Title string
}

var _ item.Finding = PageFinding{}

func (PageFinding) Tag() item.Tag { return TagPage }
