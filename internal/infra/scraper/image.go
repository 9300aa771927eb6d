package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"postpulse/internal/domain/entity"
)

// featuredImage picks the item image, then an image enclosure, then the
// first <img> in the item markup.
func featuredImage(it *gofeed.Item) *entity.Image {
	if it.Image != nil && it.Image.URL != "" {
		return entity.NewImage(it.Image.URL, it.Image.Title)
	}
	for _, enc := range it.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return entity.NewImage(enc.URL, "")
		}
	}
	for _, markup := range []string{it.Content, it.Description} {
		if img := firstImage(markup); img != nil {
			return img
		}
	}
	return nil
}

func firstImage(markup string) *entity.Image {
	if !strings.Contains(markup, "<img") {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}
	sel := doc.Find("img[src]").First()
	if sel.Length() == 0 {
		return nil
	}
	src, _ := sel.Attr("src")
	alt, _ := sel.Attr("alt")
	return entity.NewImage(strings.TrimSpace(src), strings.TrimSpace(alt))
}
