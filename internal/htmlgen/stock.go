package htmlgen

import (
	"html"
	"regexp"

	"github.com/landingforge/landingforge/internal/domain"
)

var stockImagePattern = regexp.MustCompile(`https?://(?:images\.unsplash\.com|source\.unsplash\.com|plus\.unsplash\.com|images\.pexels\.com|cdn\.pixabay\.com|pixabay\.com/get|via\.placeholder\.com|placehold\.co|placehold\.it|placekitten\.com|picsum\.photos|dummyimage\.com)[^"'\s)<>]*`)

// replaceStockImages swaps third-party stock photo URLs for the page's own slot
// images, cycling through the content slots. URLs that are themselves resolved
// images (a custom upload hosted on a stock site) are kept.
func replaceStockImages(doc string, resolved map[domain.ImageSlot]string) string {
	var pool []string
	own := make(map[string]bool, len(resolved))
	for _, slot := range domain.ImageSlots {
		u := resolved[slot]
		if u == "" {
			continue
		}
		own[u] = true
		if slot != domain.SlotLogo {
			pool = append(pool, u)
		}
	}
	if len(pool) == 0 {
		return doc
	}

	next := 0
	return stockImagePattern.ReplaceAllStringFunc(doc, func(m string) string {
		if own[html.UnescapeString(m)] {
			return m
		}
		u := pool[next%len(pool)]
		next++
		return html.EscapeString(u)
	})
}
