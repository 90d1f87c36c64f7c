package maps

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	staticMapBaseURL = "https://maps.googleapis.com/maps/api/staticmap"
	PlaceholderURL   = "https://placehold.co/600x300/e2e8f0/64748b?text=Map+preview+unavailable"
)

// Static builds Google Static Maps image URLs.
type Static struct {
	apiKey string
	width  int
	height int
	zoom   int
}

func NewStatic(apiKey string) *Static {
	return &Static{
		apiKey: strings.TrimSpace(apiKey),
		width:  600,
		height: 300,
		zoom:   13,
	}
}

// URL returns an image URL centred on address. Without a key, or for an
// empty address, it returns PlaceholderURL.
func (s *Static) URL(address string) string {
	address = strings.TrimSpace(address)
	if s.apiKey == "" || address == "" {
		return PlaceholderURL
	}

	q := url.Values{}
	q.Set("center", address)
	q.Set("zoom", fmt.Sprint(s.zoom))
	q.Set("size", fmt.Sprintf("%dx%d", s.width, s.height))
	q.Set("markers", "color:red|"+address)
	q.Set("key", s.apiKey)
	return staticMapBaseURL + "?" + q.Encode()
}
