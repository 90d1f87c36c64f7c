package models

// Location is an address resolved from free text, with a link to a map.
type Location struct {
	Address    string `json:"address"`
	MapLinkURI string `json:"mapLinkUri"`
}
