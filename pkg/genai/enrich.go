package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"rideshare/pkg/models"
)

const safetyBriefFallback = "Safety brief unavailable right now. Share your trip details with someone you trust and check the plate before you get in."

var firstNumber = regexp.MustCompile(`\d+`)

// SafetyBrief returns a short travel-safety note for the route.
func (c *Client) SafetyBrief(ctx context.Context, origin, destination string) string {
	text, err := c.generate(ctx, prompt{
		text: fmt.Sprintf(
			"Give a short safety brief (max 3 sentences) for a carpool trip from %s to %s. "+
				"Mention road or weather conditions travellers should expect. Plain text only.",
			origin, destination),
		maxTokens: 200,
	})
	if err != nil {
		c.fallback("safety_brief", err)
		return safetyBriefFallback
	}
	return text
}

// RideDescription returns a one-sentence description of the route.
func (c *Client) RideDescription(ctx context.Context, from, to string, stops []string) string {
	via := "none"
	if len(stops) > 0 {
		via = strings.Join(stops, ", ")
	}
	text, err := c.generate(ctx, prompt{
		text: fmt.Sprintf(
			"Write one friendly sentence describing a shared ride from %s to %s. Stops: %s. Plain text only.",
			from, to, via),
		maxTokens: 120,
	})
	if err != nil {
		c.fallback("ride_description", err)
		return describeRoute(from, to, stops)
	}
	return text
}

// ResolveLocation turns a free-text place description into an address and a
// map link. An empty description resolves to defaultOrigin.
func (c *Client) ResolveLocation(ctx context.Context, description, defaultOrigin string) models.Location {
	description = strings.TrimSpace(description)
	if description == "" {
		return locationFor(defaultOrigin)
	}

	text, err := c.generate(ctx, prompt{
		text: fmt.Sprintf(
			"Resolve the place %q to a full street address. If it is ambiguous assume it is near %q. "+
				`Reply as JSON: {"address": string, "mapLinkUri": string}.`,
			description, defaultOrigin),
		jsonReply: true,
		maxTokens: 200,
	})
	if err != nil {
		c.fallback("resolve_location", err)
		return locationFor(description)
	}

	var loc models.Location
	if err := json.Unmarshal([]byte(text), &loc); err != nil || strings.TrimSpace(loc.Address) == "" {
		c.fallback("resolve_location", fmt.Errorf("unexpected reply: %q", text))
		return locationFor(description)
	}
	if loc.MapLinkURI == "" {
		loc.MapLinkURI = mapsSearchURL(loc.Address)
	}
	return loc
}

// SuggestPrice returns a per-seat price hint in whole currency units.
func (c *Client) SuggestPrice(ctx context.Context, from, to string, distanceKm float64) int {
	text, err := c.generate(ctx, prompt{
		text: fmt.Sprintf(
			"Suggest a fair per-seat carpool price for %s to %s (%.0f km). "+
				`Reply as JSON: {"price": integer}.`,
			from, to, distanceKm),
		jsonReply: true,
		maxTokens: 50,
	})
	if err != nil {
		c.fallback("suggest_price", err)
		return FallbackPrice(distanceKm)
	}

	var reply struct {
		Price float64 `json:"price"`
	}
	if err := json.Unmarshal([]byte(text), &reply); err == nil && reply.Price > 0 {
		return int(math.Round(reply.Price))
	}
	if n, err := strconv.Atoi(firstNumber.FindString(text)); err == nil && n > 0 {
		return n
	}
	c.fallback("suggest_price", fmt.Errorf("unexpected reply: %q", text))
	return FallbackPrice(distanceKm)
}

// FallbackPrice is a flat per-km estimate with a floor of 5.
func FallbackPrice(distanceKm float64) int {
	p := int(math.Round(distanceKm * 0.08))
	if p < 5 {
		return 5
	}
	return p
}

func describeRoute(from, to string, stops []string) string {
	if len(stops) == 0 {
		return fmt.Sprintf("Direct ride from %s to %s.", from, to)
	}
	return fmt.Sprintf("Ride from %s to %s via %s.", from, to, strings.Join(stops, ", "))
}

func locationFor(address string) models.Location {
	return models.Location{Address: address, MapLinkURI: mapsSearchURL(address)}
}

func mapsSearchURL(address string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(address)
}
