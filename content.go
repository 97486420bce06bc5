package fattybrewing

import (
	"strings"
	"time"
)

type ContentType string

const (
	ContentWort    ContentType = "wort"
	ContentHops    ContentType = "hops"
	ContentYeast   ContentType = "yeast"
	ContentWater   ContentType = "water"
	ContentMalt    ContentType = "malt"
	ContentBeer    ContentType = "beer"
	ContentUnknown ContentType = "unknown"
)

type contentRule struct {
	keyword string
	typ     ContentType
}

// Checked in order, first match wins: "malt extract" is malt, "wort hops" is wort.
var contentRules = []contentRule{
	{"wort", ContentWort},
	{"hops", ContentHops},
	{"yeast", ContentYeast},
	{"malt", ContentMalt},
	{"water", ContentWater},
	{"beer", ContentBeer},
}

// DetermineContentType classifies a substance by case-insensitive keyword.
func DetermineContentType(substance string) ContentType {
	s := strings.ToLower(substance)
	for _, rule := range contentRules {
		if strings.Contains(s, rule.keyword) {
			return rule.typ
		}
	}
	return ContentUnknown
}

func ParseContentType(s string) ContentType {
	switch ct := ContentType(strings.ToLower(strings.TrimSpace(s))); ct {
	case ContentWort, ContentHops, ContentYeast, ContentWater, ContentMalt, ContentBeer:
		return ct
	}
	return ContentUnknown
}

// Entry is one addition of a substance to a container. Entries are never
// merged, so each keeps its own timestamp and temperature.
type Entry struct {
	Substance   string
	Quantity    Quantity
	Type        ContentType
	Temperature Temperature
	UpdatedAt   time.Time
}

// Removed describes an amount taken out of a container.
type Removed struct {
	Substance   string
	Quantity    Quantity
	Temperature Temperature
	Type        ContentType
	UpdatedAt   time.Time
}

func (r Removed) Entry() Entry {
	return Entry{
		Substance:   r.Substance,
		Quantity:    r.Quantity,
		Type:        r.Type,
		Temperature: r.Temperature,
		UpdatedAt:   r.UpdatedAt,
	}
}

func sameSubstance(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
