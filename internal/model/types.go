package model

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// ListingData is the part of an item_listed payload the pipeline acts on.
type ListingData struct {
	TokenID  string // Last segment of NFTID (e.g., "42")
	PriceWei string // Decimal wei string, "0" when absent
	NFTID    string // "<chain>/<contract>/<token_id>"
}

// NFTTrait is one trait record from the metadata API.
type NFTTrait struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// NFTMetadata holds the traits of a single token.
type NFTMetadata struct {
	TokenID string
	Traits  []NFTTrait
}

// RareTraitSet is the set of trait types that make a token worth reporting.
type RareTraitSet map[string]struct{}

// NewRareTraitSet builds a set from trait type names. Blank names are dropped.
func NewRareTraitSet(names ...string) RareTraitSet {
	set := make(RareTraitSet, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}

// Contains reports whether traitType is rare.
func (s RareTraitSet) Contains(traitType string) bool {
	_, ok := s[traitType]
	return ok
}

// Sorted returns the trait types in lexical order.
func (s RareTraitSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String joins the sorted trait types with ", ".
func (s RareTraitSet) String() string {
	return strings.Join(s.Sorted(), ", ")
}

// DecodeTraits converts raw trait entries into NFTTraits.
// Entries that are not JSON objects are skipped.
func DecodeTraits(raw []json.RawMessage) []NFTTrait {
	traits := make([]NFTTrait, 0, len(raw))
	for _, entry := range raw {
		if !bytes.HasPrefix(bytes.TrimSpace(entry), []byte("{")) {
			continue
		}
		var fields struct {
			TraitType json.RawMessage `json:"trait_type"`
			Value     json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(entry, &fields); err != nil {
			continue
		}
		traits = append(traits, NFTTrait{
			TraitType: scalarText(fields.TraitType),
			Value:     scalarText(fields.Value),
		})
	}
	return traits
}

// scalarText renders a JSON string or number as text.
// Anything else (null, objects, arrays, missing) becomes "".
func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	return ""
}
