package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// listingFields are the keys read from one level of an item_listed payload.
type listingFields struct {
	Item      json.RawMessage `json:"item"`
	BasePrice json.RawMessage `json:"base_price"`
}

// listingEnvelope is the outer payload level. The stream sometimes wraps
// the listing in a second "payload" object.
type listingEnvelope struct {
	listingFields
	Payload json.RawMessage `json:"payload"`
}

// ExtractListing decodes the payload of an item_listed message.
//
// Both payload shapes are accepted:
//
//	{"item": {...}, "base_price": "..."}
//	{"payload": {"item": {...}, "base_price": "..."}}
//
// The outer level is checked first, the nested one is the fallback.
// It returns false when no usable nft_id is present.
func ExtractListing(payload json.RawMessage) (ListingData, bool) {
	var outer listingEnvelope
	if err := json.Unmarshal(payload, &outer); err != nil {
		return ListingData{}, false
	}

	var inner listingFields
	if present(outer.Payload) {
		// A nested payload that is not an object is treated as absent.
		_ = json.Unmarshal(outer.Payload, &inner)
	}

	item := outer.Item
	if !present(item) {
		item = inner.Item
	}
	if !present(item) {
		return ListingData{}, false
	}

	var fields struct {
		NFTID json.RawMessage `json:"nft_id"`
	}
	if err := json.Unmarshal(item, &fields); err != nil {
		return ListingData{}, false
	}

	var nftID string
	if err := json.Unmarshal(fields.NFTID, &nftID); err != nil {
		return ListingData{}, false
	}

	tokenID, ok := ExtractTokenID(nftID)
	if !ok {
		return ListingData{}, false
	}

	price := outer.BasePrice
	if !present(price) {
		price = inner.BasePrice
	}
	priceWei := scalarText(price)
	if priceWei == "" {
		priceWei = "0"
	}

	return ListingData{
		TokenID:  tokenID,
		PriceWei: priceWei,
		NFTID:    nftID,
	}, true
}

// ExtractTokenID returns the last "/"-separated segment of an nft_id.
// It returns false for an empty id or an empty last segment.
func ExtractTokenID(nftID string) (string, bool) {
	nftID = strings.TrimSpace(nftID)
	if nftID == "" {
		return "", false
	}

	tokenID := nftID[strings.LastIndex(nftID, "/")+1:]
	if tokenID == "" {
		return "", false
	}
	return tokenID, true
}

func present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}
