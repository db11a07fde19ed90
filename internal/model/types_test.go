package model

import (
	"encoding/json"
	"testing"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1000000000000000000", 1.0},
		{"5000000000000000000", 5.0},
		{"1500000000000000", 0.0015},
		{" 2000000000000000000 ", 2.0},
		{"1e18", 1.0},
		{"0", 0},
		{"", 0},
		{"not-a-number", 0},
		{"NaN", 0},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParsePrice(t *testing.T) {
	eth, err := ParsePrice("123450000000000000")
	if err != nil {
		t.Fatalf("ParsePrice failed: %v", err)
	}
	if eth.String() != "0.12345" {
		t.Errorf("ParsePrice = %s, want 0.12345", eth)
	}

	if _, err := ParsePrice("abc"); err == nil {
		t.Error("expected error for non-numeric price")
	}
}

func TestRareTraitSet(t *testing.T) {
	set := NewRareTraitSet("Head", " Face ", "", "Accessory", "Head")

	if len(set) != 3 {
		t.Fatalf("len(set) = %d, want 3", len(set))
	}
	if !set.Contains("Face") {
		t.Error("expected Face to be trimmed and present")
	}
	if set.Contains("") {
		t.Error("blank trait type should not be present")
	}
	if got := set.String(); got != "Accessory, Face, Head" {
		t.Errorf("String() = %q, want %q", got, "Accessory, Face, Head")
	}
}

func TestDecodeTraits(t *testing.T) {
	raw := []json.RawMessage{
		json.RawMessage(`{"trait_type":"Head","value":"Crown"}`),
		json.RawMessage(`"just a string"`),
		json.RawMessage(`{"trait_type":"Level","value":7}`),
		json.RawMessage(`null`),
		json.RawMessage(`[1,2]`),
		json.RawMessage(`{"value":"orphan"}`),
	}

	traits := DecodeTraits(raw)

	want := []NFTTrait{
		{TraitType: "Head", Value: "Crown"},
		{TraitType: "Level", Value: "7"},
		{TraitType: "", Value: "orphan"},
	}
	if len(traits) != len(want) {
		t.Fatalf("len(traits) = %d, want %d (%v)", len(traits), len(want), traits)
	}
	for i := range want {
		if traits[i] != want[i] {
			t.Errorf("traits[%d] = %+v, want %+v", i, traits[i], want[i])
		}
	}
}
