package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// WeiPerEther is the number of decimal places between wei and ETH.
const WeiPerEther = 18

// FormatPrice converts a decimal wei string to ETH.
// Empty or non-numeric input yields 0.
func FormatPrice(priceWei string) float64 {
	priceWei = strings.TrimSpace(priceWei)
	if priceWei == "" {
		return 0
	}

	wei, err := decimal.NewFromString(priceWei)
	if err != nil {
		return 0
	}

	eth, _ := wei.Shift(-WeiPerEther).Float64()
	return eth
}

// ParsePrice is FormatPrice with the parse error kept, for callers that log it.
func ParsePrice(priceWei string) (decimal.Decimal, error) {
	wei, err := decimal.NewFromString(strings.TrimSpace(priceWei))
	if err != nil {
		return decimal.Zero, err
	}
	return wei.Shift(-WeiPerEther), nil
}
