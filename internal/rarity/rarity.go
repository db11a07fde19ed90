// Package rarity decides whether a token's traits are worth a notification.
package rarity

import "github.com/rickgao/raritywatch/internal/model"

// HasRareTraits reports whether any trait's type is in rare.
func HasRareTraits(traits []model.NFTTrait, rare model.RareTraitSet) bool {
	for _, trait := range traits {
		if rare.Contains(trait.TraitType) {
			return true
		}
	}
	return false
}

// Matching returns the rare traits in metadata order.
func Matching(traits []model.NFTTrait, rare model.RareTraitSet) []model.NFTTrait {
	var matched []model.NFTTrait
	for _, trait := range traits {
		if rare.Contains(trait.TraitType) {
			matched = append(matched, trait)
		}
	}
	return matched
}
