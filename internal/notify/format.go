package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/rickgao/raritywatch/internal/model"
)

// Alert is everything the rare-listing template needs.
type Alert struct {
	TokenID    string
	PriceETH   float64
	RareTraits []model.NFTTrait // only the matching traits, in metadata order
	Contract   string
}

// assetChain is the chain segment of every alert link, whatever chain
// metadata is fetched from.
const assetChain = "base"

// AssetURL returns the OpenSea page of a token.
func AssetURL(contract, tokenID string) string {
	return fmt.Sprintf("https://opensea.io/assets/%s/%s/%s", assetChain, contract, tokenID)
}

// FormatAlert renders a rare listing as Telegram HTML.
func FormatAlert(a Alert) string {
	lines := make([]string, 0, len(a.RareTraits))
	for _, trait := range a.RareTraits {
		lines = append(lines, fmt.Sprintf("  • %s: %s",
			html.EscapeString(trait.TraitType),
			html.EscapeString(trait.Value),
		))
	}

	token := html.EscapeString(a.TokenID)

	var b strings.Builder
	b.WriteString("🚨 <b>Rare Chonk Listed!</b> 🚨\n\n")
	fmt.Fprintf(&b, "<b>Chonk #%s</b>\n", token)
	fmt.Fprintf(&b, "💰 Price: %.3f ETH\n\n", a.PriceETH)
	fmt.Fprintf(&b, "🎯 Rare Traits:\n%s\n\n", strings.Join(lines, "\n"))
	fmt.Fprintf(&b, "🔗 <a href='%s'>View on OpenSea</a>",
		html.EscapeString(AssetURL(a.Contract, a.TokenID)),
	)
	return b.String()
}

// FormatStartup is sent once when the process starts.
func FormatStartup(slug string, rare model.RareTraitSet) string {
	return fmt.Sprintf("🟢 Bot Started\nMonitoring %s for rare traits: %s",
		html.EscapeString(slug),
		html.EscapeString(rare.String()),
	)
}

// FormatStartReply answers /start.
func FormatStartReply(rare model.RareTraitSet) string {
	return "🚀 OpenSea Chonks Monitor Bot started!\n" +
		"Monitoring for rare traits: " + rare.String()
}

// FormatStatusReply answers /status.
func FormatStatusReply(slug string, rare model.RareTraitSet, extra ...string) string {
	var b strings.Builder
	b.WriteString("📊 Bot Status:\n")
	fmt.Fprintf(&b, "• Monitoring: %s\n", slug)
	fmt.Fprintf(&b, "• Rare Traits: %s", rare.String())
	for _, line := range extra {
		fmt.Fprintf(&b, "\n• %s", line)
	}
	return b.String()
}
