package opensea

import "encoding/json"

// NFTResponse from GET /api/v2/chain/{chain}/contract/{contract}/nfts/{identifier}
type NFTResponse struct {
	NFT *APINFT `json:"nft"`
}

// APINFT is the subset of the OpenSea NFT object the pipeline reads.
type APINFT struct {
	Identifier string            `json:"identifier"`
	Collection string            `json:"collection"`
	Contract   string            `json:"contract"`
	Name       string            `json:"name"`
	Traits     []json.RawMessage `json:"traits"` // Decoded leniently by model.DecodeTraits
}
