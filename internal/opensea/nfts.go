package opensea

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/rickgao/raritywatch/internal/model"
)

// ErrNoNFT is returned when a 200 response carries no "nft" object.
var ErrNoNFT = errors.New("response has no nft object")

// FetchNFT waits on the limiter, then fetches one NFT.
// The request is bounded by the client timeout; the limiter wait is not.
func (c *Client) FetchNFT(ctx context.Context, chain, contract, tokenID string) (*APINFT, error) {
	if c.limiter != nil {
		if err := c.limiter.Acquire(ctx); err != nil {
			return nil, fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	path := fmt.Sprintf("/api/v2/chain/%s/contract/%s/nfts/%s",
		url.PathEscape(chain),
		url.PathEscape(contract),
		url.PathEscape(tokenID),
	)

	var resp NFTResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("get nft %s: %w", tokenID, err)
	}
	if resp.NFT == nil {
		return nil, fmt.Errorf("get nft %s: %w", tokenID, ErrNoNFT)
	}

	return resp.NFT, nil
}

// GetMetadata returns the traits of a token, or false if they could not be
// fetched. Failures are logged, never returned.
func (c *Client) GetMetadata(ctx context.Context, chain, contract, tokenID string) (*model.NFTMetadata, bool) {
	nft, err := c.FetchNFT(ctx, chain, contract, tokenID)
	if err != nil {
		attrs := []any{
			"token_id", tokenID,
			"error", err,
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			attrs = append(attrs, "status", apiErr.StatusCode, "retryable", apiErr.IsRetryable())
		}
		c.logger.Error("failed to fetch metadata", attrs...)
		return nil, false
	}

	id := nft.Identifier
	if id == "" {
		id = tokenID
	}

	return &model.NFTMetadata{
		TokenID: id,
		Traits:  model.DecodeTraits(nft.Traits),
	}, true
}
