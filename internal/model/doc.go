// Package model defines the listing and metadata types shared by the stream,
// the metadata client and the pipeline.
//
// Conventions:
//   - Prices: decimal strings of wei on the wire, float64 ETH for display
//   - Token IDs: strings, taken from the last segment of "<chain>/<contract>/<token_id>"
//   - Trait values: always text, numeric values are kept in their JSON form
package model
