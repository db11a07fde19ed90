// Package opensea provides the OpenSea REST client used to enrich listings
// with trait metadata.
//
// REST endpoint:
//   - https://api.opensea.io/api/v2/chain/{chain}/contract/{contract}/nfts/{identifier}
//
// Every request waits on the metadata rate limiter first and is bounded by a
// per-call timeout. Failures are logged and reported as "no metadata".
package opensea
