// Package journal records delivered and failed rarity alerts in PostgreSQL.
//
// The journal is an append-only audit trail. Nothing reads it back, so it
// does not deduplicate alerts across restarts.
package journal
