// Package nodeid mints deterministic node identifiers.
package nodeid

import "github.com/google/uuid"

// Namespace scopes every minted id to this application.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/custodia-labs/ocesync/nodes"))

// Mint returns a name-based (version 5) UUID for seed.
// The same seed yields the same id across processes and runs.
func Mint(seed string) string {
	return uuid.NewSHA1(Namespace, []byte(seed)).String()
}
