// Package cache stores normalized search results so repeated searches
// within the TTL window avoid re-scraping. Entries are immutable once
// written; an update is a full overwrite under the same key, so
// last-write-wins needs no locking beyond each store's own.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopsavvy/savvy-scrape/internal/models"
)

// DefaultTTL is the single cache TTL policy. One value, configured in one
// place; call sites do not get to pick their own.
const DefaultTTL = 30 * time.Minute

// Store is the cache collaborator interface.
type Store interface {
	Get(key string) ([]models.Product, bool)
	Set(key string, products []models.Product, ttl time.Duration)
}

// Key builds the cache signature for one platform's slice of a search.
// Results are cached per platform so a later search can reuse the platforms
// it already has and scrape only the missing ones.
func Key(query string, filters models.SearchFilters, pl string, maxPages int) string {
	sig := strings.Join([]string{
		strings.ToLower(strings.TrimSpace(query)),
		fmt.Sprintf("%.2f|%.2f|%s|%s",
			filters.MinPrice, filters.MaxPrice,
			strings.ToLower(filters.Brand), strings.ToLower(filters.Category)),
		strings.ToLower(pl),
		fmt.Sprintf("%d", maxPages),
	}, "\x1f")
	sum := sha256.Sum256([]byte(sig))
	return hex.EncodeToString(sum[:])
}
