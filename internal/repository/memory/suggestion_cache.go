package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// SuggestionCache memoizes autocomplete results per normalized
// (input, context) key for five minutes.
type SuggestionCache struct {
	cache *cache.Cache
}

func NewSuggestionCache() *SuggestionCache {
	// 5 minute TTL, purge sweep every 10 minutes
	c := cache.New(5*time.Minute, 10*time.Minute)
	return &SuggestionCache{
		cache: c,
	}
}

// Key normalizes the pair: trim, collapse inner whitespace, lowercase.
// Hashing keeps keys bounded regardless of memo length.
func (r *SuggestionCache) Key(text, context string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(text), " ")) +
		"\x00" +
		strings.ToLower(strings.Join(strings.Fields(context), " "))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

func (r *SuggestionCache) Save(key string, suggestions []string) {
	r.cache.Set(key, suggestions, cache.DefaultExpiration)
}

func (r *SuggestionCache) Get(key string) ([]string, bool) {
	if x, found := r.cache.Get(key); found {
		return x.([]string), true
	}
	return nil, false
}
