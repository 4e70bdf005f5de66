package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
)

// RuleCache keeps compiled keyword rules keyed by a hash of their configuration text.
// Configuration is the only input, so a cached set is identical to a fresh compilation.
type RuleCache struct {
	cache *cache.Cache
}

// NewRuleCache creates a rule cache whose entries expire after ttl of disuse
func NewRuleCache(ttl time.Duration) *RuleCache {
	return &RuleCache{cache: cache.New(ttl, 2*ttl)}
}

// Block returns the compiled block rules for text
func (c *RuleCache) Block(text string) domain.BlockRules {
	key := "block:" + hashText(text)
	if v, ok := c.cache.Get(key); ok {
		return v.(domain.BlockRules)
	}
	rules := domain.CompileBlockRules(text)
	c.cache.SetDefault(key, rules)
	return rules
}

// Response returns the compiled response rules for text
func (c *RuleCache) Response(text string) domain.ResponseRules {
	key := "response:" + hashText(text)
	if v, ok := c.cache.Get(key); ok {
		return v.(domain.ResponseRules)
	}
	rules := domain.CompileResponseRules(text)
	c.cache.SetDefault(key, rules)
	return rules
}

// Len returns the number of cached rule sets
func (c *RuleCache) Len() int {
	return c.cache.ItemCount()
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
