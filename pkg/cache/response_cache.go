package cache

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
	"time"
	"unicode"

	gocache "github.com/patrickmn/go-cache"
)

const (
	defaultTTL      = 30 * time.Minute
	purgeInterval   = 10 * time.Minute
	defaultCapacity = 1000
	evictBatch      = 200
)

// Entry is a cached chatbot reply.
type Entry struct {
	Reply     string
	Intent    string
	Sources   []string
	CreatedAt time.Time
}

// ResponseCache memoizes full replies for repeated questions. Keys are derived
// from the normalized query plus intent and language, so the same question
// asked with different punctuation or casing hits the same entry.
type ResponseCache struct {
	store    *gocache.Cache
	capacity int
}

func NewResponseCache() *ResponseCache {
	return &ResponseCache{
		store:    gocache.New(defaultTTL, purgeInterval),
		capacity: defaultCapacity,
	}
}

// Key normalizes the query (lowercase, punctuation stripped, whitespace
// collapsed) and hashes it together with intent and language.
func Key(query, intent, language string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(query) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteRune(' ')
		}
	}
	normalized := strings.Join(strings.Fields(sb.String()), " ")
	sum := md5.Sum([]byte(normalized + ":" + intent + ":" + language))
	return hex.EncodeToString(sum[:])
}

func (c *ResponseCache) Get(query, intent, language string) (*Entry, bool) {
	v, found := c.store.Get(Key(query, intent, language))
	if !found {
		return nil, false
	}
	entry, ok := v.(*Entry)
	if !ok {
		return nil, false
	}
	return entry, true
}

func (c *ResponseCache) Set(query, intent, language string, entry *Entry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if c.store.ItemCount() >= c.capacity {
		c.evictOldest(evictBatch)
	}
	c.store.Set(Key(query, intent, language), entry, gocache.DefaultExpiration)
}

func (c *ResponseCache) Flush() {
	c.store.Flush()
}

func (c *ResponseCache) Len() int {
	return c.store.ItemCount()
}

// evictOldest drops the n entries with the earliest CreatedAt so the cache
// stays bounded under sustained traffic.
func (c *ResponseCache) evictOldest(n int) {
	type aged struct {
		key       string
		createdAt time.Time
	}
	items := c.store.Items()
	all := make([]aged, 0, len(items))
	for key, item := range items {
		entry, ok := item.Object.(*Entry)
		if !ok {
			c.store.Delete(key)
			continue
		}
		all = append(all, aged{key: key, createdAt: entry.CreatedAt})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].createdAt.Before(all[j].createdAt)
	})
	if n > len(all) {
		n = len(all)
	}
	for _, a := range all[:n] {
		c.store.Delete(a.key)
	}
}
