package rolecache

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"vantage/db"
	"vantage/models"
	"vantage/rdx"

	"go.mongodb.org/mongo-driver/bson"
)

// DefaultTTL is how long a confirmed role may be served without another
// document-store lookup.
const DefaultTTL = 5 * time.Minute

type entry struct {
	role      string
	expiresAt time.Time
}

// Cache is a TTL cache over the authoritative role field of the users
// collection. Token claims are a hint only; this cache fronts the document
// record, which is the source of truth.
type Cache struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time
	m   map[string]entry
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl: ttl,
		now: time.Now,
		m:   make(map[string]entry),
	}
}

// Get returns the cached role for uid, or "" when missing or expired.
func (c *Cache) Get(uid string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[uid]
	if !ok || c.now().After(e.expiresAt) {
		delete(c.m, uid)
		return ""
	}
	return e.role
}

func (c *Cache) Set(uid, role string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[uid] = entry{role: role, expiresAt: c.now().Add(c.ttl)}
}

// Invalidate drops a single uid, used after a role mutation.
func (c *Cache) Invalidate(uid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, uid)
}

// Reset clears the whole cache, used when the active identity changes.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string]entry)
}

var shared = New(DefaultTTL)

// Resolve returns the authoritative role for uid, consulting the in-process
// cache, then Redis, then the users collection.
func Resolve(ctx context.Context, uid string) (string, error) {
	if role := shared.Get(uid); role != "" {
		return role, nil
	}

	if cached, err := rdx.RdxGet("role:" + uid); err == nil && cached != "" {
		shared.Set(uid, cached)
		return cached, nil
	}

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": uid, "deleted": false}).Decode(&user)
	if err != nil {
		return "", fmt.Errorf("role lookup for %s: %w", uid, err)
	}

	shared.Set(uid, user.Role)
	if err := rdx.SetWithExpiry("role:"+uid, user.Role, DefaultTTL); err != nil {
		log.Printf("role cache redis write failed: %v", err)
	}
	return user.Role, nil
}

// Invalidate drops uid from both cache layers after a role change.
func Invalidate(uid string) {
	shared.Invalidate(uid)
	if err := rdx.RdxDel("role:" + uid); err != nil {
		log.Printf("role cache redis delete failed: %v", err)
	}
}

// Reset clears the in-process cache wholesale.
func Reset() {
	shared.Reset()
}
