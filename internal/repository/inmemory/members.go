package inmemory

import (
	"sync"
	"time"
)

type MembersCache struct {
	mu    sync.RWMutex
	items map[string]membersItem
	now   func() time.Time
}

type membersItem struct {
	value     []string
	expiresAt time.Time
}

func NewMembersCache() *MembersCache {
	return &MembersCache{
		items: make(map[string]membersItem),
		now:   time.Now,
	}
}

func (c *MembersCache) GetMembers(userID string) ([]string, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[userID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[userID]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, userID)
		}
		c.mu.Unlock()
		return nil, false
	}

	return append([]string{}, item.value...), true
}

func (c *MembersCache) SetMembers(userID string, members []string, ttl time.Duration) {
	if len(members) == 0 || ttl <= 0 {
		c.DeleteMembers(userID)
		return
	}

	c.mu.Lock()
	c.items[userID] = membersItem{
		value:     append([]string{}, members...),
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *MembersCache) DeleteMembers(userIDs ...string) {
	c.mu.Lock()
	for _, userID := range userIDs {
		delete(c.items, userID)
	}
	c.mu.Unlock()
}
