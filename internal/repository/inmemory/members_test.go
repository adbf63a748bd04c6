package inmemory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMembersCacheExpires(t *testing.T) {
	cache := NewMembersCache()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.SetMembers("u1", []string{"u1", "u2"}, time.Minute)

	members, ok := cache.GetMembers("u1")
	assert.True(t, ok)
	assert.Equal(t, []string{"u1", "u2"}, members)

	members[0] = "mutated"
	again, _ := cache.GetMembers("u1")
	assert.Equal(t, "u1", again[0])

	now = now.Add(time.Minute)
	_, ok = cache.GetMembers("u1")
	assert.False(t, ok)
}

func TestMembersCacheDelete(t *testing.T) {
	cache := NewMembersCache()
	cache.SetMembers("u1", []string{"u1"}, time.Hour)
	cache.SetMembers("u2", []string{"u2"}, time.Hour)
	cache.SetMembers("u3", []string{"u3"}, time.Hour)

	cache.DeleteMembers("u1", "u2")

	_, ok := cache.GetMembers("u1")
	assert.False(t, ok)
	_, ok = cache.GetMembers("u3")
	assert.True(t, ok)

	cache.SetMembers("u3", nil, time.Hour)
	_, ok = cache.GetMembers("u3")
	assert.False(t, ok)
}

func TestMembersCacheConcurrentAccess(t *testing.T) {
	cache := NewMembersCache()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.SetMembers("u1", []string{"u1"}, time.Hour)
				cache.GetMembers("u1")
				cache.DeleteMembers("u1")
			}
		}()
	}
	wg.Wait()
}
