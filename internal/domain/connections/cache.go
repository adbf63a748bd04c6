package connections

import "time"

// MembersCache holds resolved member sets keyed by user id.
type MembersCache interface {
	GetMembers(userID string) ([]string, bool)
	SetMembers(userID string, members []string, ttl time.Duration)
	DeleteMembers(userIDs ...string)
}

type noopCache struct{}

func (noopCache) GetMembers(string) ([]string, bool) {
	return nil, false
}

func (noopCache) SetMembers(string, []string, time.Duration) {}

func (noopCache) DeleteMembers(...string) {}
