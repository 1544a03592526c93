package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ParticipantLoginKey returns the cache key for a participant's login session (JTI).
func (r *CacheKeyStruct) ParticipantLoginKey(participantID int) string {
	return fmt.Sprintf("login:%d", participantID)
}

// RoundPayloadKey returns the cache key for a round's question payload
// (canonical answers stripped).
func (r *CacheKeyStruct) RoundPayloadKey(roundID string) string {
	return fmt.Sprintf("round:%s:payload", roundID)
}

// SessionMonitorChannel returns the Redis PubSub channel carrying test
// session lifecycle events for the admin monitor.
func (r *CacheKeyStruct) SessionMonitorChannel() string {
	return "monitor:sessions"
}

var CacheKey = NewCacheKeyStruct()
