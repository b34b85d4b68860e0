package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key holding the JTI of a user's console session
func (r *CacheKeyStruct) UserSessionKey(userID int) string {
	return fmt.Sprintf("console:session:%d", userID)
}

// ModelCountKey returns the cache key for the record count of a registered model
func (r *CacheKeyStruct) ModelCountKey(model string) string {
	return fmt.Sprintf("admin:count:%s", model)
}

// ActionLogChannel returns the Redis PubSub channel carrying new admin log entries
func (r *CacheKeyStruct) ActionLogChannel() string {
	return "admin:actions"
}

var CacheKey = NewCacheKeyStruct()
