package tracklib

import (
	"encoding/json"
	"sync"
	"time"
)

// UsageStats tracks how a single upstream (resolver or provider) is
// used.
type UsageStats struct {
	Name string
	Kind string

	mutex        sync.Mutex
	lastUsed     time.Time
	lastFailure  time.Time
	successCount uint64
	failureCount uint64
}

func (u *UsageStats) Used(err error) {
	now := time.Now()

	u.mutex.Lock()
	defer u.mutex.Unlock()

	u.lastUsed = now

	if err == nil {
		u.successCount++
	} else {
		u.failureCount++
		u.lastFailure = now
	}
}

func (u *UsageStats) MarshalJSON() ([]byte, error) {
	var lastUsedTime, lastFailureTime int64

	u.mutex.Lock()

	if !u.lastUsed.IsZero() {
		lastUsedTime = u.lastUsed.Unix()
	}

	if !u.lastFailure.IsZero() {
		lastFailureTime = u.lastFailure.Unix()
	}

	rawStruct := struct {
		Name         string `json:"name"`
		Kind         string `json:"kind"`
		LastUsed     int64  `json:"last_used"`
		LastFailure  int64  `json:"last_failure"`
		SuccessCount uint64 `json:"success_count"`
		FailureCount uint64 `json:"failure_count"`
	}{
		Name:         u.Name,
		Kind:         u.Kind,
		LastUsed:     lastUsedTime,
		LastFailure:  lastFailureTime,
		SuccessCount: u.successCount,
		FailureCount: u.failureCount,
	}

	u.mutex.Unlock()

	return json.Marshal(&rawStruct)
}
