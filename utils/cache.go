package utils

import (
	"fmt"
	"sync"
	"time"

	"github.com/agenda-app/agenda-api/redis"
)

const analyticsTTL = 60 * time.Second

func analyticsKey(userID uint) string {
	return fmt.Sprintf("analytics:stats:%d", userID)
}

// CachedAnalytics returns the cached stats payload for a user, or "" on miss
// or when Redis is not configured.
func CachedAnalytics(userID uint) string {
	if redis.Client == nil {
		return ""
	}
	val, err := redis.Client.Get(redis.Ctx, analyticsKey(userID)).Result()
	if err != nil {
		return ""
	}
	return val
}

// StoreAnalytics caches the serialized stats payload for a user.
func StoreAnalytics(userID uint, payload []byte) {
	if redis.Client == nil {
		return
	}
	redis.Client.Set(redis.Ctx, analyticsKey(userID), payload, analyticsTTL)
}

// InvalidateAnalytics drops the cached stats after any appointment write so
// the dashboard does not serve stale counts.
func InvalidateAnalytics(userID uint) {
	if redis.Client == nil {
		return
	}
	redis.Client.Del(redis.Ctx, analyticsKey(userID))
}

// remindersSent is the dedupe store used when Redis is not configured. The
// per-minute cron scan hits the same reminder window several times, so every
// deployment needs a working "already sent" check, not just the ones with
// Redis.
var (
	remindersMu   sync.Mutex
	remindersSent = make(map[uint]time.Time)
)

const reminderDedupeTTL = 2 * time.Hour

// MarkReminderSent records that a reminder went out for an appointment so the
// per-minute cron scan does not resend it while the appointment is still
// inside the reminder window. Returns true if this caller won the send.
func MarkReminderSent(appointmentID uint) bool {
	if redis.Client == nil {
		return markReminderSentLocal(appointmentID, time.Now())
	}
	key := fmt.Sprintf("reminder:sent:%d", appointmentID)
	ok, err := redis.Client.SetNX(redis.Ctx, key, 1, reminderDedupeTTL).Result()
	if err != nil {
		return markReminderSentLocal(appointmentID, time.Now())
	}
	return ok
}

func markReminderSentLocal(appointmentID uint, now time.Time) bool {
	remindersMu.Lock()
	defer remindersMu.Unlock()
	if sent, ok := remindersSent[appointmentID]; ok && now.Sub(sent) < reminderDedupeTTL {
		return false
	}
	for id, sent := range remindersSent {
		if now.Sub(sent) >= reminderDedupeTTL {
			delete(remindersSent, id)
		}
	}
	remindersSent[appointmentID] = now
	return true
}
