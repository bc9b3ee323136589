package swagger

import "github.com/antonio-alexander/go-learning-history/internal/data"

// swagger:route DELETE /cache Cache DeleteCache
// Drops the cached employee snapshot.
//
// responses:
//   204: NoContentResponse

// swagger:response NoContentResponse
type NoContentResponse struct{}

// swagger:route GET /cache/counters CacheCounter ReadCacheCounters
// Reads the snapshot cache counters.
//
//     Produces:
//     - application/json
//
// responses:
//   200: CacheCountersGetResponseOk

// swagger:response CacheCountersGetResponseOk
type CacheCountersGetResponseOk struct {
	// in:body
	CacheCounters data.CacheCounters
}

// swagger:route DELETE /cache/counters CacheCounter DeleteCacheCounters
// Resets the snapshot cache counters.
//
// responses:
//   204: NoContentResponse

// swagger:route GET /timers Timers ReadTimers
// Reads the timers of console and remote store operations.
//
//     Produces:
//     - application/json
//
// responses:
//   200: TimersGetResponseOk

// swagger:response TimersGetResponseOk
type TimersGetResponseOk struct {
	// in:body
	Timers data.Timers
}

// swagger:route DELETE /timers Timers DeleteTimers
// Clears the timers.
//
// responses:
//   204: NoContentResponse
