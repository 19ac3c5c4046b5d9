package usage

import "time"

// Period is the credit window length.
const Period = 7 * 24 * time.Hour

// DefaultPlan names the plan granted to new principals.
const DefaultPlan = "Executive"

// Usage is a principal's analysis credit snapshot.
type Usage struct {
	Plan     string    `json:"plan"`
	Limit    int       `json:"limit"`
	Used     int       `json:"used"`
	ResetsAt time.Time `json:"resetsAt"`
}

// Remaining is the number of analyses left in the current window.
func (u Usage) Remaining() int {
	return max(u.Limit-u.Used, 0)
}

func newUsage(limit int, now time.Time) Usage {
	return Usage{Plan: DefaultPlan, Limit: limit, ResetsAt: now.Add(Period)}
}

// rollover starts a new window when the current one has elapsed.
func rollover(u Usage, now time.Time) (Usage, bool) {
	if now.Before(u.ResetsAt) {
		return u, false
	}
	u.Used = 0
	u.ResetsAt = now.Add(Period)
	return u, true
}
