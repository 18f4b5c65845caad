package timecalc

import (
	"sync"
	"time"
)

var (
	nowMu    sync.Mutex
	scripted *time.Time
)

// UTCNow returns the current instant in UTC. This is the only clock
// dependency in the compute core. A value installed with OverrideNow is
// consumed by exactly one call, after which the real clock resumes
func UTCNow() time.Time {
	nowMu.Lock()
	defer nowMu.Unlock()
	if scripted != nil {
		v := *scripted
		scripted = nil
		return v
	}
	return time.Now().UTC()
}

// OverrideNow scripts the next UTCNow result. One shot on purpose so a
// forgotten override cannot leak into another test; callers that need
// several reads script each one. Pair with testkit.Serial
func OverrideNow(t time.Time) {
	nowMu.Lock()
	defer nowMu.Unlock()
	v := t.UTC()
	scripted = &v
}
