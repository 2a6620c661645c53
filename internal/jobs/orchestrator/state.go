package orchestrator

import (
	"fmt"
	"sync"
	"time"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
)

// Progress is the per-request stage map. It is safe for concurrent use, but the
// engine is its only writer: fan-out units never report progress themselves.
type Progress struct {
	mu      sync.Mutex
	order   []string
	index   map[string]int
	records map[string]course.ProgressRecord
	percent int
}

func NewProgress(order []string) *Progress {
	p := &Progress{
		order:   append([]string(nil), order...),
		index:   make(map[string]int, len(order)),
		records: make(map[string]course.ProgressRecord, len(order)),
	}
	for i, name := range order {
		p.index[name] = i
		p.records[name] = course.ProgressRecord{Status: course.StatusPending}
	}
	return p
}

// RestoreProgress rebuilds a Progress from persisted records. Stages missing
// from recs stay pending.
func RestoreProgress(order []string, recs map[string]course.ProgressRecord) *Progress {
	p := NewProgress(order)
	last, inFlight := -1, false
	for name, rec := range recs {
		pos, ok := p.index[name]
		if !ok || !rec.Status.Valid() {
			continue
		}
		p.records[name] = rec
		if rec.Status != course.StatusPending && pos > last {
			last = pos
		}
		if rec.Status == course.StatusStarted || rec.Status == course.StatusFailed {
			inFlight = true
		}
	}
	if last >= 0 {
		p.percent = p.percentage(last, !inFlight)
	}
	return p
}

// Apply records a status transition for stage. The transition is applied only
// when status is failed or strictly greater than the current one; otherwise
// applied is false and the current state is returned unchanged.
func (p *Progress) Apply(stage string, status course.StageStatus, path, errMsg *string, now time.Time) (course.ProgressUpdate, bool, error) {
	if !status.Valid() {
		return course.ProgressUpdate{}, false, fmt.Errorf("invalid stage status %d", status)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	pos, ok := p.index[stage]
	if !ok {
		return course.ProgressUpdate{}, false, fmt.Errorf("unknown stage %q", stage)
	}
	cur := p.records[stage]
	if status != course.StatusFailed && status <= cur.Status {
		return p.update(stage, cur), false, nil
	}

	rec := course.ProgressRecord{Status: status, Path: path, Error: errMsg}
	if status != course.StatusPending {
		ts := now.UTC()
		rec.Timestamp = &ts
	}
	p.records[stage] = rec
	p.percent = p.percentage(pos, status == course.StatusSucceeded)
	return p.update(stage, rec), true, nil
}

// percentage gives each stage an equal share, half a share for the one in
// flight, floored by the reporting stage's position and the previous value.
func (p *Progress) percentage(pos int, succeeded bool) int {
	total := len(p.order)
	if total == 0 {
		return 0
	}
	completed := 0
	for _, rec := range p.records {
		if rec.Status == course.StatusSucceeded {
			completed++
		}
	}
	share := float64(completed)
	if !succeeded {
		share += 0.5
	}
	pct := int(share / float64(total) * 100)
	if floor := pos * 100 / total; pct < floor {
		pct = floor
	}
	if pct < p.percent {
		pct = p.percent
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

func (p *Progress) update(stage string, rec course.ProgressRecord) course.ProgressUpdate {
	return course.ProgressUpdate{
		Step:      stage,
		Status:    rec.Status,
		Timestamp: rec.Timestamp,
		Path:      rec.Path,
		Error:     rec.Error,
		Progress:  p.percent,
	}
}

func (p *Progress) Percent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.percent
}

func (p *Progress) Record(stage string) (course.ProgressRecord, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.records[stage]
	return rec, ok
}

func (p *Progress) Position(stage string) int {
	if pos, ok := p.index[stage]; ok {
		return pos
	}
	return -1
}

func (p *Progress) Order() []string { return append([]string(nil), p.order...) }

func (p *Progress) Snapshot(requestID string) course.ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	stages := make(map[string]course.ProgressRecord, len(p.records))
	for k, v := range p.records {
		stages[k] = v
	}
	return course.ProgressSnapshot{
		RequestID: requestID,
		Stages:    stages,
		Order:     append([]string(nil), p.order...),
		Progress:  p.percent,
	}
}
