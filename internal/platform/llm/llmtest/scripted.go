// Package llmtest provides a scripted llm.Client for tests and offline runs.
package llmtest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Rule answers any prompt whose system or user text contains Contains.
// The first FailTimes matching calls return Err (or a generic transient error).
type Rule struct {
	Contains  string
	Reply     string
	Err       error
	FailTimes int
}

type Scripted struct {
	mu    sync.Mutex
	rules []*Rule
	hits  map[int]int
	calls []Call
}

type Call struct {
	System string
	User   string
}

func NewScripted(rules ...Rule) *Scripted {
	s := &Scripted{hits: map[int]int{}}
	for i := range rules {
		r := rules[i]
		s.rules = append(s.rules, &r)
	}
	return s
}

func (s *Scripted) Model() string { return "scripted" }

func (s *Scripted) GenerateText(ctx context.Context, system string, user string) (string, error) {
	return s.reply(ctx, system, user)
}

// GenerateJSON decodes the matching rule's Reply as a JSON object.
func (s *Scripted) GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error) {
	raw, err := s.reply(ctx, system, user)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("scripted %s reply is not a json object: %w", schemaName, err)
	}
	return out, nil
}

func (s *Scripted) reply(ctx context.Context, system, user string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{System: system, User: user})
	for i, r := range s.rules {
		if !strings.Contains(system, r.Contains) && !strings.Contains(user, r.Contains) {
			continue
		}
		s.hits[i]++
		if r.FailTimes < 0 || s.hits[i] <= r.FailTimes {
			if r.Err != nil {
				return "", r.Err
			}
			return "", fmt.Errorf("scripted transient failure for %q", r.Contains)
		}
		if r.Err != nil && r.FailTimes == 0 {
			return "", r.Err
		}
		return r.Reply, nil
	}
	return "", fmt.Errorf("no scripted reply matches prompt")
}

// Calls returns a copy of every prompt seen so far.
func (s *Scripted) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Hits counts the calls answered by rule i.
func (s *Scripted) Hits(i int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[i]
}
