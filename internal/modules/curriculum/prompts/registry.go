package prompts

import (
	"fmt"
	"strings"
	"sync"
)

type Template struct {
	Name       PromptName
	Version    int
	SchemaName string
	Schema     func() map[string]any
	System     func(Input) (string, error)
	User       func(Input) (string, error)
	Validate   Validator
}

// Prompt is a rendered template ready for the LLM client.
type Prompt struct {
	Name       string
	Version    int
	System     string
	User       string
	SchemaName string
	Schema     map[string]any
}

var (
	mu           sync.RWMutex
	registry     = map[PromptName]Template{}
	registerOnce sync.Once
)

func Register(t Template) {
	mu.Lock()
	defer mu.Unlock()
	registry[t.Name] = t
}

// Build renders the named prompt for in.
func Build(name PromptName, in Input) (Prompt, error) {
	registerOnce.Do(RegisterAll)

	mu.RLock()
	t, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt: %s", string(name))
	}
	if t.System == nil || t.User == nil {
		return Prompt{}, fmt.Errorf("prompt %s missing system/user renderers", string(name))
	}
	if t.Validate != nil {
		if err := t.Validate(in); err != nil {
			return Prompt{}, fmt.Errorf("%s: %w", string(name), err)
		}
	}
	system, err := t.System(in)
	if err != nil {
		return Prompt{}, fmt.Errorf("%s system: %w", string(name), err)
	}
	user, err := t.User(in)
	if err != nil {
		return Prompt{}, fmt.Errorf("%s user: %w", string(name), err)
	}
	p := Prompt{
		Name:       string(t.Name),
		Version:    t.Version,
		SchemaName: strings.TrimSpace(t.SchemaName),
		System:     system,
		User:       user,
	}
	if t.Schema != nil {
		p.Schema = t.Schema()
	}
	return p, nil
}
