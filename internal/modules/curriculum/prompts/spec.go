package prompts

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/template"
)

// Spec is the declaration format used by RegisterAll. System and User are Go
// templates over Input.
type Spec struct {
	Name       PromptName
	Version    int
	SchemaName string
	Schema     func() map[string]any
	System     string
	User       string
	Validators []Validator
}

var funcs = template.FuncMap{
	"bullets": bullets,
	"fixed":   fixed,
	"int":     toInt,
}

func bullets(items []string) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			lines = append(lines, "- "+it)
		}
	}
	return strings.Join(lines, "\n")
}

func fixed(prec int, v float64) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(math.Trunc(n))
	case float32:
		return int(math.Trunc(float64(n)))
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(n))
		return i
	default:
		return 0
	}
}

func parse(name, body string) (*template.Template, error) {
	return template.New(name).Funcs(funcs).Option("missingkey=zero").Parse(body)
}

func execute(t *template.Template, vars any) (string, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, vars); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}

// Render fills a one-off template. It is deterministic for identical inputs.
func Render(name, tmpl string, vars any) (string, error) {
	t, err := parse(name, tmpl)
	if err != nil {
		return "", fmt.Errorf("%s template parse: %w", name, err)
	}
	out, err := execute(t, vars)
	if err != nil {
		return "", fmt.Errorf("%s template render: %w", name, err)
	}
	return out, nil
}

// MakeTemplate compiles a Spec into a Template.
func MakeTemplate(s Spec) (Template, error) {
	if strings.TrimSpace(string(s.Name)) == "" {
		return Template{}, fmt.Errorf("missing prompt name")
	}
	if s.Version <= 0 {
		return Template{}, fmt.Errorf("invalid version for %s", s.Name)
	}
	if s.Schema != nil && strings.TrimSpace(s.SchemaName) == "" {
		return Template{}, fmt.Errorf("missing schema name for %s", s.Name)
	}
	sysT, err := parse("system", s.System)
	if err != nil {
		return Template{}, fmt.Errorf("%s system template parse: %w", s.Name, err)
	}
	userT, err := parse("user", s.User)
	if err != nil {
		return Template{}, fmt.Errorf("%s user template parse: %w", s.Name, err)
	}
	tt := Template{
		Name:       s.Name,
		Version:    s.Version,
		SchemaName: s.SchemaName,
		Schema:     s.Schema,
		System:     func(in Input) (string, error) { return execute(sysT, in) },
		User:       func(in Input) (string, error) { return execute(userT, in) },
	}
	if len(s.Validators) > 0 {
		tt.Validate = func(in Input) error {
			for _, v := range s.Validators {
				if v == nil {
					continue
				}
				if err := v(in); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return tt, nil
}

func RegisterSpec(s Spec) {
	t, err := MakeTemplate(s)
	if err != nil {
		panic(err)
	}
	Register(t)
}
