package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"io"
	"reflect"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData defines standard fields for email templates.
type EmailData struct {
	// Basic info
	Username       string `json:"Username"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`
	DocumentType   string `json:"DocumentType"`

	// Company info
	CompanyName    string `json:"CompanyName"`
	CompanyAddress string `json:"CompanyAddress"`
	AppName        string `json:"AppName"`

	// URLs
	LogoURL        string `json:"LogoURL"`
	SupportURL     string `json:"SupportURL"`
	PrivacyURL     string `json:"PrivacyURL"`
	UnsubscribeURL string `json:"UnsubscribeURL"`

	// Additional data
	Time    string    `json:"Time"`
	TimeAt  time.Time `json:"TimeAt"`
	Changes []string  `json:"Changes"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() {
			return fallback
		}
		zero := reflect.Zero(rv.Type()).Interface()
		if reflect.DeepEqual(value, zero) {
			return fallback
		}
		return value
	}
}

var funcs = map[string]any{
	"default": defaultFn,
	"join":    joinAny,
}

// joinAny accepts both []string and the []any produced by a JSON round trip.
func joinAny(sep string, v any) string {
	switch x := v.(type) {
	case []string:
		return strings.Join(x, sep)
	case []any:
		parts := make([]string, 0, len(x))
		for _, p := range x {
			parts = append(parts, fmt.Sprintf("%v", p))
		}
		return strings.Join(parts, sep)
	default:
		return ""
	}
}

// Template names
const (
	Welcome        = "welcome"
	ProfileUpdated = "profile_updated"
)

// set is the parsed trio <name>.subject.tmpl, <name>.text.tmpl, <name>.html.tmpl.
type set struct {
	subject *texttpl.Template
	text    *texttpl.Template
	html    *htmpl.Template
}

var (
	setsMu sync.Mutex
	sets   = map[string]*set{}
)

// load parses a template set on first use and caches it for the process.
func load(name string) (*set, error) {
	setsMu.Lock()
	defer setsMu.Unlock()
	if s, ok := sets[name]; ok {
		return s, nil
	}
	parseText := func(file string) (*texttpl.Template, error) {
		t, err := texttpl.New(file).Funcs(funcs).ParseFS(FS, file)
		if err != nil {
			return nil, fmt.Errorf("parse text %q: %w", file, err)
		}
		return t, nil
	}
	subject, err := parseText(name + ".subject.tmpl")
	if err != nil {
		return nil, err
	}
	text, err := parseText(name + ".text.tmpl")
	if err != nil {
		return nil, err
	}
	htmlFile := name + ".html.tmpl"
	html, err := htmpl.New(htmlFile).Funcs(funcs).ParseFS(FS, htmlFile)
	if err != nil {
		return nil, fmt.Errorf("parse html %q: %w", htmlFile, err)
	}
	s := &set{subject: subject, text: text, html: html}
	sets[name] = s
	return s, nil
}

type executor interface {
	Execute(w io.Writer, data any) error
	Name() string
}

func execute(t executor, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// Render renders the subject, text and html parts of the named template.
func Render(name string, data any) (subject string, text string, html string, err error) {
	s, err := load(name)
	if err != nil {
		return "", "", "", err
	}
	if subject, err = execute(s.subject, data); err != nil {
		return "", "", "", err
	}
	if text, err = execute(s.text, data); err != nil {
		return "", "", "", err
	}
	if html, err = execute(s.html, data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
