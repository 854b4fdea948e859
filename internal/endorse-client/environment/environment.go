// Package environment reports whether the page hosting the client is an embedded
// in-app browser that cannot reach a wallet, and which wallet globals it exposes.
package environment

import (
	"net/http"
	"strings"
)

const (
	TelegramWebAppGlobal = "Telegram.WebApp"

	// InjectedGlobalsHeader carries the comma separated globals the page found on window.
	InjectedGlobalsHeader = "X-Injected-Globals"
)

type Host interface {
	HasGlobal(name string) bool
	UserAgent() string
	Globals() []string
}

type Environment struct {
	Embedded bool     `json:"embedded"`
	Detected []string `json:"detected"`
}

// Detect never fails; an unknown host is treated as a regular browser.
func Detect(h Host) Environment {
	if h == nil {
		return Environment{}
	}
	env := Environment{Detected: h.Globals()}
	if h.HasGlobal(TelegramWebAppGlobal) {
		env.Embedded = true
	}
	if strings.Contains(strings.ToLower(h.UserAgent()), "telegram") {
		env.Embedded = true
	}
	return env
}

func (e Environment) Has(global string) bool {
	for _, g := range e.Detected {
		if strings.EqualFold(g, global) {
			return true
		}
	}
	return false
}

// StaticHost is a fixed Host, used by the CLI where no page exists.
type StaticHost struct {
	Agent   string
	Exposed []string
}

func (s StaticHost) HasGlobal(name string) bool {
	for _, g := range s.Exposed {
		if strings.EqualFold(g, name) {
			return true
		}
	}
	return false
}

func (s StaticHost) UserAgent() string { return s.Agent }

func (s StaticHost) Globals() []string {
	out := make([]string, len(s.Exposed))
	copy(out, s.Exposed)
	return out
}

// FromRequest builds a Host from what the page reported with the request.
func FromRequest(r *http.Request) Host {
	h := StaticHost{Agent: r.UserAgent()}
	for _, raw := range r.Header.Values(InjectedGlobalsHeader) {
		for _, g := range strings.Split(raw, ",") {
			g = strings.TrimSpace(g)
			if g == "" {
				continue
			}
			h.Exposed = append(h.Exposed, g)
		}
	}
	return h
}
