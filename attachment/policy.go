package attachment

import (
	"sort"
	"strings"
)

// DefaultAllowed lists the MIME types a DefaultPolicy allows.
var DefaultAllowed = []string{
	"audio/wave",
	"audio/caf",
	"application/pdf",
	"application/zip",
	"application/octet-stream",
	"image/jpeg",
	"image/png",
	"image/gif",
}

// Policy decides which attachments are kept by MIME type. A type is allowed
// when it is in the allow set and not in the deny set. MIME types are compared
// case-insensitively.
type Policy struct {
	allow map[string]struct{}
	deny  map[string]struct{}
}

// NewPolicy returns a policy allowing only the given MIME types.
func NewPolicy(allow ...string) *Policy {
	p := &Policy{
		allow: make(map[string]struct{}, len(allow)),
		deny:  make(map[string]struct{}),
	}
	return p.Allow(allow...)
}

// DefaultPolicy returns a policy allowing DefaultAllowed.
func DefaultPolicy() *Policy {
	return NewPolicy(DefaultAllowed...)
}

// add puts each MIME type into the set, ignoring anything that does not look
// like a MIME type.
func add(set map[string]struct{}, types []string) {
	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		if !strings.Contains(t, "/") {
			continue
		}
		set[t] = struct{}{}
	}
}

// Allow adds MIME types to the allow set. Entries that do not contain a slash
// are ignored. It returns the policy.
func (p *Policy) Allow(types ...string) *Policy {
	add(p.allow, types)
	return p
}

// Deny adds MIME types to the deny set. Entries that do not contain a slash are
// ignored. It returns the policy.
func (p *Policy) Deny(types ...string) *Policy {
	add(p.deny, types)
	return p
}

// Allows returns true if attachments of the given MIME type should be kept.
func (p *Policy) Allows(mimeType string) bool {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if _, denied := p.deny[mt]; denied {
		return false
	}
	_, allowed := p.allow[mt]
	return allowed
}

// Allowed returns the MIME types that are allowed and not denied, sorted.
func (p *Policy) Allowed() []string {
	out := make([]string, 0, len(p.allow))
	for t := range p.allow {
		if _, denied := p.deny[t]; !denied {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}
