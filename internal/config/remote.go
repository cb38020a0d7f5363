package config

import "strings"

const (
	urlScheme      = "https://"
	providerDomain = ".supabase.co"

	// Hosted-provider anon keys are JWTs, so they always start with the
	// base64 of `{"` and run well past 100 characters.
	keyPrefix = "eyJ"
	minKeyLen = 100
)

// wrongProviderPrefixes are token formats of neighbouring hosting providers.
// Seeing one means the operator pasted a key from the wrong dashboard; the
// flag drives a remediation hint and nothing else.
var wrongProviderPrefixes = []string{"ssb_", "sb_", "sk_", "pk_"}

// RemoteDiag reports the outcome of a credential probe. Configured gates all
// sync behavior; the remaining fields only feed the admin-facing hint.
type RemoteDiag struct {
	URLValid      bool   `json:"url_valid"`
	KeyValid      bool   `json:"key_valid"`
	WrongProvider bool   `json:"wrong_provider"`
	Reason        string `json:"reason,omitempty"`
}

func (d RemoteDiag) Configured() bool {
	return d.URLValid && d.KeyValid
}

// Probe sanitizes the raw credential strings and decides whether the remote
// store may be used. It never fails: an invalid pair just means local-only.
func (r RemoteConfig) Probe() RemoteDiag {
	url := sanitize(r.URL, ":/")
	key := sanitize(r.Key, "")

	diag := RemoteDiag{
		URLValid: url != "" && strings.HasPrefix(url, urlScheme) && strings.Contains(url, providerDomain),
		KeyValid: key != "" && strings.HasPrefix(key, keyPrefix) && len(key) > minKeyLen,
	}

	for _, p := range wrongProviderPrefixes {
		if strings.HasPrefix(key, p) {
			diag.WrongProvider = true
			break
		}
	}

	switch {
	case url == "" && key == "":
		diag.Reason = "remote store credentials are not set"
	case !diag.URLValid:
		diag.Reason = "remote store URL is not a valid " + providerDomain + " HTTPS URL"
	case diag.WrongProvider:
		diag.Reason = "remote store key belongs to a different provider's token format"
	case !diag.KeyValid:
		diag.Reason = "remote store key does not look like a valid anon key"
	}

	return diag
}

// SanitizedURL and SanitizedKey are what the remote client must be built
// with: hosting dashboards are copy-paste prone and values arrive with stray
// quotes or trailing garbage appended by the environment.
func (r RemoteConfig) SanitizedURL() string { return sanitize(r.URL, ":/") }

func (r RemoteConfig) SanitizedKey() string { return sanitize(r.Key, "") }

// sanitize trims whitespace, strips one layer of wrapping quotes, then keeps
// the longest leading run of [A-Za-z0-9._-] plus any extra runes the caller
// admits (URLs need ':' and '/' to keep their scheme).
func sanitize(raw, extra string) string {
	s := strings.TrimSpace(raw)
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
			continue
		}
		break
	}

	for i, c := range s {
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			continue
		}
		if c == '.' || c == '_' || c == '-' || strings.ContainsRune(extra, c) {
			continue
		}
		return s[:i]
	}
	return s
}
