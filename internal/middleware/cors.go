package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds CORS configuration options.
type CORSConfig struct {
	// AllowedOrigins lists exact origins ("https://app.nyaysetu.in") or
	// subdomain wildcards ("*.nyaysetu.in"). Empty denies every cross-origin
	// request.
	AllowedOrigins []string

	AllowedMethods []string
	AllowedHeaders []string

	// ExposedHeaders are readable by browser scripts. The chat client needs
	// Retry-After to back off from the rate limiter.
	ExposedHeaders []string

	// Sessions travel as bearer tokens, never cookies, so this stays false.
	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds.
	MaxAge int
}

// DefaultCORSConfig returns the API's CORS surface with no origins allowed.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
			"X-Request-ID",
			"Accept",
			"Accept-Language",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
			"Retry-After",
		},
		MaxAge: 86400,
	}
}

type corsPolicy struct {
	exact     map[string]bool
	wildcards []string // ".nyaysetu.in"
	methods   map[string]bool

	methodsValue string
	headersValue string
	exposedValue string
	maxAgeValue  string
	credentials  bool
}

func newCORSPolicy(cfg CORSConfig) *corsPolicy {
	p := &corsPolicy{
		exact:        make(map[string]bool, len(cfg.AllowedOrigins)),
		methods:      make(map[string]bool, len(cfg.AllowedMethods)),
		methodsValue: strings.Join(cfg.AllowedMethods, ", "),
		headersValue: strings.Join(cfg.AllowedHeaders, ", "),
		exposedValue: strings.Join(cfg.ExposedHeaders, ", "),
		credentials:  cfg.AllowCredentials,
	}
	for _, origin := range cfg.AllowedOrigins {
		origin = strings.ToLower(strings.TrimSpace(origin))
		if suffix, ok := strings.CutPrefix(origin, "*"); ok && strings.HasPrefix(suffix, ".") {
			p.wildcards = append(p.wildcards, suffix)
			continue
		}
		p.exact[origin] = true
	}
	for _, m := range cfg.AllowedMethods {
		p.methods[strings.ToUpper(m)] = true
	}
	if cfg.MaxAge > 0 {
		p.maxAgeValue = strconv.Itoa(cfg.MaxAge)
	}
	return p
}

// allowsOrigin matches exactly or by subdomain wildcard. "*.nyaysetu.in"
// admits "https://app.nyaysetu.in" but not "https://evilnyaysetu.in".
func (p *corsPolicy) allowsOrigin(origin string) bool {
	origin = strings.ToLower(origin)
	if p.exact[origin] {
		return true
	}
	for _, suffix := range p.wildcards {
		host, ok := strings.CutSuffix(origin, suffix)
		if !ok {
			continue
		}
		if _, sub, found := strings.Cut(host, "://"); found && sub != "" {
			return true
		}
	}
	return false
}

// CORS answers preflight requests and decorates actual requests from allowed
// origins. Disallowed origins get no CORS headers, so the browser blocks the
// response; their preflights are refused with 403 outright.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	policy := newCORSPolicy(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			preflight := r.Method == http.MethodOptions
			if !policy.allowsOrigin(origin) {
				if preflight {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			if policy.credentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if policy.exposedValue != "" {
				h.Set("Access-Control-Expose-Headers", policy.exposedValue)
			}

			if !preflight {
				next.ServeHTTP(w, r)
				return
			}

			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")
			if want := r.Header.Get("Access-Control-Request-Method"); want != "" && !policy.methods[strings.ToUpper(want)] {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			h.Set("Access-Control-Allow-Methods", policy.methodsValue)
			h.Set("Access-Control-Allow-Headers", policy.headersValue)
			if policy.maxAgeValue != "" {
				h.Set("Access-Control-Max-Age", policy.maxAgeValue)
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
