package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type (
	ContextKey        string
	missingFieldError string
)

// Prefixes applied to generated unique ids so records
// can be told apart when they show up in logs or URLs.
const (
	AuthorIDPrefix   string = "a"
	BookIDPrefix     string = "b"
	InstanceIDPrefix string = "i"
	GenreIDPrefix    string = "g"
	LanguageIDPrefix string = "l"
	UserIDPrefix     string = "u"
	SessionIDPrefix  string = "s"
	AuditIDPrefix    string = "e"
	RequestIDPrefix  string = "r"
)

const (
	ContextRequestID     ContextKey = "request.id"
	ContextRequestNumber ContextKey = "request.number"
	ContextSession       ContextKey = "request.session"
)

// DateLayout is the wire format of all catalog dates (date of birth,
// date of death, due back and renewal dates).
const DateLayout = "2006-01-02"

func (m missingFieldError) Error() string {
	return string(m) + " is required"
}

// fieldError carries the name of the rejected input field along with a
// human readable message so the caller can re-render its form.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e fieldError) Error() string {
	return e.Field + ": " + e.Message
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val := ctx.Value(contextKey); val != nil {
		return val.(string)
	}
	return ""
}

// GetRequestNumberFromContext returns the request number set in
// the context. if not previously set then it returns 0.
func GetRequestNumberFromContext(ctx context.Context) uint64 {
	if val := ctx.Value(ContextRequestNumber); val != nil {
		return val.(uint64)
	}
	return 0
}

// GetSessionFromContext returns the session attached to the request
// context by the session middleware, if any.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	if val := ctx.Value(ContextSession); val != nil {
		return val.(Session), true
	}
	return Session{}, false
}

// ParseDate parses a catalog date formatted as YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate renders a time as a catalog date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOf strips the clock part of a time, keeping the calendar day in UTC.
// Renewal rules compare calendar days, not instants.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GetPageParam extracts the requested page number from the `page` query
// parameter. Listing endpoints start at page 1 when it is absent or junk.
func GetPageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// GetSessionID extracts the session id from the Authorization bearer
// header and falls back on the session cookie.
func GetSessionID(r *http.Request, cookieName string) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// GetRequestSourceIP helps find the source IP of the caller.
func GetRequestSourceIP(r *http.Request) string {
	// Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip
	}

	// Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP = net.ParseIP(ip)
		if netIP != nil {
			return ip
		}
	}

	// Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip
	}
	return ""
}

// IsAppRunningInDocker checks the existence of the .dockerenv
// file at the root directory and returns a boolean result. This
// helps know if the App is running in a docker container or not.
func IsAppRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}
