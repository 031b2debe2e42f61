package app

import (
	"net"
	"net/url"
	"path"
	"strings"
)

// withLocalSSLDisabled adds sslmode=disable to postgres URLs that point at a
// loopback host and carry no sslmode. lib/pq defaults to TLS otherwise.
func withLocalSSLDisabled(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		return raw
	}

	q := u.Query()
	if q.Has("sslmode") || !isLoopback(u.Hostname()) {
		return raw
	}
	q.Set("sslmode", "disable")
	u.RawQuery = q.Encode()
	return u.String()
}

func isLoopback(host string) bool {
	if host == "" || strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// databaseName extracts the name reported as db.name on query spans. It
// understands postgres URLs, key=value DSNs and sqlite file: URLs.
func databaseName(raw string) string {
	raw = strings.TrimSpace(raw)

	if u, err := url.Parse(raw); err == nil {
		switch u.Scheme {
		case "":
		case "file":
			file := u.Opaque
			if file == "" {
				file = u.Path
			}
			return strings.TrimSuffix(path.Base(file), path.Ext(file))
		default:
			if name := strings.Trim(u.Path, "/ "); name != "" {
				return name
			}
		}
	}

	for _, field := range strings.Fields(raw) {
		if value, ok := strings.CutPrefix(field, "dbname="); ok {
			if name := strings.Trim(value, `"'`); name != "" {
				return name
			}
		}
	}
	return ""
}
