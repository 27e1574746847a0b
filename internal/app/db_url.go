package app

import (
	"net/url"
	"strings"
)

// Postgres DSNs arrive in two shapes: URL form (postgres://...) and the
// space-separated key=value form lib/pq also accepts. Both helpers here
// tolerate either.

// normalizeDBURL appends disable_prepared_binary_result=yes when the
// deploy opts out of the extended binary protocol. Poolers running in
// transaction mode drop prepared statements between queries, which
// breaks lib/pq's binary result path.
func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") != "" {
		return raw
	}
	query.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

// dbNameFromURL pulls the database name out of a DSN for log fields and
// the otelsql span attributes. Returns "" when the DSN does not name one.
func dbNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)

	if parsed, err := url.Parse(raw); err == nil && parsed != nil && parsed.Scheme != "" {
		if name := strings.Trim(parsed.Path, "/ "); name != "" {
			return name
		}
	}

	for _, field := range strings.Fields(raw) {
		key, value, ok := strings.Cut(field, "=")
		if !ok || key != "dbname" {
			continue
		}
		if name := strings.Trim(value, `"' `); name != "" {
			return name
		}
	}

	return ""
}
