package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/vendorauth/internal/pkg/config"
)

// maintenanceRules maps a route path to the methods paused on it. An empty
// method set pauses every method.
type maintenanceRules map[string]map[string]struct{}

// parseMaintenance reads entries such as "POST /api/v1/identity/otp/send" or
// a bare "/api/v1/identity/profile".
func parseMaintenance(entries []string) maintenanceRules {
	rules := make(maintenanceRules, len(entries))
	for _, entry := range entries {
		method, path, found := strings.Cut(entry, " ")
		if !found {
			rules[entry] = nil
			continue
		}

		path = strings.TrimSpace(path)
		if methods, ok := rules[path]; ok && methods == nil {
			continue
		}
		if rules[path] == nil {
			rules[path] = make(map[string]struct{})
		}
		rules[path][strings.ToUpper(method)] = struct{}{}
	}
	return rules
}

func (m maintenanceRules) paused(method, path string) bool {
	methods, ok := m[path]
	if !ok {
		return false
	}
	if methods == nil {
		return true
	}
	_, ok = methods[method]
	return ok
}

// middlewareMaintenance answers 503 for routes listed under
// app.maintenance.endpoints, e.g. to pause OTP issuance during an SMTP outage.
func middlewareMaintenance(cfg config.Config) Middleware {
	var rules maintenanceRules
	if cfg != nil {
		rules = parseMaintenance(cfg.GetArray("app.maintenance.endpoints"))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rules.paused(r.Method, matchedRoutePath(r)) {
				writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
