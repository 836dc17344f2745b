package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited lists the GET paths that are never throttled so probes and
// scrapes keep working while a client is limited elsewhere.
var unlimited = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// MatchEndpoint returns the rule that applies to method and path, or nil when
// the default limit applies. An exact path wins; otherwise the longest rule
// ending in "/" that prefixes path is used, so "/api/applications/" covers
// "/api/applications/{id}/status".
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	method = strings.ToUpper(method)
	if method == http.MethodGet && unlimited[path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	var best *EndpointConfig
	for i := range configs {
		rule := &configs[i]
		if !strings.EqualFold(rule.Method, method) {
			continue
		}
		if rule.Path == path {
			return rule
		}
		if !strings.HasSuffix(rule.Path, "/") || !strings.HasPrefix(path, rule.Path) {
			continue
		}
		if best == nil || len(rule.Path) > len(best.Path) {
			best = rule
		}
	}
	return best
}
