package ratelimit

import (
	"strings"
)

// unlimited is returned for paths that are never rate limited
var unlimited = EndpointConfig{}

// MatchEndpoint returns the rule for a request, or nil when the default applies.
// A rule path either matches whole segments, where "*" stands for any one segment,
// or ends in "/" and matches as a prefix. Segment matches win over prefixes and
// the longest prefix wins.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		rule := unlimited
		return &rule
	}

	var best *EndpointConfig
	for i := range configs {
		rule := &configs[i]
		if rule.Method != method {
			continue
		}
		if matchSegments(rule.Path, path) {
			return rule
		}
		if strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			if best == nil || len(rule.Path) > len(best.Path) {
				best = rule
			}
		}
	}
	return best
}

func matchSegments(pattern, path string) bool {
	if pattern == path {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}

	want := strings.Split(pattern, "/")
	got := strings.Split(path, "/")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != "*" && want[i] != got[i] {
			return false
		}
	}
	return true
}
