package main

import (
	"fmt"
	"strings"
)

// cspPolicy returns the Content Security Policy for every response.
// The page loads only its own script and stylesheet and talks only to this server;
// Geoapify is called server-side.
func cspPolicy(production bool) string {
	directives := []string{
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self'",
		fmt.Sprintf("img-src %s", strings.Join([]string{"'self'", "data:"}, " ")),
		"connect-src 'self'",
		"object-src 'none'",
		"base-uri 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
		"media-src 'none'",
	}

	if production {
		directives = append(directives, "upgrade-insecure-requests")
	}

	return strings.Join(directives, "; ")
}
