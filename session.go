package auth

import (
	"strings"

	"github.com/goliatone/go-router"
)

// TokenExtractor pulls a candidate session token out of a request.
type TokenExtractor func(c router.Context) (string, error)

// MakeTokenExtractors parses a lookup definition of the form
// "cookie:session_id,header:Authorization,query:token" into a list of
// extractors, tried in order.
func MakeTokenExtractors(tokenLookup string, authSchemes ...string) []TokenExtractor {
	extractors := []TokenExtractor{}

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, tokenFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, tokenFromQuery(parts[1]))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(parts[1]))
		}
	}

	return extractors
}

// TokenFromRequest resolves the session token using the Config's lookup
// definition. A request carrying no token yields ErrSessionNotFound.
func TokenFromRequest(c router.Context, cfg Config) (string, error) {
	for _, extract := range MakeTokenExtractors(cfg.GetTokenLookup(), cfg.GetAuthScheme()) {
		if token, err := extract(c); err == nil && token != "" {
			return token, nil
		}
	}
	return "", ErrSessionNotFound
}

// tokenFromHeader extracts the token from the request header, stripping the
// auth scheme prefix when one is configured.
func tokenFromHeader(header string, authScheme string) TokenExtractor {
	return func(c router.Context) (string, error) {
		a := c.GetString(header, "")
		if a == "" {
			return "", ErrSessionNotFound
		}

		authScheme = strings.TrimSpace(authScheme)
		if authScheme == "" {
			return strings.TrimSpace(a), nil
		}

		l := len(authScheme)
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrSessionNotFound
	}
}

func tokenFromQuery(param string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", ErrSessionNotFound
		}
		return token, nil
	}
}

func tokenFromCookie(name string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrSessionNotFound
		}
		return token, nil
	}
}
