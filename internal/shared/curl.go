// Utilities for reading a browser session out of a "Copy as cURL" command.
package shared

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
)

var (
	curlHeaderRe = regexp.MustCompile(`(?:-H|--header)\s+(?:'([^']*)'|"([^"]*)")`)
	curlCookieRe = regexp.MustCompile(`(?:-b|--cookie)\s+(?:'([^']*)'|"([^"]*)")`)
	curlURLRe    = regexp.MustCompile(`(?:^|\s)'?"?(https?://[^\s'"]+)`)
)

// CurlRequest holds the parts of a copied cURL command that identify a browser session.
type CurlRequest struct {
	URL     string
	Headers map[string]string // Every header except Cookie
	Cookie  string            // Full Cookie header value
}

// ParseCurlFile reads a file holding a cURL command, such as a saved .sh snippet.
func ParseCurlFile(path string) (*CurlRequest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}
	return ParseCurlCommand(string(content))
}

// ParseCurlCommand extracts the URL, headers and cookie from a cURL command.
//
// Line continuations are joined first. A -b/--cookie flag wins over a Cookie header.
func ParseCurlCommand(command string) (*CurlRequest, error) {
	command = strings.ReplaceAll(command, "\\\r\n", " ")
	command = strings.ReplaceAll(command, "\\\n", " ")

	req := &CurlRequest{Headers: map[string]string{}}

	// Header values such as Referer also hold URLs.
	bare := curlCookieRe.ReplaceAllString(curlHeaderRe.ReplaceAllString(command, " "), " ")
	if m := curlURLRe.FindStringSubmatch(bare); m != nil {
		req.URL = m[1]
	}

	var headerCookie string
	for _, m := range curlHeaderRe.FindAllStringSubmatch(command, -1) {
		key, value, found := strings.Cut(firstGroup(m), ":")
		if !found {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)

		if strings.EqualFold(key, "cookie") {
			if headerCookie == "" {
				headerCookie = value
			}
			continue
		}
		req.Headers[key] = value
	}

	if m := curlCookieRe.FindStringSubmatch(command); m != nil {
		req.Cookie = strings.TrimSpace(firstGroup(m))
	}
	if req.Cookie == "" {
		req.Cookie = headerCookie
	}

	if len(req.Headers) == 0 && req.Cookie == "" {
		return nil, fmt.Errorf("%w: no headers found in curl command", ErrInvalidInput)
	}
	return req, nil
}

// Origin returns the scheme and host of the copied request, or "" when there is no usable URL.
func (c *CurlRequest) Origin() string {
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func firstGroup(m []string) string {
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}
