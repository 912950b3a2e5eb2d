// Package validation provides custom validation rules for the application.
package validation

import (
	"net/url"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/quipay/keysmith/internal/errors"
)

var (
	// policyNameRegex matches store policy and role names (lowercase, digits, dash, underscore)
	policyNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_\-]*$`)

	// pathSegmentRegex matches a single store path segment
	pathSegmentRegex = regexp.MustCompile(`^[A-Za-z0-9._\-]+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// PolicyName validates policy and machine role names.
var PolicyName = validation.NewStringRuleWithError(
	func(s string) bool {
		return policyNameRegex.MatchString(s)
	},
	validation.NewError(
		"validation_policy_name",
		"must start with a lowercase letter or digit and contain only lowercase letters, digits, '-' or '_'",
	),
)

// StorePath validates a slash separated secret store path such as "quipay/keys/hot-wallet".
// Empty segments, "." and ".." are rejected.
var StorePath = validation.NewStringRuleWithError(
	func(s string) bool {
		return validStorePath(s, false)
	},
	validation.NewError("validation_store_path", "must be a relative path of non-empty segments"),
)

// PolicyPath validates a path used in a policy grant. In addition to StorePath it
// allows "+" as a whole segment and a trailing "*" glob.
var PolicyPath = validation.NewStringRuleWithError(
	func(s string) bool {
		return validStorePath(s, true)
	},
	validation.NewError("validation_policy_path", "must be a relative path with optional '+' segments or trailing '*'"),
)

// HTTPURL validates an absolute http or https URL.
var HTTPURL = validation.NewStringRuleWithError(
	func(s string) bool {
		u, err := url.Parse(s)
		if err != nil {
			return false
		}
		return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	},
	validation.NewError("validation_http_url", "must be an absolute http or https URL"),
)

// URIScheme returns a rule accepting URIs whose scheme is one of the given schemes.
func URIScheme(schemes ...string) validation.StringRule {
	return validation.NewStringRuleWithError(
		func(s string) bool {
			u, err := url.Parse(s)
			if err != nil {
				return false
			}
			for _, scheme := range schemes {
				if u.Scheme == scheme {
					return true
				}
			}
			return false
		},
		validation.NewError("validation_uri_scheme", "must use one of: "+strings.Join(schemes, ", ")),
	)
}

func validStorePath(s string, allowGlob bool) bool {
	if s == "" || strings.HasPrefix(s, "/") {
		return false
	}

	segments := strings.Split(s, "/")
	for i, segment := range segments {
		last := i == len(segments)-1
		switch {
		case allowGlob && segment == "+":
			continue
		case allowGlob && last && segment == "*":
			continue
		case allowGlob && last && strings.HasSuffix(segment, "*"):
			segment = strings.TrimSuffix(segment, "*")
		}
		if segment == "." || segment == ".." || !pathSegmentRegex.MatchString(segment) {
			return false
		}
	}
	return true
}
