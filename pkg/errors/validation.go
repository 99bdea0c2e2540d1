package errors

import (
	"fmt"
	"math"
	"net/url"
	"slices"
	"strings"
)

// MaxDimension bounds canvas width and height.
const MaxDimension = 16384

// ValidateDimensions checks that a canvas size is positive, finite, and
// within [MaxDimension].
func ValidateDimensions(width, height float64) error {
	for _, d := range []struct {
		name  string
		value float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(d.value) || math.IsInf(d.value, 0) || d.value <= 0 {
			return New(ErrCodeInvalidInput, "%s must be a positive number, got %v", d.name, d.value)
		}
		if d.value > MaxDimension {
			return New(ErrCodeInvalidInput, "%s too large (max %d)", d.name, MaxDimension)
		}
	}
	return nil
}

// ValidateRaster checks that a canvas scaled by scale fits within
// [MaxDimension] pixels on each side.
func ValidateRaster(width, height, scale float64) error {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return New(ErrCodeInvalidInput, "scale must be a positive number, got %v", scale)
	}
	for _, d := range []struct {
		name  string
		value float64
	}{{"width", width * scale}, {"height", height * scale}} {
		if d.value > MaxDimension {
			return New(ErrCodeInvalidInput, "scaled %s %.0fpx too large (max %d)", d.name, d.value, MaxDimension)
		}
	}
	return nil
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed []string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "output format cannot be empty")
	}
	if !slices.Contains(allowed, format) {
		return New(ErrCodeUnsupported, "unsupported output format %q (want one of %s)",
			format, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidateNumberFormat checks that a printf template formats exactly one
// floating point value, e.g. "£%.2f" or "%g units".
func ValidateNumberFormat(tmpl string) error {
	if tmpl == "" {
		return nil
	}
	verbs := 0
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '%' {
			continue
		}
		i++
		if i < len(tmpl) && tmpl[i] == '%' {
			continue
		}
		for i < len(tmpl) && strings.IndexByte("+-# 0123456789.", tmpl[i]) >= 0 {
			i++
		}
		if i >= len(tmpl) || strings.IndexByte("eEfFgGv", tmpl[i]) < 0 {
			return New(ErrCodeInvalidConfig, "number format %q: only float verbs (%%f, %%g, %%e, %%v) are allowed", tmpl)
		}
		verbs++
	}
	if verbs != 1 {
		return New(ErrCodeInvalidConfig, "number format %q must contain exactly one verb, found %d", tmpl, verbs)
	}
	if out := fmt.Sprintf(tmpl, 1.0); strings.Contains(out, "%!") {
		return New(ErrCodeInvalidConfig, "number format %q is malformed", tmpl)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL parses and uses one of the given schemes.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL")
	}
	if !slices.Contains(schemes, u.Scheme) {
		return New(ErrCodeInvalidInput, "URL scheme must be one of %s, got %q", strings.Join(schemes, ", "), u.Scheme)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL must have a host")
	}
	return nil
}
