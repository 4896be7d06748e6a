package forms

import (
	"net"
	"regexp"
	"strconv"
	"strings"
)

var (
	hostnameLabel = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)
	macAddress    = regexp.MustCompile(`^([0-9a-fA-F]{2}:){5}[0-9a-fA-F]{2}$`)
)

// Required rejects empty or whitespace-only values.
func Required(value string) string {
	if strings.TrimSpace(value) == "" {
		return "this field is required"
	}
	return ""
}

// Hostname accepts RFC 952 style hostnames: dot-separated labels of
// letters, digits, and interior hyphens, at most 63 characters each.
func Hostname(value string) string {
	if value == "" {
		return ""
	}
	if len(value) > 253 {
		return "hostname too long"
	}
	for _, label := range strings.Split(value, ".") {
		if len(label) == 0 || len(label) > 63 || !hostnameLabel.MatchString(label) {
			return "invalid hostname"
		}
	}
	return ""
}

// MAC accepts colon-separated 48-bit hardware addresses.
func MAC(value string) string {
	if value == "" {
		return ""
	}
	if !macAddress.MatchString(value) {
		return "invalid MAC address"
	}
	return ""
}

// IPv4 accepts dotted-quad addresses.
func IPv4(value string) string {
	if value == "" {
		return ""
	}
	ip := net.ParseIP(value)
	if ip == nil || ip.To4() == nil {
		return "invalid IPv4 address"
	}
	return ""
}

// CIDR accepts network addresses in prefix notation, e.g. 10.0.0.0/24.
func CIDR(value string) string {
	if value == "" {
		return ""
	}
	if _, _, err := net.ParseCIDR(value); err != nil {
		return "invalid CIDR"
	}
	return ""
}

// Integer accepts base-10 integers.
func Integer(value string) string {
	if value == "" {
		return ""
	}
	if _, err := strconv.ParseInt(value, 10, 64); err != nil {
		return "must be a number"
	}
	return ""
}

// Size accepts positive byte counts.
func Size(value string) string {
	if value == "" {
		return ""
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return "must be a positive size in bytes"
	}
	return ""
}
