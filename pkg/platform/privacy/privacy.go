// Package privacy masks personal data before it reaches logs, traces and
// metrics labels. An identity code is personal data: it encodes a birthdate.
package privacy

import (
	"encoding/hex"
	"fmt"
	"net"
	"strings"

	"github.com/mssola/useragent"
	"golang.org/x/crypto/blake2b"
)

// visibleSuffix is how many trailing digits RedactKennitala keeps.
const visibleSuffix = 2

// AnonymizeIP truncates an IP address to its network prefix.
//
// IPv4 keeps the /24 ("192.168.1.47" -> "192.168.1.0"); IPv6 keeps the /48
// ("2001:db8:85a3::8a2e:370:7334" -> "2001:0db8:85a3::").
//
// Returns "invalid" for unparseable addresses and "unknown" for empty input.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "invalid"
	}

	if v4 := parsed.To4(); v4 != nil {
		return fmt.Sprintf("%d.%d.%d.0", v4[0], v4[1], v4[2])
	}

	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::",
		parsed[0], parsed[1],
		parsed[2], parsed[3],
		parsed[4], parsed[5])
}

// RemoteIP strips the port from an http.Request RemoteAddr.
func RemoteIP(remoteAddr string) string {
	if remoteAddr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// RedactKennitala masks all but the last two characters of a code, so log
// lines stay correlatable by a human without revealing the birthdate.
// Inputs of two characters or fewer are fully masked.
func RedactKennitala(code string) string {
	if len(code) <= visibleSuffix {
		return strings.Repeat("*", len(code))
	}
	return strings.Repeat("*", len(code)-visibleSuffix) + code[len(code)-visibleSuffix:]
}

// HashKennitala returns a short BLAKE2b-256 prefix of a code for trace
// attributes and log correlation. Equal codes hash equally; the code cannot be read back.
func HashKennitala(code string) string {
	if code == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(code))
	return hex.EncodeToString(sum[:8])
}

// ClientFamily summarizes a User-Agent as "<browser> <platform>" for request
// logs. Versions and OS details are dropped.
func ClientFamily(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return "unknown"
	}
	ua := useragent.New(userAgent)
	if ua.Bot() {
		return "bot"
	}

	name, _ := ua.Browser()
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "unknown"
	}
	platform := "desktop"
	if ua.Mobile() {
		platform = "mobile"
	}
	return name + " " + platform
}
