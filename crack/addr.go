package crack

import (
	"net"
	"regexp"
	"strconv"

	"github.com/masterkusok/descrack/errors"
)

var addrPattern = regexp.MustCompile(`^((.*):)?(.*)$`)

// ParseAddr parses the "[address:]port" command-line form into host:port,
// falling back to defaultHost when the address part is omitted.
func ParseAddr(arg, defaultHost string) (string, error) {
	match := addrPattern.FindStringSubmatch(arg)
	if match == nil {
		return "", errors.Annotate(errors.ErrMalformedInput,
			"%q must be in the format [address:]port: %w", arg)
	}

	host := match[2]
	if host == "" {
		host = defaultHost
	}

	port, err := strconv.Atoi(match[3])
	if err != nil || port <= 0 || port > 65535 {
		return "", errors.Annotate(errors.ErrMalformedInput,
			"invalid port number in %q: %w", arg)
	}

	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}
