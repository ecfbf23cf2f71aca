package address

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultHost is substituted when an address carries a port only.
const DefaultHost = "0.0.0.0"

type Address struct {
	Host string
	Port uint16
}

// Parse splits a host:port string. The host part may be omitted, the port
// must be a valid decimal in the port range.
func Parse(addr string) (Address, error) {
	colon := strings.LastIndexByte(addr, ':')
	if colon == -1 {
		return Address{}, errors.New("no port given")
	}

	host := addr[:colon]
	if len(host) == 0 {
		host = DefaultHost
	}

	port, err := strconv.ParseUint(addr[colon+1:], 10, 16)
	if err != nil {
		return Address{}, fmt.Errorf("invalid port: %s", addr[colon+1:])
	}

	return Address{Host: host, Port: uint16(port)}, nil
}

func (a Address) String() string {
	return a.Host + ":" + strconv.Itoa(int(a.Port))
}
