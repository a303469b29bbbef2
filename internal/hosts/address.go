package hosts

import (
	"net"
	"net/netip"
)

// Family tags which variant an Address holds.
type Family uint8

const (
	// V4 is a 32-bit IPv4 address.
	V4 Family = iota + 1
	// V6 is a 128-bit IPv6 address.
	V6
)

func (f Family) String() string {
	switch f {
	case V4:
		return "ipv4"
	case V6:
		return "ipv6"
	default:
		return "invalid"
	}
}

// Address is either an IPv4 or an IPv6 address. Only ParseAddress produces
// a usable Address; the zero value belongs to neither family and is rejected
// by NewRecord.
type Address struct {
	family Family
	v4     [4]byte
	v6     [16]byte
}

// ParseAddress parses a dotted-decimal IPv4 or colon-hex IPv6 literal.
// Zoned IPv6 literals are refused. IPv4-mapped IPv6 literals stay IPv6.
func ParseAddress(s string) (Address, error) {
	ip, err := netip.ParseAddr(s)
	if err != nil || ip.Zone() != "" {
		return Address{}, &AddressError{Literal: s}
	}
	if ip.Is4() {
		return Address{family: V4, v4: ip.As4()}, nil
	}
	return Address{family: V6, v6: ip.As16()}, nil
}

// MustParseAddress is like ParseAddress but panics on error.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Family returns the address variant.
func (a Address) Family() Family { return a.family }

// Is4 reports whether a is an IPv4 address.
func (a Address) Is4() bool { return a.family == V4 }

// Is6 reports whether a is an IPv6 address.
func (a Address) Is6() bool { return a.family == V6 }

// IsLoopback reports whether a is in 127.0.0.0/8 or is ::1.
func (a Address) IsLoopback() bool {
	switch a.family {
	case V4:
		return a.v4[0] == 127
	case V6:
		for _, b := range a.v6[:15] {
			if b != 0 {
				return false
			}
		}
		return a.v6[15] == 1
	}
	return false
}

// IsPrivate reports whether a is in 10.0.0.0/8, 172.16.0.0/12,
// 192.168.0.0/16 or the unique local range fc00::/7.
func (a Address) IsPrivate() bool {
	switch a.family {
	case V4:
		return a.v4[0] == 10 ||
			(a.v4[0] == 172 && a.v4[1]&0xf0 == 16) ||
			(a.v4[0] == 192 && a.v4[1] == 168)
	case V6:
		return a.v6[0]&0xfe == 0xfc
	}
	return false
}

// IsGlobal reports whether a is neither loopback nor private.
func (a Address) IsGlobal() bool {
	return a.family != 0 && !a.IsLoopback() && !a.IsPrivate()
}

// IP returns a as a net.IP, 4 bytes long for V4 and 16 for V6.
func (a Address) IP() net.IP {
	switch a.family {
	case V4:
		return net.IP{a.v4[0], a.v4[1], a.v4[2], a.v4[3]}
	case V6:
		ip := make(net.IP, net.IPv6len)
		copy(ip, a.v6[:])
		return ip
	}
	return nil
}

func (a Address) addr() netip.Addr {
	switch a.family {
	case V4:
		return netip.AddrFrom4(a.v4)
	case V6:
		return netip.AddrFrom16(a.v6)
	}
	return netip.Addr{}
}

// String returns the canonical textual form of a.
func (a Address) String() string {
	return a.addr().String()
}
