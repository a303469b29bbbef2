package hosts

import (
	"errors"
	"testing"
)

func TestAddress_Parse(t *testing.T) {
	tests := []struct {
		literal string
		family  Family
		want    string
	}{
		{"127.0.0.1", V4, "127.0.0.1"},
		{"192.168.10.42", V4, "192.168.10.42"},
		{"::1", V6, "::1"},
		{"FD00::0001", V6, "fd00::1"},
		{"::ffff:10.0.0.1", V6, "::ffff:10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			a, err := ParseAddress(tt.literal)
			if err != nil {
				t.Fatalf("ParseAddress(%q) error: %v", tt.literal, err)
			}
			if a.Family() != tt.family {
				t.Errorf("family = %v, want %v", a.Family(), tt.family)
			}
			if a.String() != tt.want {
				t.Errorf("String() = %q, want %q", a.String(), tt.want)
			}
		})
	}
}

func TestAddress_ParseInvalid(t *testing.T) {
	for _, literal := range []string{
		"",
		"not-an-ip",
		"localhost",
		"256.0.0.1",
		"10.0.0",
		"010.0.0.1",
		"fe80::1%eth0",
		"1::2::3",
		"10.0.0.1/8",
		"#",
	} {
		t.Run(literal, func(t *testing.T) {
			_, err := ParseAddress(literal)
			if err == nil {
				t.Fatalf("ParseAddress(%q) succeeded, want error", literal)
			}
			if !errors.Is(err, ErrAddressParse) {
				t.Errorf("error %v does not match ErrAddressParse", err)
			}
			var ae *AddressError
			if !errors.As(err, &ae) || ae.Literal != literal {
				t.Errorf("error %v is not an AddressError for %q", err, literal)
			}
		})
	}
}

func TestAddress_Classification(t *testing.T) {
	tests := []struct {
		literal  string
		loopback bool
		private  bool
	}{
		// IPv4 loopback 127.0.0.0/8
		{"127.0.0.1", true, false},
		{"127.255.255.255", true, false},
		{"126.255.255.255", false, false},
		{"128.0.0.0", false, false},
		// 10.0.0.0/8
		{"10.0.0.0", false, true},
		{"10.255.255.255", false, true},
		{"9.255.255.255", false, false},
		{"11.0.0.0", false, false},
		// 172.16.0.0/12
		{"172.16.0.0", false, true},
		{"172.31.255.255", false, true},
		{"172.15.255.255", false, false},
		{"172.32.0.0", false, false},
		// 192.168.0.0/16
		{"192.168.0.0", false, true},
		{"192.168.255.255", false, true},
		{"192.167.255.255", false, false},
		{"192.169.0.0", false, false},
		// global and special-purpose v4
		{"8.8.8.8", false, false},
		{"0.0.0.0", false, false},
		{"169.254.1.1", false, false},
		{"100.64.0.1", false, false},
		{"255.255.255.255", false, false},
		// IPv6
		{"::1", true, false},
		{"::", false, false},
		{"::2", false, false},
		{"fc00::", false, true},
		{"fdff:ffff:ffff:ffff:ffff:ffff:ffff:ffff", false, true},
		{"fbff::1", false, false},
		{"fe00::", false, false},
		{"fe80::1", false, false},
		{"2001:4860:4860::8888", false, false},
		// IPv4-mapped IPv6 is classified as IPv6
		{"::ffff:127.0.0.1", false, false},
		{"::ffff:192.168.1.1", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			a := MustParseAddress(tt.literal)
			if got := a.IsLoopback(); got != tt.loopback {
				t.Errorf("IsLoopback() = %v, want %v", got, tt.loopback)
			}
			if got := a.IsPrivate(); got != tt.private {
				t.Errorf("IsPrivate() = %v, want %v", got, tt.private)
			}
			if got, want := a.IsGlobal(), !tt.loopback && !tt.private; got != want {
				t.Errorf("IsGlobal() = %v, want %v", got, want)
			}
		})
	}
}

func TestAddress_ZeroValue(t *testing.T) {
	var a Address
	if a.Is4() || a.Is6() {
		t.Error("zero Address has a family")
	}
	if a.IsLoopback() || a.IsPrivate() || a.IsGlobal() {
		t.Error("zero Address is classified")
	}
	if a.IP() != nil {
		t.Errorf("IP() = %v, want nil", a.IP())
	}
}

func TestAddress_IP(t *testing.T) {
	v4 := MustParseAddress("192.168.1.1")
	if ip := v4.IP(); len(ip) != 4 || ip.String() != "192.168.1.1" {
		t.Errorf("v4 IP() = %v (len %d)", ip, len(ip))
	}

	v6 := MustParseAddress("fd00::1")
	if ip := v6.IP(); len(ip) != 16 || ip.String() != "fd00::1" {
		t.Errorf("v6 IP() = %v (len %d)", ip, len(ip))
	}
}

func TestAddress_Comparable(t *testing.T) {
	if MustParseAddress("10.0.0.1") != MustParseAddress("10.0.0.1") {
		t.Error("equal literals produced different addresses")
	}
	if MustParseAddress("::1") != MustParseAddress("0:0:0:0:0:0:0:1") {
		t.Error("equivalent v6 literals produced different addresses")
	}
	if MustParseAddress("10.0.0.1") == MustParseAddress("::ffff:10.0.0.1") {
		t.Error("v4 and v4-mapped v6 addresses compare equal")
	}
}
