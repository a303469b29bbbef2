package hosts

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, content string) []Record {
	t.Helper()
	records, err := NewParser().ParseReader(strings.NewReader(content))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return records
}

func TestStore_BasicLookup(t *testing.T) {
	store := NewStore()
	store.Update(mustParse(t, `
192.168.1.1 example.com
192.168.1.2 example.com www.example.com
fd00::1     ipv6.example.com example.com
`))

	t.Run("lookup ipv4", func(t *testing.T) {
		addrs := store.LookupV4("example.com.")
		if len(addrs) != 2 {
			t.Errorf("got %d addresses, want 2", len(addrs))
		}
	})

	t.Run("lookup ipv6", func(t *testing.T) {
		addrs := store.LookupV6("ipv6.example.com")
		if len(addrs) != 1 || addrs[0] != MustParseAddress("fd00::1") {
			t.Errorf("got %v, want [fd00::1]", addrs)
		}
	})

	t.Run("lookup not found", func(t *testing.T) {
		if addrs := store.LookupV4("notfound.example.com."); len(addrs) != 0 {
			t.Errorf("got %d addresses, want 0", len(addrs))
		}
	})

	t.Run("reverse lookup", func(t *testing.T) {
		names := store.LookupAddr("192.168.1.2")
		if len(names) != 2 || names[0] != "example.com." || names[1] != "www.example.com." {
			t.Errorf("got %v, want [example.com. www.example.com.]", names)
		}
	})

	t.Run("reverse lookup bad literal", func(t *testing.T) {
		if names := store.LookupAddr("nope"); names != nil {
			t.Errorf("got %v, want nil", names)
		}
	})

	t.Run("has", func(t *testing.T) {
		if !store.Has("ipv6.example.com.") || store.Has("missing.example.com.") {
			t.Error("Has returned the wrong answer")
		}
	})

	if store.Len() != 3 {
		t.Errorf("Len() = %d, want 3", store.Len())
	}
}

func TestStore_CaseInsensitive(t *testing.T) {
	store := NewStore()
	store.Update(mustParse(t, "192.168.1.1 Example.COM\n"))

	if addrs := store.LookupV4("example.com."); len(addrs) != 1 {
		t.Errorf("case insensitive lookup failed, got %d addresses", len(addrs))
	}
	if names := store.LookupAddr("192.168.1.1"); len(names) != 1 || names[0] != "example.com." {
		t.Errorf("got %v, want [example.com.]", names)
	}
}

func TestStore_Duplicates(t *testing.T) {
	store := NewStore()
	store.Update(mustParse(t, "10.0.0.1 a a\n10.0.0.1 a\n"))

	if addrs := store.LookupV4("a."); len(addrs) != 1 {
		t.Errorf("got %v, want one address", addrs)
	}
	if names := store.LookupAddr("10.0.0.1"); len(names) != 1 {
		t.Errorf("got %v, want one name", names)
	}
}

func TestStore_UpdateReplaces(t *testing.T) {
	store := NewStore()
	store.Update(mustParse(t, "10.0.0.1 old\n"))
	store.Update(mustParse(t, "10.0.0.2 new\n"))

	if addrs := store.LookupV4("old."); len(addrs) != 0 {
		t.Errorf("stale entry survived update: %v", addrs)
	}
	if addrs := store.LookupV4("new."); len(addrs) != 1 {
		t.Errorf("new entry missing: %v", addrs)
	}
}

func TestStore_ResultIsCopy(t *testing.T) {
	store := NewStore()
	store.Update(mustParse(t, "10.0.0.1 a\n"))

	addrs := store.LookupV4("a.")
	addrs[0] = MustParseAddress("10.0.0.99")
	if got := store.LookupV4("a."); got[0] != MustParseAddress("10.0.0.1") {
		t.Error("lookup result aliases store data")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", ""},
		{"localhost", "localhost."},
		{"Example.COM.", "example.com."},
		{"bücher.example", "xn--bcher-kva.example."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.name); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}
