package hosts

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

// Store indexes parsed records for forward and reverse lookups.
type Store struct {
	mu      sync.RWMutex
	name4   map[string][]Address // fqdn -> IPv4 addresses
	name6   map[string][]Address // fqdn -> IPv6 addresses
	addr    map[Address][]string // address -> fqdns (reverse lookup)
	records []Record
}

// NewStore creates a new empty Store.
func NewStore() *Store {
	return &Store{
		name4: make(map[string][]Address),
		name6: make(map[string][]Address),
		addr:  make(map[Address][]string),
	}
}

// Update replaces all records in the store.
func (s *Store) Update(records []Record) {
	name4 := make(map[string][]Address)
	name6 := make(map[string][]Address)
	addr := make(map[Address][]string)

	for _, r := range records {
		for _, n := range r.names {
			name := Normalize(n)
			if name == "" {
				continue
			}
			switch r.addr.Family() {
			case V4:
				name4[name] = appendUnique(name4[name], r.addr)
			case V6:
				name6[name] = appendUnique(name6[name], r.addr)
			}
			addr[r.addr] = appendUnique(addr[r.addr], name)
		}
	}

	s.mu.Lock()
	s.name4 = name4
	s.name6 = name6
	s.addr = addr
	s.records = records
	s.mu.Unlock()
}

// LookupV4 returns the IPv4 addresses for name.
func (s *Store) LookupV4(name string) []Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.name4[Normalize(name)])
}

// LookupV6 returns the IPv6 addresses for name.
func (s *Store) LookupV6(name string) []Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.name6[Normalize(name)])
}

// LookupAddr returns the names for an address literal (reverse lookup).
func (s *Store) LookupAddr(literal string) []string {
	a, err := ParseAddress(literal)
	if err != nil {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.addr[a])
}

// Has reports whether name has any address in the store.
func (s *Store) Has(name string) bool {
	name = Normalize(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.name4[name]) > 0 || len(s.name6[name]) > 0
}

// Len returns the number of records the store was last updated with.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Normalize returns the lookup key for a hosts name: lowercased, IDNA
// converted to ASCII and fully qualified. Names that fail IDNA conversion
// are only lowercased.
func Normalize(name string) string {
	if name == "" {
		return ""
	}
	name = strings.ToLower(name)
	if !isASCII(name) {
		if a, err := idna.Lookup.ToASCII(name); err == nil {
			name = a
		}
	}
	return dns.Fqdn(name)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func appendUnique[T comparable](slice []T, v T) []T {
	for _, e := range slice {
		if e == v {
			return slice
		}
	}
	return append(slice, v)
}

func clone[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	cp := make([]T, len(s))
	copy(cp, s)
	return cp
}
