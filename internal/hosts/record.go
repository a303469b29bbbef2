package hosts

import "strings"

// Record maps one loopback or private address to the names listed after it
// on a hosts line. A Record can only be obtained from NewRecord, so holding
// one means its address passed validation.
type Record struct {
	addr  Address
	names []string
}

// NewRecord returns a Record for addr and names. Names are kept in the
// given order, duplicates included, and are not validated. It fails with a
// *RecordError when addr is neither loopback nor private.
func NewRecord(addr Address, names []string) (Record, error) {
	if !addr.IsLoopback() && !addr.IsPrivate() {
		return Record{}, &RecordError{Addr: addr.String()}
	}
	cp := make([]string, len(names))
	copy(cp, names)
	return Record{addr: addr, names: cp}, nil
}

// Addr returns the record address.
func (r Record) Addr() Address { return r.addr }

// Names returns a copy of the record names.
func (r Record) Names() []string {
	cp := make([]string, len(r.names))
	copy(cp, r.names)
	return cp
}

// String formats r the way it would appear in a hosts file.
func (r Record) String() string {
	if len(r.names) == 0 {
		return r.addr.String()
	}
	return r.addr.String() + "\t" + strings.Join(r.names, " ")
}
