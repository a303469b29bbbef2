package hosts

import (
	"errors"
	"fmt"
)

var (
	// ErrAddressParse is matched by errors returned when an address literal
	// is neither dotted-decimal IPv4 nor colon-hex IPv6.
	ErrAddressParse = errors.New("invalid address literal")

	// ErrInvalidAddress is matched by errors returned when an address parses
	// but is neither loopback nor private.
	ErrInvalidAddress = errors.New("address is neither loopback nor private")

	// ErrInvalidEncoding is reported for hosts lines that are not valid UTF-8.
	ErrInvalidEncoding = errors.New("line is not valid UTF-8")

	// ErrCouldNotOpen is matched by errors returned when a hosts source
	// cannot be opened or read. It is the only error that aborts a parse.
	ErrCouldNotOpen = errors.New("could not open hosts file")
)

// AddressError reports an unparseable address literal.
type AddressError struct {
	Literal string
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("%s: %q", ErrAddressParse, e.Literal)
}

func (e *AddressError) Unwrap() error { return ErrAddressParse }

// RecordError reports an address that was refused by NewRecord.
type RecordError struct {
	Addr string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidAddress, e.Addr)
}

func (e *RecordError) Unwrap() error { return ErrInvalidAddress }

// OpenError wraps the I/O failure that prevented a hosts source from being read.
// Path is empty when parsing from a reader.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", ErrCouldNotOpen, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", ErrCouldNotOpen, e.Path, e.Err)
}

func (e *OpenError) Unwrap() []error { return []error{ErrCouldNotOpen, e.Err} }
