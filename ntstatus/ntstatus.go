// Package ntstatus defines the NTSTATUS-style status codes returned by the
// configuration manager's syscall surface. Status codes are the sole
// failure channel for the dispatcher in package cm: no out-of-band logging
// or panics carry operation outcomes.
package ntstatus

import "fmt"

// Code is a numeric NTSTATUS value. The concrete values below follow the
// layout of real Windows NTSTATUS codes (severity in the top bits) closely
// enough to sort correctly (failures are negative when read as int32) but
// exist only to give each Status a stable, comparable identity.
type Code uint32

const (
	codeSuccess Code = 0x00000000

	codeUnsuccessful        Code = 0xC0000001
	codeNotImplemented      Code = 0xC0000002
	codeInvalidHandle       Code = 0xC0000008
	codeInsufficientResources Code = 0xC000009A
	codeAccessDenied        Code = 0xC0000022
	codeObjectNameNotFound  Code = 0xC0000034
	codeBufferOverflow      Code = 0x80000005
	codeBufferTooSmall      Code = 0xC0000023
	codeCannotDelete        Code = 0xC0000121
	codeNoMoreEntries       Code = 0x8000001A
	codeInvalidParameter    Code = 0xC000000D
)

// Status is a typed, wrapped NTSTATUS-style error.
//
// Grounded on pkg/types.Error{Kind,Msg,Err}, renamed to the NTSTATUS
// vocabulary the configuration manager's syscall surface exposes.
type Status struct {
	Code Code
	Msg  string
	Err  error
}

func (s *Status) Error() string {
	if s == nil {
		return "<nil status>"
	}
	if s.Err != nil {
		return fmt.Sprintf("%s: %s: %v", s.Code, s.Msg, s.Err)
	}
	return fmt.Sprintf("%s: %s", s.Code, s.Msg)
}

func (s *Status) Unwrap() error { return s.Err }

// Is reports whether err is a *Status carrying the same Code. Allows
// errors.Is(err, ntstatus.CannotDelete) style checks at call sites.
func (s *Status) Is(target error) bool {
	t, ok := target.(*Status)
	if !ok || s == nil {
		return false
	}
	return s.Code == t.Code
}

func (c Code) String() string {
	switch c {
	case codeSuccess:
		return "STATUS_SUCCESS"
	case codeUnsuccessful:
		return "STATUS_UNSUCCESSFUL"
	case codeNotImplemented:
		return "STATUS_NOT_IMPLEMENTED"
	case codeInvalidHandle:
		return "STATUS_INVALID_HANDLE"
	case codeInsufficientResources:
		return "STATUS_INSUFFICIENT_RESOURCES"
	case codeAccessDenied:
		return "STATUS_ACCESS_DENIED"
	case codeObjectNameNotFound:
		return "STATUS_OBJECT_NAME_NOT_FOUND"
	case codeBufferOverflow:
		return "STATUS_BUFFER_OVERFLOW"
	case codeBufferTooSmall:
		return "STATUS_BUFFER_TOO_SMALL"
	case codeCannotDelete:
		return "STATUS_CANNOT_DELETE"
	case codeNoMoreEntries:
		return "STATUS_NO_MORE_ENTRIES"
	case codeInvalidParameter:
		return "STATUS_INVALID_PARAMETER"
	default:
		return fmt.Sprintf("STATUS_UNKNOWN(0x%08X)", uint32(c))
	}
}

// New builds a Status with the given code and message.
func New(code Code, msg string) *Status { return &Status{Code: code, Msg: msg} }

// Wrap builds a Status with the given code, message, and underlying cause.
func Wrap(code Code, msg string, err error) *Status {
	return &Status{Code: code, Msg: msg, Err: err}
}

// Sentinels for the common failure statuses the configuration manager's
// syscalls return.
var (
	Unsuccessful          = New(codeUnsuccessful, "operation could not complete")
	NotImplemented        = New(codeNotImplemented, "operation is not implemented")
	InvalidHandle         = New(codeInvalidHandle, "handle does not refer to a live object")
	InsufficientResources = New(codeInsufficientResources, "insufficient resources")
	AccessDenied          = New(codeAccessDenied, "access denied")
	ObjectNameNotFound    = New(codeObjectNameNotFound, "object name not found")
	BufferOverflow        = New(codeBufferOverflow, "buffer too small for full payload")
	BufferTooSmall        = New(codeBufferTooSmall, "buffer too small for fixed header")
	CannotDelete          = New(codeCannotDelete, "key has subkeys and cannot be deleted")
	NoMoreEntries         = New(codeNoMoreEntries, "enumeration index out of range")
	InvalidParameter      = New(codeInvalidParameter, "invalid parameter")
)

// Success reports whether err represents STATUS_SUCCESS (nil error).
func Success(err error) bool { return err == nil }

// CodeOf extracts the Code from err, or codeSuccess if err is nil, or
// codeUnsuccessful if err is a non-Status error.
func CodeOf(err error) Code {
	if err == nil {
		return codeSuccess
	}
	if s, ok := err.(*Status); ok {
		return s.Code
	}
	return codeUnsuccessful
}
