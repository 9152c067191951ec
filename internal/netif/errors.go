package netif

import (
	"encoding/json"
	"fmt"
)

// Code is the closed set of error categories the engine can report.
// The numeric values are part of the C boundary contract and must
// never be renumbered.
type Code int32

const (
	CodeOk               Code = 0
	CodeInvalidArgument  Code = 1
	CodeNotFound         Code = 2
	CodeUnsupported      Code = 3
	CodePermissionDenied Code = 4
	CodeSystemError      Code = 5
	CodeUnknown          Code = 999
)

var codeNames = map[Code]string{
	CodeOk:               "Ok",
	CodeInvalidArgument:  "InvalidArgument",
	CodeNotFound:         "NotFound",
	CodeUnsupported:      "Unsupported",
	CodePermissionDenied: "PermissionDenied",
	CodeSystemError:      "SystemError",
	CodeUnknown:          "Unknown",
}

var codesByName = map[string]Code{
	"Ok":               CodeOk,
	"InvalidArgument":  CodeInvalidArgument,
	"NotFound":         CodeNotFound,
	"Unsupported":      CodeUnsupported,
	"PermissionDenied": CodePermissionDenied,
	"SystemError":      CodeSystemError,
	"Unknown":          CodeUnknown,
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int32(c))
}

// MarshalJSON writes the code as its symbolic name; the wire contract
// uses names, the C return value uses the numeric form.
func (c Code) MarshalJSON() ([]byte, error) {
	name, ok := codeNames[c]
	if !ok {
		name = codeNames[CodeUnknown]
	}
	return json.Marshal(name)
}

// UnmarshalJSON accepts both the symbolic name and the numeric value,
// so envelopes produced by either side of the boundary parse cleanly.
func (c *Code) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		code, ok := codesByName[name]
		if !ok {
			return fmt.Errorf("unknown error code %q", name)
		}
		*c = code
		return nil
	}
	var num int32
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("error code must be a name or number: %s", data)
	}
	if _, ok := codeNames[Code(num)]; !ok {
		return fmt.Errorf("unknown error code %d", num)
	}
	*c = Code(num)
	return nil
}

// Error is the immutable {code, message} pair every fallible engine
// operation reports. It crosses the C boundary verbatim.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is matches errors by code so callers can use errors.Is with a
// bare &Error{Code: ...} target.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// InvalidArgumentf reports malformed or out-of-range caller input.
func InvalidArgumentf(format string, args ...interface{}) *Error {
	return &Error{Code: CodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf reports a selector that matches no interface.
func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Unsupportedf reports a capability the platform or its toolchain lacks.
func Unsupportedf(format string, args ...interface{}) *Error {
	return &Error{Code: CodeUnsupported, Message: fmt.Sprintf(format, args...)}
}

// PermissionDeniedf reports an OS privilege failure.
func PermissionDeniedf(format string, args ...interface{}) *Error {
	return &Error{Code: CodePermissionDenied, Message: fmt.Sprintf(format, args...)}
}

// SystemErrorf reports a tool that ran and failed, or produced
// output the engine could not parse.
func SystemErrorf(format string, args ...interface{}) *Error {
	return &Error{Code: CodeSystemError, Message: fmt.Sprintf(format, args...)}
}
