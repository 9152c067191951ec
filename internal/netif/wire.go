package netif

// ABIVersion is the protocol version the engine was compiled with.
// Caller and engine must agree on it before any request is processed.
const ABIVersion uint32 = 1

// ListResponse is the envelope for a list call.
type ListResponse struct {
	ABI   uint32         `json:"abi"`
	Items []NetInterface `json:"items"`
}

// ApplyRequest is the envelope for an apply call.
type ApplyRequest struct {
	ABI    uint32   `json:"abi"`
	Target Selector `json:"target"`
	Ops    []Op     `json:"ops"`
}

// NewApplyRequest builds a request stamped with the engine's ABI version.
func NewApplyRequest(target Selector, ops []Op) *ApplyRequest {
	return &ApplyRequest{ABI: ABIVersion, Target: target, Ops: ops}
}

// ApplyResponse is the envelope for an apply call. OK is true iff every
// per-operation result succeeded.
type ApplyResponse struct {
	ABI     uint32     `json:"abi"`
	OK      bool       `json:"ok"`
	Results []OpResult `json:"results"`
}

// ErrorResponse wraps a whole-call failure as an apply envelope with a
// single synthetic result.
func ErrorResponse(abi uint32, e *Error) *ApplyResponse {
	return &ApplyResponse{
		ABI: abi,
		OK:  false,
		Results: []OpResult{
			{I: 0, OK: false, Error: e},
		},
	}
}

// InvalidABIResponse is the envelope returned on a protocol version
// mismatch. It carries the engine's own ABI value so the caller can see
// what it should have sent.
func InvalidABIResponse(expected, got uint32) *ApplyResponse {
	return ErrorResponse(expected,
		InvalidArgumentf("abi version mismatch: expected=%d got=%d", expected, got))
}

// ErrorEnvelope is the minimal payload written when a call fails before
// any per-operation work (or when the real response itself cannot be
// serialized).
type ErrorEnvelope struct {
	ABI   uint32 `json:"abi"`
	OK    bool   `json:"ok"`
	Error *Error `json:"error"`
}

// NewErrorEnvelope builds the minimal failure payload for e.
func NewErrorEnvelope(e *Error) *ErrorEnvelope {
	return &ErrorEnvelope{ABI: ABIVersion, OK: false, Error: e}
}
