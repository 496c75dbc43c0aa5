package response

// Every /api/v1 body is one of the two envelopes below; meta.request_id matches
// the X-Request-Id header.

type Meta struct {
	RequestID string `json:"request_id"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type SuccessEnvelope struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta"`
}

type ErrorEnvelope struct {
	Error *ErrorBody `json:"error"`
	Meta  *Meta      `json:"meta"`
}
