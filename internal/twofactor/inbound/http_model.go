package inbound

// SendOTPRequest is the issuer payload.
type SendOTPRequest struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
}

// VerifyOTPRequest is the verifier payload.
type VerifyOTPRequest struct {
	UserID string `json:"userId"`
	OTP    string `json:"otp"`
}

type sendOTPSuccess struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type sendOTPError struct {
	Error string `json:"error"`
}

type verifyOTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
