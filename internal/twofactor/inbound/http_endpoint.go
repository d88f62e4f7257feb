package inbound

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finlens/loanadvisor/internal/pkg/goerror"
	"github.com/finlens/loanadvisor/internal/pkg/router"
	"github.com/finlens/loanadvisor/internal/twofactor/usecase"
)

// HTTPEndpoint exposes the legacy-envelope OTP handlers.
type HTTPEndpoint struct {
	uc uc
}

// SendOTP issues a fresh code for the user and triggers email delivery.
// Success: 200 {"success":true,"message":...}. Failure: {"error":...}
// with 400 for malformed input, 429 during the resend cooldown, and 500
// for storage or delivery failures.
func (h *HTTPEndpoint) SendOTP() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SendOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			router.WriteJSON(w, sendOTPError{Error: "Invalid request body"}, http.StatusBadRequest)
			return
		}

		if _, err := h.uc.Issue(r.Context(), usecase.IssueInput{
			Email:  req.Email,
			UserID: req.UserID,
		}); err != nil {
			status, msg := http.StatusInternalServerError, "Failed to send OTP"

			var gerr *goerror.Error
			if errors.As(err, &gerr) && gerr.Type() != goerror.TypeServer {
				status, msg = http.StatusBadRequest, gerr.Msg()
				if gerr.Code() == goerror.CodeTooManyRequest {
					status = http.StatusTooManyRequests
				}
			}

			router.WriteJSON(w, sendOTPError{Error: msg}, status)
			return
		}

		router.WriteJSON(w, sendOTPSuccess{Success: true, Message: "OTP sent successfully"}, http.StatusOK)
	})
}

// VerifyOTP validates a submitted code. Every failure is reported as
// {"success":false,"message":...}: 400 for missing fields, bad format,
// no code, expiry, and mismatch; 500 for storage failures.
func (h *HTTPEndpoint) VerifyOTP() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req VerifyOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			router.WriteJSON(w, verifyOTPResponse{Success: false, Message: "Missing required fields"}, http.StatusBadRequest)
			return
		}

		if _, err := h.uc.Verify(r.Context(), usecase.VerifyInput{
			UserID: req.UserID,
			OTP:    req.OTP,
		}); err != nil {
			status, msg := http.StatusInternalServerError, "Internal server error"

			var gerr *goerror.Error
			if errors.As(err, &gerr) && gerr.Type() != goerror.TypeServer {
				status, msg = http.StatusBadRequest, gerr.Msg()
			}

			router.WriteJSON(w, verifyOTPResponse{Success: false, Message: msg}, status)
			return
		}

		router.WriteJSON(w, verifyOTPResponse{Success: true, Message: "2FA enabled successfully"}, http.StatusOK)
	})
}
