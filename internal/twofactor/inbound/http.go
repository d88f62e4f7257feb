// Package inbound exposes the twofactor HTTP endpoints.
//
// These endpoints predate the v1 API surface and keep the legacy envelope
// the web client already depends on, so they bypass the router's standard
// success/error codecs.
package inbound

import (
	"context"

	"github.com/finlens/loanadvisor/internal/pkg/router"
	"github.com/finlens/loanadvisor/internal/twofactor/usecase"
)

type uc interface {
	Issue(ctx context.Context, in usecase.IssueInput) (*usecase.IssueOutput, error)
	Verify(ctx context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error)
}

// RegisterHTTPEndpoint mounts the OTP endpoints on the router.
func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POSTRaw("/api/send-otp", end.SendOTP())
	r.POSTRaw("/api/verify-otp", end.VerifyOTP())
}
