// Package inbound exposes the loan application HTTP endpoints.
package inbound

import (
	"context"

	"github.com/finlens/loanadvisor/internal/eligibility/usecase"
	"github.com/finlens/loanadvisor/internal/pkg/router"
)

type uc interface {
	Submit(ctx context.Context, in usecase.SubmitInput) (*usecase.SubmitOutput, error)
	Detail(ctx context.Context, in usecase.DetailInput) (*usecase.DetailOutput, error)
	List(ctx context.Context, in usecase.ListInput) (*usecase.ListOutput, error)
	Stats(ctx context.Context) (*usecase.StatsOutput, error)
	UploadDocument(ctx context.Context, in usecase.UploadDocumentInput) (*usecase.UploadDocumentOutput, error)
}

// RegisterHTTPEndpoint mounts the loan application endpoints on the router.
func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/loans/applications", end.Submit)
	r.GET("/api/v1/loans/applications", end.List)
	r.GET("/api/v1/loans/applications/:id", end.Detail)
	r.PUT("/api/v1/loans/applications/:id/document", end.UploadDocument)
	r.GET("/api/v1/loans/stats", end.Stats)
}
