package inbound

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/finlens/loanadvisor/internal/eligibility/usecase"
	"github.com/finlens/loanadvisor/internal/pkg/goerror"
	"github.com/finlens/loanadvisor/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for loan application workflows.
type HTTPEndpoint struct {
	uc uc
}

// Submit scores and stores a loan application.
func (h *HTTPEndpoint) Submit(r *router.Request) (any, error) {
	var req SubmitRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Submit(r.Context(), usecase.SubmitInput{Form: req.ApplicationForm})
	if err != nil {
		return nil, err
	}

	return SubmitResponse{
		ID:          resp.ID,
		Eligibility: eligibilityLabel(resp.Eligible),
		Probability: resp.Probability,
		Reasons:     resp.Reasons,
		Source:      resp.Source.String(),
	}, nil
}

// Detail returns a single application with a presigned document URL when one
// is attached.
func (h *HTTPEndpoint) Detail(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.Detail(r.Context(), usecase.DetailInput{ID: id})
	if err != nil {
		return nil, err
	}

	out := toApplicationResponse(resp.Application)
	out.DocumentURL = resp.DocumentURL

	return out, nil
}

// List returns the paged admin listing.
func (h *HTTPEndpoint) List(r *router.Request) (any, error) {
	var eligible *bool
	switch strings.ToLower(strings.TrimSpace(r.GetQuery("eligible"))) {
	case "true":
		v := true
		eligible = &v
	case "false":
		v := false
		eligible = &v
	}

	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}
	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	dateFrom, err := parseDateQuery(r.GetQuery("date_from"))
	if err != nil {
		return nil, err
	}
	dateTo, err := parseDateQuery(r.GetQuery("date_to"))
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.List(r.Context(), usecase.ListInput{
		Eligible:  eligible,
		UserID:    strings.TrimSpace(r.GetQuery("user_id")),
		DateFrom:  dateFrom,
		DateTo:    dateTo,
		Page:      page,
		Size:      size,
		SortOrder: strings.ToLower(strings.TrimSpace(r.GetQuery("sort_order"))),
	})
	if err != nil {
		return nil, err
	}

	return ApplicationsResponse{
		Applications: toApplicationResponses(resp.Applications),
		total:        resp.Total,
		size:         resp.Size,
		page:         resp.Page,
	}, nil
}

// Stats returns outcome aggregates for the admin dashboard.
func (h *HTTPEndpoint) Stats(r *router.Request) (any, error) {
	resp, err := h.uc.Stats(r.Context())
	if err != nil {
		return nil, err
	}

	return StatsResponse{
		Total:          resp.Stats.Total,
		Eligible:       resp.Stats.Eligible,
		Ineligible:     resp.Stats.Ineligible,
		AvgProbability: resp.Stats.AvgProbability,
	}, nil
}

// UploadDocument streams a supporting document into object storage.
func (h *HTTPEndpoint) UploadDocument(r *router.Request) (any, error) {
	ctx := r.Context()

	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	file, err := r.StreamSingleFile("document")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close file", "error", err)
		}
	}()

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, goerror.NewInvalidFormat()
	}

	resp, err := h.uc.UploadDocument(ctx, usecase.UploadDocumentInput{
		ApplicationID: id,
		File:          io.MultiReader(bytes.NewReader(head[:n]), file),
		ContentType:   http.DetectContentType(head[:n]),
	})
	if err != nil {
		return nil, err
	}

	return UploadDocumentResponse{DocumentKey: resp.DocumentKey}, nil
}

func parseDateQuery(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, goerror.NewInvalidFormat("invalid date, use YYYY-MM-DD")
	}

	return t, nil
}
