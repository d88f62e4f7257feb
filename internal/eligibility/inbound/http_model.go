package inbound

import (
	"time"

	"github.com/samber/lo"

	"github.com/finlens/loanadvisor/internal/eligibility/entity"
)

type SubmitRequest struct {
	entity.ApplicationForm
}

type SubmitResponse struct {
	ID          int64    `json:"id,string"`
	Eligibility string   `json:"eligibility"`
	Probability float64  `json:"probability"`
	Reasons     []string `json:"reasons"`
	Source      string   `json:"source"`
}

func (r SubmitResponse) Message() string {
	return "Application scored"
}

type ApplicationResponse struct {
	ID          int64                  `json:"id,string"`
	UserID      string                 `json:"user_id"`
	Form        entity.ApplicationForm `json:"form"`
	Eligibility string                 `json:"eligibility"`
	Probability float64                `json:"probability"`
	Reasons     []string               `json:"reasons"`
	Source      string                 `json:"source"`
	DocumentURL string                 `json:"document_url,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

type ApplicationsResponse struct {
	Applications []ApplicationResponse `json:"applications"`
	// meta
	total int64
	size  int32
	page  int32
}

func (r ApplicationsResponse) Meta() map[string]any {
	return map[string]any{
		"total": r.total,
		"size":  r.size,
		"page":  r.page,
	}
}

type StatsResponse struct {
	Total          int64   `json:"total"`
	Eligible       int64   `json:"eligible"`
	Ineligible     int64   `json:"ineligible"`
	AvgProbability float64 `json:"avg_probability"`
}

type UploadDocumentResponse struct {
	DocumentKey string `json:"document_key"`
}

func (r UploadDocumentResponse) Message() string {
	return "Document uploaded"
}

func eligibilityLabel(eligible bool) string {
	if eligible {
		return "eligible"
	}
	return "not eligible"
}

func toApplicationResponse(app entity.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          app.ID,
		UserID:      app.UserID,
		Form:        app.Form,
		Eligibility: eligibilityLabel(app.Eligible),
		Probability: app.Probability,
		Reasons:     app.Reasons,
		Source:      app.Source.String(),
		CreatedAt:   app.CreatedAt,
	}
}

func toApplicationResponses(apps []entity.Application) []ApplicationResponse {
	return lo.Map(apps, func(app entity.Application, _ int) ApplicationResponse {
		return toApplicationResponse(app)
	})
}
