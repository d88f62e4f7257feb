package entity

import (
	"time"

	"github.com/finlens/loanadvisor/internal/pkg/valueobject"
)

type DeliveryStatus int

const (
	DeliveryStatusUnknown DeliveryStatus = iota
	DeliveryStatusQueued
	DeliveryStatusSent
	DeliveryStatusFailed
)

func (d DeliveryStatus) String() string {
	switch d {
	case DeliveryStatusQueued:
		return "queued"
	case DeliveryStatusSent:
		return "sent"
	case DeliveryStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CreateDeliveryLog records an outbound email before the send attempt so a
// failed delivery is never invisible.
type CreateDeliveryLog struct {
	ID        int64
	UserID    string
	Recipient string
	Subject   string
	Status    DeliveryStatus
}

type UpdateDeliveryLog struct {
	ID               int64
	Status           DeliveryStatus
	ProviderResponse valueobject.JSONMap
	NextRetryAt      *time.Time
}
