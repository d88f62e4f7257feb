// Package event defines the cross-module message contracts published to
// the broker.
package event

import "time"

// OTPIssuedDestination is the topic a new OTP issuance is published to.
const OTPIssuedDestination string = "otp_issued"

// OTPIssuedConsumerNotification names the notification module's consumer.
const OTPIssuedConsumerNotification string = "otp_issued_notification"

// OTPIssuedMessage is the payload carried on OTPIssuedDestination. The
// code travels on the internal broker only and is never echoed to HTTP
// clients.
type OTPIssuedMessage struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
