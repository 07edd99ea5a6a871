package entity

import (
	"time"
)

type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "pending"
	DeliveryStatusSent    DeliveryStatus = "sent"
	DeliveryStatusFailed  DeliveryStatus = "failed"
)

// ChannelWhatsApp is the only delivery channel currently in use. The
// (channel, event_key) pair is the identity of a logical delivery.
const ChannelWhatsApp = "whatsapp"

type DeliveryRecord struct {
	ID        string            `json:"id" db:"id"`
	UserID    string            `json:"user_id" db:"user_id"`
	Channel   string            `json:"channel" db:"channel"`
	EventKey  string            `json:"event_key" db:"event_key"`
	Status    DeliveryStatus    `json:"status" db:"status"`
	Metadata  map[string]string `json:"metadata" db:"metadata"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}
