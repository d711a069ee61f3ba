package domain

import (
	"time"

	"github.com/google/uuid"
)

// TradingAccount is a broker account whose trades are journaled.
type TradingAccount struct {
	ID                   uuid.UUID     `json:"id"`
	Broker               string        `json:"broker"`
	Server               string        `json:"server"`
	Login                string        `json:"login"` // Broker-side account number
	Status               AccountStatus `json:"status"`
	LastAttemptedSyncAt  *time.Time    `json:"lastAttemptedSyncAt,omitempty"`
	LastSuccessfulSyncAt *time.Time    `json:"lastSuccessfulSyncAt,omitempty"`
	LastError            string        `json:"lastError,omitempty"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt"`
}

// TradeAnnotation holds the journal note and tags attached to a trade.
type TradeAnnotation struct {
	TradeID  uuid.UUID `json:"tradeId"`
	NoteText string    `json:"noteText"`
	Tags     []string  `json:"tags"`
}
