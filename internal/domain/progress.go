package domain

import (
	"time"
)

type ProgressEventType string

const (
	ProgressSyncStart    ProgressEventType = "sync_start"
	ProgressSyncProgress ProgressEventType = "sync_progress"
	ProgressSyncWarning  ProgressEventType = "sync_warning"
	ProgressSyncComplete ProgressEventType = "sync_complete"
	ProgressSyncContinue ProgressEventType = "sync_continue"
)

// ProgressEvent é a mensagem transiente publicada para o assinante ao vivo
// (stream SSE). Entrega é melhor-esforço: a ausência de assinante nunca
// bloqueia a sincronização.
type ProgressEvent struct {
	Type            ProgressEventType `json:"type"`
	Message         string            `json:"message"`
	Current         int               `json:"current,omitempty"`
	Total           int               `json:"total,omitempty"`
	AccountID       string            `json:"accountId,omitempty"`
	AccountNickname string            `json:"accountNickname,omitempty"`
	ErrorCode       string            `json:"errorCode,omitempty"`
	Timestamp       time.Time         `json:"timestamp"`
}
