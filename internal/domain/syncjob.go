package domain

import (
	"time"
)

type SyncJobStatus string

const (
	SyncJobPending SyncJobStatus = "pending"
	SyncJobRunning SyncJobStatus = "running"
	SyncJobDone    SyncJobStatus = "done"
	SyncJobFailed  SyncJobStatus = "failed"
)

// SyncJob é uma entrada durável da fila de continuação. Quando uma invocação
// esgota o orçamento de tempo com histórico pendente, ela enfileira um job
// carregando o checkpoint explícito (ResumeBefore) em vez de disparar uma
// nova requisição HTTP contra si mesma.
type SyncJob struct {
	ID           string        `json:"id"`
	AccountID    string        `json:"account_id"`
	UserID       int           `json:"user_id"`
	Platform     Platform      `json:"platform"`
	FullSync     bool          `json:"full_sync"`
	QuickMode    bool          `json:"quick_mode"`
	ResumeBefore *time.Time    `json:"resume_before"`
	Status       SyncJobStatus `json:"status"`
	Attempts     int           `json:"attempts"`
	RunAfter     time.Time     `json:"run_after"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
