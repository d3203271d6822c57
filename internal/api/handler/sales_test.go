package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vendalytics/sales-sync-api/internal/usecases/syncing"
)

func boolPtr(v bool) *bool { return &v }

func TestSyncRequestFromBody(t *testing.T) {
	resumeBefore := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		body     *SyncSalesRequest
		expected syncing.Request
	}{
		{
			name:     "Sem corpo o modo rápido é o padrão",
			body:     nil,
			expected: syncing.Request{QuickMode: true},
		},
		{
			name:     "Corpo sem quickMode mantém o padrão",
			body:     &SyncSalesRequest{AccountIDs: []string{"acc_1"}},
			expected: syncing.Request{AccountIDs: []string{"acc_1"}, QuickMode: true},
		},
		{
			name:     "quickMode explícito false desliga o teto da fase recente",
			body:     &SyncSalesRequest{QuickMode: boolPtr(false)},
			expected: syncing.Request{QuickMode: false},
		},
		{
			name: "Demais campos são repassados ao motor",
			body: &SyncSalesRequest{
				AccountIDs:   []string{"acc_1", "acc_2"},
				FullSync:     true,
				QuickMode:    boolPtr(true),
				ResumeBefore: &resumeBefore,
			},
			expected: syncing.Request{
				AccountIDs:   []string{"acc_1", "acc_2"},
				FullSync:     true,
				QuickMode:    true,
				ResumeBefore: &resumeBefore,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, syncRequestFromBody(tt.body))
		})
	}
}
