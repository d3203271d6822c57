package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendalytics/sales-sync-api/internal/domain"
)

func TestBroker_PublishDeliversToOwnerSubscribers(t *testing.T) {
	broker := NewBroker()

	subA := broker.Subscribe(1)
	subB := broker.Subscribe(1)
	subOther := broker.Subscribe(2)

	broker.Publish(1, domain.ProgressEvent{Type: domain.ProgressSyncStart, Message: "início"})

	for _, sub := range []*Subscription{subA, subB} {
		select {
		case event := <-sub.Events():
			assert.Equal(t, domain.ProgressSyncStart, event.Type)
			assert.False(t, event.Timestamp.IsZero())
		default:
			t.Fatal("assinante do dono não recebeu o evento")
		}
	}

	select {
	case <-subOther.Events():
		t.Fatal("evento vazou para assinante de outro dono")
	default:
	}
}

func TestBroker_PublishWithoutSubscriberIsNoop(t *testing.T) {
	broker := NewBroker()

	// Não deve bloquear nem falhar
	broker.Publish(99, domain.ProgressEvent{Type: domain.ProgressSyncProgress})
}

func TestBroker_FullBufferDropsEvent(t *testing.T) {
	broker := NewBroker()
	sub := broker.Subscribe(1)

	for i := 0; i < subscriptionBuffer+10; i++ {
		broker.Publish(1, domain.ProgressEvent{Type: domain.ProgressSyncProgress, Current: i})
	}

	// Buffer cheio: só os primeiros eventos ficam, o resto é descartado
	assert.Len(t, sub.events, subscriptionBuffer)
}

func TestBroker_CloseOwnerClosesChannels(t *testing.T) {
	broker := NewBroker()
	sub := broker.Subscribe(1)

	broker.CloseOwner(1)

	_, open := <-sub.Events()
	require.False(t, open)

	// Publicar depois do fechamento não deve entrar em pânico
	broker.Publish(1, domain.ProgressEvent{Type: domain.ProgressSyncComplete})
}

func TestBroker_Unsubscribe(t *testing.T) {
	broker := NewBroker()
	subA := broker.Subscribe(1)
	subB := broker.Subscribe(1)

	broker.Unsubscribe(1, subA)
	broker.Publish(1, domain.ProgressEvent{Type: domain.ProgressSyncProgress})

	_, open := <-subA.Events()
	assert.False(t, open)
	assert.Len(t, subB.events, 1)

	// Unsubscribe repetido é inofensivo
	broker.Unsubscribe(1, subA)
}
