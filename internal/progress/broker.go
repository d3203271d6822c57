package progress

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vendalytics/sales-sync-api/internal/domain"
)

const subscriptionBuffer = 64

// Publisher é o que o motor de sincronização enxerga: publicação
// fire-and-forget de eventos para o dono da conta.
type Publisher interface {
	Publish(ownerID int, event domain.ProgressEvent)
}

// Subscription é um receptor vivo de eventos de um dono. O canal é fechado
// pelo broker em CloseOwner ou Unsubscribe; o assinante só lê.
type Subscription struct {
	id     uint64
	events chan domain.ProgressEvent
}

func (s *Subscription) Events() <-chan domain.ProgressEvent {
	return s.events
}

// Broker é o canal de progresso por dono de conta: vários assinantes por
// dono, entrega melhor-esforço. Substitui o antigo registro global de
// conexões por uma dependência explícita e injetável.
type Broker struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[int]map[uint64]*Subscription
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[int]map[uint64]*Subscription),
	}
}

func (b *Broker) Subscribe(ownerID int) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		id:     b.nextID,
		events: make(chan domain.ProgressEvent, subscriptionBuffer),
	}

	if b.subs[ownerID] == nil {
		b.subs[ownerID] = make(map[uint64]*Subscription)
	}
	b.subs[ownerID][sub.id] = sub

	return sub
}

func (b *Broker) Unsubscribe(ownerID int, sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	owner, ok := b.subs[ownerID]
	if !ok {
		return
	}

	if _, ok := owner[sub.id]; ok {
		delete(owner, sub.id)
		close(sub.events)
	}

	if len(owner) == 0 {
		delete(b.subs, ownerID)
	}
}

// Publish entrega o evento a todos os assinantes do dono, sem bloquear:
// assinante com buffer cheio perde o evento (e isso é logado), dono sem
// assinante descarta em silêncio.
func (b *Broker) Publish(ownerID int, event domain.ProgressEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs[ownerID] {
		select {
		case sub.events <- event:
		default:
			logrus.WithFields(logrus.Fields{
				"owner_id":   ownerID,
				"event_type": event.Type,
			}).Warn("Assinante de progresso com buffer cheio, evento descartado")
		}
	}
}

// CloseOwner derruba todos os assinantes do dono. Usado ao final de uma
// sincronização sem continuação pendente.
func (b *Broker) CloseOwner(ownerID int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	owner, ok := b.subs[ownerID]
	if !ok {
		return
	}

	for _, sub := range owner {
		close(sub.events)
	}
	delete(b.subs, ownerID)
}
