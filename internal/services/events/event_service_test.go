package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"

	"github.com/fundingpath/signalchain/internal/interfaces"
)

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	var order []string
	svc.Subscribe(interfaces.EventSnapshotLoaded, func(ctx context.Context, e interfaces.Event) {
		order = append(order, "first")
	})
	svc.Subscribe(interfaces.EventSnapshotLoaded, func(ctx context.Context, e interfaces.Event) {
		order = append(order, "second")
	})

	svc.Publish(context.Background(), interfaces.Event{Type: interfaces.EventSnapshotLoaded})

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestPublishOnlyMatchingType(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	var got []interfaces.Event
	svc.Subscribe(interfaces.EventChainsDetected, func(ctx context.Context, e interfaces.Event) {
		got = append(got, e)
	})

	svc.Publish(context.Background(), interfaces.Event{Type: interfaces.EventClustersRefreshed})
	svc.Publish(context.Background(), interfaces.Event{Type: interfaces.EventChainsDetected, EntityID: "ent-1"})

	assert.Len(t, got, 1)
	assert.Equal(t, "ent-1", got[0].EntityID)
	assert.False(t, got[0].Timestamp.IsZero(), "Publish should stamp missing timestamps")
}

func TestPublishWithNoSubscribersIsNoOp(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	svc.Subscribe(interfaces.EventChainsDetected, nil)

	assert.NotPanics(t, func() {
		svc.Publish(context.Background(), interfaces.Event{Type: interfaces.EventChainsDetected})
	})
}
