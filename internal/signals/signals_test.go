package signals

import "testing"

func TestPublishSubscribe(t *testing.T) {
	b := New()
	_, ch := b.Subscribe(ClientFocus)

	b.Publish(ClientFocus, "container-1")

	select {
	case got := <-ch:
		if got != "container-1" {
			t.Fatalf("got %v, want container-1", got)
		}
	default:
		t.Fatal("expected buffered payload, got none")
	}
}

func TestPublishNoSubscribersIsNoop(t *testing.T) {
	b := New()
	b.Publish(ScreenNew, struct{}{}) // must not panic
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	sub, ch := b.Subscribe(ContainerGeometry)
	b.Unsubscribe(sub)

	b.Publish(ContainerGeometry, "x")

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed after unsubscribe")
	}
}

func TestSubscriberCount(t *testing.T) {
	b := New()
	if got := b.SubscriberCount(ClientNew); got != 0 {
		t.Fatalf("SubscriberCount = %d, want 0", got)
	}
	b.Subscribe(ClientNew)
	b.Subscribe(ClientNew)
	if got := b.SubscriberCount(ClientNew); got != 2 {
		t.Fatalf("SubscriberCount = %d, want 2", got)
	}
}

func TestPublishDropsWhenChannelFull(t *testing.T) {
	b := New()
	_, ch := b.Subscribe(PointerMove)
	for i := 0; i < ChannelBuffer+5; i++ {
		b.Publish(PointerMove, i)
	}
	// Should not deadlock or panic; drain what's buffered.
	count := 0
	for {
		select {
		case <-ch:
			count++
		default:
			if count != ChannelBuffer {
				t.Fatalf("buffered count = %d, want %d", count, ChannelBuffer)
			}
			return
		}
	}
}
