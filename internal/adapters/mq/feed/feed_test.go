package feed

import (
	"context"
	"testing"
	"time"

	"github.com/okian/detetive/internal/domain/model"
)

func recv(t *testing.T, ch <-chan model.Change) (model.Change, bool) {
	t.Helper()
	select {
	case c, ok := <-ch:
		return c, ok
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change")
		return model.Change{}, false
	}
}

func TestInMemoryFeed_PublishSubscribe(t *testing.T) {
	f := NewInMemoryFeed()
	ctx := context.Background()

	a, cancelA := f.Subscribe(ctx, "s1")
	defer cancelA()
	b, cancelB := f.Subscribe(ctx, "s1")
	defer cancelB()
	other, cancelOther := f.Subscribe(ctx, "s2")
	defer cancelOther()

	if n := f.Subscribers(); n != 3 {
		t.Errorf("expected 3 subscribers, got %d", n)
	}

	n := f.Publish(ctx, model.Change{SessionID: "s1", Kind: model.ChangeCycle, Version: 4})
	if n != 2 {
		t.Errorf("expected delivery to 2 subscribers, got %d", n)
	}
	for _, ch := range []<-chan model.Change{a, b} {
		c, ok := recv(t, ch)
		if !ok || c.Version != 4 || c.Kind != model.ChangeCycle {
			t.Errorf("unexpected change %+v (open=%v)", c, ok)
		}
	}
	select {
	case c := <-other:
		t.Errorf("s2 subscriber received s1 change %+v", c)
	default:
	}
}

func TestInMemoryFeed_DropsWhenFull(t *testing.T) {
	f := NewInMemoryFeed(WithBufferSize(1))
	ctx := context.Background()

	ch, cancel := f.Subscribe(ctx, "s1")
	defer cancel()

	if n := f.Publish(ctx, model.Change{SessionID: "s1", Version: 1}); n != 1 {
		t.Fatalf("expected first publish delivered, got %d", n)
	}
	if n := f.Publish(ctx, model.Change{SessionID: "s1", Version: 2}); n != 0 {
		t.Errorf("expected second publish dropped, got %d", n)
	}
	if c, _ := recv(t, ch); c.Version != 1 {
		t.Errorf("expected version 1, got %d", c.Version)
	}
}

func TestInMemoryFeed_Cancel(t *testing.T) {
	f := NewInMemoryFeed()
	ctx := context.Background()

	ch, cancel := f.Subscribe(ctx, "s1")
	cancel()
	cancel()

	if _, ok := recv(t, ch); ok {
		t.Error("expected channel closed after cancel")
	}
	if n := f.Subscribers(); n != 0 {
		t.Errorf("expected 0 subscribers, got %d", n)
	}
	if n := f.Publish(ctx, model.Change{SessionID: "s1"}); n != 0 {
		t.Errorf("expected no delivery after cancel, got %d", n)
	}
}

func TestInMemoryFeed_ContextCancel(t *testing.T) {
	f := NewInMemoryFeed()
	ctx, cancel := context.WithCancel(context.Background())

	ch, _ := f.Subscribe(ctx, "s1")
	cancel()

	if _, ok := recv(t, ch); ok {
		t.Error("expected channel closed after context cancel")
	}
	if n := f.Subscribers(); n != 0 {
		t.Errorf("expected 0 subscribers, got %d", n)
	}
}

func TestInMemoryFeed_CloseSession(t *testing.T) {
	f := NewInMemoryFeed()
	ctx := context.Background()

	ch, cancel := f.Subscribe(ctx, "s1")
	keep, cancelKeep := f.Subscribe(ctx, "s2")
	defer cancelKeep()

	f.CloseSession("s1")
	if _, ok := recv(t, ch); ok {
		t.Error("expected s1 channel closed")
	}
	cancel()

	if n := f.Subscribers(); n != 1 {
		t.Errorf("expected 1 subscriber left, got %d", n)
	}
	f.Publish(ctx, model.Change{SessionID: "s2", Version: 9})
	if c, ok := recv(t, keep); !ok || c.Version != 9 {
		t.Errorf("expected s2 to keep receiving, got %+v", c)
	}
}

func TestInMemoryFeed_Close(t *testing.T) {
	f := NewInMemoryFeed()
	ctx := context.Background()

	ch, cancel := f.Subscribe(ctx, "s1")
	defer cancel()

	if err := f.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second close: unexpected error: %v", err)
	}
	if _, ok := recv(t, ch); ok {
		t.Error("expected channel closed after Close")
	}
	if n := f.Publish(ctx, model.Change{SessionID: "s1"}); n != 0 {
		t.Errorf("expected no delivery after Close, got %d", n)
	}

	late, _ := f.Subscribe(ctx, "s1")
	if _, ok := recv(t, late); ok {
		t.Error("expected subscription after Close to be closed")
	}
}
