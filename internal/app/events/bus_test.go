package events_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bitewise-app/bitewise/internal/app/events"
	"github.com/bitewise-app/bitewise/internal/domain"
)

func testEvent(action domain.Action) domain.Event {
	return domain.Event{
		ID:         "evt-1",
		UserID:     "alice",
		Action:     action,
		OccurredAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestBus_DeliversToSubscriber(t *testing.T) {
	bus := events.NewMemoryBus()

	var got domain.Event
	bus.Subscribe(domain.ActionMealLog, func(ctx context.Context, evt domain.Event) error {
		got = evt
		return nil
	})

	if err := bus.Publish(context.Background(), testEvent(domain.ActionMealLog)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got.ID != "evt-1" || got.UserID != "alice" {
		t.Errorf("delivered event = %+v", got)
	}
}

func TestBus_NoSubscribersIsNoOp(t *testing.T) {
	bus := events.NewMemoryBus()

	if err := bus.Publish(context.Background(), testEvent(domain.ActionPhotoLog)); err != nil {
		t.Errorf("publish without subscribers should succeed, got %v", err)
	}
}

func TestBus_ActionIsolation(t *testing.T) {
	bus := events.NewMemoryBus()

	mealCalls := 0
	photoCalls := 0
	bus.Subscribe(domain.ActionMealLog, func(ctx context.Context, evt domain.Event) error {
		mealCalls++
		return nil
	})
	bus.Subscribe(domain.ActionPhotoLog, func(ctx context.Context, evt domain.Event) error {
		photoCalls++
		return nil
	})

	bus.Publish(context.Background(), testEvent(domain.ActionMealLog))

	if mealCalls != 1 || photoCalls != 0 {
		t.Errorf("meal=%d photo=%d, want 1 and 0", mealCalls, photoCalls)
	}
}

func TestBus_SubscriptionOrder(t *testing.T) {
	bus := events.NewMemoryBus()

	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		bus.Subscribe(domain.ActionMealLog, func(ctx context.Context, evt domain.Event) error {
			order = append(order, name)
			return nil
		})
	}

	bus.Publish(context.Background(), testEvent(domain.ActionMealLog))

	if len(order) != 3 || order[0] != "first" || order[2] != "third" {
		t.Errorf("handler order = %v", order)
	}
}

func TestBus_AllHandlersRunDespiteFailure(t *testing.T) {
	bus := events.NewMemoryBus()

	second := false
	bus.Subscribe(domain.ActionMealLog, func(ctx context.Context, evt domain.Event) error {
		return errors.New("handler one broke")
	})
	bus.Subscribe(domain.ActionMealLog, func(ctx context.Context, evt domain.Event) error {
		second = true
		return nil
	})

	err := bus.Publish(context.Background(), testEvent(domain.ActionMealLog))
	if err == nil {
		t.Fatal("publish should surface handler errors")
	}
	if !strings.Contains(err.Error(), "handler one broke") {
		t.Errorf("err = %v, want the handler failure named", err)
	}
	if !second {
		t.Error("a failing handler must not stop later handlers")
	}
}
