package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"wellportal/models"
)

func TestMemoryBoxDrain(t *testing.T) {
	ctx := context.Background()
	box := NewMemoryBox(0, 0)
	sink := SinkFor(box, "sid", nil)

	sink.Notify(ctx, Success("Session booked"))
	sink.Notify(ctx, Event(models.EventSessionsRefresh))

	got, err := box.Drain(ctx, "sid")
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 notices, got %d", len(got))
	}
	if got[0].Message != "Session booked" || got[0].CreatedAt.IsZero() {
		t.Fatalf("first notice = %+v", got[0])
	}
	if got[1].Event != models.EventSessionsRefresh {
		t.Fatalf("second notice = %+v", got[1])
	}

	again, _ := box.Drain(ctx, "sid")
	if len(again) != 0 {
		t.Fatal("drain must empty the inbox")
	}
}

func TestMemoryBoxCapacity(t *testing.T) {
	ctx := context.Background()
	box := NewMemoryBox(3, 0)
	for i := 0; i < 5; i++ {
		_ = box.Push(ctx, "sid", Info(fmt.Sprint(i)))
	}
	got, _ := box.Drain(ctx, "sid")
	if len(got) != 3 || got[0].Message != "2" || got[2].Message != "4" {
		t.Fatalf("unexpected ring contents %+v", got)
	}
}

func TestMemoryBoxIsolatesSessions(t *testing.T) {
	ctx := context.Background()
	box := NewMemoryBox(0, 0)
	_ = box.Push(ctx, "a", Error("boom"))
	if got, _ := box.Drain(ctx, "b"); len(got) != 0 {
		t.Fatal("notice leaked to another session")
	}
	_ = box.Forget(ctx, "a")
	if got, _ := box.Drain(ctx, "a"); len(got) != 0 {
		t.Fatal("Forget kept notices")
	}
}

func TestMemoryBoxSweepsUndrainedInboxes(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	box := NewMemoryBox(0, 10*time.Minute)
	box.now = func() time.Time { return now }

	_ = box.Push(ctx, "abandoned", Info("never read"))
	now = now.Add(8 * time.Minute)
	_ = box.Push(ctx, "active", Info("fresh"))
	now = now.Add(3 * time.Minute)

	if got, _ := box.Drain(ctx, "abandoned"); len(got) != 0 {
		t.Fatalf("expired inbox drained: %+v", got)
	}
	_ = box.Push(ctx, "abandoned", Info("again"))
	now = now.Add(10 * time.Minute)

	if n := box.Sweep(); n != 2 {
		t.Fatalf("swept %d", n)
	}
	if box.Len() != 0 {
		t.Fatalf("len = %d", box.Len())
	}
}

type failingBox struct{ MemoryBox }

func (*failingBox) Push(context.Context, string, models.Notice) error {
	return errors.New("redis down")
}

func TestSinkSwallowsPushErrors(t *testing.T) {
	sink := SinkFor(&failingBox{}, "sid", nil)
	sink.Notify(context.Background(), Error("x"))
}
