package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrail_HeadChasesPointer(t *testing.T) {
	t.Parallel()

	tr := newTrail(trailLength)
	tr.Step(point{100, 100})

	seg := tr.Segments()
	assert.InDelta(t, 60, seg[0].Pos.X, eps)
	assert.InDelta(t, 60, seg[0].Pos.Y, eps)
	assert.InDelta(t, 27, seg[1].Pos.X, eps)
	assert.InDelta(t, trailDecayRate, tr.Activity(), eps)
}

func TestTrail_ActivityRisesThenDecays(t *testing.T) {
	t.Parallel()

	tr := newTrail(trailLength)
	pointer := point{}
	for i := 0; i < 20; i++ {
		pointer = pointer.Add(point{50, 0})
		tr.Step(pointer)
	}
	moving := tr.Activity()
	assert.Greater(t, moving, 0.3)
	assert.Less(t, moving, 1.0)

	// Once the head has caught up, activity only decreases.
	for i := 0; i < 30; i++ {
		tr.Step(pointer)
	}
	settled := tr.Activity()
	tr.Step(pointer)
	assert.Less(t, tr.Activity(), settled)
	assert.InDelta(t, settled*(1-trailDecayRate), tr.Activity(), eps)
}

func TestTrail_SegmentsTaper(t *testing.T) {
	t.Parallel()

	tr := newTrail(trailLength)
	tr.activity = 1

	seg := tr.Segments()
	require.Len(t, seg, trailLength)
	assert.InDelta(t, 1, seg[0].Scale, eps)
	assert.InDelta(t, 0.55, seg[50].Scale, eps)
	assert.InDelta(t, 1-0.99*trailTaper, seg[trailLength-1].Scale, eps)
	for i := 1; i < len(seg); i++ {
		assert.Less(t, seg[i].Scale, seg[i-1].Scale)
	}
}

func TestTrail_FadedSegmentsAreZero(t *testing.T) {
	t.Parallel()

	tr := newTrail(10)
	tr.activity = trailMinScale / 2
	for _, s := range tr.Segments() {
		assert.Zero(t, s.Scale)
	}
	assert.False(t, tr.visible())
}

func TestTrailRunner_PublishesFrames(t *testing.T) {
	t.Parallel()

	frames := make(chan struct{}, 1)
	r := newTrailRunner(10, 240, func() {
		select {
		case frames <- struct{}{}:
		default:
		}
	})
	r.SetPointer(point{500, 500})
	r.Start(context.Background())
	r.Start(context.Background())

	select {
	case <-frames:
	case <-time.After(2 * time.Second):
		t.Fatal("no frame published")
	}
	require.Eventually(t, func() bool { return r.Frame() != nil }, 2*time.Second, 5*time.Millisecond)

	r.Stop()
	r.Stop()
	assert.Len(t, r.Frame(), 10)
}

func TestTrailRunner_IdleStaysQuiet(t *testing.T) {
	t.Parallel()

	calls := make(chan struct{}, 100)
	r := newTrailRunner(10, 240, func() { calls <- struct{}{} })
	r.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	r.Stop()

	assert.Empty(t, calls)
	assert.Nil(t, r.Frame())
}
