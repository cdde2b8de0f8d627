package main

import (
	"context"
	"sync"
	"time"
)

// Trail is a chain of points chasing the pointer. points[0] is the head.
type Trail struct {
	points   []point
	activity float64
}

type trailSegment struct {
	Pos   point
	Scale float64
}

func newTrail(n int) *Trail {
	return &Trail{points: make([]point, n)}
}

// Step advances the simulation by one frame toward the pointer.
func (t *Trail) Step(pointer point) {
	if len(t.points) == 0 {
		return
	}
	head := t.points[0]
	target := 0.0
	if pointer.Dist(head) > trailMotionEps {
		target = 1
	}
	t.activity += (target - t.activity) * trailDecayRate

	t.points[0] = head.Add(pointer.Sub(head).Mul(trailHeadGain))
	for i := 1; i < len(t.points); i++ {
		leader, follower := t.points[i-1], t.points[i]
		t.points[i] = follower.Add(leader.Sub(follower).Mul(trailSpringGain))
	}
}

func (t *Trail) Activity() float64 { return t.activity }

// Segments returns the render position and scale of every point. Scales
// below trailMinScale are reported as zero.
func (t *Trail) Segments() []trailSegment {
	n := len(t.points)
	out := make([]trailSegment, n)
	for i, p := range t.points {
		base := 1 - float64(i)/float64(n)*trailTaper
		scale := base * t.activity
		if scale < trailMinScale {
			scale = 0
		}
		out[i] = trailSegment{Pos: p, Scale: scale}
	}
	return out
}

func (t *Trail) visible() bool {
	return t.activity >= trailMinScale
}

// trailRunner ticks a Trail on its own goroutine. The UI only writes the
// pointer and reads finished frames.
type trailRunner struct {
	mu       sync.Mutex
	trail    *Trail
	pointer  point
	frame    []trailSegment
	interval time.Duration
	onFrame  func()

	cancel context.CancelFunc
	done   chan struct{}
}

func newTrailRunner(n, fps int, onFrame func()) *trailRunner {
	if fps <= 0 {
		fps = 60
	}
	return &trailRunner{
		trail:    newTrail(n),
		interval: time.Second / time.Duration(fps),
		onFrame:  onFrame,
	}
}

func (r *trailRunner) SetPointer(p point) {
	r.mu.Lock()
	r.pointer = p
	r.mu.Unlock()
}

// Frame returns the most recent visible segments, or nil when the trail has
// faded out.
func (r *trailRunner) Frame() []trailSegment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame
}

// Start launches the tick loop. It is a no-op if the runner is already
// running.
func (r *trailRunner) Start(ctx context.Context) {
	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)
	done := make(chan struct{})
	r.done = done
	r.mu.Unlock()

	go r.loop(ctx, done)
}

// Stop cancels the tick loop and waits for it to exit.
func (r *trailRunner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (r *trailRunner) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	wasVisible := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			visible := r.tick()
			if (visible || wasVisible) && r.onFrame != nil {
				r.onFrame()
			}
			wasVisible = visible
		}
	}
}

func (r *trailRunner) tick() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trail.Step(r.pointer)
	if !r.trail.visible() {
		r.frame = nil
		return false
	}
	r.frame = r.trail.Segments()
	return true
}
