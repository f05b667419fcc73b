package wm

import (
	"time"

	"github.com/bnema/fluxwl/internal/event"
)

// attentionState is the per-view urgency blinker. The timer is owned by the
// view and must be cancelled before the view is destroyed.
type attentionState struct {
	active              bool
	state               bool
	intervalMs          int
	timer               event.Timer
	fromLegacyUrgency   bool
	toggleCount         int
}

// AttentionActive reports whether the blinker is running.
func (v *View) AttentionActive() bool {
	return v != nil && v.attention.active
}

// AttentionState reports the current blink phase.
func (v *View) AttentionState() bool {
	return v != nil && v.attention.state
}

func (v *View) attentionStop() {
	if v == nil {
		return
	}
	if v.attention.timer != nil {
		v.attention.timer.Stop()
		v.attention.timer = nil
	}
	v.attention = attentionState{}
}

func (v *View) attentionTick() {
	if v == nil || v.core == nil {
		return
	}
	if !v.attention.active || v.attention.timer == nil {
		return
	}
	if v.attention.intervalMs <= 0 {
		v.attentionStop()
		return
	}
	if v.core.Focused == v {
		v.attentionStop()
		return
	}

	v.attention.state = !v.attention.state
	v.DecorSetActive(v.attention.state)
	if v.attention.toggleCount < 3 {
		v.core.logf("Attention: toggle title=%s state=%s", v.DisplayTitle(), onOff(v.attention.state))
		v.attention.toggleCount++
	}
	v.attention.timer.Update(time.Duration(v.attention.intervalMs) * time.Millisecond)
}

// AttentionRequest starts the urgency blinker. A no-op when the view is
// already focused, already blinking, or the interval is non-positive.
func (v *View) AttentionRequest(intervalMs int, fromLegacyUrgency bool, why string) {
	if v == nil || v.core == nil {
		return
	}
	if intervalMs <= 0 {
		return
	}
	if v.core.Focused == v {
		return
	}
	if v.attention.active {
		return
	}
	if v.core.Clock == nil {
		return
	}

	v.attention.active = true
	v.attention.state = false
	v.attention.intervalMs = intervalMs
	v.attention.toggleCount = 0
	v.attention.fromLegacyUrgency = fromLegacyUrgency
	v.attention.timer = v.core.Clock.AddTimer(v.attentionTick)

	v.core.logf("Attention: start title=%s interval=%d why=%s", v.DisplayTitle(), intervalMs, why)
	v.attention.timer.Update(time.Duration(intervalMs) * time.Millisecond)
}

// AttentionClear cancels the blinker and restores the frame palette. The
// focus controller calls this when the view gains focus.
func (v *View) AttentionClear(why string) {
	if v == nil || v.core == nil {
		return
	}
	wasActive := v.attention.active
	v.attentionStop()
	if wasActive {
		v.core.logf("Attention: clear title=%s why=%s", v.DisplayTitle(), why)
	}
	if v.core.Focused != v {
		v.DecorSetActive(false)
	}
}
