package pixoo

import "math"

// ─── Animation Timing ───────────────────────────────────────────────────────────
//
// The device plays every frame of an animation for the same duration (a
// frame without a usable one is shown for ten seconds). Variable timing is
// emulated by picking one tick for the whole animation and repeating each
// frame a whole number of ticks. Only multiples of the tick survive.

// Normalize computes the playback tick and per-frame repeat factors.
//
// The tick is the shortest duration, but never below MinTickMs and never
// above the 16-bit duration field. Each factor is d/tick rounded half to
// even, and at least 1 so that no frame disappears.
//
//	Normalize([]int{100, 200, 400}) // 100, [1 2 4]
//	Normalize([]int{10, 10, 10})    // 25,  [1 1 1]
func Normalize(durationsMs []int) (tickMs int, repeatFactors []int) {
	if len(durationsMs) == 0 {
		return MinTickMs, nil
	}

	shortest := durationsMs[0]
	for _, d := range durationsMs[1:] {
		if d < shortest {
			shortest = d
		}
	}

	tickMs = shortest
	if tickMs < MinTickMs {
		tickMs = MinTickMs
	}
	if tickMs > 0xFFFF {
		tickMs = 0xFFFF
	}

	repeatFactors = make([]int, len(durationsMs))
	for i, d := range durationsMs {
		f := int(math.RoundToEven(float64(d) / float64(tickMs)))
		if f < 1 {
			f = 1
		}
		repeatFactors[i] = f
	}
	return tickMs, repeatFactors
}

// DurationTag returns the fallback duration of the image at position index
// in a gallery.
//
// The device tells gallery entries apart by the low digit of their duration
// field; two neighbours with the same digit play as one endless loop. The
// 100 + index layout is part of the wire format and must not change.
func DurationTag(index int) int {
	return BaseDurationTag + index
}
