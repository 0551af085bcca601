package granular

import (
	"github.com/cwbudde/algo-granular/dsp/buffer"
	"github.com/cwbudde/algo-granular/dsp/filter/onepole"
)

const (
	// FeedbackThreshold is the feedback amount below which the path is
	// skipped entirely.
	FeedbackThreshold = 1e-3

	feedbackBaseCutoff  = 20.0
	feedbackCutoffRange = 100.0
	feedbackScale       = 0.7
)

// FeedbackCutoff returns the highpass cutoff in Hz for a feedback amount.
func FeedbackCutoff(amount float64) float64 {
	return feedbackBaseCutoff + feedbackCutoffRange*amount*amount
}

// feedback highpasses the grain sum and adds it back into the capture
// buffer.
type feedback struct {
	hpL, hpR   onepole.Filter
	sampleRate float64
	gain       float64
}

// configure derives the per-block coefficient and loop gain. norm is the
// pool loudness normalization applied to the grain sum.
func (f *feedback) configure(amount, norm float64) {
	f.hpL.Configure(FeedbackCutoff(amount), f.sampleRate)
	f.hpR.SetCoefficient(f.hpL.Coefficient())
	f.gain = norm * amount * feedbackScale
}

// apply mixes the filtered accumulator into the slots starting at head, one
// slot per frame, so frame i lands where that frame's input was written.
func (f *feedback) apply(c *buffer.Capture, head int, accL, accR []float64) {
	for i := range accL {
		c.Mix(head+i, f.hpL.Highpass(accL[i])*f.gain, f.hpR.Highpass(accR[i])*f.gain)
	}
}

func (f *feedback) reset() {
	f.hpL.Reset()
	f.hpR.Reset()
}
