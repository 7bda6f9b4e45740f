package model

// Frame is one decoded, resized, normalized video frame. Pixels are
// float32 in [0,1], laid out H x W x C in source channel order (BGR as
// delivered by the capture). The frame owns its buffer; it never aliases
// decoder-side device memory.
type Frame struct {
	Pixels   []float32
	Height   int
	Width    int
	Channels int
}

// FrameSequence preserves source temporal order. A valid sequence holds
// at least one frame; an empty sequence is an invariant violation, not a
// degenerate success.
type FrameSequence []Frame

// InputTensor is the fixed-layout forward-pass input.
//
// Layout contract (pinned): frames stack to (T,H,W,C), permute to
// (C,T,H,W), prepend batch=1, giving dims [1,C,T,H,W] over a flat
// row-major buffer. The downstream network has no layout inference;
// any architecture swap must re-verify this convention.
type InputTensor struct {
	Data []float32
	Dims []int
}

// Frames returns the size of the time axis.
func (t InputTensor) Frames() int {
	if len(t.Dims) != 5 {
		return 0
	}
	return t.Dims[2]
}
