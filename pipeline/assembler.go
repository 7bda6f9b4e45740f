package pipeline

import (
	"github.com/khaledhikmat/lvef-go/model"
)

// assemble stacks N frames into the flat forward-pass buffer. The layout
// is the pinned contract documented on model.InputTensor: stack to
// (T,H,W,C), permute to (C,T,H,W), prepend batch=1. Pure CPU work; the
// device binding happens when the executor copies the buffer into the
// input blob.
func assemble(frames model.FrameSequence) (model.InputTensor, error) {
	if len(frames) == 0 {
		return model.InputTensor{}, model.GenPipelineError(model.KindInference, nil,
			"cannot assemble an empty frame sequence")
	}

	height := frames[0].Height
	width := frames[0].Width
	channels := frames[0].Channels
	steps := len(frames)

	data := make([]float32, channels*steps*height*width)
	for t, frame := range frames {
		if frame.Height != height || frame.Width != width || frame.Channels != channels {
			return model.InputTensor{}, model.GenPipelineError(model.KindInference, nil,
				"frame %d shape differs from frame 0", t)
		}

		for h := 0; h < height; h++ {
			for w := 0; w < width; w++ {
				for c := 0; c < channels; c++ {
					// (t,h,w,c) -> (c,t,h,w)
					src := (h*width+w)*channels + c
					dst := ((c*steps+t)*height+h)*width + w
					data[dst] = frame.Pixels[src]
				}
			}
		}
	}

	return model.InputTensor{
		Data: data,
		Dims: []int{1, channels, steps, height, width},
	}, nil
}
