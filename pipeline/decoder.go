package pipeline

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/khaledhikmat/lvef-go/model"
	"github.com/khaledhikmat/lvef-go/service/storage"
)

// decode reads the acquired video sequentially into normalized frames:
// resize to the configured square edge, convert to float32, scale to
// [0,1]. Decoding stops silently at end-of-stream or the first
// unreadable frame; a truncated clip is a partial success. Zero readable
// frames is the one hard failure, because no valid tensor can exist.
func decode(svcs ServicesFactory, resource *storage.Resource) (model.FrameSequence, error) {
	capture, err := gocv.VideoCaptureFile(resource.Path())
	if err != nil {
		return nil, model.GenPipelineError(model.KindDecode, err,
			"error opening video capture")
	}
	defer capture.Close()

	edge := svcs.CfgSvc.GetFrameEdge()

	img := gocv.NewMat()
	defer img.Close() // Crucial to close the image to avoid memory leaks
	resized := gocv.NewMat()
	defer resized.Close()
	scaled := gocv.NewMat()
	defer scaled.Close()

	frames := model.FrameSequence{}
	for {
		if ok := capture.Read(&img); !ok || img.Empty() {
			break
		}

		gocv.Resize(img, &resized, image.Pt(edge, edge), 0, 0, gocv.InterpolationLinear)
		resized.ConvertToWithParams(&scaled, gocv.MatTypeCV32F, 1.0/255.0, 0)

		data, derr := scaled.DataPtrFloat32()
		if derr != nil {
			// Unreadable frame; stop here and keep what we have.
			break
		}

		pixels := make([]float32, len(data))
		copy(pixels, data)
		frames = append(frames, model.Frame{
			Pixels:   pixels,
			Height:   edge,
			Width:    edge,
			Channels: scaled.Channels(),
		})
	}

	if len(frames) == 0 {
		return nil, model.GenPipelineError(model.KindDecode, nil,
			"no readable frames")
	}

	return frames, nil
}
