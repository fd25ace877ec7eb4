package pipeline

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"traffic-worker-go/internal/config"
	"traffic-worker-go/internal/models"
)

var (
	boxColor   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	lineColor  = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	panelColor = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	textColor  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	inColor    = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	outColor   = color.RGBA{R: 0, G: 165, B: 255, A: 255}
)

// GocvAnnotator draws detections and the counting overlay with OpenCV and
// encodes the result as JPEG.
type GocvAnnotator struct {
	quality int
}

func NewGocvAnnotator(cfg *config.Config) *GocvAnnotator {
	return &GocvAnnotator{quality: cfg.JPEGQuality}
}

// Annotate renders onto an independent Mat built from the frame bytes, so
// the caller's buffer stays untouched.
func (a *GocvAnnotator) Annotate(frame *models.RawFrame, dets []models.Detection, line int, lineSet bool, counts models.VehicleCount) ([]byte, error) {
	mat, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC3, frame.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to create Mat from frame data: %w", err)
	}
	defer mat.Close()

	for _, d := range dets {
		gocv.Rectangle(&mat, image.Rect(d.X1, d.Y1, d.X2, d.Y2), boxColor, 2)
		label := fmt.Sprintf("%s #%d", models.VehicleClassName(d.ClassID), d.TrackID)
		gocv.PutText(&mat, label, image.Pt(d.X1, d.Y1-10), gocv.FontHersheySimplex, 0.5, boxColor, 2)
	}

	if lineSet {
		gocv.Line(&mat, image.Pt(0, line), image.Pt(frame.Width, line), lineColor, 2)
	}

	drawCountPanel(&mat, counts)

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{gocv.IMWriteJpegQuality, a.quality})
	if err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	defer buf.Close()

	b := buf.GetBytes()
	jpeg := make([]byte, len(b))
	copy(jpeg, b)
	return jpeg, nil
}

func drawCountPanel(mat *gocv.Mat, counts models.VehicleCount) {
	gocv.Rectangle(mat, image.Rect(10, 10, 300, 100), panelColor, -1)
	gocv.PutText(mat, fmt.Sprintf("Total: %d", counts.Total), image.Pt(20, 40), gocv.FontHersheySimplex, 0.8, textColor, 2)
	gocv.PutText(mat, fmt.Sprintf("In: %d", counts.In), image.Pt(20, 75), gocv.FontHersheySimplex, 0.7, inColor, 2)
	gocv.PutText(mat, fmt.Sprintf("Out: %d", counts.Out), image.Pt(150, 75), gocv.FontHersheySimplex, 0.7, outColor, 2)
}
