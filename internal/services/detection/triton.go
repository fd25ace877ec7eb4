package detection

import (
	"context"
	"errors"
	"fmt"

	"github.com/Trendyol/go-triton-client/base"
	tritonGrpc "github.com/Trendyol/go-triton-client/client/grpc"
	"github.com/rs/zerolog/log"

	"traffic-worker-go/internal/config"
	"traffic-worker-go/internal/models"
)

// valuesPerDetection is the stride of the model's flat output tensor:
// x1, y1, x2, y2, score, class_id, track_id.
const valuesPerDetection = 7

// TritonDetector talks to a Triton inference server hosting the tracking
// model. The server keeps the tracker state, so track ids stay stable as
// long as frames from the same session arrive in order.
type TritonDetector struct {
	client     base.Client
	modelName  string
	confidence float32
}

// NewTritonDetector connects to the Triton server and verifies that it and
// the model are ready.
func NewTritonDetector(cfg *config.Config) (*TritonDetector, error) {
	client, err := tritonGrpc.NewClient(
		cfg.DetectorAddr,
		false, // verbose logging
		cfg.DetectorTimeout.Seconds(), // connection timeout
		cfg.DetectorTimeout.Seconds(), // network timeout
		false, // use ssl
		true,  // insecure connection
		nil,   // existing grpc connection
		nil,   // logger
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create triton client for %s: %w", cfg.DetectorAddr, err)
	}

	d := &TritonDetector{
		client:     client,
		modelName:  cfg.DetectorModel,
		confidence: float32(cfg.DetectorConfidence),
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DetectorTimeout)
	defer cancel()
	if err := d.checkReady(ctx); err != nil {
		return nil, err
	}

	log.Info().
		Str("addr", cfg.DetectorAddr).
		Str("model", cfg.DetectorModel).
		Float64("confidence", cfg.DetectorConfidence).
		Msg("Detector connection established")

	return d, nil
}

func (d *TritonDetector) checkReady(ctx context.Context) error {
	if live, err := d.client.IsServerLive(ctx, nil); err != nil {
		return fmt.Errorf("detector liveness check failed: %w", err)
	} else if !live {
		return errors.New("detector server is not live")
	}
	if ready, err := d.client.IsModelReady(ctx, d.modelName, "1", nil); err != nil {
		return fmt.Errorf("detector model readiness check failed: %w", err)
	} else if !ready {
		return fmt.Errorf("detector model %s is not ready", d.modelName)
	}
	return nil
}

// Detect runs one inference. The frame buffer is only read, never
// modified.
func (d *TritonDetector) Detect(ctx context.Context, frame *models.RawFrame) ([]models.Detection, error) {
	frameInput := tritonGrpc.NewInferInput("FRAME", "BYTES", []int64{int64(frame.Height), int64(frame.Width), 3}, nil)
	if err := frameInput.SetData(frame.Data, true); err != nil {
		return nil, fmt.Errorf("failed to set FRAME input data: %w", err)
	}
	frameInput.SetDatatype("UINT8")

	outputs := []base.InferOutput{
		tritonGrpc.NewInferOutput("DETECTIONS", map[string]any{"binary_data": false}),
	}

	response, err := d.client.Infer(
		ctx,
		d.modelName,
		"1",
		[]base.InferInput{frameInput},
		outputs,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	values, err := response.AsFloat32Slice("DETECTIONS")
	if err != nil {
		return nil, fmt.Errorf("failed to decode DETECTIONS output: %w", err)
	}

	var dets []models.Detection
	for i := 0; i+valuesPerDetection <= len(values); i += valuesPerDetection {
		if values[i+4] < d.confidence {
			continue
		}
		trackID := int(values[i+6])
		if trackID < 0 {
			// the tracker has not locked onto this object yet
			continue
		}
		dets = append(dets, models.Detection{
			X1:        int(values[i]),
			Y1:        int(values[i+1]),
			X2:        int(values[i+2]),
			Y2:        int(values[i+3]),
			Score:     values[i+4],
			ClassID:   int(values[i+5]),
			TrackID:   trackID,
			Timestamp: frame.Timestamp,
		})
	}
	return dets, nil
}

// Close is a no-op today; the triton client owns no resources the process
// must release eagerly.
func (d *TritonDetector) Close() error {
	return nil
}
