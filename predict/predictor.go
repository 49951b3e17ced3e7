package predict

import (
	"fmt"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	detkit "github.com/edgevision/go-detkit"
	"github.com/edgevision/go-detkit/postprocess"
)

// Predictor ties an inference engine to detection post processing,
// turning images into final ranked detections.
type Predictor struct {
	engine detkit.Engine
	proc   *postprocess.Processor
	logger *zap.Logger
}

// New returns a predictor running inference on the given engine and
// resolving class labels through classes.  A nil logger disables tracing.
func New(engine detkit.Engine, classes detkit.ClassNames,
	logger *zap.Logger) *Predictor {

	if logger == nil {
		logger = zap.NewNop()
	}

	proc := postprocess.NewProcessor(classes)
	proc.SetLogger(logger.Named("postprocess"))

	return &Predictor{
		engine: engine,
		proc:   proc,
		logger: logger.Named("predict"),
	}
}

// PredictImage runs inference on img and post processes the raw network
// output into final detections in source image pixel space.
func (p *Predictor) PredictImage(img gocv.Mat) (postprocess.Detections, error) {

	raw, err := p.engine.Infer(img)

	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	p.logger.Debug("raw batch",
		zap.Int("objects", len(raw.Objects)),
		zap.String("scale", raw.Scale.String()),
	)

	return p.proc.Process(raw)
}

// Process post processes a previously captured raw batch, bypassing
// inference.  Used to replay saved network output.
func (p *Predictor) Process(raw *detkit.RawBatch) (postprocess.Detections, error) {
	return p.proc.Process(raw)
}

// Close releases the underlying engine.
func (p *Predictor) Close() error {
	return p.engine.Close()
}
