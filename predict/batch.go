package predict

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	detkit "github.com/edgevision/go-detkit"
	"github.com/edgevision/go-detkit/postprocess"
)

// PredictAll runs inference over imgs with engines drawn from pool, one
// goroutine per image, and returns the detections in input order.  A nil
// logger disables tracing.
func PredictAll(pool *detkit.Pool, imgs []gocv.Mat, classes detkit.ClassNames,
	logger *zap.Logger) ([]postprocess.Detections, error) {

	if logger == nil {
		logger = zap.NewNop()
	}

	proc := postprocess.NewProcessor(classes)
	proc.SetLogger(logger.Named("postprocess"))

	results := make([]postprocess.Detections, len(imgs))
	errs := make([]error, len(imgs))

	var wg sync.WaitGroup

	for i, img := range imgs {
		wg.Add(1)

		go func(i int, img gocv.Mat) {
			defer wg.Done()

			engine := pool.Get()
			defer pool.Return(engine)

			raw, err := engine.Infer(img)

			if err != nil {
				errs[i] = fmt.Errorf("image %d: inference failed: %w", i, err)
				return
			}

			dets, err := proc.Process(raw)

			if err != nil {
				errs[i] = fmt.Errorf("image %d: %w", i, err)
				return
			}

			results[i] = dets
		}(i, img)
	}

	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return results, nil
}
