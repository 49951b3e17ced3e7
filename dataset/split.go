package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/maruel/natural"
	"go.uber.org/zap"
	"gocv.io/x/gocv"

	detkit "github.com/edgevision/go-detkit"
)

// SplitterParams are the tunables controlling a train/val split.
type SplitterParams struct {
	// Percentage is the fraction of images placed in the train split
	Percentage float64
	// Seed drives the deterministic shuffle
	Seed int64
	// FilterDense drops the class annotated on the most images before
	// splitting
	FilterDense bool
	// OutputFormat is the image extension written to the split
	// directories, eg ".png"
	OutputFormat string
}

// DefaultSplitterParams returns the default split tunables
func DefaultSplitterParams() SplitterParams {
	return SplitterParams{
		Percentage:   0.8,
		Seed:         42,
		OutputFormat: ".png",
	}
}

// Splitter splits annotated images into train and validation sets.
type Splitter struct {
	params SplitterParams
	logger *zap.Logger
}

// NewSplitter returns a splitter using the given tunables
func NewSplitter(params SplitterParams) *Splitter {
	return &Splitter{
		params: params,
		logger: zap.NewNop(),
	}
}

// SetLogger enables progress logging.  A nil logger disables it.
func (s *Splitter) SetLogger(logger *zap.Logger) {

	if logger == nil {
		logger = zap.NewNop()
	}

	s.logger = logger
}

// SplitTrainVal reads the given annotation CSV files, deterministically
// shuffles their unique images and writes two split trees under
// outputDir: train/ and val/ image directories, train.csv and val.csv
// annotation files with image ids rewritten to the converted image
// paths, and a classes.json table of the labels seen.
//
// The train split receives floor(Percentage * N) images, the remainder
// goes to val.  Images keep all their annotations, including those of a
// class dropped by the dense filter.
func (s *Splitter) SplitTrainVal(annFiles []string, outputDir string) error {

	anns, err := ReadAnnotations(annFiles...)

	if err != nil {
		return err
	}

	if len(anns) == 0 {
		return fmt.Errorf("no annotations in %d files", len(annFiles))
	}

	paths := PathsPerClass(anns)

	if s.params.FilterDense {
		paths = FilterDense(paths)
	}

	images := imageUnion(paths)

	rand.New(rand.NewSource(s.params.Seed)).Shuffle(len(images), func(i, j int) {
		images[i], images[j] = images[j], images[i]
	})

	nTrain := int(math.Floor(s.params.Percentage * float64(len(images))))

	splits := []struct {
		name   string
		images []string
	}{
		{"train", images[:nTrain]},
		{"val", images[nTrain:]},
	}

	byImage := annotationsByImage(anns)
	labels := make(map[string]bool)

	for _, split := range splits {

		dir := filepath.Join(outputDir, split.name)

		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}

		splitAnns := make([]Annotation, 0)

		for _, src := range split.images {

			dest := filepath.Join(dir, BasePath(src)+s.params.OutputFormat)

			if err := convertImage(src, dest); err != nil {
				return err
			}

			for _, ann := range byImage[src] {
				ann.ImageID = dest
				splitAnns = append(splitAnns, ann)
				labels[ann.Label] = true
			}
		}

		csvFile := filepath.Join(outputDir, split.name+".csv")

		if err := WriteAnnotations(csvFile, splitAnns); err != nil {
			return err
		}

		s.logger.Info("split written",
			zap.String("split", split.name),
			zap.Int("images", len(split.images)),
			zap.Int("annotations", len(splitAnns)),
		)
	}

	return s.writeClasses(outputDir, labels)
}

// writeClasses writes the classes.json table covering the labels seen in
// the split annotations, in natural order.
func (s *Splitter) writeClasses(outputDir string, labels map[string]bool) error {

	names := make([]string, 0, len(labels))

	for label := range labels {
		names = append(names, label)
	}

	sort.Sort(natural.StringSlice(names))

	classes := detkit.ClassNamesFromList(names)

	return classes.Save(filepath.Join(outputDir, "classes.json"))
}

// imageUnion returns the deduplicated image paths across all classes in
// natural order, so the seeded shuffle is reproducible.
func imageUnion(paths map[string][]string) []string {

	seen := make(map[string]bool)
	images := make([]string, 0)

	for _, classPaths := range paths {
		for _, path := range classPaths {
			if !seen[path] {
				seen[path] = true
				images = append(images, path)
			}
		}
	}

	sort.Sort(natural.StringSlice(images))

	return images
}

func annotationsByImage(anns []Annotation) map[string][]Annotation {

	byImage := make(map[string][]Annotation)

	for _, ann := range anns {
		byImage[ann.ImageID] = append(byImage[ann.ImageID], ann)
	}

	return byImage
}

// convertImage reads src and rewrites it at dest, converting to the
// format implied by dest's extension.
func convertImage(src, dest string) error {

	img := gocv.IMRead(src, gocv.IMReadColor)

	if img.Empty() {
		return fmt.Errorf("reading image %s", src)
	}
	defer img.Close()

	if ok := gocv.IMWrite(dest, img); !ok {
		return fmt.Errorf("writing image %s", dest)
	}

	return nil
}
