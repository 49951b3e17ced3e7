package main

import (
	"flag"
	"fmt"
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/edgevision/go-detkit/dataset"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	annDir := flag.String("a", "./annotations", "Directory containing annotation CSV files")
	pattern := flag.String("g", "*.csv", "Glob pattern matching the annotation files")
	outputDir := flag.String("o", "./split", "Output directory for the train and val trees")
	percentage := flag.Float64("p", 0.8, "Fraction of images placed in the train split")
	seed := flag.Int64("s", 42, "Shuffle seed")
	filterDense := flag.Bool("f", false, "Drop the class annotated on the most images")
	format := flag.String("e", ".png", "Output image format extension")
	stats := flag.Bool("stats", false, "Print per class annotation statistics and exit")

	flag.Parse()

	annFiles, err := dataset.ListFiles(*annDir, *pattern)

	if err != nil {
		log.Fatal("Error listing annotation files: ", err)
	}

	if len(annFiles) == 0 {
		log.Fatal("No annotation files match ", *pattern, " under ", *annDir)
	}

	if *stats {
		printStats(annFiles)
		return
	}

	logger, err := zap.NewProduction(zap.AddStacktrace(zapcore.ErrorLevel),
		zap.AddCaller())

	if err != nil {
		log.Fatal("Error creating logger: ", err)
	}
	defer logger.Sync()

	splitter := dataset.NewSplitter(dataset.SplitterParams{
		Percentage:   *percentage,
		Seed:         *seed,
		FilterDense:  *filterDense,
		OutputFormat: *format,
	})
	splitter.SetLogger(logger)

	if err := splitter.SplitTrainVal(annFiles, *outputDir); err != nil {
		log.Fatal("Split failed with error: ", err)
	}
}

// printStats summarises the annotation distribution per class
func printStats(annFiles []string) {

	anns, err := dataset.ReadAnnotations(annFiles...)

	if err != nil {
		log.Fatal("Error reading annotations: ", err)
	}

	for _, s := range dataset.Summarize(anns) {
		fmt.Printf("%s: %d images, %d boxes, %.2f +/- %.2f boxes per image\n",
			s.Class, s.Images, s.Boxes, s.MeanBoxes, s.StdevBoxes)
	}
}
