package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	detkit "github.com/edgevision/go-detkit"
	"github.com/edgevision/go-detkit/postprocess"
	"github.com/edgevision/go-detkit/predict"
	"github.com/edgevision/go-detkit/render"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	modelFile := flag.String("m", "../data/ssd-mobilenet.onnx", "Model file to run inference with")
	configFile := flag.String("c", "", "Optional model config file")
	imgFile := flag.String("i", "../data/street.jpg", "Image file to run object detection on")
	rawFile := flag.String("r", "", "Recorded raw batch JSON to replay instead of running a model")
	classFile := flag.String("l", "", "JSON class name table")
	saveFile := flag.String("o", "./out.jpg", "The output JPG file with object detection markers")
	netSize := flag.String("s", "300x300", "Network input size as WxH")
	ttfFile := flag.String("t", "", "Optional TTF font used to write the summary line")
	jsonOut := flag.Bool("j", false, "Print detections as JSON")
	debug := flag.Bool("d", false, "Enable debug tracing of the post process pass")

	flag.Parse()

	var logger *zap.Logger

	if *debug {
		var err error
		logger, err = zap.NewDevelopment()

		if err != nil {
			log.Fatal("Error creating logger: ", err)
		}
		defer logger.Sync()
	}

	// load optional class name table
	var classes detkit.ClassNames

	if *classFile != "" {
		var err error
		classes, err = detkit.LoadClassNames(*classFile)

		if err != nil {
			log.Fatal("Error loading class names: ", err)
		}
	}

	// load image
	img := gocv.IMRead(*imgFile, gocv.IMReadColor)

	if img.Empty() {
		log.Fatal("Error reading image from: ", *imgFile)
	}
	defer img.Close()

	var dets postprocess.Detections

	if *rawFile != "" {
		// replay a recorded raw batch through post processing only
		raw, err := detkit.LoadRawBatch(*rawFile)

		if err != nil {
			log.Fatal("Error loading raw batch: ", err)
		}

		proc := postprocess.NewProcessor(classes)

		if logger != nil {
			proc.SetLogger(logger)
		}

		dets, err = proc.Process(raw)

		if err != nil {
			log.Fatal("Post processing failed with error: ", err)
		}

	} else {
		width, height := parseSize(*netSize)

		rt, err := detkit.NewRuntime(*modelFile, *configFile, width, height)

		if err != nil {
			log.Fatal("Error initializing runtime: ", err)
		}

		p := predict.New(rt, classes, logger)
		defer p.Close()

		dets, err = p.PredictImage(img)

		if err != nil {
			log.Fatal("Prediction failed with error: ", err)
		}
	}

	for _, det := range dets {
		fmt.Printf("%s @ (%d %d %d %d) %.4f\n", det.Label,
			det.Box.Left, det.Box.Top, det.Box.Right, det.Box.Bottom,
			det.Prob)
	}

	if *jsonOut {
		if err := dets.WriteJSON(os.Stdout); err != nil {
			log.Fatal("Error writing JSON: ", err)
		}
	}

	// draw detection boxes on the source image
	render.DetectionBoxes(&img, dets, render.DefaultFont(), 2)

	if *ttfFile != "" {
		ttf, err := render.LoadTTFFont(*ttfFile, 16)

		if err != nil {
			log.Fatal("Error loading TTF font: ", err)
		}
		defer ttf.Close()

		summary := fmt.Sprintf("%d detections", len(dets))

		if err := ttf.PutText(&img, summary, 8, 24, render.White); err != nil {
			log.Fatal("Error writing summary text: ", err)
		}
	}

	if ok := gocv.IMWrite(*saveFile, img); !ok {
		log.Fatal("Error saving image to: ", *saveFile)
	}

	log.Println("Saved object detection result to", *saveFile)
}

// parseSize parses a WxH size string into width and height
func parseSize(size string) (int, int) {

	parts := strings.SplitN(size, "x", 2)

	if len(parts) != 2 {
		log.Fatal("Invalid size, expected WxH: ", size)
	}

	width, err := strconv.Atoi(parts[0])

	if err != nil {
		log.Fatal("Invalid width: ", parts[0])
	}

	height, err := strconv.Atoi(parts[1])

	if err != nil {
		log.Fatal("Invalid height: ", parts[1])
	}

	return width, height
}
