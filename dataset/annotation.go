package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/maruel/natural"
)

// Annotation is one bounding box row in an annotation CSV.  Field order
// matches the wire column order image_id,xmin,xmax,ymin,ymax,label.
type Annotation struct {
	ImageID string `csv:"image_id"`
	XMin    int    `csv:"xmin"`
	XMax    int    `csv:"xmax"`
	YMin    int    `csv:"ymin"`
	YMax    int    `csv:"ymax"`
	Label   string `csv:"label"`
}

// ReadAnnotations reads and combines the given annotation CSV files.
func ReadAnnotations(files ...string) ([]Annotation, error) {

	var all []Annotation

	for _, file := range files {

		data, err := os.ReadFile(file)

		if err != nil {
			return nil, fmt.Errorf("reading annotations: %w", err)
		}

		var anns []Annotation

		if err := csvutil.Unmarshal(data, &anns); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}

		all = append(all, anns...)
	}

	return all, nil
}

// WriteAnnotations writes annotations to a CSV file with a header row.
func WriteAnnotations(file string, anns []Annotation) error {

	data, err := csvutil.Marshal(anns)

	if err != nil {
		return fmt.Errorf("encoding annotations: %w", err)
	}

	if err := os.WriteFile(file, data, 0644); err != nil {
		return fmt.Errorf("writing annotations: %w", err)
	}

	return nil
}

// BasePath flattens an image path into a unique file stem, replacing
// directory separators with underscores and dropping the extension.
func BasePath(path string) string {
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return strings.ReplaceAll(path, string(filepath.Separator), "_")
}

// ListFiles returns the files matching pattern under dir in natural sort
// order, so frame_2 lists before frame_10.
func ListFiles(dir, pattern string) ([]string, error) {

	matches, err := filepath.Glob(filepath.Join(dir, pattern))

	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	sort.Sort(natural.StringSlice(matches))

	return matches, nil
}
