package detkit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ClassNames maps raw class indexes to human readable names.
type ClassNames map[int]string

// LoadClassNames reads a class name table from a JSON file.  The canonical
// form is an object keyed by stringified class indexes, {"0": "cat", ...}.
// A plain JSON array of names is also accepted and treated as index
// ordered.
func LoadClassNames(file string) (ClassNames, error) {

	data, err := os.ReadFile(file)

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	var keyed map[string]string

	if err := json.Unmarshal(data, &keyed); err == nil {

		names := make(ClassNames, len(keyed))

		for key, name := range keyed {
			id, err := strconv.Atoi(key)

			if err != nil {
				return nil, fmt.Errorf("class table key %q is not an integer", key)
			}

			names[id] = name
		}

		return names, nil
	}

	var list []string

	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("error parsing class table %s: %w", file, err)
	}

	return ClassNamesFromList(list), nil
}

// ClassNamesFromList builds a table from an index ordered list of names.
func ClassNamesFromList(list []string) ClassNames {

	names := make(ClassNames, len(list))

	for i, name := range list {
		names[i] = name
	}

	return names
}

// LoadLabels reads the labels used to train a model from the given text
// file.  It should contain one label per line, ordered by class index.
func LoadLabels(file string) ([]string, error) {

	// open the file
	f, err := os.Open(file)

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	defer f.Close()

	// create a scanner to read the file.
	scanner := bufio.NewScanner(f)

	var labels []string

	// read and trim each line
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		labels = append(labels, line)
	}

	// check for errors during scanning
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return labels, nil
}

// Name resolves a raw class index, reporting whether the table maps it.
func (c ClassNames) Name(id int) (string, bool) {
	name, ok := c[id]
	return name, ok
}

// Save writes the table to file in the canonical keyed JSON object form.
func (c ClassNames) Save(file string) error {

	keyed := make(map[string]string, len(c))

	for id, name := range c {
		keyed[strconv.Itoa(id)] = name
	}

	data, err := json.MarshalIndent(keyed, "", "  ")

	if err != nil {
		return fmt.Errorf("error encoding class table: %w", err)
	}

	return os.WriteFile(file, data, 0644)
}
