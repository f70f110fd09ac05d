package nfeparser

import (
	"fmt"
	"os"

	"gopkg.in/xmlpath.v2"
)

// loadXMLFile loads an XML file and returns the root node.
func loadXMLFile(xmlFilePath string) (*xmlpath.Node, error) {
	file, err := os.Open(xmlFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XML file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	root, err := xmlpath.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML file: %w", err)
	}

	return root, nil
}

// extract returns all values matched by an XPath expression under node.
func extract(node *xmlpath.Node, xpath string) ([]string, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile XPath: %w", err)
	}

	var values []string
	iter := path.Iter(node)
	for iter.Next() {
		values = append(values, iter.Node().String())
	}
	return values, nil
}

// first returns the first value matched by an XPath expression, or "".
// Missing elements are a normal outcome for partially filled documents.
func first(node *xmlpath.Node, xpath string) string {
	values, err := extract(node, xpath)
	if err != nil || len(values) == 0 {
		return ""
	}
	return values[0]
}

// getOrEmpty returns the value at index, or an empty string when out of bounds.
func getOrEmpty(slice []string, index int) string {
	if index < len(slice) {
		return slice[index]
	}
	return ""
}
