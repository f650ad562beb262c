package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/coality/pkg/evaluate"
)

const yamlIndent = 2

// WriteYAML writes the tree as YAML with the same shape and key order as
// the JSON document.
func WriteYAML(w io.Writer, root *evaluate.Node) error {
	data, err := json.Marshal(root)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	// JSON is a YAML subset, so decoding into a node keeps key order.
	var doc yaml.Node

	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		return fmt.Errorf("convert report: %w", err)
	}

	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)

	err = enc.Encode(&doc)
	if err != nil {
		return fmt.Errorf("write yaml report: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return fmt.Errorf("close yaml report: %w", err)
	}

	return nil
}

// blockStyle drops the flow and quoting styles inherited from JSON. The
// encoder still quotes strings that would otherwise resolve to another type.
func blockStyle(n *yaml.Node) {
	n.Style = 0

	for _, c := range n.Content {
		blockStyle(c)
	}
}
