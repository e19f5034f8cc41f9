package grid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

type gridJSON struct {
	Header   *HeaderMap `json:"header"`
	SubGrids []*SubGrid `json:"sub_grids"`
}

// MarshalJSON writes {"header": {...}, "sub_grids": [...]}
func (g *GridFile) MarshalJSON() ([]byte, error) {
	subGrids := g.SubGrids
	if subGrids == nil {
		subGrids = []*SubGrid{}
	}
	header := g.Header
	if header == nil {
		header = NewHeaderMap()
	}
	return json.Marshal(gridJSON{Header: header, SubGrids: subGrids})
}

// MarshalJSON writes the fields as an object in file order
func (h *HeaderMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := h.writeJSONFields(&buf); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (h *HeaderMap) writeJSONFields(buf *bytes.Buffer) error {
	for i, key := range h.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(jsonValue(h.values[key].Interface()))
		if err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	return nil
}

// jsonValue maps NaN and ±Inf to null, which JSON cannot otherwise carry
func jsonValue(v interface{}) interface{} {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}

// MarshalJSON writes the header fields followed by "shifts" as an array of
// [lat, lon, latAccuracy, lonAccuracy]
func (s *SubGrid) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := s.Header.writeJSONFields(&buf); err != nil {
		return nil, err
	}
	if s.Header.Len() > 0 {
		buf.WriteByte(',')
	}
	buf.WriteString(`"shifts":[`)
	for i, shift := range s.Shifts {
		if i > 0 {
			buf.WriteByte(',')
		}
		arr := shift.Array()
		row, err := json.Marshal([4]interface{}{
			jsonValue(arr[0]), jsonValue(arr[1]), jsonValue(arr[2]), jsonValue(arr[3]),
		})
		if err != nil {
			return nil, fmt.Errorf("shift %d: %w", i, err)
		}
		buf.Write(row)
	}
	buf.WriteString("]}")
	return buf.Bytes(), nil
}

// MarshalYAML returns the grid as an ordered mapping node
func (g *GridFile) MarshalYAML() (interface{}, error) {
	header := g.Header
	if header == nil {
		header = NewHeaderMap()
	}
	headerNode, err := header.yamlNode()
	if err != nil {
		return nil, err
	}

	subGrids := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, sg := range g.SubGrids {
		node, err := sg.yamlNode()
		if err != nil {
			return nil, err
		}
		subGrids.Content = append(subGrids.Content, node)
	}

	return &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			keyNode("header"), headerNode,
			keyNode("sub_grids"), subGrids,
		},
	}, nil
}

// MarshalYAML returns the fields as an ordered mapping node
func (h *HeaderMap) MarshalYAML() (interface{}, error) {
	return h.yamlNode()
}

// MarshalYAML returns the header fields followed by a flow-style shifts list
func (s *SubGrid) MarshalYAML() (interface{}, error) {
	return s.yamlNode()
}

func (h *HeaderMap) yamlNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range h.keys {
		value := &yaml.Node{}
		if err := value.Encode(h.values[key].Interface()); err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		node.Content = append(node.Content, keyNode(key), value)
	}
	return node, nil
}

func (s *SubGrid) yamlNode() (*yaml.Node, error) {
	node, err := s.Header.yamlNode()
	if err != nil {
		return nil, err
	}

	shifts := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for i, shift := range s.Shifts {
		row := &yaml.Node{}
		if err := row.Encode(shift.Array()); err != nil {
			return nil, fmt.Errorf("shift %d: %w", i, err)
		}
		row.Style = yaml.FlowStyle
		shifts.Content = append(shifts.Content, row)
	}

	node.Content = append(node.Content, keyNode("shifts"), shifts)
	return node, nil
}

func keyNode(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}
