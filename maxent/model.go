// Package maxent implements the linear sequence models behind the POS tagger
// and phrase chunker tools.
//
// A model is a weight vector per feature over a fixed label set, serialized as
// a protobuf message:
//
//	message LinearModel {
//	  string kind = 1;                 // "pos" or "chunk"
//	  repeated string labels = 2;
//	  repeated Feature features = 3;   // { string name = 1; repeated float weights = 2 [packed]; }
//	  repeated float bias = 4 [packed];
//	}
//
// Decoding is strict: every weight vector must match the label count.
package maxent

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"google.golang.org/protobuf/encoding/protowire"
)

// Model kinds.
const (
	KindPOS   = "pos"
	KindChunk = "chunk"
)

const (
	fieldKind     protowire.Number = 1
	fieldLabels   protowire.Number = 2
	fieldFeatures protowire.Number = 3
	fieldBias     protowire.Number = 4

	fieldFeatureName    protowire.Number = 1
	fieldFeatureWeights protowire.Number = 2
)

// Model is a decoded linear model. It is read-only after Decode.
type Model struct {
	Kind    string
	Labels  []string
	Weights map[string][]float64
	Bias    []float64
}

// Decode parses a serialized LinearModel and validates it.
func Decode(data []byte) (*Model, error) {
	if len(data) == 0 {
		return nil, errors.New("maxent: empty model")
	}

	m := &Model{Weights: make(map[string][]float64)}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("maxent: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldKind && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return nil, fmt.Errorf("maxent: kind: %w", protowire.ParseError(n))
			}
			m.Kind = v
			data = data[n:]
		case num == fieldLabels && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return nil, fmt.Errorf("maxent: label: %w", protowire.ParseError(n))
			}
			m.Labels = append(m.Labels, v)
			data = data[n:]
		case num == fieldFeatures && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, fmt.Errorf("maxent: feature: %w", protowire.ParseError(n))
			}
			name, weights, err := decodeFeature(v)
			if err != nil {
				return nil, fmt.Errorf("maxent: feature %d: %w", len(m.Weights), err)
			}
			m.Weights[name] = weights
			data = data[n:]
		case num == fieldBias:
			var err error
			if m.Bias, n, err = consumeFloats(m.Bias, typ, data); err != nil {
				return nil, fmt.Errorf("maxent: bias: %w", err)
			}
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("maxent: field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeFeature(b []byte) (string, []float64, error) {
	var name string
	var weights []float64
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return "", nil, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == fieldFeatureName && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return "", nil, protowire.ParseError(n)
			}
			name = v
			b = b[n:]
		case num == fieldFeatureWeights:
			var err error
			if weights, n, err = consumeFloats(weights, typ, b); err != nil {
				return "", nil, err
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return "", nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	if name == "" {
		return "", nil, errors.New("missing name")
	}
	return name, weights, nil
}

// consumeFloats reads a packed or unpacked repeated float field.
func consumeFloats(dst []float64, typ protowire.Type, b []byte) ([]float64, int, error) {
	switch typ {
	case protowire.Fixed32Type:
		v, n := protowire.ConsumeFixed32(b)
		if n < 0 {
			return nil, 0, protowire.ParseError(n)
		}
		return append(dst, float64(math.Float32frombits(v))), n, nil
	case protowire.BytesType:
		packed, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, 0, protowire.ParseError(n)
		}
		if len(packed)%4 != 0 {
			return nil, 0, fmt.Errorf("packed floats: %d bytes", len(packed))
		}
		for len(packed) > 0 {
			v, m := protowire.ConsumeFixed32(packed)
			dst = append(dst, float64(math.Float32frombits(v)))
			packed = packed[m:]
		}
		return dst, n, nil
	default:
		return nil, 0, fmt.Errorf("unexpected wire type %d for float", typ)
	}
}

// Validate checks the label set and weight dimensions.
func (m *Model) Validate() error {
	if len(m.Labels) == 0 {
		return errors.New("maxent: model has no labels")
	}
	if len(m.Weights) == 0 {
		return errors.New("maxent: model has no features")
	}
	if m.Bias != nil && len(m.Bias) != len(m.Labels) {
		return fmt.Errorf("maxent: bias has %d values for %d labels", len(m.Bias), len(m.Labels))
	}
	for name, w := range m.Weights {
		if len(w) != len(m.Labels) {
			return fmt.Errorf("maxent: feature %q has %d weights for %d labels", name, len(w), len(m.Labels))
		}
	}
	return nil
}

// Predict scores the active features and returns the best label index and its
// softmax probability. Unknown features are ignored.
func (m *Model) Predict(features []string) (int, float64) {
	scores := make([]float64, len(m.Labels))
	if m.Bias != nil {
		copy(scores, m.Bias)
	}
	for _, f := range features {
		if w, ok := m.Weights[f]; ok {
			floats.Add(scores, w)
		}
	}

	best := floats.MaxIdx(scores)
	return best, math.Exp(scores[best] - floats.LogSumExp(scores))
}

// Marshal encodes the model in the LinearModel wire format. Features are
// written in sorted order so the output is deterministic.
func (m *Model) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldKind, protowire.BytesType)
	b = protowire.AppendString(b, m.Kind)
	for _, l := range m.Labels {
		b = protowire.AppendTag(b, fieldLabels, protowire.BytesType)
		b = protowire.AppendString(b, l)
	}
	for _, name := range sortedKeys(m.Weights) {
		var fb []byte
		fb = protowire.AppendTag(fb, fieldFeatureName, protowire.BytesType)
		fb = protowire.AppendString(fb, name)
		fb = protowire.AppendTag(fb, fieldFeatureWeights, protowire.BytesType)
		fb = protowire.AppendBytes(fb, packFloats(m.Weights[name]))
		b = protowire.AppendTag(b, fieldFeatures, protowire.BytesType)
		b = protowire.AppendBytes(b, fb)
	}
	if m.Bias != nil {
		b = protowire.AppendTag(b, fieldBias, protowire.BytesType)
		b = protowire.AppendBytes(b, packFloats(m.Bias))
	}
	return b
}

func packFloats(v []float64) []byte {
	b := make([]byte, 0, 4*len(v))
	for _, f := range v {
		b = protowire.AppendFixed32(b, math.Float32bits(float32(f)))
	}
	return b
}
