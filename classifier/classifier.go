// Package classifier implements the binary extraction-confidence classifier.
//
// The model is a logistic regression stored as a binary-encoded
// google.protobuf.Struct with the fields
//
//	model:     "logistic" (optional)
//	features:  list of feature names
//	weights:   list of numbers, one per feature
//	bias:      number
//	threshold: number in (0,1), default 0.5
package classifier

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ModelType is the only supported value of the "model" field.
const ModelType = "logistic"

// DefaultThreshold is used when the payload carries no threshold.
const DefaultThreshold = 0.5

// Prediction is the outcome of Classify.
type Prediction struct {
	Label bool
	Score float64
}

// Classifier scores feature vectors. It is immutable and safe for concurrent use.
type Classifier struct {
	features  []string
	index     map[string]int
	weights   []float64
	bias      float64
	threshold float64
}

// Decode parses a serialized classifier payload.
func Decode(data []byte) (*Classifier, error) {
	if len(data) == 0 {
		return nil, errors.New("classifier: empty payload")
	}

	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	fields := s.GetFields()

	if v, ok := fields["model"]; ok && v.GetStringValue() != ModelType {
		return nil, fmt.Errorf("classifier: unsupported model %q", v.GetStringValue())
	}

	names := fields["features"].GetListValue().GetValues()
	weights := fields["weights"].GetListValue().GetValues()
	if len(names) == 0 {
		return nil, errors.New("classifier: no features")
	}
	if len(names) != len(weights) {
		return nil, fmt.Errorf("classifier: %d features but %d weights", len(names), len(weights))
	}

	c := &Classifier{
		features:  make([]string, len(names)),
		index:     make(map[string]int, len(names)),
		weights:   make([]float64, len(weights)),
		threshold: DefaultThreshold,
	}
	for i, n := range names {
		name, ok := n.GetKind().(*structpb.Value_StringValue)
		if !ok || name.StringValue == "" {
			return nil, fmt.Errorf("classifier: feature %d is not a name", i)
		}
		if _, dup := c.index[name.StringValue]; dup {
			return nil, fmt.Errorf("classifier: duplicate feature %q", name.StringValue)
		}
		c.features[i] = name.StringValue
		c.index[name.StringValue] = i
	}
	for i, w := range weights {
		num, ok := w.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("classifier: weight %d is not a number", i)
		}
		c.weights[i] = num.NumberValue
	}

	if v, ok := fields["bias"]; ok {
		c.bias = v.GetNumberValue()
	}
	if v, ok := fields["threshold"]; ok {
		t := v.GetNumberValue()
		if t <= 0 || t >= 1 {
			return nil, fmt.Errorf("classifier: threshold %v outside (0,1)", t)
		}
		c.threshold = t
	}

	return c, nil
}

// Marshal encodes a logistic model in the payload format Decode reads.
// A zero threshold is left out so Decode falls back to DefaultThreshold.
func Marshal(features []string, weights []float64, bias, threshold float64) ([]byte, error) {
	if len(features) != len(weights) {
		return nil, fmt.Errorf("classifier: %d features but %d weights", len(features), len(weights))
	}
	names := make([]any, len(features))
	for i, f := range features {
		names[i] = f
	}
	ws := make([]any, len(weights))
	for i, w := range weights {
		ws[i] = w
	}

	fields := map[string]any{
		"model":    ModelType,
		"features": names,
		"weights":  ws,
		"bias":     bias,
	}
	if threshold != 0 {
		fields["threshold"] = threshold
	}

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	return proto.Marshal(s)
}

// Features returns the feature names in model order.
func (c *Classifier) Features() []string {
	return c.features
}

// Threshold returns the decision threshold.
func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// Classify scores a sparse feature vector. Features the model does not know are
// ignored; missing features count as zero.
func (c *Classifier) Classify(features map[string]float64) Prediction {
	x := make([]float64, len(c.weights))
	for name, v := range features {
		if i, ok := c.index[name]; ok {
			x[i] = v
		}
	}

	score := sigmoid(c.bias + floats.Dot(c.weights, x))
	return Prediction{Label: score >= c.threshold, Score: score}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
