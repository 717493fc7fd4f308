package sentex

import "fmt"

// Tool identifies a model-backed tool held by a Registry.
type Tool int

const (
	ToolSentenceDetector Tool = iota
	ToolTokenizer
	ToolPOSTagger
	ToolChunker
	ToolConfidenceClassifier
)

// Tools lists every tool in load order.
var Tools = []Tool{
	ToolSentenceDetector,
	ToolTokenizer,
	ToolPOSTagger,
	ToolChunker,
	ToolConfidenceClassifier,
}

var toolNames = [...]string{
	ToolSentenceDetector:     "sentence_detector",
	ToolTokenizer:            "tokenizer",
	ToolPOSTagger:            "pos_tagger",
	ToolChunker:              "chunker",
	ToolConfidenceClassifier: "confidence_classifier",
}

var defaultResourceNames = [...]string{
	ToolSentenceDetector:     "en-sent.bin",
	ToolTokenizer:            "en-token.bin",
	ToolPOSTagger:            "en-pos-maxent.bin",
	ToolChunker:              "en-chunker.bin",
	ToolConfidenceClassifier: "conf.pb",
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// DefaultResourceName returns the resource name a new Registry uses for t.
func (t Tool) DefaultResourceName() string {
	if t < 0 || int(t) >= len(defaultResourceNames) {
		return ""
	}
	return defaultResourceNames[t]
}

// ParseTool returns the tool named s, as printed by Tool.String.
func ParseTool(s string) (Tool, error) {
	for _, t := range Tools {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("sentex: unknown tool %q", s)
}
