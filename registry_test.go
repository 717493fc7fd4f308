package sentex

import (
	"errors"
	"io/fs"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jamesainslie/go-sentex/segment"
	"github.com/jamesainslie/go-sentex/tokenizer"
)

func TestRegistry_Singleton(t *testing.T) {
	reg, _ := newTestRegistry(t, testFiles(t))

	det1, err := reg.SentenceDetector()
	if err != nil {
		t.Fatalf("SentenceDetector failed: %v", err)
	}
	det2, _ := reg.SentenceDetector()
	if det1 != det2 {
		t.Error("SentenceDetector returned different instances")
	}

	tok1, err := reg.Tokenizer()
	if err != nil {
		t.Fatalf("Tokenizer failed: %v", err)
	}
	tok2, _ := reg.Tokenizer()
	if tok1 != tok2 {
		t.Error("Tokenizer returned different instances")
	}

	tag1, err := reg.POSTagger()
	if err != nil {
		t.Fatalf("POSTagger failed: %v", err)
	}
	tag2, _ := reg.POSTagger()
	if tag1 != tag2 {
		t.Error("POSTagger returned different instances")
	}

	ch1, err := reg.Chunker()
	if err != nil {
		t.Fatalf("Chunker failed: %v", err)
	}
	ch2, _ := reg.Chunker()
	if ch1 != ch2 {
		t.Error("Chunker returned different instances")
	}

	cl1, err := reg.ConfidenceClassifier()
	if err != nil {
		t.Fatalf("ConfidenceClassifier failed: %v", err)
	}
	cl2, _ := reg.ConfidenceClassifier()
	if cl1 != cl2 {
		t.Error("ConfidenceClassifier returned different instances")
	}
}

func TestRegistry_LoadsOnFirstUse(t *testing.T) {
	reg, counter := newTestRegistry(t, testFiles(t))

	for _, tool := range Tools {
		if reg.Loaded(tool) {
			t.Errorf("%s loaded before first use", tool)
		}
	}

	if _, err := reg.SentenceDetector(); err != nil {
		t.Fatalf("SentenceDetector failed: %v", err)
	}
	if !reg.Loaded(ToolSentenceDetector) || !reg.Loaded(ToolTokenizer) {
		t.Error("detector and its tokenizer should be loaded")
	}
	if reg.Loaded(ToolPOSTagger) {
		t.Error("POS tagger should not be loaded")
	}
	if got := counter.get(ToolTokenizer); got != 1 {
		t.Errorf("tokenizer built %d times, want 1", got)
	}
}

func TestRegistry_ConcurrentFirstUse(t *testing.T) {
	reg, counter := newTestRegistry(t, testFiles(t))

	const callers = 32
	dets := make([]SentenceDetector, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			det, err := reg.SentenceDetector()
			if err != nil {
				t.Errorf("SentenceDetector failed: %v", err)
				return
			}
			dets[i] = det
			if _, err := reg.POSTagger(); err != nil {
				t.Errorf("POSTagger failed: %v", err)
			}
		}()
	}
	wg.Wait()

	for _, tool := range []Tool{ToolSentenceDetector, ToolTokenizer, ToolPOSTagger} {
		if got := counter.get(tool); got != 1 {
			t.Errorf("%s built %d times, want 1", tool, got)
		}
	}
	for i := 1; i < callers; i++ {
		if dets[i] != dets[0] {
			t.Fatalf("caller %d got a different detector", i)
		}
	}
}

func TestRegistry_MissingResource(t *testing.T) {
	files := testFiles(t)
	delete(files, "en-pos-maxent.bin")
	reg, counter := newTestRegistry(t, files)

	_, err := reg.POSTagger()
	if !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected the source error to be wrapped, got %v", err)
	}
	if !strings.Contains(err.Error(), "en-pos-maxent.bin") {
		t.Errorf("error should name the resource: %v", err)
	}
	if reg.Loaded(ToolPOSTagger) {
		t.Error("failed load should leave the cache empty")
	}
	if got := counter.get(ToolPOSTagger); got != 0 {
		t.Errorf("decoder called %d times for a missing resource", got)
	}

	files["en-pos-maxent.bin"] = &fstest.MapFile{Data: taggerPayload()}

	tagger, err := reg.POSTagger()
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if tagger == nil || !reg.Loaded(ToolPOSTagger) {
		t.Error("retry should cache the tagger")
	}
}

func TestRegistry_InvalidModel(t *testing.T) {
	files := testFiles(t)
	files["en-chunker.bin"] = &fstest.MapFile{Data: []byte{0xff, 0xff, 0xff}}
	files["conf.pb"] = &fstest.MapFile{Data: []byte("not a struct")}
	files["en-sent.bin"] = &fstest.MapFile{Data: []byte("garbage")}
	reg, _ := newTestRegistry(t, files)

	tests := []struct {
		tool Tool
		load func() error
	}{
		{ToolChunker, func() error { _, err := reg.Chunker(); return err }},
		{ToolConfidenceClassifier, func() error { _, err := reg.ConfidenceClassifier(); return err }},
		{ToolSentenceDetector, func() error { _, err := reg.SentenceDetector(); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.tool.String(), func(t *testing.T) {
			err := tt.load()
			if !errors.Is(err, ErrInvalidModel) {
				t.Fatalf("expected ErrInvalidModel, got %v", err)
			}
			if errors.Is(err, ErrResourceNotFound) {
				t.Errorf("invalid model should not report a missing resource: %v", err)
			}
			if reg.Loaded(tt.tool) {
				t.Error("failed load should leave the cache empty")
			}
		})
	}
}

func TestRegistry_DetectorNeedsTokenizer(t *testing.T) {
	files := testFiles(t)
	delete(files, "en-token.bin")
	reg, counter := newTestRegistry(t, files)

	_, err := reg.SentenceDetector()
	if !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "en-token.bin") {
		t.Errorf("error should name the tokenizer resource: %v", err)
	}
	if got := counter.get(ToolSentenceDetector); got != 0 {
		t.Errorf("detector built %d times without a tokenizer", got)
	}
}

func TestRegistry_InitializeAll(t *testing.T) {
	reg, _ := newTestRegistry(t, testFiles(t))

	if err := reg.InitializeAll(); err != nil {
		t.Fatalf("InitializeAll failed: %v", err)
	}

	for _, tool := range []Tool{ToolSentenceDetector, ToolTokenizer, ToolPOSTagger, ToolChunker} {
		if !reg.Loaded(tool) {
			t.Errorf("%s not loaded", tool)
		}
	}
	if reg.Loaded(ToolConfidenceClassifier) {
		t.Error("InitializeAll should not load the classifier")
	}
}

func TestRegistry_InitializeAllPartialFailure(t *testing.T) {
	files := testFiles(t)
	delete(files, "en-chunker.bin")
	reg, counter := newTestRegistry(t, files)

	err := reg.InitializeAll()
	if !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}

	for _, tool := range []Tool{ToolSentenceDetector, ToolTokenizer, ToolPOSTagger} {
		if !reg.Loaded(tool) {
			t.Errorf("%s should stay loaded after a partial failure", tool)
		}
	}
	if reg.Loaded(ToolChunker) {
		t.Error("chunker should not be loaded")
	}

	// The registry stays usable and a retry only loads what is missing.
	files["en-chunker.bin"] = &fstest.MapFile{Data: chunkerPayload()}
	if err := reg.InitializeAll(); err != nil {
		t.Fatalf("second InitializeAll failed: %v", err)
	}
	for _, tool := range []Tool{ToolSentenceDetector, ToolTokenizer, ToolPOSTagger, ToolChunker} {
		if got := counter.get(tool); got != 1 {
			t.Errorf("%s built %d times, want 1", tool, got)
		}
	}
}

func TestRegistry_ResourceName(t *testing.T) {
	files := testFiles(t)
	files["custom-chunker.bin"] = files["en-chunker.bin"]
	delete(files, "en-chunker.bin")

	reg, _ := newTestRegistry(t, files, WithResourceName(ToolChunker, "custom-chunker.bin"))

	if got := reg.ResourceName(ToolChunker); got != "custom-chunker.bin" {
		t.Errorf("ResourceName = %q", got)
	}
	if got := reg.ResourceName(ToolConfidenceClassifier); got != "conf.pb" {
		t.Errorf("default ResourceName = %q", got)
	}
	if _, err := reg.Chunker(); err != nil {
		t.Errorf("Chunker failed: %v", err)
	}
}

func TestRegistry_Close(t *testing.T) {
	reg, _ := newTestRegistry(t, testFiles(t))

	det, err := reg.SentenceDetector()
	if err != nil {
		t.Fatalf("SentenceDetector failed: %v", err)
	}

	if err := reg.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !det.(*fakeDetector).closed.Load() {
		t.Error("Close should close the sentence detector")
	}
	if err := reg.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	if _, err := reg.Tokenizer(); !errors.Is(err, ErrClosed) {
		t.Errorf("Tokenizer after Close = %v, want ErrClosed", err)
	}
	if _, err := reg.SentenceDetector(); !errors.Is(err, ErrClosed) {
		t.Errorf("SentenceDetector after Close = %v, want ErrClosed", err)
	}
	if reg.Loaded(ToolSentenceDetector) {
		t.Error("Loaded should report false after Close")
	}
}

func TestRegistry_CloseError(t *testing.T) {
	errBoom := errors.New("session busy")
	engines := Engines{
		SentenceDetector: func([]byte, *tokenizer.Tokenizer, ...segment.Option) (SentenceDetector, error) {
			return &fakeDetector{closeErr: errBoom}, nil
		},
	}
	reg, _ := newTestRegistry(t, testFiles(t), WithEngines(engines))

	if _, err := reg.SentenceDetector(); err != nil {
		t.Fatalf("SentenceDetector failed: %v", err)
	}
	err := reg.Close()
	if !errors.Is(err, errBoom) {
		t.Errorf("Close = %v, want %v", err, errBoom)
	}
	if err == nil || !strings.Contains(err.Error(), ToolSentenceDetector.String()) {
		t.Errorf("Close error should name the tool, got %v", err)
	}
}

func TestRegistry_CloseTokenizerOnly(t *testing.T) {
	reg, _ := newTestRegistry(t, testFiles(t))

	if _, err := reg.Tokenizer(); err != nil {
		t.Fatalf("Tokenizer failed: %v", err)
	}
	if err := reg.Close(); err != nil {
		t.Errorf("Close = %v, want nil", err)
	}
}

func TestRegistry_Metrics(t *testing.T) {
	files := testFiles(t)
	delete(files, "en-chunker.bin")

	promReg := prometheus.NewRegistry()
	reg, _ := newTestRegistry(t, files, WithRegisterer(promReg))

	_, _ = reg.Tokenizer()
	_, _ = reg.Chunker()

	families, err := promReg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	got := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "sentex_registry_loads_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			var key []string
			for _, lp := range m.GetLabel() {
				key = append(key, lp.GetValue())
			}
			got[strings.Join(key, "/")] = m.GetCounter().GetValue()
		}
	}

	// Labels are gathered in name order: status, tool.
	if got["success/tokenizer"] != 1 || got["error/chunker"] != 1 {
		t.Errorf("loads_total = %v", got)
	}
}

func TestTool(t *testing.T) {
	for _, tool := range Tools {
		parsed, err := ParseTool(tool.String())
		if err != nil {
			t.Errorf("ParseTool(%q) failed: %v", tool, err)
		}
		if parsed != tool {
			t.Errorf("ParseTool(%q) = %v", tool, parsed)
		}
		if tool.DefaultResourceName() == "" {
			t.Errorf("%s has no default resource name", tool)
		}
	}

	if _, err := ParseTool("lemmatizer"); err == nil {
		t.Error("expected error for unknown tool")
	}
	if got := Tool(99).String(); got != "Tool(99)" {
		t.Errorf("String = %q", got)
	}
}
