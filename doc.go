// Package sentex loads model-backed text tools on demand and composes them
// into sentence extraction pipelines.
//
// # Quick Start
//
//	reg := sentex.NewRegistry(sentex.WithSource(resource.Dir("models")))
//	defer reg.Close()
//
//	if err := reg.InitializeAll(); err != nil {
//	    log.Fatal(err)
//	}
//
//	r, err := sentex.NewBuilder(reg).NewReader(f, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for s, err := range r.All(ctx) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(s)
//	}
//
// # Registry
//
// A Registry holds at most one instance of each tool: sentence detector,
// tokenizer, POS tagger, chunker and confidence classifier. The first
// successful accessor call loads the tool from the registry's resource.Source;
// every later call returns the same instance. Concurrent first calls block on
// a single load. A failed load caches nothing, so the next call tries again.
//
// # Thread Safety
//
// Registry and Builder are safe for concurrent use. Tool instances and the
// HTML extractor are shared and read-only. Plain-text extractors and readers
// belong to the caller that built them.
//
// # Resources
//
// Default resource names:
//   - sentence detector: en-sent.bin (SaT ONNX model)
//   - tokenizer: en-token.bin (SentencePiece model)
//   - POS tagger: en-pos-maxent.bin
//   - chunker: en-chunker.bin
//   - confidence classifier: conf.pb
package sentex
