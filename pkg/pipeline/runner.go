package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/caksoylar/keymap/pkg/cache"
	"github.com/caksoylar/keymap/pkg/errors"
	"github.com/caksoylar/keymap/pkg/keymap"
	"github.com/caksoylar/keymap/pkg/render/board"
	"github.com/caksoylar/keymap/pkg/render/board/sink"
)

// Runner executes the pipeline with a shared artifact cache and logger.
type Runner struct {
	cache cache.Cache
	clock func() time.Time
}

// NewRunner creates a pipeline runner. A nil cache disables caching.
func NewRunner(c cache.Cache) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Runner{cache: c, clock: time.Now}
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	return r.cache.Close()
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the decoded and validated keymap.
	Document *keymap.Document

	// DocumentHash is the content hash of the source bytes.
	DocumentHash string

	// Board holds the computed geometry.
	Board board.Board

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts hit the cache.
	CacheInfo CacheInfo
}

// Load reads and decodes the document at path, returning it with its
// content hash.
func (r *Runner) Load(path string) (*keymap.Document, string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, "", errors.New(errors.ErrCodeFileNotFound, "keymap file not found: %s", path)
	}
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidDocument, err, "read %s", path)
	}
	doc, err := keymap.Decode(data)
	if err != nil {
		return nil, "", err
	}
	return doc, cache.Hash(data), nil
}

// Execute runs the full pipeline: load and validate the document, compute
// the board geometry, and produce every requested artifact. SVG is always
// rendered fresh; PNG and PDF conversions are served from the artifact
// cache when the document and options are unchanged.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	loadStart := r.clock()
	doc, hash, err := r.Load(opts.Input)
	if err != nil {
		return nil, err
	}
	if opts.Layer != "" {
		if doc, err = singleLayer(doc, opts.Layer); err != nil {
			return nil, err
		}
	}
	loadTime := r.clock().Sub(loadStart)
	logger.Debugf("Loaded %s: %d layers", opts.Input, len(doc.Layers))

	renderStart := r.clock()
	b, err := board.Render(doc)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Document:     doc,
		DocumentHash: hash,
		Board:        b,
		Artifacts:    make(map[string][]byte, len(opts.Formats)),
		CacheInfo:    CacheInfo{Hits: make(map[string]bool)},
	}

	for _, format := range opts.Formats {
		data, hit, err := r.renderFormat(ctx, b, hash, format, opts)
		if err != nil {
			return nil, err
		}
		result.Artifacts[format] = data
		result.CacheInfo.Hits[format] = hit
	}

	result.Stats = Stats{
		LayerCount: len(doc.Layers),
		ComboCount: comboCount(doc),
		LoadTime:   loadTime,
		RenderTime: r.clock().Sub(renderStart),
	}
	return result, nil
}

// renderFormat produces one artifact, consulting the cache for conversion
// formats.
func (r *Runner) renderFormat(ctx context.Context, b board.Board, hash, format string, opts Options) ([]byte, bool, error) {
	if format == FormatSVG {
		return sink.RenderSVG(b), false, nil
	}

	key := cache.ArtifactKey(hash, opts.Layer, format, opts.Scale)
	if !opts.Refresh {
		if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
			opts.Logger.Debugf("Cache hit for %s", format)
			return data, true, nil
		}
	}

	var data []byte
	var err error
	switch format {
	case FormatPNG:
		data, err = sink.RenderPNG(b, sink.WithScale(opts.Scale))
	case FormatPDF:
		data, err = sink.RenderPDF(b)
	default:
		return nil, false, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}

	if cacheErr := r.cache.Set(ctx, key, data, DefaultArtifactTTL); cacheErr != nil {
		opts.Logger.Warnf("Cache write failed: %v", cacheErr)
	}
	return data, false, nil
}

// singleLayer narrows a document to one named layer, preserving the layout.
func singleLayer(doc *keymap.Document, name string) (*keymap.Document, error) {
	layer, ok := doc.Layer(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "layer %q not found in document", name)
	}
	return &keymap.Document{
		Layout: doc.Layout,
		Layers: []keymap.NamedLayer{{Name: name, Layer: layer}},
	}, nil
}

func comboCount(doc *keymap.Document) int {
	n := 0
	for _, nl := range doc.Layers {
		n += len(nl.Layer.Combos)
	}
	return n
}
