package expand

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"qdiagx/internal/circuit"
	"qdiagx/internal/dispatch"
	"qdiagx/internal/emit"
	"qdiagx/internal/naming"
)

// ErrInvalidOptions is returned by Run and NewPass for unusable options.
var ErrInvalidOptions = errors.New("invalid pass options")

// Options configures a pass.
type Options struct {
	// Prefix is the input file prefix; the input is <Prefix>_<NumBits>_eng.txt.
	Prefix  string
	NumBits int
	Style   emit.Style

	// Grounded lists the grounded bits in the order the oracular style
	// uses them.
	Grounded []int

	// Verify simulates each expansion against its DIAG line.
	Verify bool

	Logger *zap.Logger
}

func (o Options) validate() error {
	if o.NumBits < 1 {
		return fmt.Errorf("%w: register needs at least one bit, got %d", ErrInvalidOptions, o.NumBits)
	}
	seen := make(map[int]bool, len(o.Grounded))
	for _, g := range o.Grounded {
		if g < 0 || g >= o.NumBits {
			return fmt.Errorf("%w: grounded bit %d not in [0,%d)", ErrInvalidOptions, g, o.NumBits)
		}
		if seen[g] {
			return fmt.Errorf("%w: grounded bit %d listed twice", ErrInvalidOptions, g)
		}
		seen[g] = true
	}
	return nil
}

// Stats summarizes a pass.
type Stats struct {
	Lines   int `json:"lines"`
	Echoed  int `json:"echoed"`
	Diags   int `json:"diags"`
	Emitted int `json:"emitted"`
}

// Pass is one forward run of the dispatch engine with the DIAG rewriter
// installed.
type Pass struct {
	runID      string
	engine     *emit.DiagEngine
	rewriter   *DiagRewriter
	dispatcher *dispatch.Engine
	logger     *zap.Logger
}

// NewPass builds a pass writing to sink.
func NewPass(sink emit.Sink, opts Options) (*Pass, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	diagSink := sink
	var rec *emit.Recorder
	if opts.Verify {
		rec = &emit.Recorder{Next: sink}
		diagSink = rec
	}

	engine := emit.NewDiagEngine(diagSink, opts.NumBits, opts.Style, len(opts.Grounded))
	rewriter := NewDiagRewriter(engine, opts.NumBits, opts.Grounded, logger)
	if rec != nil {
		rewriter.VerifyWith(rec)
	}
	dispatcher := dispatch.New(opts.NumBits, sink, dispatch.WithLogger(logger))
	dispatcher.Handle(circuit.KeywordDiag, rewriter.Handle)

	return &Pass{
		runID:      runID,
		engine:     engine,
		rewriter:   rewriter,
		dispatcher: dispatcher,
		logger:     logger,
	}, nil
}

// RunID returns the identifier used in the pass's log entries.
func (p *Pass) RunID() string { return p.runID }

// Engine returns the decomposition engine of the pass.
func (p *Pass) Engine() *emit.DiagEngine { return p.engine }

// Run processes the English text read from r.
func (p *Pass) Run(r io.Reader) error {
	p.logger.Debug("pass started")
	if err := p.dispatcher.Run(r); err != nil {
		p.logger.Error("pass failed", zap.Error(err))
		return err
	}
	st := p.Stats()
	p.logger.Info("pass finished",
		zap.Int("lines", st.Lines),
		zap.Int("diags", st.Diags),
		zap.Int("emitted", st.Emitted),
	)
	return nil
}

// Stats returns the pass counters.
func (p *Pass) Stats() Stats {
	ds := p.dispatcher.Stats()
	return Stats{
		Lines:   ds.Lines,
		Echoed:  ds.Echoed,
		Diags:   p.rewriter.Count(),
		Emitted: p.engine.Emitted(),
	}
}

// Result describes a finished pass over files.
type Result struct {
	RunID       string `json:"run_id"`
	InPrefix    string `json:"in_prefix"`
	OutPrefix   string `json:"out_prefix"`
	InputPath   string `json:"input_path"`
	EnglishPath string `json:"english_path"`
	PicturePath string `json:"picture_path"`
	NumBits     int    `json:"num_bits"`
	Style       string `json:"style"`
	Stats       Stats  `json:"stats"`
}

// Run expands the English file of opts.Prefix into a new English and
// Picture pair under the next _X<k> prefix. The outputs are closed before
// Run returns, whatever the outcome.
func Run(opts Options) (res *Result, err error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	outPrefix := naming.XedPrefix(opts.Prefix)
	inPath := naming.EnglishPath(opts.Prefix, opts.NumBits)
	engPath := naming.EnglishPath(outPrefix, opts.NumBits)
	picPath := naming.PicturePath(outPrefix, opts.NumBits)

	in, err := os.Open(inPath)
	if err != nil {
		return nil, fmt.Errorf("open english input: %w", err)
	}
	defer in.Close()

	w, err := emit.Create(engPath, picPath, opts.NumBits)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("close outputs: %w", cerr))
			res = nil
		}
	}()

	pass, err := NewPass(w, opts)
	if err != nil {
		return nil, err
	}
	if err := pass.Run(in); err != nil {
		return nil, fmt.Errorf("expand %s: %w", inPath, err)
	}
	return &Result{
		RunID:       pass.RunID(),
		InPrefix:    opts.Prefix,
		OutPrefix:   outPrefix,
		InputPath:   inPath,
		EnglishPath: engPath,
		PicturePath: picPath,
		NumBits:     opts.NumBits,
		Style:       opts.Style.String(),
		Stats:       pass.Stats(),
	}, nil
}
