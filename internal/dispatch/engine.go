// Package dispatch reads English lines and routes each parsed instruction to
// the handler registered for its keyword.
//
// Keywords without a handler are echoed: the source line goes to the
// English output byte for byte and its rendered Picture line goes alongside.
package dispatch

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"qdiagx/internal/circuit"
	"qdiagx/internal/emit"
)

// ErrUnbalancedLoop is returned for a NEXT that does not close the innermost
// open LOOP, or for loops still open at the end of input.
var ErrUnbalancedLoop = errors.New("unbalanced LOOP/NEXT")

// maxLineSize bounds a single English line.
const maxLineSize = 1 << 20

// HandlerFunc processes one instruction.
type HandlerFunc func(in circuit.Instruction) error

// LineError reports the input line a run failed on.
type LineError struct {
	Num int // 1-based; 0 when the failure is at end of input
	Raw string
	Err error
}

func (e *LineError) Error() string {
	if e.Num == 0 {
		return fmt.Sprintf("end of input: %v", e.Err)
	}
	return fmt.Sprintf("line %d %q: %v", e.Num, e.Raw, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Stats counts what a run did.
type Stats struct {
	Lines   int `json:"lines"`
	Echoed  int `json:"echoed"`
	Handled int `json:"handled"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine runs a single forward pass over English input.
type Engine struct {
	numBits  int
	sink     emit.Sink
	handlers map[circuit.Keyword]HandlerFunc
	logger   *zap.Logger

	stats Stats
	loops []int // ids of open loops, innermost last
}

// New returns an engine for an n-bit register that echoes into sink.
func New(numBits int, sink emit.Sink, opts ...Option) *Engine {
	e := &Engine{
		numBits:  numBits,
		sink:     sink,
		handlers: make(map[circuit.Keyword]HandlerFunc),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle registers fn for kw, replacing the echo.
func (e *Engine) Handle(kw circuit.Keyword, fn HandlerFunc) {
	e.handlers[kw] = fn
}

// Echo writes in unchanged.
func (e *Engine) Echo(in circuit.Instruction) error {
	if err := e.sink.Emit(in); err != nil {
		return err
	}
	e.stats.Echoed++
	return nil
}

// Stats returns the counters of the current run.
func (e *Engine) Stats() Stats { return e.stats }

// Run processes every line of r in order and stops at the first error.
func (e *Engine) Run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	num := 0
	for sc.Scan() {
		num++
		raw := sc.Text()
		e.stats.Lines++
		if err := e.line(raw); err != nil {
			return &LineError{Num: num, Raw: raw, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read english input: %w", err)
	}
	if len(e.loops) > 0 {
		return &LineError{Err: fmt.Errorf("%w: loop %d never closed", ErrUnbalancedLoop, e.loops[len(e.loops)-1])}
	}
	return nil
}

func (e *Engine) line(raw string) error {
	in, err := circuit.ParseLine(raw, e.numBits)
	if err != nil {
		return err
	}
	if err := e.track(in); err != nil {
		return err
	}
	if fn, ok := e.handlers[in.Keyword]; ok {
		e.logger.Debug("handling line", zap.String("keyword", string(in.Keyword)))
		if err := fn(in); err != nil {
			return err
		}
		e.stats.Handled++
		return nil
	}
	return e.Echo(in)
}

// track keeps the LOOP/NEXT nesting.
func (e *Engine) track(in circuit.Instruction) error {
	switch in.Keyword {
	case circuit.KeywordLoop:
		for _, id := range e.loops {
			if id == in.LoopID {
				return fmt.Errorf("%w: loop %d already open", ErrUnbalancedLoop, id)
			}
		}
		e.loops = append(e.loops, in.LoopID)
	case circuit.KeywordNext:
		if len(e.loops) == 0 {
			return fmt.Errorf("%w: NEXT %d without LOOP", ErrUnbalancedLoop, in.LoopID)
		}
		if top := e.loops[len(e.loops)-1]; top != in.LoopID {
			return fmt.Errorf("%w: NEXT %d closes loop %d", ErrUnbalancedLoop, in.LoopID, top)
		}
		e.loops = e.loops[:len(e.loops)-1]
	}
	return nil
}
