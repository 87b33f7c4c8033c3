package expand

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"qdiagx/internal/circuit"
	"qdiagx/internal/embed"
	"qdiagx/internal/emit"
	"qdiagx/internal/sim"
)

// Emitter writes one diagonal described by a decomposition config.
// *emit.DiagEngine implements it.
type Emitter interface {
	Emit(cfg emit.Config) error
}

// DiagRewriter is the DIAG handler of a pass.
type DiagRewriter struct {
	engine   Emitter
	numBits  int
	grounded []int
	logger   *zap.Logger

	// rec captures each expansion for verification; nil disables it.
	rec         *emit.Recorder
	warnedLarge bool
	count       int
}

// NewDiagRewriter returns a rewriter for a numBits register. grounded must
// already be in the order the pass uses them.
func NewDiagRewriter(engine Emitter, numBits int, grounded []int, logger *zap.Logger) *DiagRewriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiagRewriter{
		engine:   engine,
		numBits:  numBits,
		grounded: slices.Clone(grounded),
		logger:   logger,
	}
}

// VerifyWith enables verification. rec must be the sink the engine writes
// through.
func (r *DiagRewriter) VerifyWith(rec *emit.Recorder) {
	r.rec = rec
}

// Count returns how many DIAG lines were rewritten.
func (r *DiagRewriter) Count() int { return r.count }

// Handle rewrites one DIAG instruction. Nothing is written when the
// controls cannot be embedded.
func (r *DiagRewriter) Handle(in circuit.Instruction) error {
	groups, err := Classify(in.Controls)
	if err != nil {
		return err
	}
	layout, err := BuildBitMap(groups, r.grounded, r.numBits)
	if err != nil {
		return err
	}
	emb, err := embed.New(len(layout.BitMap), r.numBits, layout.BitMap)
	if err != nil {
		return err
	}

	cfg := emit.Config{
		Embedder: emb,
		Angles:   slices.Clone(in.Angles),
		NumTrue:  layout.NumTrue,
		NumFalse: layout.NumFalse,
	}
	if r.rec != nil {
		r.rec.Reset()
	}
	if err := r.engine.Emit(cfg); err != nil {
		return err
	}
	r.count++
	r.logger.Debug("rewrote diagonal",
		zap.Ints("bit_map", layout.BitMap),
		zap.Int("num_true", layout.NumTrue),
		zap.Int("num_false", layout.NumFalse),
		zap.Int("num_angles", len(in.Angles)),
	)

	if r.rec != nil {
		return r.verify(in)
	}
	return nil
}

func (r *DiagRewriter) verify(in circuit.Instruction) error {
	if r.numBits > sim.MaxQubits {
		if !r.warnedLarge {
			r.logger.Warn("register too large, skipping verification",
				zap.Int("bits", r.numBits), zap.Int("max_bits", sim.MaxQubits))
			r.warnedLarge = true
		}
		return nil
	}
	got := r.rec.Instructions()
	if err := sim.VerifyEquivalent(r.numBits, []circuit.Instruction{in}, got, r.grounded); err != nil {
		return fmt.Errorf("%w: %v", ErrVerification, err)
	}
	return nil
}
