package emit

import (
	"errors"
	"fmt"
	"math/bits"

	"qdiagx/internal/circuit"
	"qdiagx/internal/embed"
)

var (
	// ErrAngleCount is returned when a diagonal's angle list does not have
	// one entry per multiplexed basis state.
	ErrAngleCount = errors.New("angle count does not match multiplexed controls")

	// ErrNoGroundedBits is returned by the oracular style when no grounded
	// bit is available.
	ErrNoGroundedBits = errors.New("oracular style needs a grounded bit")

	// ErrInvalidConfig is returned for a Config that does not fit the engine.
	ErrInvalidConfig = errors.New("invalid decomposition config")
)

// maxMultiplexed bounds the number of multiplexed controls so that 2^nm
// angles stay addressable.
const maxMultiplexed = 30

// Config is the per-diagonal state of a DiagEngine.
//
// The embedder's reduced register holds, in order, NumTrue true controls,
// NumFalse false controls, the multiplexed controls and then the engine's
// grounded bits.
type Config struct {
	Embedder embed.Embedder
	Angles   []float64 // radians, one per multiplexed basis state
	NumTrue  int
	NumFalse int
}

// DiagEngine writes diagonal unitaries to a Sink in a fixed Style.
type DiagEngine struct {
	sink     Sink
	numBits  int
	style    Style
	numGbits int

	cur     Config
	emitted int
}

// NewDiagEngine returns an engine for an n-bit register whose current
// config is the identity embedding.
func NewDiagEngine(sink Sink, numBits int, style Style, numGbits int) *DiagEngine {
	e := &DiagEngine{
		sink:     sink,
		numBits:  numBits,
		style:    style,
		numGbits: numGbits,
	}
	e.cur = e.DefaultConfig()
	return e
}

// DefaultConfig returns the identity config over the engine's register.
func (e *DiagEngine) DefaultConfig() Config {
	return Config{Embedder: embed.Identity(e.numBits)}
}

// Config returns the current config. Outside Emit it is DefaultConfig.
func (e *DiagEngine) Config() Config { return e.cur }

// Style returns the engine's decomposition style.
func (e *DiagEngine) Style() Style { return e.style }

// Emitted returns the number of instructions written so far.
func (e *DiagEngine) Emitted() int { return e.emitted }

// Emit writes the diagonal described by cfg. The current config is cfg for
// the duration of the call and the default afterwards, whatever the outcome.
func (e *DiagEngine) Emit(cfg Config) error {
	e.cur = cfg
	defer func() { e.cur = e.DefaultConfig() }()

	ins, err := e.expand()
	if err != nil {
		return err
	}
	for _, in := range ins {
		if err := e.sink.Emit(e.embedded(in)); err != nil {
			return err
		}
		e.emitted++
	}
	return nil
}

// reduced is the layout of the current config's reduced register.
type reduced struct {
	nt, nf, nm, ng int
}

func (r reduced) mp(k int) int { return r.nt + r.nf + k }

// fixed returns the true and false controls in reduced positions.
func (r reduced) fixed() circuit.ControlSpec {
	cs := circuit.ControlSpec{}
	for i := 0; i < r.nt; i++ {
		cs[i] = circuit.TrueControl
	}
	for i := r.nt; i < r.nt+r.nf; i++ {
		cs[i] = circuit.FalseControl
	}
	return cs
}

func (e *DiagEngine) layout() (reduced, error) {
	cfg := e.cur
	if cfg.Embedder.NumBitsAft() != e.numBits {
		return reduced{}, fmt.Errorf("%w: embedder range %d, register %d",
			ErrInvalidConfig, cfg.Embedder.NumBitsAft(), e.numBits)
	}
	r := reduced{nt: cfg.NumTrue, nf: cfg.NumFalse, ng: e.numGbits}
	r.nm = cfg.Embedder.NumBitsBef() - r.nt - r.nf - r.ng
	if r.nt < 0 || r.nf < 0 || r.nm < 0 {
		return reduced{}, fmt.Errorf("%w: %d true + %d false + %d grounded controls exceed %d embedded bits",
			ErrInvalidConfig, r.nt, r.nf, r.ng, cfg.Embedder.NumBitsBef())
	}
	if r.nm > maxMultiplexed || len(cfg.Angles) != 1<<r.nm {
		return reduced{}, fmt.Errorf("%w: got %d angles for %d multiplexed controls",
			ErrAngleCount, len(cfg.Angles), r.nm)
	}
	return r, nil
}

// expand returns the current diagonal as instructions on the reduced
// register.
func (e *DiagEngine) expand() ([]circuit.Instruction, error) {
	r, err := e.layout()
	if err != nil {
		return nil, err
	}
	switch e.style {
	case StyleOneLine:
		return e.oneLine(r), nil
	case StyleExact:
		return e.exact(r), nil
	case StyleOracular:
		return e.oracular(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStyle, e.style)
	}
}

func (e *DiagEngine) oneLine(r reduced) []circuit.Instruction {
	cs := r.fixed()
	for k := 0; k < r.nm; k++ {
		cs[r.mp(k)] = circuit.MultiplexedControl
	}
	return []circuit.Instruction{circuit.NewDiag(nilIfEmpty(cs), e.cur.Angles)}
}

// walsh returns c[S] = 2^-n * sum_j angles[j] * (-1)^|j&S|.
func walsh(angles []float64) []float64 {
	c := make([]float64, len(angles))
	for s := range c {
		var sum float64
		for j, th := range angles {
			if bits.OnesCount(uint(j&s))%2 == 0 {
				sum += th
			} else {
				sum -= th
			}
		}
		c[s] = sum / float64(len(angles))
	}
	return c
}

func (e *DiagEngine) exact(r reduced) []circuit.Instruction {
	fixed := r.fixed()
	coef := walsh(e.cur.Angles)

	ins := []circuit.Instruction{e.globalPhase(r, coef[0])}
	for s := 1; s < len(coef); s++ {
		t := r.mp(bits.Len(uint(s)) - 1)
		var ladder []circuit.Instruction
		for k := 0; k < r.nm; k++ {
			if s&(1<<k) == 0 || r.mp(k) == t {
				continue
			}
			ladder = append(ladder, circuit.NewGate(circuit.KeywordSigX, t, nil,
				circuit.ControlSpec{r.mp(k): circuit.TrueControl}))
		}
		ins = append(ins, ladder...)
		ins = append(ins, circuit.NewGate(circuit.KeywordRotZ, t, []float64{coef[s]}, nilIfEmpty(fixed.Clone())))
		for i := len(ladder) - 1; i >= 0; i-- {
			ins = append(ins, ladder[i].Clone())
		}
	}
	return ins
}

// globalPhase returns the phase e^{i*theta} applied where the fixed controls
// hold.
func (e *DiagEngine) globalPhase(r reduced, theta float64) circuit.Instruction {
	fixed := r.fixed()
	switch {
	case r.nm > 0:
		return circuit.NewGate(circuit.KeywordPhas, r.mp(r.nm-1), []float64{theta}, nilIfEmpty(fixed))
	case len(fixed) > 0:
		last := r.nt + r.nf - 1
		kw := circuit.KeywordP1Ph
		if fixed[last] == circuit.FalseControl {
			kw = circuit.KeywordP0Ph
		}
		delete(fixed, last)
		return circuit.NewGate(kw, last, []float64{theta}, nilIfEmpty(fixed))
	default:
		return circuit.NewGate(circuit.KeywordPhas, 0, []float64{theta}, nil)
	}
}

func (e *DiagEngine) oracular(r reduced) ([]circuit.Instruction, error) {
	if r.ng < 1 {
		return nil, ErrNoGroundedBits
	}
	g := r.nt + r.nf + r.nm
	var ins []circuit.Instruction
	for j, th := range e.cur.Angles {
		cs := r.fixed()
		for k := 0; k < r.nm; k++ {
			if j&(1<<k) != 0 {
				cs[r.mp(k)] = circuit.TrueControl
			} else {
				cs[r.mp(k)] = circuit.FalseControl
			}
		}
		flip := circuit.NewGate(circuit.KeywordSigX, g, nil, nilIfEmpty(cs))
		ins = append(ins,
			flip,
			circuit.NewGate(circuit.KeywordP1Ph, g, []float64{th}, nil),
			flip.Clone(),
		)
	}
	return ins, nil
}

// embedded maps a reduced-register instruction onto the full register.
func (e *DiagEngine) embedded(in circuit.Instruction) circuit.Instruction {
	emb := e.cur.Embedder
	aft := func(p int) int {
		// an empty reduced register has no positions; its phase lands on bit 0
		if emb.NumBitsBef() == 0 {
			return p
		}
		return emb.Aft(p)
	}
	out := in.Clone()
	if in.Target >= 0 {
		out.Target = aft(in.Target)
	}
	if in.Controls != nil {
		out.Controls = make(circuit.ControlSpec, len(in.Controls))
		for p, k := range in.Controls {
			out.Controls[aft(p)] = k
		}
	}
	return out
}

func nilIfEmpty(cs circuit.ControlSpec) circuit.ControlSpec {
	if len(cs) == 0 {
		return nil
	}
	return cs
}
