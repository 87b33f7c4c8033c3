// Package sim is a small state-vector simulator for English instructions.
// It exists to check that an expanded diagonal acts like the original.
//
// Rotations follow the exp(i*theta*sigma) convention: ROTZ theta multiplies
// |0> by e^{i*theta} and |1> by e^{-i*theta}.
package sim

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"qdiagx/internal/circuit"
)

// MaxQubits is the largest register the simulator accepts.
const MaxQubits = 10

var (
	// ErrUnsupported is returned for instructions the simulator cannot apply.
	ErrUnsupported = errors.New("instruction not supported by simulator")

	// ErrTooLarge is returned for registers above MaxQubits.
	ErrTooLarge = errors.New("register too large to simulate")
)

type Complex = complex128

type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

func NewStateVector(numQubits int) *StateVector {
	return Basis(numQubits, 0)
}

// Basis returns the computational basis state |x> over numQubits qubits.
func Basis(numQubits, x int) *StateVector {
	amps := make([]Complex, 1<<numQubits)
	amps[x] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// Apply applies one instruction. Directives are no-ops.
func (s *StateVector) Apply(in circuit.Instruction) error {
	if in.Keyword.IsDirective() {
		return nil
	}
	cs := in.Controls
	if cs.Count(circuit.MultiplexedControl) > 0 && in.Keyword != circuit.KeywordDiag {
		return fmt.Errorf("%w: %s with multiplexed controls", ErrUnsupported, in.Keyword)
	}
	theta := 0.0
	if len(in.Angles) > 0 {
		theta = in.Angles[0]
	}

	switch in.Keyword {
	case circuit.KeywordSigX:
		s.applyControlled(cs, in.Target, [2][2]Complex{{0, 1}, {1, 0}})
	case circuit.KeywordSigY:
		s.applyControlled(cs, in.Target, [2][2]Complex{{0, -1i}, {1i, 0}})
	case circuit.KeywordSigZ:
		s.applyControlled(cs, in.Target, [2][2]Complex{{1, 0}, {0, -1}})
	case circuit.KeywordHad2:
		h := complex(1.0/math.Sqrt2, 0)
		s.applyControlled(cs, in.Target, [2][2]Complex{{h, h}, {h, -h}})
	case circuit.KeywordRotX:
		c, js := complex(math.Cos(theta), 0), complex(0, math.Sin(theta))
		s.applyControlled(cs, in.Target, [2][2]Complex{{c, js}, {js, c}})
	case circuit.KeywordRotY:
		c, sn := complex(math.Cos(theta), 0), complex(math.Sin(theta), 0)
		s.applyControlled(cs, in.Target, [2][2]Complex{{c, sn}, {-sn, c}})
	case circuit.KeywordRotZ:
		ph := cmplx.Exp(complex(0, theta))
		s.applyControlled(cs, in.Target, [2][2]Complex{{ph, 0}, {0, cmplx.Conj(ph)}})
	case circuit.KeywordPhas:
		ph := cmplx.Exp(complex(0, theta))
		s.applyControlled(cs, in.Target, [2][2]Complex{{ph, 0}, {0, ph}})
	case circuit.KeywordP0Ph:
		s.applyControlled(cs, in.Target, [2][2]Complex{{cmplx.Exp(complex(0, theta)), 0}, {0, 1}})
	case circuit.KeywordP1Ph:
		s.applyControlled(cs, in.Target, [2][2]Complex{{1, 0}, {0, cmplx.Exp(complex(0, theta))}})
	case circuit.KeywordSwap:
		s.applySwap(cs, in.Swap[0], in.Swap[1])
	case circuit.KeywordDiag:
		return s.applyDiag(cs, in.Angles)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, in.Keyword)
	}
	return nil
}

// applyControlled applies the 2x2 matrix m to qubit q on every basis pair
// whose true and false controls hold.
func (s *StateVector) applyControlled(cs circuit.ControlSpec, q int, m [2][2]Complex) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit != 0 || !cs.Satisfied(i) {
			continue
		}
		j := i | bit
		a0, a1 := s.Amplitudes[i], s.Amplitudes[j]
		s.Amplitudes[i] = m[0][0]*a0 + m[0][1]*a1
		s.Amplitudes[j] = m[1][0]*a0 + m[1][1]*a1
	}
}

func (s *StateVector) applySwap(cs circuit.ControlSpec, q1, q2 int) {
	n := len(s.Amplitudes)
	bit1 := 1 << q1
	bit2 := 1 << q2
	for i := 0; i < n; i++ {
		if i&bit1 != 0 && i&bit2 == 0 && cs.Satisfied(i) {
			j := (i & ^bit1) | bit2
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// applyDiag multiplies each basis state whose fixed controls hold by
// e^{i*angles[j]}, where bit k of j is the k-th multiplexed control bit in
// ascending order.
func (s *StateVector) applyDiag(cs circuit.ControlSpec, angles []float64) error {
	var mp []int
	for _, p := range cs.Positions() {
		if cs[p] == circuit.MultiplexedControl {
			mp = append(mp, p)
		}
	}
	if len(angles) != 1<<len(mp) {
		return fmt.Errorf("%w: DIAG with %d angles for %d multiplexed controls", ErrUnsupported, len(angles), len(mp))
	}
	for i := range s.Amplitudes {
		if !cs.Satisfied(i) {
			continue
		}
		j := 0
		for k, p := range mp {
			if i&(1<<p) != 0 {
				j |= 1 << k
			}
		}
		s.Amplitudes[i] *= cmplx.Exp(complex(0, angles[j]))
	}
	return nil
}

// Run applies every instruction in order.
func (s *StateVector) Run(ins []circuit.Instruction) error {
	for _, in := range ins {
		if err := s.Apply(in); err != nil {
			return err
		}
	}
	return nil
}

// Distance returns the largest amplitude difference between s and o.
func (s *StateVector) Distance(o *StateVector) float64 {
	d := 0.0
	for i, a := range s.Amplitudes {
		d = math.Max(d, cmplx.Abs(a-o.Amplitudes[i]))
	}
	return d
}
