package sim

import (
	"errors"
	"fmt"

	"qdiagx/internal/circuit"
)

// Tolerance is the largest amplitude difference VerifyEquivalent accepts.
const Tolerance = 1e-9

// ErrNotEquivalent is returned when two instruction sequences act
// differently on some admissible basis state.
var ErrNotEquivalent = errors.New("instruction sequences are not equivalent")

// VerifyEquivalent checks that want and got map every basis state of an
// n-qubit register to the same state. Basis states with a grounded bit set
// are skipped.
func VerifyEquivalent(n int, want, got []circuit.Instruction, grounded []int) error {
	if n > MaxQubits {
		return fmt.Errorf("%w: %d qubits, limit %d", ErrTooLarge, n, MaxQubits)
	}
	mask := 0
	for _, g := range grounded {
		mask |= 1 << g
	}
	for x := 0; x < 1<<n; x++ {
		if x&mask != 0 {
			continue
		}
		a, b := Basis(n, x), Basis(n, x)
		if err := a.Run(want); err != nil {
			return fmt.Errorf("simulate original: %w", err)
		}
		if err := b.Run(got); err != nil {
			return fmt.Errorf("simulate expansion: %w", err)
		}
		if d := a.Distance(b); d > Tolerance {
			return fmt.Errorf("%w: basis state %d differs by %.3g", ErrNotEquivalent, x, d)
		}
	}
	return nil
}
