// Package emit writes circuit instructions to the paired English and Picture
// outputs and expands diagonal unitaries into elementary gates.
package emit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"

	"qdiagx/internal/circuit"
)

// ErrClosed is returned when emitting to a closed Writer.
var ErrClosed = errors.New("emit: writer closed")

// Sink receives instructions in output order.
type Sink interface {
	Emit(in circuit.Instruction) error
}

// Writer writes each instruction as one English line and one Picture line.
type Writer struct {
	eng, pic *bufio.Writer
	closers  []io.Closer
	numBits  int
	count    int
	closed   bool
}

// NewWriter returns a Writer over the given streams. Close flushes them but
// does not close them.
func NewWriter(eng, pic io.Writer, numBits int) *Writer {
	return &Writer{
		eng:     bufio.NewWriter(eng),
		pic:     bufio.NewWriter(pic),
		numBits: numBits,
	}
}

// Create creates (truncating) the English and Picture files and returns a
// Writer that owns them.
func Create(engPath, picPath string, numBits int) (*Writer, error) {
	engF, err := os.Create(engPath)
	if err != nil {
		return nil, fmt.Errorf("create english output: %w", err)
	}
	picF, err := os.Create(picPath)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("create picture output: %w", err), engF.Close())
	}
	w := NewWriter(engF, picF, numBits)
	w.closers = []io.Closer{engF, picF}
	return w, nil
}

// Emit writes in to both outputs.
func (w *Writer) Emit(in circuit.Instruction) error {
	if w.closed {
		return ErrClosed
	}
	if _, err := w.eng.WriteString(in.Line() + "\n"); err != nil {
		return fmt.Errorf("write english line: %w", err)
	}
	if _, err := w.pic.WriteString(circuit.Picture(in, w.numBits) + "\n"); err != nil {
		return fmt.Errorf("write picture line: %w", err)
	}
	w.count++
	return nil
}

// Count returns the number of instructions written.
func (w *Writer) Count() int { return w.count }

// Close flushes both outputs and closes the files the Writer owns. Only the
// first call has any effect.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	err := multierr.Append(w.eng.Flush(), w.pic.Flush())
	for _, c := range w.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}

// Recorder keeps every instruction it receives and forwards it to Next, if
// set.
type Recorder struct {
	Next Sink

	ins []circuit.Instruction
}

// Emit records in and passes it on.
func (r *Recorder) Emit(in circuit.Instruction) error {
	r.ins = append(r.ins, in.Clone())
	if r.Next != nil {
		return r.Next.Emit(in)
	}
	return nil
}

// Instructions returns what was recorded since the last Reset.
func (r *Recorder) Instructions() []circuit.Instruction { return r.ins }

// Reset drops the recorded instructions.
func (r *Recorder) Reset() { r.ins = nil }
