package circuit

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLine parses one English line for a register of numBits bits. The
// returned instruction keeps raw as its source text.
func ParseLine(raw string, numBits int) (Instruction, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return Instruction{Keyword: KeywordBlank, Raw: raw, Target: -1}, nil
	}

	kw := Keyword(fields[0])
	spec, ok := catalog[kw]
	if !ok {
		return Instruction{}, fmt.Errorf("%w: unknown keyword %q", ErrSyntax, fields[0])
	}

	in := Instruction{Keyword: kw, Raw: raw, Target: -1}
	if spec.form == formText {
		rest := strings.TrimLeft(raw, " \t")
		in.Text = strings.TrimSpace(strings.TrimPrefix(rest, fields[0]))
		return in, nil
	}

	p := &lineParser{kw: kw, toks: fields[1:], numBits: numBits}
	var err error
	switch spec.form {
	case formLoop:
		err = p.parseLoop(&in)
	case formNext:
		in.LoopID, err = p.num("loop id")
	case formMeas:
		err = p.parseMeas(&in)
	case formGate:
		err = p.parseGate(&in, spec.numAngles)
	case formSwap:
		err = p.parseSwap(&in)
	case formDiag:
		err = p.parseDiag(&in)
	case formMPY:
		err = p.parseMPY(&in)
	}
	if err != nil {
		return Instruction{}, err
	}
	if err := p.done(); err != nil {
		return Instruction{}, err
	}
	return in, nil
}

// lineParser walks the tokens following the keyword.
type lineParser struct {
	kw      Keyword
	toks    []string
	pos     int
	numBits int
}

func (p *lineParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrSyntax, p.kw, fmt.Sprintf(format, args...))
}

func (p *lineParser) peek() (string, bool) {
	if p.pos >= len(p.toks) {
		return "", false
	}
	return p.toks[p.pos], true
}

func (p *lineParser) next(what string) (string, error) {
	tok, ok := p.peek()
	if !ok {
		return "", p.errorf("missing %s", what)
	}
	p.pos++
	return tok, nil
}

func (p *lineParser) expect(lit string) error {
	tok, err := p.next(lit)
	if err != nil {
		return err
	}
	if tok != lit {
		return p.errorf("expected %s, got %q", lit, tok)
	}
	return nil
}

func (p *lineParser) done() error {
	if tok, ok := p.peek(); ok {
		return p.errorf("unexpected token %q", tok)
	}
	return nil
}

func (p *lineParser) num(what string) (int, error) {
	tok, err := p.next(what)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return 0, p.errorf("bad %s %q", what, tok)
	}
	return n, nil
}

func (p *lineParser) bit() (int, error) {
	b, err := p.num("bit position")
	if err != nil {
		return 0, err
	}
	if b >= p.numBits {
		return 0, fmt.Errorf("%w: %s: bit %d not in [0,%d)", ErrBitRange, p.kw, b, p.numBits)
	}
	return b, nil
}

func (p *lineParser) angle() (float64, error) {
	tok, err := p.next("angle")
	if err != nil {
		return 0, err
	}
	rad, ok := parseAngle(tok)
	if !ok {
		return 0, p.errorf("bad angle %q", tok)
	}
	return rad, nil
}

// restAngles consumes every remaining token as an angle. At least one is
// required.
func (p *lineParser) restAngles() ([]float64, error) {
	if _, ok := p.peek(); !ok {
		return nil, p.errorf("missing angle")
	}
	var out []float64
	for {
		if _, ok := p.peek(); !ok {
			return out, nil
		}
		a, err := p.angle()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
}

// controls consumes control tokens until stop (or the end of the line when
// stop is empty).
func (p *lineParser) controls(stop string, allowMultiplexed bool) (ControlSpec, error) {
	cs := ControlSpec{}
	for {
		tok, ok := p.peek()
		if !ok || (stop != "" && tok == stop) {
			break
		}
		p.pos++
		pos, kind, err := parseControl(tok)
		if err != nil {
			return nil, err
		}
		if pos >= p.numBits {
			return nil, fmt.Errorf("%w: %s: control bit %d not in [0,%d)", ErrBitRange, p.kw, pos, p.numBits)
		}
		if _, dup := cs[pos]; dup {
			return nil, &ControlSpecError{Pos: pos, Reason: "bit controlled twice"}
		}
		if kind == MultiplexedControl && !allowMultiplexed {
			return nil, &ControlSpecError{Pos: pos, Reason: string(p.kw) + " takes no multiplexed controls"}
		}
		cs[pos] = kind
	}
	if len(cs) == 0 {
		return nil, p.errorf("IF without controls")
	}
	return cs, nil
}

// optionalIf parses "[IF ctrl...]" up to stop.
func (p *lineParser) optionalIf(stop string, allowMultiplexed bool) (ControlSpec, error) {
	if tok, ok := p.peek(); !ok || tok != "IF" {
		return nil, nil
	}
	p.pos++
	return p.controls(stop, allowMultiplexed)
}

func (p *lineParser) parseLoop(in *Instruction) error {
	var err error
	if in.LoopID, err = p.num("loop id"); err != nil {
		return err
	}
	if err := p.expect("NREPS="); err != nil {
		return err
	}
	if in.Reps, err = p.num("repetition count"); err != nil {
		return err
	}
	return nil
}

func (p *lineParser) parseMeas(in *Instruction) error {
	var err error
	if in.MeasKind, err = p.num("measurement kind"); err != nil {
		return err
	}
	if err := p.expect("AT"); err != nil {
		return err
	}
	in.Target, err = p.bit()
	return err
}

func (p *lineParser) parseGate(in *Instruction, numAngles int) error {
	for i := 0; i < numAngles; i++ {
		a, err := p.angle()
		if err != nil {
			return err
		}
		in.Angles = append(in.Angles, a)
	}
	if err := p.expect("AT"); err != nil {
		return err
	}
	var err error
	if in.Target, err = p.bit(); err != nil {
		return err
	}
	if in.Controls, err = p.optionalIf("", false); err != nil {
		return err
	}
	if _, clash := in.Controls[in.Target]; clash {
		return p.errorf("target bit %d is also a control", in.Target)
	}
	return nil
}

func (p *lineParser) parseSwap(in *Instruction) error {
	b1, err := p.bit()
	if err != nil {
		return err
	}
	b0, err := p.bit()
	if err != nil {
		return err
	}
	if b1 == b0 {
		return p.errorf("swap of bit %d with itself", b1)
	}
	in.Swap = [2]int{b1, b0}
	if in.Controls, err = p.optionalIf("", false); err != nil {
		return err
	}
	for _, b := range in.Swap {
		if _, clash := in.Controls[b]; clash {
			return p.errorf("swapped bit %d is also a control", b)
		}
	}
	return nil
}

func (p *lineParser) parseDiag(in *Instruction) error {
	var err error
	if in.Controls, err = p.optionalIf("BY", true); err != nil {
		return err
	}
	if err := p.expect("BY"); err != nil {
		return err
	}
	in.Angles, err = p.restAngles()
	return err
}

func (p *lineParser) parseMPY(in *Instruction) error {
	if err := p.expect("AT"); err != nil {
		return err
	}
	var err error
	if in.Target, err = p.bit(); err != nil {
		return err
	}
	if err := p.expect("IF"); err != nil {
		return err
	}
	if in.Controls, err = p.controls("BY", true); err != nil {
		return err
	}
	if _, clash := in.Controls[in.Target]; clash {
		return p.errorf("target bit %d is also a control", in.Target)
	}
	if err := p.expect("BY"); err != nil {
		return err
	}
	in.Angles, err = p.restAngles()
	return err
}
