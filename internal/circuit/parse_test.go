package circuit

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestParseLineGates(t *testing.T) {
	tests := []struct {
		line     string
		kw       Keyword
		target   int
		angles   []float64
		controls ControlSpec
	}{
		{"HAD2\tAT\t0", KeywordHad2, 0, nil, nil},
		{"SIGX AT 1 IF 0T", KeywordSigX, 1, nil, ControlSpec{0: TrueControl}},
		{"SIGZ   AT  3  IF 0F 2T", KeywordSigZ, 3, nil, ControlSpec{0: FalseControl, 2: TrueControl}},
		{"ROTZ\t90\tAT\t2", KeywordRotZ, 2, []float64{math.Pi / 2}, nil},
		{"PHAS pi/2 AT 0 IF 1T", KeywordPhas, 0, []float64{math.Pi / 2}, ControlSpec{1: TrueControl}},
		{"ROTN 10 20 30 AT 1", KeywordRotN, 1, []float64{Radians(10), Radians(20), Radians(30)}, nil},
		{"P1PH -45 AT 3", KeywordP1Ph, 3, []float64{-math.Pi / 4}, nil},
	}

	for _, tt := range tests {
		in, err := ParseLine(tt.line, 4)
		if err != nil {
			t.Errorf("ParseLine(%q): %v", tt.line, err)
			continue
		}
		if in.Keyword != tt.kw || in.Target != tt.target {
			t.Errorf("ParseLine(%q): got %s AT %d, want %s AT %d", tt.line, in.Keyword, in.Target, tt.kw, tt.target)
		}
		if len(in.Angles) != len(tt.angles) {
			t.Errorf("ParseLine(%q): got %d angles, want %d", tt.line, len(in.Angles), len(tt.angles))
		} else {
			for i := range tt.angles {
				if math.Abs(in.Angles[i]-tt.angles[i]) > 1e-10 {
					t.Errorf("ParseLine(%q): angle %d = %g, want %g", tt.line, i, in.Angles[i], tt.angles[i])
				}
			}
		}
		if len(in.Controls) != len(tt.controls) {
			t.Errorf("ParseLine(%q): controls %v, want %v", tt.line, in.Controls, tt.controls)
		}
		for p, k := range tt.controls {
			if in.Controls[p] != k {
				t.Errorf("ParseLine(%q): control at %d = %s, want %s", tt.line, p, in.Controls[p], k)
			}
		}
		if in.Raw != tt.line {
			t.Errorf("ParseLine(%q): Raw = %q", tt.line, in.Raw)
		}
	}
}

func TestParseLineDiag(t *testing.T) {
	in, err := ParseLine("DIAG\tIF\t0T\t2F\t4M\tBY\t0\t10\t20\t30\t40\t50\t60\t70", 6)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if in.Keyword != KeywordDiag || in.Target != -1 {
		t.Fatalf("got %s target %d", in.Keyword, in.Target)
	}
	want := ControlSpec{0: TrueControl, 2: FalseControl, 4: MultiplexedControl}
	if len(in.Controls) != len(want) {
		t.Fatalf("controls = %v, want %v", in.Controls, want)
	}
	for p, k := range want {
		if in.Controls[p] != k {
			t.Errorf("control %d = %s, want %s", p, in.Controls[p], k)
		}
	}
	if len(in.Angles) != 8 {
		t.Errorf("got %d angles, want 8", len(in.Angles))
	}

	bare, err := ParseLine("DIAG BY 45", 2)
	if err != nil {
		t.Fatalf("ParseLine(bare DIAG): %v", err)
	}
	if len(bare.Controls) != 0 || len(bare.Angles) != 1 {
		t.Errorf("bare DIAG: controls=%v angles=%v", bare.Controls, bare.Angles)
	}
}

func TestParseLineDirectives(t *testing.T) {
	tests := []struct {
		line string
		kw   Keyword
		text string
	}{
		{"", KeywordBlank, ""},
		{"   \t", KeywordBlank, ""},
		{"NOTA sample circuit", KeywordNota, "sample circuit"},
		{"PRINT\tstate after loop", KeywordPrint, "state after loop"},
		{"NOTA", KeywordNota, ""},
	}
	for _, tt := range tests {
		in, err := ParseLine(tt.line, 2)
		if err != nil {
			t.Errorf("ParseLine(%q): %v", tt.line, err)
			continue
		}
		if in.Keyword != tt.kw || in.Text != tt.text {
			t.Errorf("ParseLine(%q) = (%q, %q), want (%q, %q)", tt.line, in.Keyword, in.Text, tt.kw, tt.text)
		}
		if !in.Keyword.IsDirective() {
			t.Errorf("%q should be a directive", tt.line)
		}
	}

	loop, err := ParseLine("LOOP 5 NREPS= 3", 2)
	if err != nil {
		t.Fatalf("ParseLine(LOOP): %v", err)
	}
	if loop.LoopID != 5 || loop.Reps != 3 {
		t.Errorf("LOOP: id=%d reps=%d", loop.LoopID, loop.Reps)
	}
	next, err := ParseLine("NEXT 5", 2)
	if err != nil {
		t.Fatalf("ParseLine(NEXT): %v", err)
	}
	if next.LoopID != 5 {
		t.Errorf("NEXT: id=%d", next.LoopID)
	}
}

func TestParseLineSwapAndMeas(t *testing.T) {
	sw, err := ParseLine("SWAP 2 0 IF 1F", 3)
	if err != nil {
		t.Fatalf("ParseLine(SWAP): %v", err)
	}
	if sw.Swap != [2]int{2, 0} || sw.Controls[1] != FalseControl {
		t.Errorf("SWAP: %+v", sw)
	}
	if got := sw.Bits(); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("SWAP bits = %v", got)
	}

	m, err := ParseLine("MEAS 1 AT 2", 3)
	if err != nil {
		t.Fatalf("ParseLine(MEAS): %v", err)
	}
	if m.MeasKind != 1 || m.Target != 2 {
		t.Errorf("MEAS: kind=%d target=%d", m.MeasKind, m.Target)
	}
}

func TestParseLineMalformedControl(t *testing.T) {
	_, err := ParseLine("DIAG IF 0T 3Q BY 10 20", 5)
	if !errors.Is(err, ErrMalformedControlSpec) {
		t.Fatalf("expected ErrMalformedControlSpec, got %v", err)
	}
	var cse *ControlSpecError
	if !errors.As(err, &cse) {
		t.Fatalf("expected *ControlSpecError, got %T", err)
	}
	if cse.Pos != 3 || cse.Tag != "Q" {
		t.Errorf("ControlSpecError = %+v, want Pos 3 Tag Q", cse)
	}

	_, err = ParseLine("DIAG IF 1T 1F BY 10", 3)
	if !errors.As(err, &cse) || cse.Pos != 1 {
		t.Errorf("repeated bit: got %v", err)
	}

	_, err = ParseLine("SIGX AT 0 IF 1M", 3)
	if !errors.Is(err, ErrMalformedControlSpec) {
		t.Errorf("multiplexed control on SIGX: got %v", err)
	}
}

func TestParseLineErrors(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"FOO AT 1", ErrSyntax},
		{"SIGX 1", ErrSyntax},
		{"SIGX AT", ErrSyntax},
		{"SIGX AT 1 IF", ErrSyntax},
		{"SIGX AT 1 IF 1T", ErrSyntax},
		{"SIGX AT 1 extra", ErrSyntax},
		{"ROTX AT 1", ErrSyntax},
		{"ROTX abc AT 1", ErrSyntax},
		{"DIAG IF 0T", ErrSyntax},
		{"DIAG BY", ErrSyntax},
		{"SWAP 1 1", ErrSyntax},
		{"LOOP 1 3", ErrSyntax},
		{"SIGX AT 4", ErrBitRange},
		{"SIGX AT 0 IF 7T", ErrBitRange},
		{"DIAG IF 9M BY 1 2", ErrBitRange},
	}
	for _, tt := range tests {
		_, err := ParseLine(tt.line, 4)
		if !errors.Is(err, tt.want) {
			t.Errorf("ParseLine(%q): got %v, want %v", tt.line, err, tt.want)
		}
	}
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		in   Instruction
		want string
	}{
		{NewGate(KeywordHad2, 0, nil, nil), "HAD2\tAT\t0"},
		{NewGate(KeywordRotZ, 1, []float64{Radians(-30)}, ControlSpec{2: TrueControl}), "ROTZ\t-30\tAT\t1\tIF\t2T"},
		{NewGate(KeywordSigX, 3, nil, ControlSpec{2: FalseControl, 0: TrueControl}), "SIGX\tAT\t3\tIF\t0T\t2F"},
		{NewSwap(2, 0, nil), "SWAP\t2\t0"},
		{NewDiag(ControlSpec{1: MultiplexedControl}, []float64{0, math.Pi}), "DIAG\tIF\t1M\tBY\t0\t180"},
		{NewDiag(nil, []float64{Radians(45)}), "DIAG\tBY\t45"},
		{NewNote("hello"), "NOTA\thello"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestInstructionStringReparses(t *testing.T) {
	lines := []string{
		"ROTY\t12.5\tAT\t2\tIF\t0T\t1F",
		"DIAG\tIF\t0T\t3M\tBY\t10\t20",
		"MP_Y\tAT\t1\tIF\t0M\tBY\t30\t60",
		"LOOP\t2\tNREPS=\t4",
		"MEAS\t0\tAT\t3",
	}
	for _, line := range lines {
		in, err := ParseLine(line, 4)
		if err != nil {
			t.Fatalf("ParseLine(%q): %v", line, err)
		}
		gen := in.Clone()
		gen.Raw = ""
		if got := gen.Line(); got != line {
			t.Errorf("canonical form of %q is %q", line, got)
		}
	}
}
