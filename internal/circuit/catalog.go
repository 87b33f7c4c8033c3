package circuit

import (
	"slices"
)

// Keyword is the first token of an English line.
type Keyword string

// Recognized keywords. KeywordBlank marks an empty line.
const (
	KeywordBlank Keyword = ""
	KeywordNota  Keyword = "NOTA"
	KeywordPrint Keyword = "PRINT"
	KeywordLoop  Keyword = "LOOP"
	KeywordNext  Keyword = "NEXT"
	KeywordMeas  Keyword = "MEAS"
	KeywordSigX  Keyword = "SIGX"
	KeywordSigY  Keyword = "SIGY"
	KeywordSigZ  Keyword = "SIGZ"
	KeywordHad2  Keyword = "HAD2"
	KeywordRotX  Keyword = "ROTX"
	KeywordRotY  Keyword = "ROTY"
	KeywordRotZ  Keyword = "ROTZ"
	KeywordRotN  Keyword = "ROTN"
	KeywordPhas  Keyword = "PHAS"
	KeywordP0Ph  Keyword = "P0PH"
	KeywordP1Ph  Keyword = "P1PH"
	KeywordSwap  Keyword = "SWAP"
	KeywordDiag  Keyword = "DIAG"
	KeywordMPY   Keyword = "MP_Y"
)

// form is the token layout an instruction follows after its keyword.
type form int

const (
	formText form = iota // NOTA, PRINT: free text
	formLoop             // LOOP <id> NREPS= <n>
	formNext             // NEXT <id>
	formMeas             // MEAS <kind> AT <b>
	formGate             // [angles] AT <b> [IF ctrls]
	formSwap             // <b1> <b0> [IF ctrls]
	formDiag             // [IF ctrls] BY angles
	formMPY              // AT <b> IF ctrls BY angles
)

// gateSpec describes one keyword of the English language.
type gateSpec struct {
	name      string
	symbol    string // picture symbol on the target bit(s)
	numAngles int    // fixed angle count for formGate
	form      form
}

// catalog defines every keyword the parser accepts.
var catalog = map[Keyword]gateSpec{
	KeywordNota:  {name: "Comment", form: formText},
	KeywordPrint: {name: "Print", form: formText},
	KeywordLoop:  {name: "Loop start", form: formLoop},
	KeywordNext:  {name: "Loop end", form: formNext},
	KeywordMeas:  {name: "Measure", symbol: "M", form: formMeas},
	KeywordSigX:  {name: "Pauli-X", symbol: "X", form: formGate},
	KeywordSigY:  {name: "Pauli-Y", symbol: "Y", form: formGate},
	KeywordSigZ:  {name: "Pauli-Z", symbol: "Z", form: formGate},
	KeywordHad2:  {name: "Hadamard", symbol: "H", form: formGate},
	KeywordRotX:  {name: "Rotate X", symbol: "Rx", numAngles: 1, form: formGate},
	KeywordRotY:  {name: "Rotate Y", symbol: "Ry", numAngles: 1, form: formGate},
	KeywordRotZ:  {name: "Rotate Z", symbol: "Rz", numAngles: 1, form: formGate},
	KeywordRotN:  {name: "Rotate about axis", symbol: "R", numAngles: 3, form: formGate},
	KeywordPhas:  {name: "Phase", symbol: "Ph", numAngles: 1, form: formGate},
	KeywordP0Ph:  {name: "Phase on |0>", symbol: "OP", numAngles: 1, form: formGate},
	KeywordP1Ph:  {name: "Phase on |1>", symbol: "@P", numAngles: 1, form: formGate},
	KeywordSwap:  {name: "SWAP", symbol: "<>", form: formSwap},
	KeywordDiag:  {name: "Diagonal unitary", form: formDiag},
	KeywordMPY:   {name: "Y-rotation multiplexor", symbol: "Ry", form: formMPY},
}

// Keywords returns every recognized keyword in sorted order.
func Keywords() []Keyword {
	kws := make([]Keyword, 0, len(catalog))
	for kw := range catalog {
		kws = append(kws, kw)
	}
	slices.Sort(kws)
	return kws
}

// Known reports whether kw is part of the English language.
func Known(kw Keyword) bool {
	_, ok := catalog[kw]
	return ok
}

// IsDirective reports whether kw is a non-gate line (comment, print or
// loop marker) that is copied verbatim into the picture.
func (kw Keyword) IsDirective() bool {
	if kw == KeywordBlank {
		return true
	}
	spec, ok := catalog[kw]
	if !ok {
		return false
	}
	switch spec.form {
	case formText, formLoop, formNext:
		return true
	}
	return false
}

// Name returns a human-readable name for kw.
func (kw Keyword) Name() string {
	if spec, ok := catalog[kw]; ok {
		return spec.name
	}
	return string(kw)
}
