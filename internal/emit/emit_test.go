package emit

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qdiagx/internal/circuit"
	"qdiagx/internal/embed"
)

func mustParse(t *testing.T, line string, n int) circuit.Instruction {
	t.Helper()
	in, err := circuit.ParseLine(line, n)
	require.NoError(t, err)
	return in
}

func lines(ins []circuit.Instruction) []string {
	out := make([]string, len(ins))
	for i, in := range ins {
		out[i] = in.Line()
	}
	return out
}

func TestWriterEmit(t *testing.T) {
	var eng, pic bytes.Buffer
	w := NewWriter(&eng, &pic, 3)

	require.NoError(t, w.Emit(mustParse(t, "HAD2   AT 0", 3)))
	require.NoError(t, w.Emit(mustParse(t, "NOTA  spaced   text", 3)))
	assert.Equal(t, 2, w.Count())

	require.NoError(t, w.Close())
	assert.Equal(t, "HAD2   AT 0\nNOTA  spaced   text\n", eng.String())
	assert.Equal(t, "H   |   |\nNOTA  spaced   text\n", pic.String())

	assert.NoError(t, w.Close())
	assert.ErrorIs(t, w.Emit(circuit.NewNote("late")), ErrClosed)
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()
	engPath := filepath.Join(dir, "out_2_eng.txt")
	picPath := filepath.Join(dir, "out_2_ZLpic.txt")

	w, err := Create(engPath, picPath, 2)
	require.NoError(t, err)
	require.NoError(t, w.Emit(circuit.NewGate(circuit.KeywordSigX, 1, nil, circuit.ControlSpec{0: circuit.TrueControl})))
	require.NoError(t, w.Close())

	eng, err := os.ReadFile(engPath)
	require.NoError(t, err)
	assert.Equal(t, "SIGX\tAT\t1\tIF\t0T\n", string(eng))

	pic, err := os.ReadFile(picPath)
	require.NoError(t, err)
	assert.Equal(t, "@---X\n", string(pic))
}

func TestCreateMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	_, err := Create(filepath.Join(dir, "a_eng.txt"), filepath.Join(dir, "a_pic.txt"), 2)
	assert.Error(t, err)
}

func TestRecorderForwards(t *testing.T) {
	next := &Recorder{}
	r := &Recorder{Next: next}
	require.NoError(t, r.Emit(circuit.NewNote("a")))
	assert.Len(t, r.Instructions(), 1)
	assert.Len(t, next.Instructions(), 1)

	r.Reset()
	assert.Empty(t, r.Instructions())
}

func TestParseStyle(t *testing.T) {
	for _, name := range StyleNames() {
		s, err := ParseStyle(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.String())
	}
	_, err := ParseStyle("fancy")
	assert.ErrorIs(t, err, ErrUnknownStyle)
}

func TestWalsh(t *testing.T) {
	c := walsh([]float64{1, 3})
	assert.InDeltaSlice(t, []float64{2, -1}, c, 1e-12)

	c = walsh([]float64{1, 2, 3, 4})
	assert.InDeltaSlice(t, []float64{2.5, -0.5, -1, 0}, c, 1e-12)
}

// newTestEngine returns an engine over n bits recording into a Recorder.
func newTestEngine(n int, style Style, numGbits int) (*DiagEngine, *Recorder) {
	rec := &Recorder{}
	return NewDiagEngine(rec, n, style, numGbits), rec
}

func TestDiagEngineExact(t *testing.T) {
	e, rec := newTestEngine(3, StyleExact, 0)
	emb, err := embed.New(2, 3, []int{2, 0})
	require.NoError(t, err)

	err = e.Emit(Config{
		Embedder: emb,
		Angles:   []float64{circuit.Radians(30), circuit.Radians(90)},
		NumTrue:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"PHAS\t60\tAT\t0\tIF\t2T",
		"ROTZ\t-30\tAT\t0\tIF\t2T",
	}, lines(rec.Instructions()))
	assert.Equal(t, 2, e.Emitted())
}

func TestDiagEngineExactLadder(t *testing.T) {
	e, rec := newTestEngine(4, StyleExact, 0)
	emb, err := embed.New(2, 4, []int{1, 3})
	require.NoError(t, err)

	angles := []float64{0.1, 0.2, 0.3, 0.4}
	require.NoError(t, e.Emit(Config{Embedder: emb, Angles: angles}))

	got := lines(rec.Instructions())
	require.Len(t, got, 6)
	assert.Contains(t, got[0], "PHAS")
	assert.Contains(t, got[0], "AT\t3")
	// S = {1,3}: the ladder onto bit 3 wraps the rotation.
	assert.Equal(t, "SIGX\tAT\t3\tIF\t1T", got[3])
	assert.Contains(t, got[4], "ROTZ")
	assert.Equal(t, "SIGX\tAT\t3\tIF\t1T", got[5])
}

func TestDiagEngineExactNoMultiplexed(t *testing.T) {
	e, rec := newTestEngine(3, StyleExact, 0)
	emb, err := embed.New(2, 3, []int{0, 2})
	require.NoError(t, err)

	require.NoError(t, e.Emit(Config{Embedder: emb, Angles: []float64{circuit.Radians(45)}, NumTrue: 1, NumFalse: 1}))
	assert.Equal(t, []string{"P0PH\t45\tAT\t2\tIF\t0T"}, lines(rec.Instructions()))

	rec.Reset()
	none, err := embed.New(0, 3, []int{})
	require.NoError(t, err)
	require.NoError(t, e.Emit(Config{Embedder: none, Angles: []float64{circuit.Radians(10)}}))
	assert.Equal(t, []string{"PHAS\t10\tAT\t0"}, lines(rec.Instructions()))
}

func TestDiagEngineOneLine(t *testing.T) {
	e, rec := newTestEngine(6, StyleOneLine, 0)
	emb, err := embed.New(3, 6, []int{0, 2, 4})
	require.NoError(t, err)

	angles := []float64{0, circuit.Radians(90)}
	require.NoError(t, e.Emit(Config{Embedder: emb, Angles: angles, NumTrue: 1, NumFalse: 1}))
	assert.Equal(t, []string{"DIAG\tIF\t0T\t2F\t4M\tBY\t0\t90"}, lines(rec.Instructions()))
}

func TestDiagEngineOracular(t *testing.T) {
	e, rec := newTestEngine(3, StyleOracular, 1)
	emb, err := embed.New(2, 3, []int{0, 2})
	require.NoError(t, err)

	angles := []float64{circuit.Radians(10), circuit.Radians(20)}
	require.NoError(t, e.Emit(Config{Embedder: emb, Angles: angles}))
	assert.Equal(t, []string{
		"SIGX\tAT\t2\tIF\t0F",
		"P1PH\t10\tAT\t2",
		"SIGX\tAT\t2\tIF\t0F",
		"SIGX\tAT\t2\tIF\t0T",
		"P1PH\t20\tAT\t2",
		"SIGX\tAT\t2\tIF\t0T",
	}, lines(rec.Instructions()))
}

func TestDiagEngineOracularNeedsGroundedBit(t *testing.T) {
	e, rec := newTestEngine(3, StyleOracular, 0)
	emb, err := embed.New(1, 3, []int{0})
	require.NoError(t, err)

	err = e.Emit(Config{Embedder: emb, Angles: []float64{1, 2}})
	assert.ErrorIs(t, err, ErrNoGroundedBits)
	assert.Empty(t, rec.Instructions())
}

func TestDiagEngineRestoresDefault(t *testing.T) {
	e, _ := newTestEngine(4, StyleExact, 0)
	def := e.DefaultConfig()
	assert.True(t, e.Config().Embedder.Equal(def.Embedder))

	emb, err := embed.New(1, 4, []int{3})
	require.NoError(t, err)

	require.NoError(t, e.Emit(Config{Embedder: emb, Angles: []float64{1, 2}}))
	assert.True(t, e.Config().Embedder.IsIdentity())
	assert.Nil(t, e.Config().Angles)

	err = e.Emit(Config{Embedder: emb, Angles: []float64{1, 2, 3}})
	assert.ErrorIs(t, err, ErrAngleCount)
	assert.True(t, e.Config().Embedder.Equal(def.Embedder))
	assert.Zero(t, e.Config().NumTrue)
}

func TestDiagEngineRejectsConfig(t *testing.T) {
	e, _ := newTestEngine(4, StyleExact, 0)

	small, err := embed.New(1, 3, []int{0})
	require.NoError(t, err)
	assert.ErrorIs(t, e.Emit(Config{Embedder: small, Angles: []float64{1, 2}}), ErrInvalidConfig)

	emb, err := embed.New(1, 4, []int{0})
	require.NoError(t, err)
	assert.ErrorIs(t, e.Emit(Config{Embedder: emb, Angles: []float64{1}, NumTrue: 2}), ErrInvalidConfig)
}

type failingSink struct{ err error }

func (f failingSink) Emit(circuit.Instruction) error { return f.err }

func TestDiagEngineSinkErrorPropagates(t *testing.T) {
	boom := errors.New("disk full")
	e := NewDiagEngine(failingSink{boom}, 2, StyleOneLine, 0)
	emb, err := embed.New(1, 2, []int{1})
	require.NoError(t, err)

	err = e.Emit(Config{Embedder: emb, Angles: []float64{1, 2}})
	assert.Equal(t, boom, err)
	assert.True(t, e.Config().Embedder.IsIdentity())
}
