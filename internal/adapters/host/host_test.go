package host_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/memo/internal/adapters/host"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/lang"
)

func run(t *testing.T, env *lang.Env, source string) domain.EvaluationRecord {
	t.Helper()
	stmts, err := lang.Split(source)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	h := host.New(domain.DefaultOptions())
	rec, err := h.Execute(context.Background(), domain.Expression{
		Text: stmts[0].Text,
		Node: stmts[0].Node,
		Line: stmts[0].Line,
	}, env)
	require.NoError(t, err)
	return rec
}

func TestExecute_RangePrints(t *testing.T) {
	rec := run(t, lang.NewEnv(nil), "1:5")

	require.NotNil(t, rec.Value)
	assert.Equal(t, "integer", rec.TypeTag)
	assert.Equal(t, "[1] 1 2 3 4 5", rec.Printed)
	assert.Empty(t, rec.Messages)
	assert.False(t, rec.Failed())
}

func TestExecute_DescendingRange(t *testing.T) {
	rec := run(t, lang.NewEnv(nil), "3:1")
	assert.Equal(t, "[1] 3 2 1", rec.Printed)
}

func TestExecute_UndefinedVariableIsCaptured(t *testing.T) {
	rec := run(t, lang.NewEnv(nil), "undefinedVar")

	assert.True(t, rec.Failed())
	require.Len(t, rec.Messages, 1)
	assert.Equal(t, domain.SeverityError, rec.Messages[0].Severity)
	assert.Contains(t, rec.Messages[0].Text, "object 'undefinedVar' not found")
	assert.Nil(t, rec.Value)
	assert.Empty(t, rec.Printed)
}

func TestExecute_AssignmentIsInvisible(t *testing.T) {
	env := lang.NewEnv(nil)
	rec := run(t, env, "x <- 1 + 2")

	assert.Empty(t, rec.Printed)
	require.NotNil(t, rec.Value)
	assert.Equal(t, int64(3), rec.Value.Data)

	v, err := env.Get("x")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.Data)
}

func TestExecute_SequentialAssignments(t *testing.T) {
	env := lang.NewEnv(nil)
	run(t, env, "x <- 1")
	run(t, env, "x <- x + 1")

	v, err := env.Get("x")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Data)
}

func TestExecute_Arithmetic(t *testing.T) {
	cases := []struct {
		source  string
		printed string
	}{
		{"1 + 2 * 3", "[1] 7"},
		{"(1 + 2) * 3", "[1] 9"},
		{"2 ^ 10", "[1] 1024"},
		{"7 %% 3", "[1] 1"},
		{"-7 %% 3", "[1] 2"},
		{"10 / 4", "[1] 2.5"},
		{"1:3 + 10", "[1] 11 12 13"},
		{"c(1, 2) + c(10, 20)", "[1] 11 22"},
		{"-(1:3)", "[1] -1 -2 -3"},
	}
	for _, tc := range cases {
		rec := run(t, lang.NewEnv(nil), tc.source)
		assert.Equal(t, tc.printed, rec.Printed, "source: %s", tc.source)
		assert.False(t, rec.Failed(), "source: %s", tc.source)
	}
}

func TestExecute_Comparisons(t *testing.T) {
	cases := map[string]string{
		"1 < 2":        "[1] TRUE",
		"2 <= 1":       "[1] FALSE",
		`"a" == "a"`:   "[1] TRUE",
		"TRUE && 1 > 2": "[1] FALSE",
		"FALSE || TRUE": "[1] TRUE",
		"!TRUE":         "[1] FALSE",
	}
	for source, printed := range cases {
		rec := run(t, lang.NewEnv(nil), source)
		assert.Equal(t, printed, rec.Printed, "source: %s", source)
	}
}

func TestExecute_Builtins(t *testing.T) {
	cases := map[string]string{
		"sum(1:10)":                  "[1] 55",
		"length(seq(2, 10, by = 2))": "[1] 5",
		"rep(1:2, times = 3)":        "[1] 1 2 1 2 1 2",
		"mean(1:4)":                  "[1] 2.5",
		"sqrt(c(4, 9))":              "[1] 2 3",
		"abs(-3)":                    "[1] 3",
		`paste("a", "b", sep = "-")`: `[1] "a-b"`,
		"seq(5)":                     "[1] 1 2 3 4 5",
	}
	for source, printed := range cases {
		rec := run(t, lang.NewEnv(nil), source)
		require.False(t, rec.Failed(), "source: %s, messages: %v", source, rec.Messages)
		assert.Equal(t, printed, rec.Printed, "source: %s", source)
	}
}

func TestExecute_CatCapturesStdout(t *testing.T) {
	rec := run(t, lang.NewEnv(nil), `cat("hello", "world")`)

	assert.Equal(t, "hello world", rec.Stdout)
	assert.Empty(t, rec.Printed)
	assert.False(t, rec.Failed())
}

func TestExecute_PrintCapturesStdoutOnce(t *testing.T) {
	rec := run(t, lang.NewEnv(nil), "print(1:3)")

	assert.Equal(t, "[1] 1 2 3\n", rec.Stdout)
	assert.Empty(t, rec.Printed, "explicit print suppresses auto-printing")
}

func TestExecute_WarningAndMessage(t *testing.T) {
	rec := run(t, lang.NewEnv(nil), `warning("careful")`)
	require.Len(t, rec.Messages, 1)
	assert.Equal(t, domain.SeverityWarning, rec.Messages[0].Severity)
	assert.Equal(t, "careful", rec.Messages[0].Text)
	assert.False(t, rec.Failed())

	rec = run(t, lang.NewEnv(nil), `message("fyi")`)
	require.Len(t, rec.Messages, 1)
	assert.Equal(t, domain.SeverityMessage, rec.Messages[0].Severity)
}

func TestExecute_StopIsCapturedNotFatal(t *testing.T) {
	rec := run(t, lang.NewEnv(nil), `stop("boom")`)

	assert.True(t, rec.Failed())
	require.Len(t, rec.Messages, 1)
	assert.Contains(t, rec.Messages[0].Text, "boom")
}

func TestExecute_PlotProducesGraphics(t *testing.T) {
	rec := run(t, lang.NewEnv(nil), "plot(1:10)")

	require.NotNil(t, rec.Graphics)
	assert.Equal(t, "svg", rec.Graphics.Format)
	assert.Contains(t, string(rec.Graphics.Data), "<svg")
	assert.False(t, rec.Failed())
}

func TestExecute_PlotIsDeterministic(t *testing.T) {
	a := run(t, lang.NewEnv(nil), "plot(1:10, (1:10) ^ 2)")
	b := run(t, lang.NewEnv(nil), "plot(1:10, (1:10) ^ 2)")

	require.NotNil(t, a.Graphics)
	require.NotNil(t, b.Graphics)
	assert.Equal(t, a.Graphics.Data, b.Graphics.Data)
}

func TestExecute_DevNewYieldsHandle(t *testing.T) {
	env := lang.NewEnv(nil)
	rec := run(t, env, "h <- dev_new()")

	require.NotNil(t, rec.Value)
	assert.Equal(t, "externalptr", rec.TypeTag)

	v, err := env.Get("h")
	require.NoError(t, err)
	assert.Equal(t, lang.KindHandle, v.Kind)
}

func TestExecute_RmDeletesBinding(t *testing.T) {
	env := lang.NewEnv(nil)
	run(t, env, "x <- 1")
	rec := run(t, env, "rm(x)")

	assert.False(t, rec.Failed())
	assert.False(t, env.Has("x"))
}

func TestExecute_RmMissingWarns(t *testing.T) {
	rec := run(t, lang.NewEnv(nil), "rm(ghost)")

	require.Len(t, rec.Messages, 1)
	assert.Equal(t, domain.SeverityWarning, rec.Messages[0].Severity)
	assert.False(t, rec.Failed())
}

func TestExecute_UnknownFunction(t *testing.T) {
	rec := run(t, lang.NewEnv(nil), "nope(1)")

	assert.True(t, rec.Failed())
	assert.Contains(t, rec.Messages[0].Text, `could not find function "nope"`)
}

func TestExecute_ParseFailureIsCaptured(t *testing.T) {
	stmts := lang.SplitLenient("y <- * 2")
	require.Len(t, stmts, 1)
	require.Error(t, stmts[0].Err)

	h := host.New(domain.DefaultOptions())
	rec, err := h.Execute(context.Background(), domain.Expression{
		Text:     stmts[0].Text,
		ParseErr: stmts[0].Err,
	}, lang.NewEnv(nil))
	require.NoError(t, err, "a parse failure is captured, not a batch error")

	assert.True(t, rec.Failed())
	require.Len(t, rec.Messages, 1)
	assert.Contains(t, rec.Messages[0].Text, "Error: ")
	assert.Nil(t, rec.Value)
}

func TestExecute_CanceledContextAbortsBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stmts, err := lang.Split("1 + 1")
	require.NoError(t, err)

	h := host.New(domain.DefaultOptions())
	_, err = h.Execute(ctx, domain.Expression{Text: stmts[0].Text, Node: stmts[0].Node}, lang.NewEnv(nil))
	assert.Error(t, err)
}

func TestFormatWidthWraps(t *testing.T) {
	opts := domain.DefaultOptions()
	opts.Width = 20

	stmts, err := lang.Split("1:10")
	require.NoError(t, err)

	h := host.New(opts)
	rec, err := h.Execute(context.Background(), domain.Expression{Text: stmts[0].Text, Node: stmts[0].Node}, lang.NewEnv(nil))
	require.NoError(t, err)

	assert.Equal(t, " [1]  1  2  3  4  5\n [6]  6  7  8  9 10", rec.Printed)
}
