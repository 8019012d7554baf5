package infra

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

var initPC = caller()

func caller() Frame {
	var PCs [3]uintptr
	n := runtime.Callers(2, PCs[:])
	frames := runtime.CallersFrames(PCs[:n])
	frame, _ := frames.Next()
	return Frame(frame.PC + 1)
}

func TestFrameFormat(t *testing.T) {
	testcases := []struct {
		Frame
		format string
		want   string
	}{
		{initPC, "%s", "err_stack_test.go"},
		{initPC, "%n", "init"},
		{Frame(0), "%s", "unknownFile"},
		{Frame(0), "%n", "unknownFunc"},
		{Frame(0), "%d", "0"},
	}

	for _, tc := range testcases {
		frameRes := fmt.Sprintf(tc.format, tc.Frame)
		require.Equal(t, tc.want, frameRes)
	}

	verbose := fmt.Sprintf("%v", initPC)
	require.True(t, strings.HasPrefix(verbose, "err_stack_test.go:"))

	full := fmt.Sprintf("%+s", initPC)
	require.True(t, strings.HasPrefix(full, "github.com/benz9527/xtree/lib/infra.init\n\t"))
	require.True(t, strings.HasSuffix(full, "lib/infra/err_stack_test.go"))
}

func TestFrameMarshalText(t *testing.T) {
	text, err := initPC.MarshalText()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(text), "github.com/benz9527/xtree/lib/infra.init "))

	text, err = Frame(0).MarshalText()
	require.NoError(t, err)
	require.Equal(t, "unknownFrame", string(text))
}

func TestErrorStack(t *testing.T) {
	es := NewErrorStack("tree corrupted")
	require.Equal(t, "tree corrupted", es.Error())
	require.NotEmpty(t, es.Frames())
	require.Equal(t, "TestErrorStack", fmt.Sprintf("%n", es.Frames()[0]))
	require.Nil(t, errors.Unwrap(es))

	verbose := fmt.Sprintf("%+v", es)
	require.True(t, strings.HasPrefix(verbose, "tree corrupted\n"))
	require.Contains(t, verbose, "err_stack_test.go")
}

func TestWrapErrorStack(t *testing.T) {
	require.Nil(t, WrapErrorStack(nil, "ignored"))

	cause := errors.New("red violation")
	es := WrapErrorStack(cause, "key %d", 42)
	require.Equal(t, "key 42: red violation", es.Error())
	require.ErrorIs(t, es, cause)

	var target *ErrorStack
	require.ErrorAs(t, fmt.Errorf("outer: %w", es), &target)
	require.Equal(t, es, target)

	es = WrapErrorStack(cause, "")
	require.Equal(t, "red violation", es.Error())
}

func TestErrorStackMarshalLogObject(t *testing.T) {
	enc := zapcore.NewMapObjectEncoder()
	es := NewErrorStack("black violation")
	require.NoError(t, es.MarshalLogObject(enc))
	require.Equal(t, "black violation", enc.Fields["error"])
	frames, ok := enc.Fields["errorStack"].([]any)
	require.True(t, ok)
	require.Len(t, frames, len(es.Frames()))
}
