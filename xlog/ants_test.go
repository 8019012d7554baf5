package xlog

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	antsv2 "github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestAntsXLogger_Nil(t *testing.T) {
	var logger *AntsXLogger
	logger.Printf("test %d", 123)
	require.Nil(t, NewAntsXLogger(nil))
}

func TestAntsXLogger_ParentLogLevelChanged(t *testing.T) {
	w := &syncBuffer{}
	parentLogger := NewXLogger(
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerEncoder(JSON),
		WithXLoggerWriter(w),
		WithXLoggerTimeEncoder(zapcore.ISO8601TimeEncoder),
		WithXLoggerLevelEncoder(zapcore.CapitalLevelEncoder),
	)
	logger := NewAntsXLogger(parentLogger)

	parentLogger.IncreaseLogLevel(zapcore.ErrorLevel+1)
	logger.Printf("test %d", 123)
	require.Empty(t, w.String())

	parentLogger.IncreaseLogLevel(zapcore.DebugLevel)
	logger.Printf("test %d", 456)
	out := w.String()
	require.Contains(t, out, `"component":"Ants"`)
	require.Contains(t, out, `"msg":"test 456"`)
	require.NotContains(t, out, `"callAt"`)
	_ = parentLogger.Sync()
}

func TestAntsXLogger_AntsPool(t *testing.T) {
	w := &syncBuffer{}
	parentLogger := NewXLogger(
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerEncoder(JSON),
		WithXLoggerWriter(w),
	)
	logger := NewAntsXLogger(parentLogger)

	p, err := antsv2.NewPool(10, antsv2.WithLogger(logger))
	require.NoError(t, err)
	defer p.Release()

	wg := sync.WaitGroup{}
	wg.Add(1)
	err = p.Submit(func() {
		defer wg.Done()
		parentLogger.Logf(LogLevelDebug.zapLevel(), "test %d", 123)
	})
	require.NoError(t, err)
	wg.Wait()

	err = p.Submit(func() {
		panic("xlogger panic in ants pool")
	})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return strings.Contains(w.String(), "xlogger panic in ants pool")
	}, time.Second, 10*time.Millisecond)
	require.Contains(t, w.String(), `"msg":"test 123"`)
}

type syncBuffer struct {
	lock sync.Mutex
	buf  bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.buf.Reset()
}
