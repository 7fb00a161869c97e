package log

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
)

// defaultBufferSize is the number of entries a logger queues before dropping.
const defaultBufferSize = 1000

// Logger fans entries out to transporters through an async buffer.
type Logger struct {
	mu         sync.RWMutex
	level      Level
	buffer     *Buffer
	baseFields map[string]any
}

// New creates a logger that emits entries at level or above.
func New(level Level, transporters ...Transporter) *Logger {
	return &Logger{
		level:      level,
		buffer:     NewBuffer(defaultBufferSize, transporters...),
		baseFields: make(map[string]any),
	}
}

// SetLevel changes the minimum level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Level returns the minimum level.
func (l *Logger) Level() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// With returns a child logger sharing the buffer and carrying extra fields.
func (l *Logger) With(keysAndValues ...any) *Logger {
	l.mu.RLock()
	fields := make(map[string]any, len(l.baseFields)+len(keysAndValues)/2)
	for k, v := range l.baseFields {
		fields[k] = v
	}
	level := l.level
	l.mu.RUnlock()

	mergePairs(fields, keysAndValues)

	return &Logger{
		level:      level,
		buffer:     l.buffer,
		baseFields: fields,
	}
}

// Close flushes queued entries and closes the transporters.
func (l *Logger) Close() {
	l.buffer.Close()
}

// callerDepth skips runtime.Caller, emit and the exported method.
const callerDepth = 3

func (l *Logger) emit(depth int, level Level, ctx context.Context, msg string, keysAndValues []any) {
	l.mu.RLock()
	if !l.level.Enables(level) {
		l.mu.RUnlock()
		return
	}
	entry := NewEntry(level, msg)
	for k, v := range l.baseFields {
		entry.Fields[k] = v
	}
	l.mu.RUnlock()

	entry.Caller = caller(depth)

	if ctx != nil {
		entry.RequestID = RequestIDFromContext(ctx)
		for k, v := range FieldsFromContext(ctx) {
			entry.Fields[k] = v
		}
	}
	mergePairs(entry.Fields, keysAndValues)

	l.buffer.Send(*entry)
}

// mergePairs copies alternating key/value pairs into fields.
// Non-string keys and a trailing key without a value are skipped.
func mergePairs(fields map[string]any, keysAndValues []any) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
}

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

func (l *Logger) Trace(msg string, keysAndValues ...any) {
	l.emit(callerDepth, Trace, nil, msg, keysAndValues)
}

func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.emit(callerDepth, Debug, nil, msg, keysAndValues)
}

func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.emit(callerDepth, Info, nil, msg, keysAndValues)
}

func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.emit(callerDepth, Warn, nil, msg, keysAndValues)
}

func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.emit(callerDepth, Error, nil, msg, keysAndValues)
}

// Fatal logs at Fatal level. It does not exit.
func (l *Logger) Fatal(msg string, keysAndValues ...any) {
	l.emit(callerDepth, Fatal, nil, msg, keysAndValues)
}

func (l *Logger) TraceCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.emit(callerDepth, Trace, ctx, msg, keysAndValues)
}

func (l *Logger) DebugCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.emit(callerDepth, Debug, ctx, msg, keysAndValues)
}

func (l *Logger) InfoCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.emit(callerDepth, Info, ctx, msg, keysAndValues)
}

func (l *Logger) WarnCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.emit(callerDepth, Warn, ctx, msg, keysAndValues)
}

func (l *Logger) ErrorCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.emit(callerDepth, Error, ctx, msg, keysAndValues)
}

func (l *Logger) FatalCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.emit(callerDepth, Fatal, ctx, msg, keysAndValues)
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger

	discardOnce sync.Once
	discard     *Logger
)

// SetDefault installs the process-wide logger. Passing nil restores the
// silent logger.
func SetDefault(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// Default returns the process-wide logger, or a shared silent one when none
// is installed.
func Default() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	discardOnce.Do(func() {
		discard = &Logger{
			level:      Fatal + 1,
			buffer:     NewBuffer(1, noopTransporter{}),
			baseFields: map[string]any{},
		}
	})
	return discard
}

type noopTransporter struct{}

func (noopTransporter) Name() string      { return "noop" }
func (noopTransporter) Write(Entry) error { return nil }
func (noopTransporter) Close() error      { return nil }

// The Global functions log through Default and report their own caller.

func GlobalTrace(msg string, keysAndValues ...any) {
	Default().emit(callerDepth, Trace, nil, msg, keysAndValues)
}

func GlobalDebug(msg string, keysAndValues ...any) {
	Default().emit(callerDepth, Debug, nil, msg, keysAndValues)
}

func GlobalInfo(msg string, keysAndValues ...any) {
	Default().emit(callerDepth, Info, nil, msg, keysAndValues)
}

func GlobalWarn(msg string, keysAndValues ...any) {
	Default().emit(callerDepth, Warn, nil, msg, keysAndValues)
}

func GlobalError(msg string, keysAndValues ...any) {
	Default().emit(callerDepth, Error, nil, msg, keysAndValues)
}

func GlobalFatal(msg string, keysAndValues ...any) {
	Default().emit(callerDepth, Fatal, nil, msg, keysAndValues)
}

func GlobalTraceCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().emit(callerDepth, Trace, ctx, msg, keysAndValues)
}

func GlobalDebugCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().emit(callerDepth, Debug, ctx, msg, keysAndValues)
}

func GlobalInfoCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().emit(callerDepth, Info, ctx, msg, keysAndValues)
}

func GlobalWarnCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().emit(callerDepth, Warn, ctx, msg, keysAndValues)
}

func GlobalErrorCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().emit(callerDepth, Error, ctx, msg, keysAndValues)
}

func GlobalFatalCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().emit(callerDepth, Fatal, ctx, msg, keysAndValues)
}
