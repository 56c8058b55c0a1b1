package tinqer

import "go.uber.org/zap"

// logger is package-level and nil-safe by default: plan construction and
// render tracing are silent until a caller opts in with SetLogger, the
// same opt-in-logging shape dolthub-go-mysql-server's engine gives callers
// over its own zap logger.
var logger = zap.NewNop().Sugar()

// SetLogger replaces the logger used for plan construction and SQL render
// tracing. Passing nil restores the no-op logger.
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		logger = zap.NewNop().Sugar()
		return
	}
	logger = l
}
