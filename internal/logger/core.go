package logger

import (
	"go.uber.org/zap/zapcore"
)

// DBCore is a Zap Core that mirrors every entry it writes into the DB writer.
type DBCore struct {
	zapcore.Core
	writer *DBLogWriter
}

// NewDBCore wraps an existing core and adds DB logging
func NewDBCore(baseCore zapcore.Core, writer *DBLogWriter) zapcore.Core {
	return &DBCore{
		Core:   baseCore,
		writer: writer,
	}
}

// With keeps the DB writer attached to derived loggers.
func (c *DBCore) With(fields []zapcore.Field) zapcore.Core {
	return &DBCore{
		Core:   c.Core.With(fields),
		writer: c.writer,
	}
}

// Write is called for every log entry
func (c *DBCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	var sessionID, jobID, testName string
	for _, f := range fields {
		switch f.Key {
		case "session_id":
			sessionID = f.String
		case "job_id":
			jobID = f.String
		case "test_name":
			testName = f.String
		}
	}

	// Caller.Function is only populated because the logger is built with AddCaller()
	c.writer.AddLog(LogEntry{
		Level:     entry.Level,
		Message:   entry.Message,
		SessionID: sessionID,
		JobID:     jobID,
		TestName:  testName,
		Caller:    entry.Caller.Function,
		Time:      entry.Time,
	})

	return c.Core.Write(entry, fields)
}

// Check decides if we should log this level
func (c *DBCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
