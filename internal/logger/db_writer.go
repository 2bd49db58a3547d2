package logger

import (
	"context"
	"fmt"
	"time"

	"career-console/internal/config"
	"career-console/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level     zapcore.Level
	Message   string
	SessionID string
	JobID     string
	TestName  string
	Caller    string // Function name
	Time      time.Time
}

// LogRecord is the document stored in the logs collection.
type LogRecord struct {
	AppID     string    `bson:"app_id"`
	Level     string    `bson:"level"`
	Message   string    `bson:"message"`
	SessionID string    `bson:"session_id,omitempty"`
	JobID     string    `bson:"job_id,omitempty"`
	TestName  string    `bson:"test_name,omitempty"`
	Caller    string    `bson:"caller,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	db      *mongo.Database
	logChan chan LogEntry
	appId   string
}

// NewDBLogWriter initializes the worker
func NewDBLogWriter(mongodb *database.MongodbDB, cfg *config.Config) *DBLogWriter {
	writer := &DBLogWriter{
		db:      mongodb.DB,
		logChan: make(chan LogEntry, 1000),
		appId:   cfg.AppId,
	}

	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap hook
func (w *DBLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
	default:
		// Channel full: drop rather than block the request path
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

func (w *DBLogWriter) processLogs() {
	for entry := range w.logChan {
		record := LogRecord{
			AppID:     w.appId,
			Level:     entry.Level.String(),
			Message:   entry.Message,
			SessionID: entry.SessionID,
			JobID:     entry.JobID,
			TestName:  entry.TestName,
			Caller:    entry.Caller,
			CreatedAt: entry.Time.UTC(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		// Insert errors are ignored to keep the app running
		w.db.Collection("logs").InsertOne(ctx, record)
		cancel()
	}
}
