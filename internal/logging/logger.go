// file: internal/logging/logger.go
// version: 1.0.0
// guid: 0d2f4b6c-8e1a-4c3d-b5f7-9a1c3e5b7d8e

package logging

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	ulid "github.com/oklog/ulid/v2"
)

// ServiceLogger tags log lines with a service name and a run id so every
// line of one sync run can be grepped together.
type ServiceLogger struct {
	serviceName string
	runID       string
}

// NewServiceLogger creates a service logger. An empty runID gets a fresh one.
func NewServiceLogger(serviceName, runID string) *ServiceLogger {
	if runID == "" {
		runID = NewRunID()
	}
	return &ServiceLogger{serviceName: serviceName, runID: runID}
}

// NewRunID returns a sortable unique id for one operation.
func NewRunID() string {
	return ulid.Make().String()
}

// RunID returns the id attached to every line.
func (sl *ServiceLogger) RunID() string { return sl.runID }

// LogOperation logs the execution of a service operation
func (sl *ServiceLogger) LogOperation(operation string, details map[string]any) {
	log.Printf("[SERVICE] %s.%s%s [run-id: %s]",
		sl.serviceName, operation, formatDetails(details), sl.runID)
}

// LogWarning logs a recoverable problem
func (sl *ServiceLogger) LogWarning(operation string, message string) {
	log.Printf("[SERVICE-WARN] %s.%s: %s [run-id: %s]",
		sl.serviceName, operation, message, sl.runID)
}

// LogError logs an error from the service
func (sl *ServiceLogger) LogError(operation string, err error) {
	log.Printf("[SERVICE-ERROR] %s.%s: %v [run-id: %s]",
		sl.serviceName, operation, err, sl.runID)
}

// LogDebug logs a debug message from the service
func (sl *ServiceLogger) LogDebug(operation string, message string) {
	log.Printf("[SERVICE-DEBUG] %s.%s: %s [run-id: %s]",
		sl.serviceName, operation, message, sl.runID)
}

// LogDatabaseOperation logs a database operation with its performance
func LogDatabaseOperation(operation string, table string, duration time.Duration, rowsAffected int, err error) {
	if err != nil {
		log.Printf("[DB-ERROR] %s on %s failed in %v: %v", operation, table, duration, err)
		return
	}
	log.Printf("[DB] %s on %s completed in %v (%d rows)", operation, table, duration, rowsAffected)
}

// LogCacheHit logs a cache hit
func LogCacheHit(serviceName string, key string) {
	log.Printf("[CACHE-HIT] %s: %s", serviceName, key)
}

// LogCacheMiss logs a cache miss
func LogCacheMiss(serviceName string, key string) {
	log.Printf("[CACHE-MISS] %s: %s", serviceName, key)
}

// formatDetails renders details with sorted keys so lines are stable.
func formatDetails(details map[string]any) string {
	if len(details) == 0 {
		return ""
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, details[k]))
	}
	return " " + strings.Join(parts, " ")
}
