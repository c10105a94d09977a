package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nerdgeek/tienda/pkg/logger"
	"go.uber.org/zap"
)

// Entry records one outbound notification attempt, successful or not.
// Notifications are best-effort and never retried, so the journal is the
// only place a dropped one leaves a trace.
type Entry struct {
	Channel   string    `json:"channel"` // "email" or "webhook"
	Target    string    `json:"target"`
	OrderID   uint      `json:"order_id"`
	Detail    string    `json:"detail"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Journal is an append-only JSON-lines audit log.
type Journal struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

func New(filePath string) (*Journal, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &Journal{
		filePath: filePath,
		file:     file,
	}, nil
}

// Append writes one entry and syncs it to disk.
func (j *Journal) Append(entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Log.Error("Journal: Failed to marshal entry",
			zap.String("channel", entry.Channel),
			zap.Error(err),
		)
		return err
	}

	if _, err := j.file.WriteString(string(data) + "\n"); err != nil {
		logger.Log.Error("Journal: Failed to write to file",
			zap.String("channel", entry.Channel),
			zap.Error(err),
		)
		return err
	}

	if err := j.file.Sync(); err != nil {
		logger.Log.Error("Journal: Failed to sync to disk",
			zap.String("channel", entry.Channel),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// ReadAll returns every recorded entry, oldest first.
func (j *Journal) ReadAll() ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.file.Seek(0, 0); err != nil {
		return nil, err
	}

	var entries []Entry
	scanner := bufio.NewScanner(j.file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			logger.Log.Warn("Journal: Skipping corrupt entry",
				zap.Error(err),
			)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Restore append position
	if _, err := j.file.Seek(0, 2); err != nil {
		return nil, err
	}

	return entries, nil
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}
