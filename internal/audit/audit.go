// Package audit keeps a local append-only record of approval requests
// seen per thread, so the history survives dashboard restarts and can
// be reviewed from the command line.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/user/lookout/internal/approval"
	"github.com/user/lookout/internal/types"
)

// Record is one line in a thread's approvals log.
type Record struct {
	ThreadID   types.ThreadID    `json:"thread_id"`
	Approval   approval.Approval `json:"approval"`
	RecordedAt time.Time         `json:"recorded_at"`
}

// Log is a JSONL-backed append-only approvals log. Records live in
// threads/<threadID>/approvals.jsonl under the data directory.
type Log struct {
	root  string
	mu    sync.Mutex
	locks map[types.ThreadID]*sync.Mutex
}

// NewLog creates a file-backed log rooted at the given directory.
func NewLog(root string) *Log {
	return &Log{
		root:  root,
		locks: make(map[types.ThreadID]*sync.Mutex),
	}
}

func (l *Log) getLock(id types.ThreadID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lock, ok := l.locks[id]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	l.locks[id] = lock
	return lock
}

func (l *Log) path(id types.ThreadID) string {
	return filepath.Join(l.root, "threads", string(id), "approvals.jsonl")
}

// Append records an approval for the thread.
func (l *Log) Append(id types.ThreadID, a approval.Approval) error {
	lock := l.getLock(id)
	lock.Lock()
	defer lock.Unlock()

	dir := filepath.Dir(l.path(id))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create thread dir: %w", err)
	}

	record := Record{ThreadID: id, Approval: a, RecordedAt: time.Now().UTC()}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	f, err := os.OpenFile(l.path(id), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open approvals log: %w", err)
	}
	defer f.Close()

	data = append(data, '\n')
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// Tail returns the last N records for the thread, oldest first.
func (l *Log) Tail(id types.ThreadID, limit int) ([]Record, error) {
	lock := l.getLock(id)
	lock.Lock()
	defer lock.Unlock()

	f, err := os.Open(l.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open approvals log: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var record Record
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan approvals log: %w", err)
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

// Count returns the number of records for the thread.
func (l *Log) Count(id types.ThreadID) (int64, error) {
	lock := l.getLock(id)
	lock.Lock()
	defer lock.Unlock()

	f, err := os.Open(l.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("open approvals log: %w", err)
	}
	defer f.Close()

	var count int64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scan approvals log: %w", err)
	}
	return count, nil
}
