package types

import (
	"encoding/json"
	"time"
)

// Event is one server-sent event from a thread's event stream. Sequence
// numbers are assigned by the runtime per thread and are strictly
// increasing; a zero Seq means the event carried no sequence number.
type Event struct {
	Event     string          `json:"event"`
	Seq       int64           `json:"seq,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
	ThreadID  ThreadID        `json:"thread_id,omitempty"`
	TurnID    TurnID          `json:"turn_id,omitempty"`
	ItemID    ItemID          `json:"item_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// ThreadSummary is one row of GET /v1/threads/summary.
type ThreadSummary struct {
	ID               ThreadID  `json:"id"`
	Title            string    `json:"title"`
	Preview          string    `json:"preview"`
	Model            string    `json:"model"`
	Mode             string    `json:"mode"`
	Archived         bool      `json:"archived"`
	UpdatedAt        time.Time `json:"updated_at"`
	LatestTurnID     TurnID    `json:"latest_turn_id,omitempty"`
	LatestTurnStatus string    `json:"latest_turn_status,omitempty"`
}

// Thread is the runtime's thread record.
type Thread struct {
	ID           ThreadID  `json:"id"`
	Title        string    `json:"title"`
	Model        string    `json:"model"`
	Mode         string    `json:"mode"`
	Workspace    string    `json:"workspace,omitempty"`
	Archived     bool      `json:"archived"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ParentThread ThreadID  `json:"parent_thread_id,omitempty"`
}

// Turn is one request/response cycle within a thread.
type Turn struct {
	ID          TurnID     `json:"id"`
	ThreadID    ThreadID   `json:"thread_id"`
	Status      string     `json:"status"`
	Prompt      string     `json:"prompt,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Turn status values reported by the runtime.
const (
	TurnQueued      = "queued"
	TurnInProgress  = "in_progress"
	TurnCompleted   = "completed"
	TurnFailed      = "failed"
	TurnInterrupted = "interrupted"
	TurnCanceled    = "canceled"
)

// Item is a sub-event of a turn: a message, tool call, file change, etc.
type Item struct {
	ID      ItemID          `json:"id"`
	TurnID  TurnID          `json:"turn_id"`
	Kind    string          `json:"kind"`
	Status  string          `json:"status,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
}

// ThreadDetail is the full snapshot returned by GET /v1/threads/{id}.
// LatestSeq is the event sequence baseline the snapshot reflects.
type ThreadDetail struct {
	Thread    Thread `json:"thread"`
	Turns     []Turn `json:"turns"`
	Items     []Item `json:"items"`
	LatestSeq int64  `json:"latest_seq"`
}

// Automation is a server-scheduled recurring prompt. Scheduling and run
// execution happen inside the runtime; the client only renders and
// mutates these records.
type Automation struct {
	ID        AutomationID `json:"id"`
	Name      string       `json:"name"`
	Prompt    string       `json:"prompt"`
	RRule     string       `json:"rrule"`
	CWDs      []string     `json:"cwds,omitempty"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	NextRunAt *time.Time   `json:"next_run_at,omitempty"`
	LastRunAt *time.Time   `json:"last_run_at,omitempty"`
}

// Automation status values.
const (
	AutomationActive = "active"
	AutomationPaused = "paused"
)

// AutomationRun is one execution of an automation.
type AutomationRun struct {
	ID           string       `json:"id"`
	AutomationID AutomationID `json:"automation_id"`
	ScheduledFor time.Time    `json:"scheduled_for"`
	Status       string       `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	StartedAt    *time.Time   `json:"started_at,omitempty"`
	EndedAt      *time.Time   `json:"ended_at,omitempty"`
	TaskID       TaskID       `json:"task_id,omitempty"`
	ThreadID     ThreadID     `json:"thread_id,omitempty"`
	TurnID       TurnID       `json:"turn_id,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// Task is a background task tracked by the runtime.
type Task struct {
	ID          TaskID     `json:"id"`
	Kind        string     `json:"kind"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	ThreadID    ThreadID   `json:"thread_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Task status values.
const (
	TaskQueued    = "queued"
	TaskRunning   = "running"
	TaskCompleted = "completed"
	TaskFailed    = "failed"
	TaskCanceled  = "canceled"
)

// TaskCounts summarises tasks by status.
type TaskCounts struct {
	Queued    int `json:"queued"`
	Running   int `json:"running"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Canceled  int `json:"canceled"`
}

// TaskPage is the response of GET /v1/tasks.
type TaskPage struct {
	Tasks  []Task     `json:"tasks"`
	Counts TaskCounts `json:"counts"`
}

// Skill is one entry of the runtime's skill registry.
type Skill struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Path        string `json:"path"`
}

// SkillPage is the response of GET /v1/skills.
type SkillPage struct {
	Directory string   `json:"directory"`
	Warnings  []string `json:"warnings,omitempty"`
	Skills    []Skill  `json:"skills"`
}

// MCPServer describes one configured MCP server.
type MCPServer struct {
	Name          string   `json:"name"`
	Enabled       bool     `json:"enabled"`
	Required      bool     `json:"required"`
	Command       string   `json:"command,omitempty"`
	URL           string   `json:"url,omitempty"`
	Connected     bool     `json:"connected"`
	EnabledTools  []string `json:"enabled_tools,omitempty"`
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// MCPTool describes one tool exposed by an MCP server.
type MCPTool struct {
	Server       string          `json:"server"`
	Name         string          `json:"name"`
	PrefixedName string          `json:"prefixed_name"`
	Description  string          `json:"description,omitempty"`
	InputSchema  json.RawMessage `json:"input_schema,omitempty"`
}

// Session is stored conversation history the runtime can bridge back
// into a live thread.
type Session struct {
	ID           SessionID `json:"id"`
	Title        string    `json:"title"`
	Model        string    `json:"model"`
	Mode         string    `json:"mode,omitempty"`
	MessageCount int       `json:"message_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ResumedThread is the response of POST /v1/sessions/{id}/resume-thread.
type ResumedThread struct {
	ThreadID     ThreadID  `json:"thread_id"`
	SessionID    SessionID `json:"session_id"`
	MessageCount int       `json:"message_count"`
	Summary      string    `json:"summary"`
}

// Health is the response of GET /health.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
	Mode    string `json:"mode,omitempty"`
}

// WorkspaceStatus is the response of GET /v1/workspace/status.
type WorkspaceStatus struct {
	Workspace string `json:"workspace"`
	GitRepo   bool   `json:"git_repo"`
	Branch    string `json:"branch,omitempty"`
	Staged    int    `json:"staged"`
	Unstaged  int    `json:"unstaged"`
	Untracked int    `json:"untracked"`
	Ahead     *int   `json:"ahead,omitempty"`
	Behind    *int   `json:"behind,omitempty"`
}
