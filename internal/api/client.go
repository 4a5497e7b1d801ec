// Package api is the HTTP + SSE client for the local agent runtime.
// Every call takes a context; failures are returned as *Error values
// suitable for rendering as transient notices, never panics.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/user/lookout/internal/types"
)

// Client talks to one runtime instance.
type Client struct {
	baseURL string
	http    *http.Client
	// streamClient has no timeout: SSE connections are long-lived and
	// are bounded by the request context instead.
	streamClient *http.Client
}

// New creates a Client for the runtime at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{Timeout: 30 * time.Second},
		streamClient: &http.Client{},
	}
}

// BaseURL returns the configured runtime base URL.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Idempotency-Key", types.NewIdempotencyKey())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return decodeError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Health checks GET /health.
func (c *Client) Health(ctx context.Context) (*types.Health, error) {
	var h types.Health
	if err := c.get(ctx, "/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// ThreadQuery filters the thread summary listing.
type ThreadQuery struct {
	Search          string
	Limit           int
	IncludeArchived bool
}

// ThreadSummaries lists threads, most recently updated first.
func (c *Client) ThreadSummaries(ctx context.Context, q ThreadQuery) ([]types.ThreadSummary, error) {
	query := url.Values{}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.IncludeArchived {
		query.Set("include_archived", "true")
	}
	var out []types.ThreadSummary
	if err := c.get(ctx, "/v1/threads/summary", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ThreadDetail fetches the full snapshot for one thread.
func (c *Client) ThreadDetail(ctx context.Context, id types.ThreadID) (*types.ThreadDetail, error) {
	var out types.ThreadDetail
	if err := c.get(ctx, "/v1/threads/"+url.PathEscape(string(id)), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateThreadRequest starts a new thread.
type CreateThreadRequest struct {
	Model        string `json:"model,omitempty"`
	Workspace    string `json:"workspace,omitempty"`
	Mode         string `json:"mode,omitempty"`
	SystemPrompt string `json:"system_prompt,omitempty"`
}

// CreateThread creates a thread.
func (c *Client) CreateThread(ctx context.Context, req CreateThreadRequest) (*types.Thread, error) {
	var out types.Thread
	if err := c.post(ctx, "/v1/threads", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateThreadRequest patches thread metadata.
type UpdateThreadRequest struct {
	Title    *string `json:"title,omitempty"`
	Archived *bool   `json:"archived,omitempty"`
}

// UpdateThread patches thread metadata.
func (c *Client) UpdateThread(ctx context.Context, id types.ThreadID, req UpdateThreadRequest) (*types.Thread, error) {
	var out types.Thread
	if err := c.patch(ctx, "/v1/threads/"+url.PathEscape(string(id)), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResumeThread reactivates an archived or idle thread.
func (c *Client) ResumeThread(ctx context.Context, id types.ThreadID) (*types.Thread, error) {
	var out types.Thread
	if err := c.post(ctx, "/v1/threads/"+url.PathEscape(string(id))+"/resume", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForkThread clones a thread into a new one.
func (c *Client) ForkThread(ctx context.Context, id types.ThreadID) (*types.Thread, error) {
	var out types.Thread
	if err := c.post(ctx, "/v1/threads/"+url.PathEscape(string(id))+"/fork", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompactThread asks the runtime to compact the thread's history.
func (c *Client) CompactThread(ctx context.Context, id types.ThreadID) (*types.Thread, error) {
	var out types.Thread
	if err := c.post(ctx, "/v1/threads/"+url.PathEscape(string(id))+"/compact", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartTurnRequest submits a prompt to a thread.
type StartTurnRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model,omitempty"`
}

// StartTurnResult is the response to a turn submission.
type StartTurnResult struct {
	Thread types.Thread `json:"thread"`
	Turn   types.Turn   `json:"turn"`
}

// StartTurn submits a new turn on a thread.
func (c *Client) StartTurn(ctx context.Context, id types.ThreadID, req StartTurnRequest) (*StartTurnResult, error) {
	var out StartTurnResult
	if err := c.post(ctx, "/v1/threads/"+url.PathEscape(string(id))+"/turns", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SteerTurn injects additional guidance into an in-progress turn.
func (c *Client) SteerTurn(ctx context.Context, thread types.ThreadID, turn types.TurnID, message string) error {
	body := map[string]string{"message": message}
	path := "/v1/threads/" + url.PathEscape(string(thread)) + "/turns/" + url.PathEscape(string(turn)) + "/steer"
	return c.post(ctx, path, body, nil)
}

// InterruptTurn requests cancellation of an in-progress turn.
func (c *Client) InterruptTurn(ctx context.Context, thread types.ThreadID, turn types.TurnID) error {
	path := "/v1/threads/" + url.PathEscape(string(thread)) + "/turns/" + url.PathEscape(string(turn)) + "/interrupt"
	return c.post(ctx, path, nil, nil)
}

// Automations lists all automations.
func (c *Client) Automations(ctx context.Context) ([]types.Automation, error) {
	var out struct {
		Automations []types.Automation `json:"automations"`
	}
	if err := c.get(ctx, "/v1/automations", nil, &out); err != nil {
		return nil, err
	}
	return out.Automations, nil
}

// Automation fetches one automation.
func (c *Client) Automation(ctx context.Context, id types.AutomationID) (*types.Automation, error) {
	var out types.Automation
	if err := c.get(ctx, "/v1/automations/"+url.PathEscape(string(id)), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAutomationRequest creates a recurring prompt.
type CreateAutomationRequest struct {
	Name   string   `json:"name"`
	Prompt string   `json:"prompt"`
	RRule  string   `json:"rrule"`
	CWDs   []string `json:"cwds,omitempty"`
	Status string   `json:"status,omitempty"`
}

// CreateAutomation creates an automation.
func (c *Client) CreateAutomation(ctx context.Context, req CreateAutomationRequest) (*types.Automation, error) {
	var out types.Automation
	if err := c.post(ctx, "/v1/automations", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAutomationRequest patches an automation; nil fields are left
// unchanged.
type UpdateAutomationRequest struct {
	Name   *string   `json:"name,omitempty"`
	Prompt *string   `json:"prompt,omitempty"`
	RRule  *string   `json:"rrule,omitempty"`
	CWDs   *[]string `json:"cwds,omitempty"`
	Status *string   `json:"status,omitempty"`
}

// UpdateAutomation patches an automation.
func (c *Client) UpdateAutomation(ctx context.Context, id types.AutomationID, req UpdateAutomationRequest) (*types.Automation, error) {
	var out types.Automation
	if err := c.patch(ctx, "/v1/automations/"+url.PathEscape(string(id)), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAutomation removes an automation.
func (c *Client) DeleteAutomation(ctx context.Context, id types.AutomationID) error {
	return c.delete(ctx, "/v1/automations/"+url.PathEscape(string(id)), nil)
}

// PauseAutomation pauses scheduling for an automation.
func (c *Client) PauseAutomation(ctx context.Context, id types.AutomationID) (*types.Automation, error) {
	var out types.Automation
	if err := c.post(ctx, "/v1/automations/"+url.PathEscape(string(id))+"/pause", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResumeAutomation resumes scheduling for an automation.
func (c *Client) ResumeAutomation(ctx context.Context, id types.AutomationID) (*types.Automation, error) {
	var out types.Automation
	if err := c.post(ctx, "/v1/automations/"+url.PathEscape(string(id))+"/resume", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RunAutomation triggers an immediate run.
func (c *Client) RunAutomation(ctx context.Context, id types.AutomationID) (*types.AutomationRun, error) {
	var out types.AutomationRun
	if err := c.post(ctx, "/v1/automations/"+url.PathEscape(string(id))+"/run", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AutomationRuns lists recent runs for an automation.
func (c *Client) AutomationRuns(ctx context.Context, id types.AutomationID, limit int) ([]types.AutomationRun, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Runs []types.AutomationRun `json:"runs"`
	}
	if err := c.get(ctx, "/v1/automations/"+url.PathEscape(string(id))+"/runs", query, &out); err != nil {
		return nil, err
	}
	return out.Runs, nil
}

// Skills fetches the skill registry.
func (c *Client) Skills(ctx context.Context) (*types.SkillPage, error) {
	var out types.SkillPage
	if err := c.get(ctx, "/v1/skills", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MCPServers fetches the MCP server registry.
func (c *Client) MCPServers(ctx context.Context) ([]types.MCPServer, error) {
	var out struct {
		Servers []types.MCPServer `json:"servers"`
	}
	if err := c.get(ctx, "/v1/apps/mcp/servers", nil, &out); err != nil {
		return nil, err
	}
	return out.Servers, nil
}

// MCPTools fetches MCP tools, optionally filtered by server name.
func (c *Client) MCPTools(ctx context.Context, server string) ([]types.MCPTool, error) {
	query := url.Values{}
	if server != "" {
		query.Set("server", server)
	}
	var out struct {
		Tools []types.MCPTool `json:"tools"`
	}
	if err := c.get(ctx, "/v1/apps/mcp/tools", query, &out); err != nil {
		return nil, err
	}
	return out.Tools, nil
}

// Sessions lists stored sessions.
func (c *Client) Sessions(ctx context.Context, search string, limit int) ([]types.Session, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Sessions []types.Session `json:"sessions"`
	}
	if err := c.get(ctx, "/v1/sessions", query, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

// SessionDetail is the full stored session.
type SessionDetail struct {
	Metadata     types.Session     `json:"metadata"`
	Messages     []json.RawMessage `json:"messages"`
	SystemPrompt string            `json:"system_prompt,omitempty"`
}

// Session fetches one stored session.
func (c *Client) Session(ctx context.Context, id types.SessionID) (*SessionDetail, error) {
	var out SessionDetail
	if err := c.get(ctx, "/v1/sessions/"+url.PathEscape(string(id)), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSession removes a stored session.
func (c *Client) DeleteSession(ctx context.Context, id types.SessionID) error {
	return c.delete(ctx, "/v1/sessions/"+url.PathEscape(string(id)), nil)
}

// ResumeSessionThread bridges a stored session into a new live thread.
func (c *Client) ResumeSessionThread(ctx context.Context, id types.SessionID, model, mode string) (*types.ResumedThread, error) {
	body := map[string]string{}
	if model != "" {
		body["model"] = model
	}
	if mode != "" {
		body["mode"] = mode
	}
	var out types.ResumedThread
	if err := c.post(ctx, "/v1/sessions/"+url.PathEscape(string(id))+"/resume-thread", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Tasks lists background tasks with counts.
func (c *Client) Tasks(ctx context.Context, limit int) (*types.TaskPage, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out types.TaskPage
	if err := c.get(ctx, "/v1/tasks", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Task fetches one background task.
func (c *Client) Task(ctx context.Context, id types.TaskID) (*types.Task, error) {
	var out types.Task
	if err := c.get(ctx, "/v1/tasks/"+url.PathEscape(string(id)), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelTask requests cancellation of a background task.
func (c *Client) CancelTask(ctx context.Context, id types.TaskID) (*types.Task, error) {
	var out types.Task
	if err := c.post(ctx, "/v1/tasks/"+url.PathEscape(string(id))+"/cancel", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WorkspaceStatus fetches the runtime's workspace summary.
func (c *Client) WorkspaceStatus(ctx context.Context) (*types.WorkspaceStatus, error) {
	var out types.WorkspaceStatus
	if err := c.get(ctx, "/v1/workspace/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
