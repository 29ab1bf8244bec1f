package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	apperrors "github.com/gmsas95/habitlens/internal/errors"
	"github.com/gmsas95/habitlens/internal/metrics"
	"go.uber.org/zap"
)

// Skill is a named group of tools
type Skill interface {
	Name() string
	Description() string
	Version() string
	Tools() []Tool
	IsEnabled() bool
	Enable() error
	Disable() error
}

// Tool is a callable operation with a JSON-schema parameter description
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
	Handler     ToolHandler            `json:"-"`
}

// ToolHandler is the function that executes a tool
type ToolHandler func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Registry manages all skills
type Registry struct {
	skills  map[string]Skill
	tools   map[string]Tool
	owners  map[string]string
	mu      sync.RWMutex
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewRegistry creates a new skill registry
func NewRegistry(m *metrics.Metrics, logger *zap.Logger) *Registry {
	if m == nil {
		m = metrics.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		skills:  make(map[string]Skill),
		tools:   make(map[string]Tool),
		owners:  make(map[string]string),
		metrics: m,
		logger:  logger,
	}
}

// Register adds a skill and its tools to the registry
func (r *Registry) Register(skill Skill) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := skill.Name()
	if _, exists := r.skills[name]; exists {
		return fmt.Errorf("skill %s already registered", name)
	}
	for _, tool := range skill.Tools() {
		if owner, exists := r.owners[tool.Name]; exists {
			return fmt.Errorf("tool %s already registered by skill %s", tool.Name, owner)
		}
	}

	r.skills[name] = skill
	for _, tool := range skill.Tools() {
		r.tools[tool.Name] = tool
		r.owners[tool.Name] = name
	}

	return nil
}

// GetSkill retrieves a skill by name
func (r *Registry) GetSkill(name string) (Skill, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	skill, ok := r.skills[name]
	return skill, ok
}

// GetTool retrieves a tool of an enabled skill by name
func (r *Registry) GetTool(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	if !ok || !r.skills[r.owners[name]].IsEnabled() {
		return Tool{}, false
	}
	return tool, true
}

// ExecuteTool executes a tool by name with JSON-encoded arguments
func (r *Registry) ExecuteTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	tool, ok := r.GetTool(name)
	if !ok {
		r.metrics.RecordToolCall(false)
		return nil, apperrors.Wrap(fmt.Errorf("tool not found: %s", name), apperrors.ErrSkillNotFound.Code, apperrors.ErrSkillNotFound.Message)
	}

	argsMap := map[string]interface{}{}
	if len(args) > 0 && string(args) != "null" {
		if err := json.Unmarshal(args, &argsMap); err != nil {
			r.metrics.RecordToolCall(false)
			return nil, apperrors.Wrap(err, apperrors.ErrBadRequest.Code, "failed to parse tool arguments")
		}
	}

	result, err := tool.Handler(ctx, argsMap)
	r.metrics.RecordToolCall(err == nil)
	if err != nil {
		r.logger.Warn("Tool failed", zap.String("tool", name), zap.Error(err))
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, apperrors.ErrSkillExecution.Code, err.Error())
	}
	return result, nil
}

// ListSkills returns all registered skills ordered by name
func (r *Registry) ListSkills() []Skill {
	r.mu.RLock()
	defer r.mu.RUnlock()

	skills := make([]Skill, 0, len(r.skills))
	for _, skill := range r.skills {
		skills = append(skills, skill)
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].Name() < skills[j].Name() })
	return skills
}

// ListTools returns the tools of enabled skills ordered by name
func (r *Registry) ListTools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.tools))
	for name, tool := range r.tools {
		if r.skills[r.owners[name]].IsEnabled() {
			tools = append(tools, tool)
		}
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// GetToolDefinitions returns tool definitions in function-calling format
func (r *Registry) GetToolDefinitions() []map[string]interface{} {
	tools := r.ListTools()
	defs := make([]map[string]interface{}, 0, len(tools))
	for _, tool := range tools {
		defs = append(defs, map[string]interface{}{
			"type": "function",
			"function": map[string]interface{}{
				"name":        tool.Name,
				"description": tool.Description,
				"parameters":  tool.Parameters,
			},
		})
	}
	return defs
}

// BaseSkill provides a base implementation for skills
type BaseSkill struct {
	name        string
	description string
	version     string
	enabled     bool
	tools       []Tool
	mu          sync.RWMutex
}

// Name returns the skill name
func (s *BaseSkill) Name() string { return s.name }

// Description returns the skill description
func (s *BaseSkill) Description() string { return s.description }

// Version returns the skill version
func (s *BaseSkill) Version() string { return s.version }

// Tools returns the skill's tools
func (s *BaseSkill) Tools() []Tool { return s.tools }

// IsEnabled returns if the skill is enabled
func (s *BaseSkill) IsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

// Enable enables the skill
func (s *BaseSkill) Enable() error {
	s.mu.Lock()
	s.enabled = true
	s.mu.Unlock()
	return nil
}

// Disable disables the skill
func (s *BaseSkill) Disable() error {
	s.mu.Lock()
	s.enabled = false
	s.mu.Unlock()
	return nil
}

// NewBaseSkill creates a new base skill
func NewBaseSkill(name, description, version string) *BaseSkill {
	return &BaseSkill{
		name:        name,
		description: description,
		version:     version,
		enabled:     true,
		tools:       []Tool{},
	}
}

// AddTool adds a tool to the skill
func (s *BaseSkill) AddTool(tool Tool) {
	s.tools = append(s.tools, tool)
}

// StringArg returns a string argument or the default
func StringArg(args map[string]interface{}, key, defaultVal string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return defaultVal
}

// BoolArg returns a boolean argument or the default
func BoolArg(args map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return defaultVal
}

// IntArg returns a numeric argument as int or the default. JSON numbers
// decode as float64.
func IntArg(args map[string]interface{}, key string, defaultVal int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return defaultVal
}
