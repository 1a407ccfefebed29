package dispatch

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chaingateway/internal/apperr"
)

// Param describes one argument a tool accepts. Validation here is
// intentionally shallow (presence + primitive type) — the handler still
// owns domain validation (unknown network, malformed address, etc).
type Param struct {
	Name     string
	Type     string // "string", "number", "boolean", "array"
	Required bool
}

// Schema is a tool or resource's declared name, description, and
// parameter list, the way an MCP tool/resource manifest is shaped (spec
// §6.1/§6.3).
type Schema struct {
	Name        string
	Description string
	Params      []Param
}

// ToolHandler executes a validated tool call and returns its JSON-
// encodable payload.
type ToolHandler func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// ResourceHandler resolves a resource URI (already matched against its
// template) into its JSON-encodable payload.
type ResourceHandler func(ctx context.Context, uri string, params map[string]string) (interface{}, error)

type toolEntry struct {
	schema  Schema
	handler ToolHandler
}

type resourceEntry struct {
	schema   Schema
	template *uriTemplate
	handler  ResourceHandler
}

// Dispatcher owns the closed set of registered tools and resources and
// routes calls to their handlers, attaching a correlation id to every
// call's logs.
type Dispatcher struct {
	logger    *zap.Logger
	tools     map[string]toolEntry
	resources []resourceEntry
}

// New builds an empty Dispatcher. Call RegisterTool/RegisterResource to
// populate the closed set before serving any calls.
func New(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		logger: logger,
		tools:  make(map[string]toolEntry),
	}
}

// RegisterTool adds name to the closed tool set. Registering the same
// name twice is a programmer error and panics at startup rather than
// silently shadowing a handler.
func (d *Dispatcher) RegisterTool(schema Schema, handler ToolHandler) {
	if _, exists := d.tools[schema.Name]; exists {
		panic(fmt.Sprintf("dispatch: tool %q already registered", schema.Name))
	}
	d.tools[schema.Name] = toolEntry{schema: schema, handler: handler}
}

// RegisterResource adds a URI template to the closed resource set.
func (d *Dispatcher) RegisterResource(schema Schema, template string, handler ResourceHandler) {
	d.resources = append(d.resources, resourceEntry{
		schema:   schema,
		template: mustCompileTemplate(template),
		handler:  handler,
	})
}

// ToolNames returns the closed set of registered tool names.
func (d *Dispatcher) ToolNames() []string {
	names := make([]string, 0, len(d.tools))
	for name := range d.tools {
		names = append(names, name)
	}
	return names
}

// CallTool validates args against the tool's schema, invokes its
// handler, and renders the result (or typed error) into a ToolEnvelope.
// Every call gets a fresh correlation id logged alongside its outcome.
func (d *Dispatcher) CallTool(ctx context.Context, name string, args map[string]interface{}) ToolEnvelope {
	correlationID := uuid.New().String()
	logger := d.logger.With(zap.String("correlationId", correlationID), zap.String("tool", name))

	entry, ok := d.tools[name]
	if !ok {
		logger.Warn("unknown tool")
		return errEnvelope(apperr.Unsupported("dispatch tool", "unknown tool: %s", name))
	}

	if err := validateArgs(entry.schema, args); err != nil {
		logger.Warn("invalid arguments", zap.Error(err))
		return errEnvelope(err)
	}

	result, err := entry.handler(ctx, args)
	if err != nil {
		logger.Warn("tool call failed", zap.Error(err))
		return errEnvelope(err)
	}

	envelope, err := textEnvelope(result)
	if err != nil {
		logger.Error("encode tool result", zap.Error(err))
		return errEnvelope(apperr.Logic("encode result", "failed to encode response"))
	}

	logger.Info("tool call succeeded")
	return envelope
}

// ReadResource matches uri against every registered template in
// registration order and invokes the first match's handler.
func (d *Dispatcher) ReadResource(ctx context.Context, uri string) (ResourceEnvelope, error) {
	correlationID := uuid.New().String()
	logger := d.logger.With(zap.String("correlationId", correlationID), zap.String("uri", uri))

	for _, entry := range d.resources {
		params, ok := entry.template.match(uri)
		if !ok {
			continue
		}
		result, err := entry.handler(ctx, uri, params)
		if err != nil {
			logger.Warn("resource read failed", zap.Error(err))
			return ResourceEnvelope{}, err
		}
		raw, err := encodeJSON(result)
		if err != nil {
			return ResourceEnvelope{}, apperr.Logic("encode resource", "failed to encode response")
		}
		logger.Info("resource read succeeded")
		return ResourceEnvelope{Contents: []ResourceContent{{URI: uri, Text: raw}}}, nil
	}

	logger.Warn("no resource template matched")
	return ResourceEnvelope{}, apperr.NotFound("read resource", "no resource matches uri: %s", uri)
}

func validateArgs(schema Schema, args map[string]interface{}) error {
	for _, p := range schema.Params {
		value, present := args[p.Name]
		if !present {
			if p.Required {
				return apperr.Validation("validate arguments", "missing required parameter: %s", p.Name)
			}
			continue
		}
		if !matchesType(value, p.Type) {
			return apperr.Validation("validate arguments", "parameter %s must be of type %s", p.Name, p.Type)
		}
	}
	return nil
}

func matchesType(value interface{}, want string) bool {
	switch want {
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		switch value.(type) {
		case float64, int, int64, uint64:
			return true
		}
		return false
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]interface{})
		return ok
	default:
		return true
	}
}
