// Package tools maps tool names the model may call to typed handlers.
// Arguments are decoded into the handler's declared struct and validated
// before the handler runs; nothing is dispatched by reflection on names.
package tools

import (
	"context"
	"encoding/json"
	"path/filepath"
	"reflect"
	"strings"

	"sortly/internal/errors"
	"sortly/internal/llm"
	"sortly/internal/log"
	"sortly/pkg/types"

	"github.com/go-playground/validator/v10"
)

// Result is what a handler hands back to the orchestrator.
type Result struct {
	Output string
	Report types.MoveReport
}

// Spec declares a tool to the model.
type Spec struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

type handler func(ctx context.Context, raw json.RawMessage) (Result, error)

type entry struct {
	spec   Spec
	handle handler
}

// Registry is a closed set of tools. It is built once at startup and is not
// safe for concurrent registration.
type Registry struct {
	tools    map[string]entry
	order    []string
	validate *validator.Validate
}

func NewRegistry() *Registry {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("safename", validateSafeName)
	_ = v.RegisterValidation("abspath", validateAbsPath)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Registry{
		tools:    make(map[string]entry),
		validate: v,
	}
}

// Register adds a tool whose arguments decode into A. The handler only runs
// once the arguments have decoded and passed A's validate tags.
func Register[A any](r *Registry, spec Spec, fn func(ctx context.Context, args A) (Result, error)) error {
	if spec.Name == "" {
		return errors.New("tool name cannot be empty")
	}
	if fn == nil {
		return errors.Newf("tool %s has no handler", spec.Name)
	}
	if _, exists := r.tools[spec.Name]; exists {
		return errors.Newf("tool %s already registered", spec.Name)
	}
	if !json.Valid(spec.Parameters) {
		return errors.Newf("tool %s has an invalid parameter schema", spec.Name)
	}

	r.tools[spec.Name] = entry{
		spec: spec,
		handle: func(ctx context.Context, raw json.RawMessage) (Result, error) {
			var args A
			if err := json.Unmarshal(raw, &args); err != nil {
				return Result{}, errors.NewToolError("malformed tool arguments", spec.Name, errors.MalformedToolArguments, err)
			}
			if err := r.validate.Struct(args); err != nil {
				return Result{}, errors.NewToolError("malformed tool arguments", spec.Name, errors.MalformedToolArguments, err)
			}
			return fn(ctx, args)
		},
	}
	r.order = append(r.order, spec.Name)
	log.Debugf("Registered tool %s", spec.Name)
	return nil
}

// Names returns registered tool names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Definitions renders the registered tools in the chat-completion format.
func (r *Registry) Definitions() []llm.Tool {
	defs := make([]llm.Tool, 0, len(r.order))
	for _, name := range r.order {
		spec := r.tools[name].spec
		defs = append(defs, llm.Tool{
			Type: "function",
			Function: llm.FunctionSpec{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  spec.Parameters,
			},
		})
	}
	return defs
}

// Dispatch runs the tool named by call.
func (r *Registry) Dispatch(ctx context.Context, call llm.ToolCall) (Result, error) {
	e, ok := r.tools[call.Function.Name]
	if !ok {
		return Result{}, errors.NewToolError("unknown tool", call.Function.Name, errors.UnknownTool, nil)
	}
	raw := strings.TrimSpace(call.Function.Arguments)
	if raw == "" {
		raw = "{}"
	}
	return e.handle(ctx, json.RawMessage(raw))
}

// validateSafeName accepts a single path element: no separators, no dot
// segments, nothing absolute.
func validateSafeName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	switch {
	case strings.TrimSpace(name) == "", name == ".", name == "..":
		return false
	case strings.ContainsAny(name, `/\`), strings.ContainsRune(name, 0):
		return false
	case filepath.IsAbs(name), filepath.VolumeName(name) != "":
		return false
	}
	return true
}

func validateAbsPath(fl validator.FieldLevel) bool {
	return filepath.IsAbs(fl.Field().String())
}
