package tool

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrDuplicateTool is returned when two tools share a name.
var ErrDuplicateTool = errors.New("duplicate tool name")

// Registry maps tool names to tools. It is built once and not mutated
// afterwards; use With to derive a registry with additional tools.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates a registry holding the given tools.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if err := r.register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(t Tool) error {
	name := t.Declaration().Name
	if name == "" {
		return errors.New("tool name is required")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.tools[name] = t
	return nil
}

// With returns a new registry containing this registry's tools plus extra.
// The receiver is left untouched.
func (r *Registry) With(extra ...Tool) (*Registry, error) {
	all := make([]Tool, 0, r.Len()+len(extra))
	if r != nil {
		for _, name := range r.Names() {
			all = append(all, r.tools[name])
		}
	}
	all = append(all, extra...)
	return NewRegistry(all...)
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	if r == nil {
		return nil, false
	}
	t, ok := r.tools[name]
	return t, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.tools)
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Declarations returns every tool declaration sorted by name.
func (r *Registry) Declarations() []Declaration {
	names := r.Names()
	decls := make([]Declaration, 0, len(names))
	for _, name := range names {
		decls = append(decls, r.tools[name].Declaration())
	}
	return decls
}

// Execute dispatches a call by name. Unknown tools, bad arguments and
// executor failures come back as error results, not Go errors. Errors
// returned are the context's when the call was cancelled, or the cause of
// an executor error marked with Abort.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (Result, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return Result{
			Content: fmt.Sprintf("Error: tool %q does not exist.\n\nAvailable tools:\n%s", name, strings.Join(r.Names(), "\n")),
			IsError: true,
		}, nil
	}

	out, err := t.Execute(ctx, args)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		var abort *abortError
		if errors.As(err, &abort) {
			return Result{}, abort.cause
		}
		return Result{Content: ErrorText(err), IsError: true}, nil
	}
	return Result{Content: out}, nil
}

// ErrorText renders err the way tool failures are shown to the model.
func ErrorText(err error) string {
	msg := err.Error()
	if strings.HasPrefix(msg, "Error:") {
		return msg
	}
	return "Error: " + msg
}

// Abort marks err as fatal to the whole turn. The registry returns its
// cause instead of folding it into a result for the model.
func Abort(err error) error {
	if err == nil {
		return nil
	}
	return &abortError{cause: err}
}

type abortError struct {
	cause error
}

func (e *abortError) Error() string { return e.cause.Error() }

func (e *abortError) Unwrap() error { return e.cause }
