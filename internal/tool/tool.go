package tool

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Tool is a single callable capability exposed to the model.
type Tool interface {
	Declaration() Declaration
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// Validator is implemented by request types that check their own fields.
type Validator interface {
	Validate() error
}

// Func runs a tool with its decoded request.
type Func[Req any] func(ctx context.Context, req Req) (string, error)

// Adapter turns a typed Func into a Tool. Arguments from the model are
// decoded into Req with mapstructure, then validated if Req implements
// Validator.
type Adapter[Req any] struct {
	decl Declaration
	run  Func[Req]
}

// New creates an Adapter for the given declaration and function.
func New[Req any](decl Declaration, run Func[Req]) *Adapter[Req] {
	return &Adapter[Req]{decl: decl, run: run}
}

// Declaration implements Tool.
func (a *Adapter[Req]) Declaration() Declaration {
	return a.decl
}

// Execute implements Tool.
func (a *Adapter[Req]) Execute(ctx context.Context, args map[string]any) (string, error) {
	var req Req

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &req,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return "", err
	}
	if err := decoder.Decode(args); err != nil {
		return "", &ArgumentError{Tool: a.decl.Name, Cause: err}
	}

	if v, ok := any(req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return "", &ArgumentError{Tool: a.decl.Name, Cause: err}
		}
	}

	return a.run(ctx, req)
}

// ArgumentError is returned when the model's arguments cannot be decoded
// or fail validation.
type ArgumentError struct {
	Tool  string
	Cause error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %q: %v", e.Tool, e.Cause)
}

func (e *ArgumentError) Unwrap() error {
	return e.Cause
}
