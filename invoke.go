package mirror

import (
	"context"
	"log/slog"
	"reflect"
	"runtime/debug"

	"github.com/broady/mirror/compat"
	"github.com/broady/mirror/ir"
	"github.com/go-playground/validator/v10"
)

// Invoker adapts argument lists to member signatures and dispatches calls.
// It holds no per-call state and is safe for concurrent use once configured.
type Invoker struct {
	dir          *Directory
	interceptors []Interceptor
	logger       *slog.Logger
	validate     *validator.Validate
}

// NewInvoker returns an Invoker that resolves members through dir.
func NewInvoker(dir *Directory) *Invoker {
	return &Invoker{dir: dir}
}

// WithInterceptor adds interceptors that wrap every dispatch.
// The first interceptor added is the outer-most one.
func (i *Invoker) WithInterceptor(interceptors ...Interceptor) *Invoker {
	i.interceptors = append(i.interceptors, interceptors...)
	return i
}

// WithLogger sets a custom logger for the invoker.
// If not set, slog.Default() will be used.
func (i *Invoker) WithLogger(logger *slog.Logger) *Invoker {
	i.logger = logger
	return i
}

// WithArgValidation enables validation of struct arguments against their
// `validate` tags before dispatch. A nil v uses a default validator.
func (i *Invoker) WithArgValidation(v *validator.Validate) *Invoker {
	if v == nil {
		v = validator.New()
	}
	i.validate = v
	return i
}

func (i *Invoker) log() *slog.Logger {
	if i.logger == nil {
		return slog.Default()
	}
	return i.logger
}

// AdaptArgs returns an argument list with exactly one entry per parameter.
// A supplied non-nil argument is used as is. A missing or nil argument is
// replaced by the default value of the parameter type. Extra arguments are
// dropped.
func AdaptArgs(params []ir.TypeDescriptor, args []any) []any {
	out := make([]any, len(params))
	for n, p := range params {
		if n < len(args) && args[n] != nil {
			out[n] = args[n]
			continue
		}
		out[n] = compat.DefaultValue(p)
	}
	return out
}

// Invoke dispatches m with args. See InvokeContext.
func (i *Invoker) Invoke(target any, m ir.Member, args ...any) (any, error) {
	return i.InvokeContext(context.Background(), target, m, args...)
}

// InvokeContext dispatches a method or constructor. ctx is handed to
// interceptors; dispatch itself is synchronous and not cancelable.
//
// Static methods and constructors ignore target. A nil m fails with
// CodeNoSuchMember before any adaptation. Failures raised by the member
// are returned as CodeInvocationFailed and wrap the original cause.
func (i *Invoker) InvokeContext(ctx context.Context, target any, m ir.Member, args ...any) (any, error) {
	if isNilMember(m) {
		return nil, NewError(CodeNoSuchMember, "member was not found")
	}
	if m.MemberKind() == ir.MemberField {
		return nil, Errorf(CodeInvalidArgument, "field %s cannot be invoked", ir.Identity(m)).
			WithDetail("member", ir.Identity(m))
	}

	adapted := AdaptArgs(ir.ParamsOf(m), args)
	if err := i.validateArgs(adapted); err != nil {
		return nil, err
	}

	call := &Call{Target: target, Member: m, Args: adapted}
	call.ctx = newContext(ctx, call)
	if chain := chainInterceptors(i.interceptors); chain != nil {
		return chain(call, i.dispatch)
	}
	return i.dispatch(call)
}

// dispatch routes call to the member implementation.
func (i *Invoker) dispatch(call *Call) (res any, err error) {
	id := ir.Identity(call.Member)

	var impl ir.Callable
	target := call.Target
	switch m := call.Member.(type) {
	case *ir.MethodDescriptor:
		impl = m.Impl
		if m.Static {
			target = nil
		} else if target == nil {
			return nil, Errorf(CodeInvocationFailed, "instance method %s requires a target", id)
		}
	case *ir.ConstructorDescriptor:
		impl = m.Impl
		target = nil
	default:
		return nil, Errorf(CodeInvalidArgument, "%s cannot be invoked", id)
	}
	if impl == nil {
		return nil, Errorf(CodeInvocationFailed, "%s has no implementation", id)
	}

	defer func() {
		if rec := recover(); rec != nil {
			i.log().Error("PANIC recovered",
				slog.String("member", id),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())))
			res = nil
			err = Wrap(CodeInvocationFailed, panicCause(rec), "invoking %s", id)
		}
	}()

	// Interceptors may have replaced the argument list.
	res, err = impl(target, AdaptArgs(ir.ParamsOf(call.Member), call.Args))
	if err != nil {
		return nil, Wrap(CodeInvocationFailed, err, "invoking %s", id)
	}
	return res, nil
}

// validateArgs checks struct arguments when validation is enabled.
func (i *Invoker) validateArgs(args []any) error {
	if i.validate == nil {
		return nil
	}
	for n, a := range args {
		if !isStruct(a) {
			continue
		}
		if err := i.validate.Struct(a); err != nil {
			return ErrorFrom(err).WithDetail("argument", n)
		}
	}
	return nil
}

func isStruct(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Struct
}

// isNilMember reports whether m is nil or a typed nil descriptor, as
// returned by a failed lookup.
func isNilMember(m ir.Member) bool {
	switch d := m.(type) {
	case nil:
		return true
	case *ir.FieldDescriptor:
		return d == nil
	case *ir.MethodDescriptor:
		return d == nil
	case *ir.ConstructorDescriptor:
		return d == nil
	default:
		return false
	}
}
