package mirror

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"strconv"

	"github.com/broady/mirror/compat"
	"github.com/broady/mirror/ir"
	"github.com/gorilla/schema"
)

var formDecoder = schema.NewDecoder()

func init() {
	formDecoder.IgnoreUnknownKeys(true)
}

// InvokeForm decodes string arguments from values into the declared
// parameter types of m and invokes it. Each parameter is read from the key
// equal to its declared name, or to its index when the member has no
// parameter names. Only primitive, boxed and String parameters can be
// decoded; missing keys fall back to the parameter's default value.
func (i *Invoker) InvokeForm(ctx context.Context, target any, m ir.Member, values url.Values) (any, error) {
	if isNilMember(m) {
		return nil, NewError(CodeNoSuchMember, "member was not found")
	}
	args, err := decodeForm(m, values)
	if err != nil {
		return nil, err
	}
	return i.InvokeContext(ctx, target, m, args...)
}

func decodeForm(m ir.Member, values url.Values) ([]any, error) {
	params := ir.ParamsOf(m)
	names := ir.ParamNamesOf(m)

	keys := make([]string, len(params))
	fields := make([]reflect.StructField, len(params))
	for n, p := range params {
		gt, ok := compat.GoType(p)
		if !ok {
			return nil, Errorf(CodeInvalidArgument, "parameter %d of %s has type %s, which cannot be decoded from a form",
				n, ir.Identity(m), p)
		}
		keys[n] = strconv.Itoa(n)
		if n < len(names) && names[n] != "" {
			keys[n] = names[n]
		}
		fields[n] = reflect.StructField{
			Name: fmt.Sprintf("P%d", n),
			Type: gt,
			Tag:  reflect.StructTag(`schema:"` + keys[n] + `"`),
		}
	}

	v := reflect.New(reflect.StructOf(fields))
	if err := formDecoder.Decode(v.Interface(), values); err != nil {
		return nil, Wrap(CodeInvalidArgument, err, "failed to decode arguments of %s", ir.Identity(m))
	}

	args := make([]any, len(params))
	for n := range params {
		fv := v.Elem().Field(n)
		switch {
		case fv.Kind() == reflect.Pointer:
			if !fv.IsNil() {
				args[n] = fv.Elem().Interface()
			}
		case values.Has(keys[n]):
			args[n] = fv.Interface()
		}
	}
	return args, nil
}
