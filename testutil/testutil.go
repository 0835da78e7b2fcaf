// Package testutil provides the canonical type hierarchies used by the
// package tests: a generic inheritance chain for type-argument resolution
// and an invocable account model for the member directory and invoker.
// This package is designed to be import-cycle safe and can be used from any package.
package testutil

import (
	"errors"
	"fmt"
	"sync"

	"github.com/broady/mirror/ir"
	"github.com/broady/mirror/platform"
)

// GenericChain is the hierarchy
//
//	Base<A, B>
//	Mid<X> extends Base<X, String>
//	Leaf extends Mid<Integer>
//
//	interface Source<T>, interface Sink<U>
//	Pipe implements Source<String>, Sink<Long>
//
// Sink's parameter is only reachable through Pipe's second interface.
type GenericChain struct {
	Registry *platform.Registry

	Base, Mid, Leaf    *ir.ConcreteDescriptor
	Source, Sink, Pipe *ir.ConcreteDescriptor
}

// NewGenericChain declares the chain in a fresh registry.
func NewGenericChain() *GenericChain {
	r := platform.NewRegistry()
	g := &GenericChain{Registry: r}

	base := platform.Class("Base").In("chain").TypeParams("A", "B")
	a, b := base.Var("A"), base.Var("B")
	base.Field("first", a, ir.Private).
		Field("second", b, ir.Private).
		Method(platform.MethodSpec{Name: "getFirst", Return: a}).
		Method(platform.MethodSpec{Name: "put", Params: []ir.TypeDescriptor{a, b}, ParamNames: []string{"a", "b"}}).
		Method(platform.MethodSpec{Name: "pairs", Return: ir.ArrayOf(ir.Param(base.Self(), b, a))})
	g.Base = r.MustDeclare(base.Spec())

	mid := platform.Class("Mid").In("chain").TypeParams("X")
	mid.Extends(ir.Param(g.Base, mid.Var("X"), ir.String())).
		Method(platform.MethodSpec{Name: "middle", Return: mid.Var("X")})
	g.Mid = r.MustDeclare(mid.Spec())

	g.Leaf = r.MustDeclare(platform.Class("Leaf").In("chain").
		Extends(ir.Param(g.Mid, ir.Boxed(ir.PrimitiveInt))).
		Method(platform.MethodSpec{Name: "leaf"}).
		Spec())

	source := platform.Interface("Source").In("chain").TypeParams("T")
	source.Method(platform.MethodSpec{Name: "next", Return: source.Var("T")})
	g.Source = r.MustDeclare(source.Spec())

	sink := platform.Interface("Sink").In("chain").TypeParams("U")
	sink.Method(platform.MethodSpec{Name: "accept", Params: []ir.TypeDescriptor{sink.Var("U")}})
	g.Sink = r.MustDeclare(sink.Spec())

	g.Pipe = r.MustDeclare(platform.Class("Pipe").In("chain").
		Implements(
			ir.Param(g.Source, ir.String()),
			ir.Param(g.Sink, ir.Boxed(ir.PrimitiveLong)),
		).
		Spec())

	return g
}

// Account is the Go value behind the account model. Calls records the
// adapted arguments of every deposit.
type Account struct {
	ID      int64
	Owner   string
	Balance int64

	mu    sync.Mutex
	Calls [][]any
}

// Accounts is the hierarchy
//
//	interface Named { name() String }
//	Entity implements Named { id long; describe() String }
//	Account extends Entity {
//	    owner String; balance long
//	    Account(String owner, long balance)
//	    deposit(long amount, String memo, boolean notify) long
//	    balance() long
//	    static zero() long
//	    fail() returns ErrAccountFailure
//	    explode() panics
//	    private audit()
//	}
type Accounts struct {
	Registry *platform.Registry

	Named, Entity, Account *ir.ConcreteDescriptor
}

// ErrAccountFailure is returned by the fail method.
var ErrAccountFailure = errors.New("account failure")

// NewAccounts declares the account model in a fresh registry.
func NewAccounts() *Accounts {
	r := platform.NewRegistry()
	m := &Accounts{Registry: r}
	long := ir.Primitive(ir.PrimitiveLong)

	m.Named = r.MustDeclare(platform.Interface("Named").In("bank").
		Method(platform.MethodSpec{Name: "name", Return: ir.String(), Impl: func(target any, _ []any) (any, error) {
			return target.(*Account).Owner, nil
		}}).
		Spec())

	m.Entity = r.MustDeclare(platform.Class("Entity").In("bank").
		Implements(m.Named).
		FieldSpec(platform.FieldSpec{
			Name: "id", Type: long, Access: ir.Protected,
			Getter: func(target any) (any, error) { return target.(*Account).ID, nil },
			Setter: func(target any, v any) error {
				target.(*Account).ID = v.(int64)
				return nil
			},
		}).
		Method(platform.MethodSpec{Name: "describe", Return: ir.String(), Impl: func(target any, _ []any) (any, error) {
			a := target.(*Account)
			return fmt.Sprintf("entity %d", a.ID), nil
		}}).
		Spec())

	m.Account = r.MustDeclare(platform.Class("Account").In("bank").
		Extends(m.Entity).
		Field("owner", ir.String(), ir.Public).
		FieldSpec(platform.FieldSpec{
			Name: "balance", Type: long, Access: ir.Private,
			Getter: func(target any) (any, error) { return target.(*Account).Balance, nil },
		}).
		Constructor(platform.ConstructorSpec{
			Params:     []ir.TypeDescriptor{ir.String(), long},
			ParamNames: []string{"owner", "balance"},
			Impl: func(_ any, args []any) (any, error) {
				a := &Account{Balance: args[1].(int64)}
				if args[0] != nil {
					a.Owner = args[0].(string)
				}
				return a, nil
			},
		}).
		Method(platform.MethodSpec{
			Name:       "deposit",
			Params:     []ir.TypeDescriptor{long, ir.String(), ir.Primitive(ir.PrimitiveBoolean)},
			ParamNames: []string{"amount", "memo", "notify"},
			Return:     long,
			Impl: func(target any, args []any) (any, error) {
				a := target.(*Account)
				a.mu.Lock()
				defer a.mu.Unlock()
				a.Calls = append(a.Calls, args)
				a.Balance += args[0].(int64)
				return a.Balance, nil
			},
		}).
		Method(platform.MethodSpec{Name: "balance", Return: long, Impl: func(target any, _ []any) (any, error) {
			return target.(*Account).Balance, nil
		}}).
		StaticMethod(platform.MethodSpec{Name: "zero", Return: long, Impl: func(target any, _ []any) (any, error) {
			if target != nil {
				return nil, fmt.Errorf("static method received a target")
			}
			return int64(0), nil
		}}).
		Method(platform.MethodSpec{Name: "fail", Impl: func(any, []any) (any, error) {
			return nil, ErrAccountFailure
		}}).
		Method(platform.MethodSpec{Name: "explode", Impl: func(any, []any) (any, error) {
			panic("boom")
		}}).
		Method(platform.MethodSpec{Name: "audit", Access: ir.Private}).
		Method(platform.MethodSpec{Name: "describe", Return: ir.String(), Impl: func(target any, _ []any) (any, error) {
			return "account of " + target.(*Account).Owner, nil
		}}).
		Spec())

	return m
}
