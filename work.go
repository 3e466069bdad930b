package tpool

type Args []interface{}

type Kwargs map[string]interface{}

type Func func(args Args, kwargs Kwargs) (interface{}, error)

type Kind int

const (
	KindInvalid Kind = iota
	KindCall
	KindArgs
	KindKwargs
)

// Work is a unit of work. Build it with Call, CallArgs or CallKwargs; the zero
// value is rejected by the pool.
type Work struct {
	kind   Kind
	fn     Func
	args   Args
	kwargs Kwargs
}

func Call(fn func() (interface{}, error)) Work {
	if fn == nil {
		return Work{}
	}
	return Work{
		kind: KindCall,
		fn: func(Args, Kwargs) (interface{}, error) {
			return fn()
		},
	}
}

func CallArgs(fn Func, args ...interface{}) Work {
	if fn == nil {
		return Work{}
	}
	return Work{kind: KindArgs, fn: fn, args: args}
}

func CallKwargs(fn Func, args Args, kwargs Kwargs) Work {
	if fn == nil {
		return Work{}
	}
	return Work{kind: KindKwargs, fn: fn, args: args, kwargs: kwargs}
}

func (w Work) Kind() Kind {
	return w.kind
}

func (w Work) Valid() bool {
	return w.kind != KindInvalid && w.fn != nil
}

func (w Work) invoke() (interface{}, error) {
	return w.fn(w.args, w.kwargs)
}
