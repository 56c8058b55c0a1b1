package lower

import (
	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ast"
	"github.com/tinqerjs-org/tinqer-sub004/internal/jsparse"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// ParseLambda parses source through c, reusing a prior parse of the exact
// same text when present (spec §3.5). A nil cache behaves as if caching
// were disabled.
func ParseLambda(c *cache.Cache, source string) (*ast.Program, error) {
	if program, ok := c.Get(source); ok {
		return program, nil
	}
	program, err := jsparse.Parse(source)
	if err != nil {
		return nil, err
	}
	c.Put(source, program)
	return program, nil
}

// arrowBody returns the single expression a lambda's body evaluates to,
// whether written with a concise body or a braced `{ return ...; }` body.
func arrowBody(fn *ast.ArrowFunction) ast.Expr {
	switch body := fn.Body.(type) {
	case ast.Expr:
		return body
	case *ast.BlockStatement:
		return body.Return
	default:
		return nil
	}
}

func arrowFunction(program *ast.Program) (*ast.ArrowFunction, bool) {
	fn, ok := program.Body.(*ast.ArrowFunction)
	return fn, ok
}

// parseStageLambda parses source (through the cache), binds its
// row/params/helpers parameters into ctx, and returns the single
// expression its body evaluates to.
func parseStageLambda(ctx *Context, c *cache.Cache, source string) (ast.Expr, error) {
	program, err := ParseLambda(c, source)
	if err != nil {
		return nil, err
	}
	fn, ok := arrowFunction(program)
	if !ok {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgFailedToParse)
	}
	if err := bindRowLambdaParams(ctx, fn); err != nil {
		return nil, err
	}
	body := arrowBody(fn)
	if body == nil {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgFailedToParse)
	}
	return body, nil
}
