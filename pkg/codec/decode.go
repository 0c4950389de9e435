package codec

import (
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"
	"github.com/dop251/goja/token"

	"github.com/iamrecursion/obsidian-pkvs/pkg/value"
)

// Decode parses persisted text back into a value graph. The text is treated
// as a single JavaScript expression (wrapped in parentheses, as the format
// requires) but it is never executed: the goja parser produces an AST that
// is lowered by an explicit tagged-variant decoder accepting only the
// grammar Encode emits. Any construct outside that grammar is a DecodeError.
func Decode(text string) (value.Value, error) {
	// The trailing newline keeps a line comment at the end of a function
	// body from swallowing the closing parenthesis.
	src := "(" + text + "\n)"
	program, err := parser.ParseFile(nil, "", src, 0)
	if err != nil {
		return nil, &DecodeError{Reason: "persisted text does not parse", Err: err}
	}
	if len(program.Body) != 1 {
		return nil, decodeErrorf("expected a single expression, got %d statements", len(program.Body))
	}
	stmt, ok := program.Body[0].(*ast.ExpressionStatement)
	if !ok {
		return nil, decodeErrorf("expected an expression statement")
	}
	dec := &decoder{src: src}
	return dec.value(stmt.Expression)
}

// maxSparseLength caps the declared length of a sparse array carrier.
// Persisted text is a corruption boundary, and length is allocated up
// front, so an absurd claim must fail instead of exhausting memory.
const maxSparseLength = 1 << 24

type decoder struct {
	src string
}

func (d *decoder) value(node ast.Expression) (value.Value, error) {
	switch n := node.(type) {
	case *ast.NullLiteral:
		return value.Null{}, nil
	case *ast.BooleanLiteral:
		return value.Bool(n.Value), nil
	case *ast.StringLiteral:
		return value.String(n.Value.String()), nil
	case *ast.NumberLiteral:
		return numberLiteral(n)
	case *ast.Identifier:
		switch n.Name.String() {
		case "undefined":
			return value.Undefined{}, nil
		case "Infinity":
			return value.Number(math.Inf(1)), nil
		case "NaN":
			return value.Number(math.NaN()), nil
		}
		return nil, decodeErrorf("unexpected identifier %q", n.Name.String())
	case *ast.UnaryExpression:
		return d.unary(n)
	case *ast.ObjectLiteral:
		return d.object(n)
	case *ast.ArrayLiteral:
		return d.array(n)
	case *ast.NewExpression:
		return d.construction(n)
	case *ast.CallExpression:
		return d.call(n)
	case *ast.RegExpLiteral:
		return value.NewRegexp(n.Pattern, n.Flags), nil
	case *ast.FunctionLiteral:
		return value.NewFunction(d.source(n)), nil
	case *ast.ArrowFunctionLiteral:
		return value.NewFunction(d.source(n)), nil
	default:
		return nil, decodeErrorf("unsupported syntax %T", node)
	}
}

func (d *decoder) source(node ast.Node) string {
	start := int(node.Idx0()) - 1
	end := int(node.Idx1()) - 1
	// goja reports a new-expression with an empty argument list as ending at
	// its callee, so an arrow body trailing off in `new Date()` would lose
	// the final parentheses. Empty parentheses directly after the reported
	// extent can only belong to the node, so fold them back in.
	for {
		open := skipBlank(d.src, end)
		if open >= len(d.src) || d.src[open] != '(' {
			break
		}
		closing := skipBlank(d.src, open+1)
		if closing >= len(d.src) || d.src[closing] != ')' {
			break
		}
		end = closing + 1
	}
	return d.src[start:end]
}

func skipBlank(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func (d *decoder) unary(n *ast.UnaryExpression) (value.Value, error) {
	if n.Operator != token.MINUS {
		return nil, decodeErrorf("unsupported unary operator %q", n.Operator.String())
	}
	operand, err := d.value(n.Operand)
	if err != nil {
		return nil, err
	}
	num, ok := operand.(value.Number)
	if !ok {
		return nil, decodeErrorf("unary minus applied to %s", operand.Kind())
	}
	return value.Number(-float64(num)), nil
}

func (d *decoder) object(n *ast.ObjectLiteral) (value.Value, error) {
	obj := value.NewObject()
	for _, prop := range n.Value {
		keyed, ok := prop.(*ast.PropertyKeyed)
		if !ok {
			return nil, decodeErrorf("unsupported object property %T", prop)
		}
		if keyed.Kind != ast.PropertyKindValue || keyed.Computed {
			return nil, decodeErrorf("unsupported object property kind %q", keyed.Kind)
		}
		name, err := d.propertyName(keyed.Key)
		if err != nil {
			return nil, err
		}
		v, err := d.value(keyed.Value)
		if err != nil {
			return nil, err
		}
		obj.Set(value.StringKey(name), v)
	}
	return obj, nil
}

func (d *decoder) propertyName(key ast.Expression) (string, error) {
	switch k := key.(type) {
	case *ast.StringLiteral:
		return k.Value.String(), nil
	case *ast.NumberLiteral:
		num, err := numberLiteral(k)
		if err != nil {
			return "", err
		}
		return formatNumber(float64(num.(value.Number))), nil
	case *ast.Identifier:
		return k.Name.String(), nil
	default:
		return "", decodeErrorf("unsupported property key %T", key)
	}
}

func (d *decoder) array(n *ast.ArrayLiteral) (value.Value, error) {
	arr := value.NewArray()
	for _, elem := range n.Value {
		if elem == nil {
			return nil, decodeErrorf("array elisions are not part of the format")
		}
		v, err := d.value(elem)
		if err != nil {
			return nil, err
		}
		arr.Append(v)
	}
	return arr, nil
}

func (d *decoder) construction(n *ast.NewExpression) (value.Value, error) {
	callee, ok := n.Callee.(*ast.Identifier)
	if !ok {
		return nil, decodeErrorf("unsupported constructor expression")
	}
	args := n.ArgumentList
	switch callee.Name.String() {
	case "Date":
		s, err := d.stringArg(args, 0, "Date")
		if err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, &DecodeError{Reason: "invalid date " + strconv.Quote(s), Err: err}
		}
		return value.NewDate(t), nil
	case "RegExp":
		source, err := d.stringArg(args, 0, "RegExp")
		if err != nil {
			return nil, err
		}
		flags := ""
		if len(args) > 1 {
			if flags, err = d.stringArg(args, 1, "RegExp"); err != nil {
				return nil, err
			}
		}
		return value.NewRegexp(source, flags), nil
	case "URL":
		href, err := d.stringArg(args, 0, "URL")
		if err != nil {
			return nil, err
		}
		return value.NewURL(href), nil
	case "Map":
		return d.mapFromArg(args)
	case "Set":
		return d.setFromArg(args)
	default:
		return nil, decodeErrorf("unsupported constructor %q", callee.Name.String())
	}
}

func (d *decoder) mapFromArg(args []ast.Expression) (value.Value, error) {
	m := value.NewMap()
	if len(args) == 0 {
		return m, nil
	}
	entries, err := d.denseArrayArg(args, "Map")
	if err != nil {
		return nil, err
	}
	for i := 0; i < entries.Len(); i++ {
		pair, ok := entries.At(i).(*value.Array)
		if !ok || pair.Len() != 2 {
			return nil, decodeErrorf("map entry %d is not a [key, value] pair", i)
		}
		m.Put(pair.At(0), pair.At(1))
	}
	return m, nil
}

func (d *decoder) setFromArg(args []ast.Expression) (value.Value, error) {
	s := value.NewSet()
	if len(args) == 0 {
		return s, nil
	}
	elems, err := d.denseArrayArg(args, "Set")
	if err != nil {
		return nil, err
	}
	for i := 0; i < elems.Len(); i++ {
		s.Add(elems.At(i))
	}
	return s, nil
}

func (d *decoder) call(n *ast.CallExpression) (value.Value, error) {
	if callee, ok := n.Callee.(*ast.Identifier); ok && callee.Name.String() == "BigInt" {
		s, err := d.stringArg(n.ArgumentList, 0, "BigInt")
		if err != nil {
			return nil, err
		}
		i, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, decodeErrorf("invalid big integer %q", s)
		}
		return value.NewBigInt(i), nil
	}
	if isSliceCall(n.Callee) {
		return d.sparseArray(n.ArgumentList)
	}
	return nil, decodeErrorf("unsupported call expression")
}

// isSliceCall recognises the Array.prototype.slice.call chain that carries a
// sparse array.
func isSliceCall(callee ast.Expression) bool {
	call, ok := callee.(*ast.DotExpression)
	if !ok || call.Identifier.Name.String() != "call" {
		return false
	}
	slice, ok := call.Left.(*ast.DotExpression)
	if !ok || slice.Identifier.Name.String() != "slice" {
		return false
	}
	proto, ok := slice.Left.(*ast.DotExpression)
	if !ok || proto.Identifier.Name.String() != "prototype" {
		return false
	}
	root, ok := proto.Left.(*ast.Identifier)
	return ok && root.Name.String() == "Array"
}

func (d *decoder) sparseArray(args []ast.Expression) (value.Value, error) {
	if len(args) != 1 {
		return nil, decodeErrorf("sparse array carrier takes one argument")
	}
	carrier, err := d.value(args[0])
	if err != nil {
		return nil, err
	}
	obj, ok := carrier.(*value.Object)
	if !ok {
		return nil, decodeErrorf("sparse array carrier is not an object")
	}
	lengthValue, ok := obj.Get(value.StringKey("length"))
	if !ok {
		return nil, decodeErrorf("sparse array carrier has no length")
	}
	length, ok := lengthValue.(value.Number)
	n := float64(length)
	if !ok || !length.Finite() || n < 0 || n != math.Trunc(n) {
		return nil, decodeErrorf("sparse array carrier has invalid length")
	}
	if n > maxSparseLength {
		return nil, decodeErrorf("sparse array carrier length exceeds %d", maxSparseLength)
	}
	arr := value.NewSparseArray(int(length))
	for _, p := range obj.Properties() {
		name := p.Key.Name()
		if name == "length" {
			continue
		}
		index, err := strconv.Atoi(name)
		if err != nil || index < 0 {
			return nil, decodeErrorf("sparse array carrier has non-index key %q", name)
		}
		arr.SetIndex(index, p.Value)
	}
	return arr, nil
}

func (d *decoder) denseArrayArg(args []ast.Expression, constructor string) (*value.Array, error) {
	v, err := d.valueArg(args, 0, constructor)
	if err != nil {
		return nil, err
	}
	arr, ok := v.(*value.Array)
	if !ok {
		return nil, decodeErrorf("%s argument is not an array", constructor)
	}
	return arr, nil
}

func (d *decoder) valueArg(args []ast.Expression, i int, constructor string) (value.Value, error) {
	if i >= len(args) {
		return nil, decodeErrorf("%s is missing argument %d", constructor, i)
	}
	return d.value(args[i])
}

func (d *decoder) stringArg(args []ast.Expression, i int, constructor string) (string, error) {
	v, err := d.valueArg(args, i, constructor)
	if err != nil {
		return "", err
	}
	s, ok := v.(value.String)
	if !ok {
		return "", decodeErrorf("%s argument %d is not a string", constructor, i)
	}
	return string(s), nil
}

func numberLiteral(n *ast.NumberLiteral) (value.Value, error) {
	switch v := n.Value.(type) {
	case int64:
		return value.Number(v), nil
	case float64:
		return value.Number(v), nil
	default:
		return nil, decodeErrorf("unsupported numeric literal %T", n.Value)
	}
}
