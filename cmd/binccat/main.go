// binccat is a thin command-line wrapper around the bincode façade: it
// parses a small type-descriptor expression and either a JSON literal or a
// hex string, and prints the other side. It exists for checking wire
// compatibility against a reference implementation interactively, not as
// part of the library.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	bincode "github.com/LeonardBesson/bincode"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "binccat: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var typeExpr string
	var decode bool
	var varint bool
	var inPath string

	flagSet := pflag.NewFlagSet("binccat", pflag.ContinueOnError)
	flagSet.StringVarP(&typeExpr, "type", "t", "", "type descriptor expression, e.g. seq(u8) or map(str,u32)")
	flagSet.BoolVarP(&decode, "decode", "d", false, "decode hex input to JSON instead of encoding JSON input to hex")
	flagSet.BoolVar(&varint, "varint", false, "use varint mode for lengths, discriminants and non-byte integers")
	flagSet.StringVarP(&inPath, "in", "i", "", "input file (default: stdin)")
	flagSet.BoolP("help", "h", false, "show help")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		fmt.Fprintln(os.Stderr, "Usage: binccat --type EXPR [--decode] [--varint] [--in FILE]")
		fmt.Fprintln(os.Stderr, flagSet.FlagUsages())
		return nil
	}
	if typeExpr == "" {
		return fmt.Errorf("--type is required")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	desc, err := parseDescriptor(typeExpr)
	if err != nil {
		return fmt.Errorf("parsing type expression: %w", err)
	}

	input, err := readInput(inPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	opts := bincode.Options{Varint: varint}

	if decode {
		raw, err := hex.DecodeString(strings.TrimSpace(string(input)))
		if err != nil {
			return fmt.Errorf("decoding hex input: %w", err)
		}
		v, rest, err := bincode.Decode(nil, raw, desc, opts)
		if err != nil {
			return fmt.Errorf("decoding value: %w", err)
		}
		if len(rest) > 0 {
			logger.Warn("trailing bytes after decoded value", "count", len(rest))
		}
		out, err := json.MarshalIndent(jsonify(v), "", "  ")
		if err != nil {
			return fmt.Errorf("rendering JSON: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	var literal any
	if err := json.Unmarshal(input, &literal); err != nil {
		return fmt.Errorf("parsing JSON input: %w", err)
	}
	v, err := valueFromJSON(literal, desc)
	if err != nil {
		return fmt.Errorf("converting JSON to %s: %w", desc, err)
	}
	out, err := bincode.Encode(nil, v, desc, opts)
	if err != nil {
		return fmt.Errorf("encoding value: %w", err)
	}
	fmt.Println(hex.EncodeToString(out))
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// --- type descriptor expression parser ---
//
// EXPR    := PRIMITIVE | "opt(" EXPR ")" | "seq(" EXPR ")" | "set(" EXPR ")"
//          | "map(" EXPR "," EXPR ")" | "tup(" EXPR ("," EXPR)* ")"
// PRIMITIVE is one of u8 u16 u32 u64 u128 i8 i16 i32 i64 i128 f32 f64 bool str

type descParser struct {
	s   string
	pos int
}

func parseDescriptor(expr string) (*bincode.Descriptor, error) {
	p := &descParser{s: expr}
	d, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return nil, fmt.Errorf("unexpected trailing input at %q", p.s[p.pos:])
	}
	return d, nil
}

func (p *descParser) skipSpace() {
	for p.pos < len(p.s) && p.s[p.pos] == ' ' {
		p.pos++
	}
}

func (p *descParser) parseIdent() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.s[start:p.pos]
}

func (p *descParser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.s) || p.s[p.pos] != c {
		return fmt.Errorf("expected %q at %q", string(c), p.s[p.pos:])
	}
	p.pos++
	return nil
}

func (p *descParser) parseExpr() (*bincode.Descriptor, error) {
	name := p.parseIdent()
	if name == "" {
		return nil, fmt.Errorf("expected a type name at %q", p.s[p.pos:])
	}
	switch name {
	case "u8":
		return bincode.U8(), nil
	case "u16":
		return bincode.U16(), nil
	case "u32":
		return bincode.U32(), nil
	case "u64":
		return bincode.U64(), nil
	case "u128":
		return bincode.U128(), nil
	case "i8":
		return bincode.I8(), nil
	case "i16":
		return bincode.I16(), nil
	case "i32":
		return bincode.I32(), nil
	case "i64":
		return bincode.I64(), nil
	case "i128":
		return bincode.I128(), nil
	case "f32":
		return bincode.F32(), nil
	case "f64":
		return bincode.F64(), nil
	case "bool":
		return bincode.Bool(), nil
	case "str":
		return bincode.Str(), nil
	case "opt", "seq", "set":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		switch name {
		case "opt":
			return bincode.Opt(elem), nil
		case "seq":
			return bincode.Seq(elem), nil
		default:
			return bincode.Set(elem), nil
		}
	case "map":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		key, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return bincode.Map(key, val), nil
	case "tup":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		components := []*bincode.Descriptor{}
		for {
			c, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			components = append(components, c)
			p.skipSpace()
			if p.pos < len(p.s) && p.s[p.pos] == ',' {
				p.pos++
				continue
			}
			break
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return bincode.Tup(components...), nil
	default:
		return nil, fmt.Errorf("unknown type %q (userref types require registering a schema outside this tool)", name)
	}
}

// --- JSON literal <-> value model conversion ---
//
// This layer belongs to the CLI, not the library: bincode.Encode/Decode work
// on already-typed Go values (uint32, string, bincode.Option, ...), and JSON
// only gives back float64/string/bool/nil/[]any/map[string]any.

func valueFromJSON(v any, t *bincode.Descriptor) (any, error) {
	switch t.Kind() {
	case bincode.KindU8, bincode.KindU16, bincode.KindU32, bincode.KindU64:
		n, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("expected a number for %s", t)
		}
		if n < 0 {
			return nil, fmt.Errorf("negative value for %s", t)
		}
		return uint64(n), nil
	case bincode.KindU128:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected a decimal string for u128")
		}
		return parseUint128(s)
	case bincode.KindI8, bincode.KindI16, bincode.KindI32, bincode.KindI64:
		n, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("expected a number for %s", t)
		}
		return int64(n), nil
	case bincode.KindI128:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected a decimal string for i128")
		}
		return parseInt128(s)
	case bincode.KindF32, bincode.KindF64:
		n, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("expected a number for %s", t)
		}
		return n, nil
	case bincode.KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected a bool for %s", t)
		}
		return b, nil
	case bincode.KindStr:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string for %s", t)
		}
		return s, nil
	case bincode.KindOpt:
		if v == nil {
			return bincode.None(), nil
		}
		inner, err := valueFromJSON(v, t.Elem())
		if err != nil {
			return nil, err
		}
		return bincode.Some(inner), nil
	case bincode.KindSeq, bincode.KindSet:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("expected a JSON array for %s", t)
		}
		out := make([]any, len(items))
		for i, it := range items {
			cv, err := valueFromJSON(it, t.Elem())
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		if t.Kind() == bincode.KindSet {
			return bincode.NewSetValue(out...), nil
		}
		return out, nil
	case bincode.KindMap:
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected a JSON object for %s", t)
		}
		out := make(map[any]any, len(obj))
		for k, val := range obj {
			key, err := keyFromString(k, t.Key())
			if err != nil {
				return nil, err
			}
			cv, err := valueFromJSON(val, t.Val())
			if err != nil {
				return nil, err
			}
			out[key] = cv
		}
		return out, nil
	case bincode.KindTup:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("expected a JSON array for %s", t)
		}
		components := t.Components()
		if len(items) != len(components) {
			return nil, fmt.Errorf("expected %d elements for %s, got %d", len(components), t, len(items))
		}
		out := make(bincode.Tuple, len(items))
		for i, it := range items {
			cv, err := valueFromJSON(it, components[i])
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s is not supported by this tool", t)
	}
}

func keyFromString(s string, t *bincode.Descriptor) (any, error) {
	switch t.Kind() {
	case bincode.KindStr:
		return s, nil
	case bincode.KindU8, bincode.KindU16, bincode.KindU32, bincode.KindU64:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("map key %q: %w", s, err)
		}
		return n, nil
	case bincode.KindI8, bincode.KindI16, bincode.KindI32, bincode.KindI64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("map key %q: %w", s, err)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("map keys of type %s are not supported by this tool", t)
	}
}

func parseUint128(s string) (bincode.Uint128, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return bincode.Uint128{}, fmt.Errorf("invalid u128 literal %q", s)
	}
	mask := new(big.Int).SetUint64(^uint64(0))
	lo := new(big.Int).And(n, mask).Uint64()
	hi := new(big.Int).Rsh(n, 64).Uint64()
	return bincode.Uint128{Lo: lo, Hi: hi}, nil
}

func parseInt128(s string) (bincode.Int128, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return bincode.Int128{}, fmt.Errorf("invalid i128 literal %q", s)
	}
	if n.Sign() < 0 {
		twoPow128 := new(big.Int).Lsh(big.NewInt(1), 128)
		n = new(big.Int).Add(n, twoPow128)
	}
	mask := new(big.Int).SetUint64(^uint64(0))
	lo := new(big.Int).And(n, mask).Uint64()
	hi := new(big.Int).Rsh(n, 64).Uint64()
	return bincode.Int128{Lo: lo, Hi: int64(hi)}, nil
}

// jsonify converts a decoded value back into something encoding/json can
// render, since the value model's Uint128/Int128/Option/Tuple/SetValue/StructValue
// types have no natural JSON shape of their own.
func jsonify(v any) any {
	switch x := v.(type) {
	case bincode.Uint128:
		hi := new(big.Int).Lsh(new(big.Int).SetUint64(x.Hi), 64)
		return new(big.Int).Or(hi, new(big.Int).SetUint64(x.Lo)).String()
	case bincode.Int128:
		u := x.AsUint128()
		hi := new(big.Int).Lsh(new(big.Int).SetUint64(u.Hi), 64)
		n := new(big.Int).Or(hi, new(big.Int).SetUint64(u.Lo))
		if x.Negative() {
			twoPow128 := new(big.Int).Lsh(big.NewInt(1), 128)
			n = new(big.Int).Sub(n, twoPow128)
		}
		return n.String()
	case bincode.Option:
		if !x.Valid {
			return nil
		}
		return jsonify(x.Value)
	case bincode.Tuple:
		out := make([]any, len(x))
		for i, it := range x {
			out[i] = jsonify(it)
		}
		return out
	case *bincode.SetValue:
		items := x.Items()
		out := make([]any, len(items))
		for i, it := range items {
			out[i] = jsonify(it)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, it := range x {
			out[i] = jsonify(it)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = jsonify(val)
		}
		return out
	case *bincode.StructValue:
		out := make(map[string]any, len(x.Fields))
		for k, val := range x.Fields {
			out[k] = jsonify(val)
		}
		return out
	case *bincode.EnumValue:
		fields := make(map[string]any, len(x.Fields))
		for k, val := range x.Fields {
			fields[k] = jsonify(val)
		}
		return map[string]any{"variant": x.Variant, "fields": fields}
	default:
		return x
	}
}
