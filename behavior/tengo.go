package behavior

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

var tengoModules = []string{"math", "text", "times", "rand", "fmt", "json", "enum", "base64", "hex"}

type tengoEngine struct {
	compiled *tengo.Compiled
}

func compileTengo(src []byte) (*tengoEngine, error) {
	script := tengo.NewScript(src)
	_ = script.Add("ctx", map[string]any{})
	_ = script.Add("output", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(tengoModules...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	return &tengoEngine{compiled: compiled}, nil
}

// run works on a clone so concurrent spawn passes never share globals.
func (e *tengoEngine) run(ctx map[string]any) (map[string]any, error) {
	c := e.compiled.Clone()
	if err := c.Set("ctx", ctx); err != nil {
		return nil, err
	}
	if err := c.Set("output", map[string]any{}); err != nil {
		return nil, err
	}
	if err := c.Run(); err != nil {
		return nil, err
	}
	out, ok := normalizeScriptValue(c.Get("output").Value()).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("output must be a map, got %s", c.Get("output").ValueType())
	}
	return out, nil
}

// normalizeScriptValue turns tengo's int64 into int and nil maps into
// empty ones so both engines hand back the same shapes.
func normalizeScriptValue(v any) any {
	switch x := v.(type) {
	case int64:
		return int(x)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = normalizeScriptValue(x[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = normalizeScriptValue(item)
		}
		return out
	}
	return v
}
