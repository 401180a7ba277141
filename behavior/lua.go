package behavior

import (
	"bytes"
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

type luaEngine struct {
	proto *lua.FunctionProto
}

func compileLua(src []byte, name string) (*luaEngine, error) {
	chunk, err := parse.Parse(bytes.NewReader(src), name)
	if err != nil {
		return nil, err
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, err
	}
	return &luaEngine{proto: proto}, nil
}

// run uses a fresh VM per call; an LState must not be shared between
// goroutines.
func (e *luaEngine) run(ctx map[string]any) (map[string]any, error) {
	L := lua.NewState()
	defer L.Close()

	L.SetGlobal("ctx", toLua(L, ctx))
	L.SetGlobal("output", L.NewTable())
	L.Push(L.NewFunctionFromProto(e.proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return nil, err
	}

	tbl, ok := L.GetGlobal("output").(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("output must be a table, got %s", L.GetGlobal("output").Type())
	}
	out, _ := fromLua(tbl).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func toLua(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(x)
	case string:
		return lua.LString(x)
	case int:
		return lua.LNumber(x)
	case int64:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	case []any:
		t := L.NewTable()
		for _, item := range x {
			t.Append(toLua(L, item))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, item := range x {
			t.RawSetString(k, toLua(L, item))
		}
		return t
	}
	return lua.LString(fmt.Sprint(v))
}

// fromLua converts tables with only array keys to []any and every other
// table to map[string]any. Whole numbers come back as int.
func fromLua(v lua.LValue) any {
	switch x := v.(type) {
	case lua.LBool:
		return bool(x)
	case lua.LString:
		return string(x)
	case lua.LNumber:
		f := float64(x)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LTable:
		if n := x.Len(); n > 0 {
			arr := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				arr = append(arr, fromLua(x.RawGetInt(i)))
			}
			return arr
		}
		m := make(map[string]any)
		x.ForEach(func(k, item lua.LValue) {
			m[k.String()] = fromLua(item)
		})
		return m
	}
	return nil
}
