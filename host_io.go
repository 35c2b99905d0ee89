package floyd

import (
	"os"

	"github.com/mok9/floyd/types"
)

func registerIOHosts(table HostTable) {
	str := types.MakeString()
	void := types.MakeVoid()

	reg(table, "get_env_path", str, nil, hostGetEnvPath)
	reg(table, "read_text_file", str, []*types.Type{str}, hostReadTextFile)
	reg(table, "write_text_file", void, []*types.Type{str, str}, hostWriteTextFile)
}

// hostGetEnvPath implements spec.md §6's get_env_path: the HOME
// environment variable. FLOYD_HOME, when set (by a .env file loaded at
// cmd/floydc startup or directly in the process environment), takes
// precedence over HOME.
func hostGetEnvPath(it *Interpreter, args []Value) (Value, error) {
	if v := os.Getenv("FLOYD_HOME"); v != "" {
		return NewString(v), nil
	}
	return NewString(os.Getenv("HOME")), nil
}

func hostReadTextFile(it *Interpreter, args []Value) (Value, error) {
	path, err := args[0].GetString()
	if err != nil {
		return Value{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Value{}, newError(IoError, "read_text_file: %v", err)
	}
	return NewString(string(data)), nil
}

func hostWriteTextFile(it *Interpreter, args []Value) (Value, error) {
	path, err := args[0].GetString()
	if err != nil {
		return Value{}, err
	}
	content, err := args[1].GetString()
	if err != nil {
		return Value{}, err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return Value{}, newError(IoError, "write_text_file: %v", err)
	}
	return Void(), nil
}
