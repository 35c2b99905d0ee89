package floyd

import "github.com/mok9/floyd/types"

// hostID assigns sequential ids starting at HostFunctionBase, mirroring
// how the scripted function table assigns ids by index (spec.md §3).
var nextHostID = HostFunctionBase

func hostID() int {
	id := nextHostID
	nextHostID++
	return id
}

func reg(table HostTable, name string, ret *types.Type, params []*types.Type, fn HostFunc) {
	table[hostID()] = HostEntry{Name: name, Type: types.MakeFunction(ret, params), Fn: fn}
}

// NewHostTable builds the default host function library spec.md §5
// and §6 describe. Ids are assigned in a fixed registration order so a
// given build always maps the same name to the same id.
func NewHostTable() HostTable {
	nextHostID = HostFunctionBase
	table := HostTable{}
	registerMiscHosts(table)
	registerCollectionHosts(table)
	registerUpdateHosts(table)
	registerJSONHosts(table)
	registerIOHosts(table)
	return table
}

// HostFunctionValue looks up a registered host function by name and
// returns a callable Value referencing it, for wiring into a global
// symbol table at program-build time.
func (t HostTable) HostFunctionValue(name string) (Value, bool) {
	for id, entry := range t {
		if entry.Name == name {
			return NewFunction(entry.Type, id), true
		}
	}
	return Value{}, false
}
