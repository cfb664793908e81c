package resolve

import (
	"testing"

	"github.com/golanghdl/vhier/hier"
	"github.com/golanghdl/vhier/internal/def"
	"github.com/golanghdl/vhier/internal/testutil"
)

func extractAll(t *testing.T, files map[string]string, order ...string) []*def.Definition {
	t.Helper()
	var defs []*def.Definition
	for _, file := range order {
		d, diags := def.Extract([]byte(files[file]), file, nil)
		testutil.Len(t, diags, 0, "fixture %s must be well-formed", file)
		defs = append(defs, d...)
	}
	return defs
}

func TestResolveNestedChain(t *testing.T) {
	defs := extractAll(t, map[string]string{
		"b.v":   "module B(q);\nendmodule\n",
		"a.v":   "module A(p);\n  B u_b(p);\nendmodule\n",
		"top.v": "module TOP(x);\n  A u_a(x);\nendmodule\n",
	}, "b.v", "a.v", "top.v")

	r := New(defs, nil)
	roots := r.Resolve()
	testutil.Len(t, r.Diagnostics(), 0, "no diagnostics")
	testutil.Equal(t, 3, len(roots), "every module is a root")

	top := roots["TOP"]
	testutil.NotNil(t, top, "TOP root")
	testutil.Len(t, top.Submodules, 1, "TOP instantiates A")

	a := top.Submodules[0]
	testutil.Equal(t, "u_a", a.InstanceName, "instance name")
	testutil.Equal(t, "A", a.ModuleName, "module name")
	testutil.Len(t, a.Submodules, 1, "A instantiates B")

	b := a.Submodules[0]
	testutil.Equal(t, "u_b", b.InstanceName, "nested instance name")
	testutil.Equal(t, "B", b.ModuleName, "nested module name")
	testutil.Len(t, b.Submodules, 0, "B is a leaf")
	testutil.Equal(t, "a.v", b.Location.File, "nested site is located in its enclosing definition's file")
}

func TestResolveRootShape(t *testing.T) {
	defs := extractAll(t, map[string]string{
		"adder.v": "module ADDER(a, b, sum);\nendmodule\n",
	}, "adder.v")

	roots := New(defs, nil).Resolve()
	root := roots["ADDER"]
	testutil.NotNil(t, root, "root present")
	testutil.Equal(t, "ADDER", root.InstanceName, "root instance name equals module name")
	testutil.Equal(t, "ADDER", root.ModuleName, "root module name")
	testutil.SliceEqual(t, []string{"a", "b", "sum"}, root.Ports, "declared ports normalized")
	testutil.Len(t, root.Submodules, 0, "no instantiations")
	testutil.Equal(t, 1, root.Location.Line, "definition line")
}

func TestResolveSourceOrder(t *testing.T) {
	// The body instantiates B then A; definition order is A then B.
	// Children must follow textual occurrence, not table order.
	defs := extractAll(t, map[string]string{
		"lib.v": "module A(p);\nendmodule\nmodule B(q);\nendmodule\n",
		"top.v": "module TOP(x);\n  B first(x);\n  A second(x);\nendmodule\n",
	}, "lib.v", "top.v")

	roots := New(defs, nil).Resolve()
	top := roots["TOP"]
	testutil.Len(t, top.Submodules, 2, "two instantiation sites")
	testutil.Equal(t, "B", top.Submodules[0].ModuleName, "first site first")
	testutil.Equal(t, "A", top.Submodules[1].ModuleName, "second site second")
}

func TestResolveSelfInstantiation(t *testing.T) {
	defs := extractAll(t, map[string]string{
		"m.v": "module M(a);\n  M inner(a);\nendmodule\n",
	}, "m.v")

	r := New(defs, nil)
	roots := r.Resolve()

	root := roots["M"]
	testutil.Len(t, root.Submodules, 1, "the site itself is emitted")
	inner := root.Submodules[0]
	testutil.Equal(t, "inner", inner.InstanceName, "instance name kept")
	testutil.Len(t, inner.Submodules, 0, "expansion truncated at the repeated module")

	diags := r.Diagnostics()
	testutil.Len(t, diags, 1, "truncation is reported")
	testutil.Equal(t, hier.DiagRecursiveInstantiation, diags[0].Code, "diagnostic code")
	testutil.Equal(t, hier.SeverityInfo, diags[0].Severity, "truncation is informational")
}

func TestResolveMutualRecursion(t *testing.T) {
	defs := extractAll(t, map[string]string{
		"ping.v": "module PING(a);\n  PONG p(a);\nendmodule\n",
		"pong.v": "module PONG(a);\n  PING p(a);\nendmodule\n",
	}, "ping.v", "pong.v")

	roots := New(defs, nil).Resolve()

	ping := roots["PING"]
	testutil.Len(t, ping.Submodules, 1, "PING contains PONG")
	pong := ping.Submodules[0]
	testutil.Equal(t, "PONG", pong.ModuleName, "first level expands")
	testutil.Len(t, pong.Submodules, 1, "PONG contains the PING site")
	testutil.Len(t, pong.Submodules[0].Submodules, 0, "cycle truncated on the second level")

	// PONG's own root gets the mirror image.
	testutil.Len(t, roots["PONG"].Submodules, 1, "PONG root expands PING")
}

func TestResolveDuplicateFirstWins(t *testing.T) {
	defs := extractAll(t, map[string]string{
		"one.v": "module DUP(a);\nendmodule\n",
		"two.v": "module DUP(a, b);\nendmodule\n",
	}, "one.v", "two.v")

	r := New(defs, nil)
	roots := r.Resolve()

	testutil.Equal(t, 1, len(roots), "one table entry")
	testutil.Equal(t, "one.v", roots["DUP"].Location.File, "first definition wins")
	testutil.SliceEqual(t, []string{"a"}, roots["DUP"].Ports, "first definition's ports")

	diags := r.Diagnostics()
	testutil.Len(t, diags, 1, "later definition is diagnosed")
	testutil.Equal(t, hier.DiagDuplicateModule, diags[0].Code, "diagnostic code")
	testutil.Equal(t, "two.v", diags[0].File, "diagnostic points at the ignored definition")
}

func TestResolveIdentifierBoundary(t *testing.T) {
	// "ADD" must not match inside "ADDER" or "ADD2".
	defs := extractAll(t, map[string]string{
		"add.v": "module ADD(a);\nendmodule\n",
		"top.v": "module TOP(x);\n  wire ADDER_bus;\n  ADD2 u0(x);\n  ADD u1(x);\nendmodule\n",
	}, "add.v", "top.v")

	roots := New(defs, nil).Resolve()
	top := roots["TOP"]
	testutil.Len(t, top.Submodules, 1, "only the whole-identifier match counts")
	testutil.Equal(t, "u1", top.Submodules[0].InstanceName, "the real site")
}

func TestResolveParameterizedSite(t *testing.T) {
	defs := extractAll(t, map[string]string{
		"alu.v": "module alu(a, y);\nendmodule\n",
		"top.v": "module top(x, y);\n  alu #(.WIDTH(8), .DEPTH((2+2))) u_alu (.a(x), .y(y));\nendmodule\n",
	}, "alu.v", "top.v")

	roots := New(defs, nil).Resolve()
	top := roots["top"]
	testutil.Len(t, top.Submodules, 1, "parameterized site matched")

	site := top.Submodules[0]
	testutil.Equal(t, "u_alu", site.InstanceName, "instance name after parameter block")
	testutil.SliceEqual(t, []string{".a(x)", ".y(y)"}, site.Ports, "connection text normalized")
}

func TestResolveInstantiationLineNumbers(t *testing.T) {
	defs := extractAll(t, map[string]string{
		"leaf.v": "module leaf(p);\nendmodule\n",
		"top.v":  "module top(x);\n  wire w;\n\n  leaf u0(w);\n  leaf u1(x);\nendmodule\n",
	}, "leaf.v", "top.v")

	roots := New(defs, nil).Resolve()
	top := roots["top"]
	testutil.Len(t, top.Submodules, 2, "two sites")
	testutil.Equal(t, 4, top.Submodules[0].Location.Line, "first site line is file-absolute")
	testutil.Equal(t, 5, top.Submodules[1].Location.Line, "second site line is file-absolute")
	testutil.Equal(t, "top.v", top.Submodules[0].Location.File, "site file")
}

func TestResolveIgnoresUnknownTypes(t *testing.T) {
	defs := extractAll(t, map[string]string{
		"top.v": "module top(x);\n  mystery u0(x);\nendmodule\n",
	}, "top.v")

	roots := New(defs, nil).Resolve()
	testutil.Len(t, roots["top"].Submodules, 0, "unknown module types produce no nodes")
}

func TestResolveLiteralValueIsNotACandidate(t *testing.T) {
	// A module whose name spells a based-literal value ("hff", "d10") must
	// not match inside sized constants like 8'hff.
	defs := extractAll(t, map[string]string{
		"hff.v": "module hff(p);\nendmodule\n",
		"d10.v": "module d10(p);\nendmodule\n",
		"top.v": "module top(x);\n  assign x = 8'hff;\n  wire [3:0] w = 4'd10;\n  hff u0(x);\nendmodule\n",
	}, "hff.v", "d10.v", "top.v")

	roots := New(defs, nil).Resolve()
	top := roots["top"]
	testutil.Len(t, top.Submodules, 1, "only the real site matches")
	testutil.Equal(t, "u0", top.Submodules[0].InstanceName, "the explicit instantiation")
	testutil.Equal(t, 4, top.Submodules[0].Location.Line, "site line unaffected by literals")
}

func TestResolveNonInstantiationUse(t *testing.T) {
	// A known module name used as a plain signal must not match.
	defs := extractAll(t, map[string]string{
		"alu.v": "module alu(a);\nendmodule\n",
		"top.v": "module top(x);\n  wire alu;\n  assign x = alu;\nendmodule\n",
	}, "alu.v", "top.v")

	roots := New(defs, nil).Resolve()
	testutil.Len(t, roots["top"].Submodules, 0, "name alone is not an instantiation")
}
