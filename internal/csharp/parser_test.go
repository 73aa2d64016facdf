//go:build cgo

package csharp

import (
	"context"
	"strings"
	"testing"

	fmterrors "csfmt/internal/errors"
	"csfmt/internal/format"
	"csfmt/internal/syntax"
	"csfmt/internal/testutil"
)

func formatSource(t *testing.T, src string) (string, error) {
	t.Helper()

	tree, err := NewParser().Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	f, err := format.New(format.DefaultStyle())
	if err != nil {
		t.Fatalf("format.New failed: %v", err)
	}
	return f.Format(tree)
}

func TestGolden(t *testing.T) {
	for _, fx := range testutil.LoadFixtures(t, "testdata", ".cs") {
		t.Run(fx.Name, func(t *testing.T) {
			got, err := formatSource(t, string(fx.Input))
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}
			testutil.CompareGolden(t, fx.GoldenPath, []byte(got))
		})
	}
}

func TestFormat_Idempotent(t *testing.T) {
	for _, fx := range testutil.LoadFixtures(t, "testdata", ".cs") {
		t.Run(fx.Name, func(t *testing.T) {
			once, err := formatSource(t, string(fx.Input))
			if err != nil {
				t.Fatalf("first Format failed: %v", err)
			}
			twice, err := formatSource(t, once)
			if err != nil {
				t.Fatalf("second Format failed: %v", err)
			}
			if once != twice {
				t.Errorf("formatting is not idempotent\n--- once ---\n%s\n--- twice ---\n%s", once, twice)
			}
		})
	}
}

func TestFormat_WhitespaceInsensitive(t *testing.T) {
	a := "class C { void M() { Call(1, 2); } }"
	b := "class   C\n{\n\tvoid M ( )\r\n{ Call ( 1 ,2 ) ; }\n}\n"

	gotA, err := formatSource(t, a)
	if err != nil {
		t.Fatalf("Format(a) failed: %v", err)
	}
	gotB, err := formatSource(t, b)
	if err != nil {
		t.Fatalf("Format(b) failed: %v", err)
	}
	if gotA != gotB {
		t.Errorf("outputs differ\n--- a ---\n%s\n--- b ---\n%s", gotA, gotB)
	}
}

func TestParse_SyntaxErrorsAreDiagnostics(t *testing.T) {
	tree, err := NewParser().Parse(context.Background(), []byte("class C { void M( { }"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !tree.HasErrors() {
		t.Fatal("expected error diagnostics")
	}
	if tree.Diagnostics[0].Line != 1 {
		t.Errorf("diagnostic line = %d, want 1", tree.Diagnostics[0].Line)
	}

	f, _ := format.New(format.DefaultStyle())
	if _, err := f.Format(tree); !fmterrors.Is(err, fmterrors.SyntaxInvalid) {
		t.Errorf("Format error = %v, want SYNTAX_INVALID", err)
	}
}

func TestParse_Tree(t *testing.T) {
	src := `extern alias Legacy;
using System;
using static System.Math;
using IO = System.IO;

namespace Acme.Tools
{
    [Serializable]
    public sealed class Box<T> : IBox where T : class
    {
        private readonly T value; // stored
        public Box(T value) => this.value = value;
        public abstract int Size();
        public enum Kind { A, B }
    }
}
`
	tree, err := NewParser().Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tree.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", tree.Errors())
	}

	root := tree.Root
	if len(root.Externs) != 1 || root.Externs[0].Name != "Legacy" {
		t.Fatalf("externs = %+v", root.Externs)
	}
	if len(root.Usings) != 3 {
		t.Fatalf("got %d usings, want 3", len(root.Usings))
	}
	if u := root.Usings[0]; u.Static || u.Alias != "" || u.Name != "System" {
		t.Errorf("using[0] = %+v, want System", u)
	}
	if u := root.Usings[1]; !u.Static || u.Name != "System.Math" {
		t.Errorf("using[1] = %+v, want static System.Math", u)
	}
	if u := root.Usings[2]; u.Alias != "IO" || u.Name != "System.IO" {
		t.Errorf("using[2] = %+v, want IO = System.IO", u)
	}

	if len(root.Children) != 1 || root.Children[0].Kind != syntax.KindNamespace {
		t.Fatalf("root children = %+v", root.Children)
	}
	ns := root.Children[0]
	if ns.Name != "Acme.Tools" || len(ns.Children) != 1 {
		t.Fatalf("namespace = %q with %d members", ns.Name, len(ns.Children))
	}

	box := ns.Children[0]
	if box.Kind != syntax.KindType || box.Keyword != "class" {
		t.Fatalf("type = %v %q", box.Kind, box.Keyword)
	}
	if box.Signature != "Box<T> : IBox where T : class" {
		t.Errorf("type signature = %q", box.Signature)
	}
	if len(box.Attributes) != 1 || box.Attributes[0] != "[Serializable]" {
		t.Errorf("attributes = %v", box.Attributes)
	}
	if len(box.Children) != 4 {
		t.Fatalf("got %d members, want 4", len(box.Children))
	}

	fld, ctor, abs, enum := box.Children[0], box.Children[1], box.Children[2], box.Children[3]
	if fld.Kind != syntax.KindField || fld.Signature != "T value" || fld.Comment != "// stored" {
		t.Errorf("field = %+v", fld)
	}
	if ctor.Kind != syntax.KindConstructor || ctor.Body != syntax.BodyArrow || ctor.Arrow != "this.value = value" {
		t.Errorf("constructor = %+v", ctor)
	}
	if abs.Kind != syntax.KindMethod || abs.Body != syntax.BodyNone || abs.Signature != "int Size()" {
		t.Errorf("abstract method = %+v", abs)
	}
	if enum.Kind != syntax.KindVerbatim || !strings.HasPrefix(enum.Text, "public enum Kind") {
		t.Errorf("enum = %+v", enum)
	}
}

func TestParse_CommentsBecomeTrivia(t *testing.T) {
	src := `class C
{
    // leading
    int a;

    /* block */
    void M()
    {
        Run(); // same line
        // trailing
    }
}
`
	tree, err := NewParser().Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	c := tree.Root.Children[0]
	if got := c.Children[0].Leading; len(got) != 1 || got[0].Text != "// leading" {
		t.Errorf("field leading = %+v", got)
	}
	m := c.Children[1]
	if got := m.Leading; len(got) != 1 || got[0].Text != "/* block */" {
		t.Errorf("method leading = %+v", got)
	}
	if len(m.Children) != 1 || m.Children[0].Comment != "// same line" {
		t.Fatalf("statements = %+v", m.Children)
	}
	if got := m.Trailing; len(got) != 1 || got[0].Text != "// trailing" {
		t.Errorf("method trailing = %+v", got)
	}
}

func TestInlineSpacing(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"generic call", "var x = Foo<int>( a , b ) ;", "var x = Foo<int>(a, b);"},
		{"member access", "x = a . b [ 0 ] ;", "x = a.b[0];"},
		{"unary", "x = ! y && - z ;", "x = !y && -z;"},
		{"cast", "var n = ( int ) d ;", "var n = (int)d;"},
		{"named argument", "Call ( name : 1 ) ;", "Call(name: 1);"},
		{"named tuple", "var t = ( a : 1 , b : 2 ) ;", "var t = (a: 1, b: 2);"},
		{"conditional keeps spaced colon", "var m = a ? b : c ;", "var m = a ? b : c;"},
		{"string kept", `Log ( "a  b" ) ;`, `Log("a  b");`},
		{"lambda", "Func<int, int> f = x => x * 2 ;", "Func<int, int> f = x => x * 2;"},
		{"new array", "var a = new int [ ] { 1 , 2 } ;", "var a = new int[] { 1, 2 };"},
		{"typeof", "var t = typeof ( string ) ;", "var t = typeof(string);"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatSource(t, "class C { void M() { "+tt.src+" } }")
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}
			want := "\nclass C\n{\n    void M()\n    {\n        " + tt.want + "\n    }\n}\n"
			if got != want {
				t.Errorf("got:\n%s\nwant:\n%s", got, want)
			}
		})
	}
}

func TestAttributeNamedArgument(t *testing.T) {
	got, err := formatSource(t, "[Obsolete ( message : \"old\" , error : true )] class C { }")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	want := "\n[Obsolete(message: \"old\", error: true)]\nclass C\n{\n}\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestStatementLayout_SwitchAndLambdaBlocks(t *testing.T) {
	src := `class C { void M(int x) { switch (x) { case 1: Run(); break; default: return; } items.ForEach(i => { Use(i); }); } }`
	want := `
class C
{
    void M(int x)
    {
        switch (x)
        {
            case 1:
                Run();
                break;
            default:
                return;
        }
        items.ForEach(i =>
        {
            Use(i);
        });
    }
}
`
	got, err := formatSource(t, src)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
