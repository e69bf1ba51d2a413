package hlslbuild_test

import (
	"strings"
	"testing"

	"github.com/soypat/gshader/hlslbuild"
)

func TestSplicePredicate(t *testing.T) {
	active := hlslbuild.NewFieldSet("A")
	const activeLine = "$A:int x;"
	got := hlslbuild.Splice(activeLine, active, nil)
	if got != "   int x;" {
		t.Errorf("active predicate: got %q", got)
	}
	if len(got) != len(activeLine) {
		t.Errorf("active predicate changed line length %d -> %d", len(activeLine), len(got))
	}

	const inactiveLine = "$B:int y;"
	got = hlslbuild.Splice(inactiveLine, active, nil)
	if got != "// int y;" {
		t.Errorf("inactive predicate: got %q", got)
	}
	if len(got) != len(inactiveLine) {
		t.Errorf("inactive predicate changed line length %d -> %d", len(inactiveLine), len(got))
	}
}

func TestSplicePredicateAlignment(t *testing.T) {
	active := hlslbuild.NewFieldSet("AttributesMesh.normalOS")
	tmpl := "\t$AttributesMesh.normalOS: float3 normalOS : NORMAL;\n" +
		"\t$AttributesMesh.color:    float4 color : COLOR;\n" +
		"\tfloat3 positionOS : POSITION;"
	got := hlslbuild.Splice(tmpl, active, nil)
	lines := strings.Split(got, "\n")
	wantLines := strings.Split(tmpl, "\n")
	if len(lines) != len(wantLines) {
		t.Fatalf("line count changed:\n%s", got)
	}
	for i := range lines {
		if len(lines[i]) != len(wantLines[i]) {
			t.Errorf("line %d length changed:\n%q\n%q", i+1, wantLines[i], lines[i])
		}
	}
	if strings.Index(lines[0], "float3") != strings.Index(wantLines[0], "float3") {
		t.Error("active line lost column alignment")
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[1]), "//") {
		t.Errorf("inactive line not commented: %q", lines[1])
	}
	if lines[2] != wantLines[2] {
		t.Errorf("plain line modified: %q", lines[2])
	}
}

func TestSpliceNamedFragment(t *testing.T) {
	got := hlslbuild.Splice("prefix ${X} suffix", nil, map[string]string{"${X}": "MID"})
	if got != "prefix MID suffix" {
		t.Errorf("got %q", got)
	}
	got, diags := hlslbuild.SpliceDiagnostics("prefix ${Y} suffix", nil, map[string]string{})
	if !strings.Contains(got, "/* Could not find named fragment 'Y' */") {
		t.Errorf("missing marker in %q", got)
	}
	if len(diags) != 1 || diags[0].Kind != hlslbuild.DiagMissingFragment || diags[0].Col != 8 {
		t.Errorf("unexpected diagnostics %v", diags)
	}
}

func TestSpliceMultilineFragmentOnInactiveLine(t *testing.T) {
	frags := map[string]string{"${F}": "line1\nline2;"}
	got := hlslbuild.Splice("$B: ${F}", nil, frags)
	if got != "//  line1\n//line2;" {
		t.Errorf("inactive line: got %q", got)
	}
	for i, line := range strings.Split(got, "\n") {
		if !strings.HasPrefix(line, "//") {
			t.Errorf("line %d of fragment left live: %q", i+1, line)
		}
	}
	got = hlslbuild.Splice("$B: ${F}", hlslbuild.NewFieldSet("B"), frags)
	if got != "    line1\nline2;" {
		t.Errorf("active line: got %q", got)
	}
}

func TestSpliceFragmentNotResliced(t *testing.T) {
	frags := map[string]string{"${Graph}": "$A: line\n${Inner}"}
	got := hlslbuild.Splice("${Graph}", nil, frags)
	if got != frags["${Graph}"] {
		t.Errorf("fragment was re-spliced: %q", got)
	}
}

func TestSpliceMalformed(t *testing.T) {
	tmpl := "ok line\n" +
		"bad ${Unterminated line\n" +
		"also $ bad\n" +
		"$A:after"
	got, diags := hlslbuild.SpliceDiagnostics(tmpl, hlslbuild.NewFieldSet("A"), nil)
	if len(diags) != 2 {
		t.Fatalf("want 2 diagnostics, got %v\n%s", diags, got)
	}
	if diags[0].Kind != hlslbuild.DiagUnterminatedFragment || diags[0].Line != 2 {
		t.Errorf("unexpected first diagnostic %v", diags[0])
	}
	if diags[1].Kind != hlslbuild.DiagMalformedPredicate || diags[1].Line != 3 {
		t.Errorf("unexpected second diagnostic %v", diags[1])
	}
	lines := strings.Split(got, "\n")
	want := []string{
		"ok line",
		"// ERROR: " + diags[0].String(),
		"//bad ${Unterminated line",
		"// ERROR: " + diags[1].String(),
		"//also $ bad",
		"   after",
	}
	if len(lines) != len(want) {
		t.Fatalf("line count mismatch:\n%s", got)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i+1, lines[i], want[i])
		}
	}
}

func TestSpliceDeterministic(t *testing.T) {
	tmpl := "$A: a ${F}\n$B: b ${G}\n"
	active := hlslbuild.NewFieldSet("A")
	frags := map[string]string{"F": "f"}
	first := hlslbuild.Splice(tmpl, active, frags)
	for i := 0; i < 10; i++ {
		if got := hlslbuild.Splice(tmpl, active, frags); got != first {
			t.Fatalf("splice not deterministic:\n%s\n%s", first, got)
		}
	}
	if !strings.HasSuffix(first, "\n") {
		t.Error("trailing newline lost")
	}
}
