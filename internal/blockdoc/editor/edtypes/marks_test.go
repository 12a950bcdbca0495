package edtypes

import (
	"testing"
)

func TestOrderedIsCanonical(t *testing.T) {
	set := MarkSet{}
	set.Add(MarkLink, "https://example.com")
	set.Add(MarkBold, "")
	set.Add(MarkFontSize, "18px")

	got := set.Ordered()
	want := []Mark{
		{Kind: MarkFontSize, Value: "18px"},
		{Kind: MarkBold},
		{Kind: MarkLink, Value: "https://example.com"},
	}
	if !SameMarks(got, want) {
		t.Errorf("Ordered() = %+v, want %+v", got, want)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	parent := MarkSet{MarkTextColor: "#ff0000"}
	child := parent.Clone()
	child.Add(MarkTextColor, "#0000ff")
	child.Add(MarkBold, "")

	if parent[MarkTextColor] != "#ff0000" {
		t.Error("child mutation leaked into parent")
	}
	if _, ok := parent[MarkBold]; ok {
		t.Error("child mark leaked into parent")
	}
}

func TestMergeAdjacent(t *testing.T) {
	bold := []Mark{{Kind: MarkBold}}
	segments := []TextSegment{
		{Text: "Hello ", Marks: bold},
		{Text: "world", Marks: bold},
		{Text: "!", Marks: nil},
	}
	merged := MergeAdjacent(segments)
	if len(merged) != 2 {
		t.Fatalf("len = %d, want 2", len(merged))
	}
	if merged[0].Text != "Hello world" {
		t.Errorf("merged text = %q", merged[0].Text)
	}
	if merged[1].Text != "!" {
		t.Errorf("tail text = %q", merged[1].Text)
	}
}

func TestPlaceholderReg(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Hello @Name", []string{"@Name"}},
		{"PH@ClientName and @Date", []string{"PH@ClientName", "@Date"}},
		{"email@", nil},
		{"no tokens here", nil},
	}
	for _, tt := range tests {
		got := PlaceholderReg.FindAllString(tt.text, -1)
		if len(got) != len(tt.want) {
			t.Errorf("%q: got %v, want %v", tt.text, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%q: got %v, want %v", tt.text, got, tt.want)
			}
		}
	}
}
