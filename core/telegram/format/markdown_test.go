package format

import "testing"

func TestEscapeMarkdownV1(t *testing.T) {
	got, err := EscapeMarkdown("my_name *is* [x] `y`", MarkdownV1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "my\\_name \\*is\\* \\[x] \\`y\\`"
	if got != want {
		t.Fatalf("unexpected escape:\nwant %q\n got %q", want, got)
	}
	if MD("my_name *is* [x] `y`") != want {
		t.Fatalf("MD differs from EscapeMarkdown V1")
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	got, err := EscapeMarkdown("a.b-c!(d)", MarkdownV2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "a\\.b\\-c\\!\\(d\\)"
	if got != want {
		t.Fatalf("unexpected escape:\nwant %q\n got %q", want, got)
	}
}

func TestEscapeMarkdownUnknownVersion(t *testing.T) {
	if _, err := EscapeMarkdown("x", 3); err == nil {
		t.Fatalf("expected error for unsupported version")
	}
}

func TestMDLeavesPlainText(t *testing.T) {
	in := "Hello, New York! 20% done."
	if got := MD(in); got != in {
		t.Fatalf("plain text changed: %q", got)
	}
}
