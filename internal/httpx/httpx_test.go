package httpx

import (
	"net/url"
	"strings"
	"testing"
)

func TestDecodeJSONStrict(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	if err := DecodeJSON(strings.NewReader(`{"name":"x"}`), &v); err != nil {
		t.Fatalf("DecodeJSON error: %v", err)
	}
	if v.Name != "x" {
		t.Fatalf("expected x, got %q", v.Name)
	}

	if err := DecodeJSON(strings.NewReader(`{"name":"x","extra":1}`), &v); err == nil {
		t.Fatalf("expected unknown-field rejection")
	}
	if err := DecodeJSON(strings.NewReader(`{"name":"x"}{"name":"y"}`), &v); err == nil {
		t.Fatalf("expected trailing-object rejection")
	}
}

func TestReadPlainText(t *testing.T) {
	s, err := ReadPlainText(strings.NewReader("  hello  \n"), 64)
	if err != nil {
		t.Fatalf("ReadPlainText error: %v", err)
	}
	if s != "hello" {
		t.Fatalf("expected trimmed text, got %q", s)
	}

	if _, err := ReadPlainText(strings.NewReader(strings.Repeat("a", 65)), 64); err == nil {
		t.Fatalf("expected too-large rejection")
	}
}

func TestParseLimitOffset(t *testing.T) {
	limit, offset, err := ParseLimitOffset(url.Values{}, 20, 100)
	if err != nil || limit != 20 || offset != 0 {
		t.Fatalf("defaults: got %d/%d err=%v", limit, offset, err)
	}

	limit, offset, err = ParseLimitOffset(url.Values{"limit": {"50"}, "offset": {"10"}}, 20, 100)
	if err != nil || limit != 50 || offset != 10 {
		t.Fatalf("explicit: got %d/%d err=%v", limit, offset, err)
	}

	limit, _, err = ParseLimitOffset(url.Values{"limit": {"500"}}, 20, 100)
	if err != nil || limit != 100 {
		t.Fatalf("expected cap at 100, got %d err=%v", limit, err)
	}

	if _, _, err := ParseLimitOffset(url.Values{"limit": {"0"}}, 20, 100); err == nil {
		t.Fatalf("expected zero limit rejection")
	}
	if _, _, err := ParseLimitOffset(url.Values{"offset": {"-1"}}, 20, 100); err == nil {
		t.Fatalf("expected negative offset rejection")
	}
}
