package webpage

import (
	"reflect"
	"testing"
)

func TestNormalizeStripsTrackingAndWWW(t *testing.T) {
	got := Normalize("https://www.EXAMPLE.com/p/?utm_source=x")
	want := Normalize("https://example.com/p")
	if got != want {
		t.Errorf("Normalize mismatch: %q vs %q", got, want)
	}
	if got != "https://example.com/p" {
		t.Errorf("Normalize = %q, want %q", got, "https://example.com/p")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	urls := []string{
		"https://www.Example.com/Path/?utm_campaign=c&q=1#frag",
		"http://example.com",
		"https://example.com/",
		"https://example.com/a/b/?ref=nav",
		"https://example.com/p?a=1+2&B=%20x",
		"not a url at all",
	}
	for _, u := range urls {
		once := Normalize(u)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", u, once, twice)
		}
	}
}

func TestNormalizeDropsFragment(t *testing.T) {
	if got := Normalize("https://example.com/p#section-2"); got != "https://example.com/p" {
		t.Errorf("Normalize = %q, want fragment dropped", got)
	}
}

func TestNormalizeKeepsRootSlash(t *testing.T) {
	if got := Normalize("https://example.com/"); got != "https://example.com/" {
		t.Errorf("Normalize = %q, want root slash kept", got)
	}
}

func TestNormalizePreservesParamOrder(t *testing.T) {
	got := Normalize("https://example.com/p?b=2&utm_medium=email&a=1")
	want := "https://example.com/p?b=2&a=1"
	if got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}

func TestNormalizeTrackingParamCaseInsensitive(t *testing.T) {
	got := Normalize("https://example.com/p?UTM_Source=x&FBCLID=y&q=go")
	want := "https://example.com/p?q=go"
	if got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}

func TestNormalizeMalformedUnchanged(t *testing.T) {
	malformed := "http://exa mple.com/path"
	if got := Normalize(malformed); got != malformed {
		t.Errorf("Normalize(%q) = %q, want input unchanged", malformed, got)
	}
}

func TestNormalizeLowercasesHostOnly(t *testing.T) {
	got := Normalize("https://EXAMPLE.com/CaseSensitive/Path")
	want := "https://example.com/CaseSensitive/Path"
	if got != want {
		t.Errorf("Normalize = %q, want path case preserved: %q", got, want)
	}
}

func TestDeduplicateFirstWinsOrderPreserving(t *testing.T) {
	input := []string{
		"https://a.com/page",
		"https://b.com/page",
		"https://www.a.com/page/",
	}
	got := Deduplicate(input)
	want := []string{"https://a.com/page", "https://b.com/page"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Deduplicate = %v, want %v", got, want)
	}
}

func TestDeduplicateKeepsOriginalForm(t *testing.T) {
	input := []string{
		"https://www.a.com/page?utm_source=feed",
		"https://a.com/page",
	}
	got := Deduplicate(input)
	if len(got) != 1 {
		t.Fatalf("Deduplicate len = %d, want 1", len(got))
	}
	if got[0] != "https://www.a.com/page?utm_source=feed" {
		t.Errorf("Deduplicate kept %q, want first original form", got[0])
	}
}

func TestDeduplicateMalformedByExactMatch(t *testing.T) {
	input := []string{"::not-a-url::", "::not-a-url::", "::other::"}
	got := Deduplicate(input)
	if len(got) != 2 {
		t.Errorf("Deduplicate len = %d, want 2", len(got))
	}
}

func TestDeduplicateEmpty(t *testing.T) {
	if got := Deduplicate(nil); len(got) != 0 {
		t.Errorf("Deduplicate(nil) = %v, want empty", got)
	}
}
