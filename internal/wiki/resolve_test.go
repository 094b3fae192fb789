package wiki

import (
	"testing"
)

func TestResolveFandomURLBareName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"minecraft", "https://minecraft.fandom.com/api.php"},
		{"  starwars  ", "https://starwars.fandom.com/api.php"},
		{"elderscrolls", "https://elderscrolls.fandom.com/api.php"},
	}
	for _, tt := range tests {
		if got := ResolveFandomURL(tt.in); got != tt.want {
			t.Errorf("ResolveFandomURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveFandomURLFullURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://minecraft.fandom.com", "https://minecraft.fandom.com/api.php"},
		{"http://minecraft.fandom.com/wiki/Creeper", "http://minecraft.fandom.com/api.php"},
		{"minecraft.fandom.com", "https://minecraft.fandom.com/api.php"},
		{"https://minecraft.fandom.com/", "https://minecraft.fandom.com/api.php"},
		{"https://Minecraft.Fandom.Com", "https://minecraft.fandom.com/api.php"},
		{"MINECRAFT.FANDOM.COM/wiki/Creeper", "https://minecraft.fandom.com/api.php"},
	}
	for _, tt := range tests {
		if got := ResolveFandomURL(tt.in); got != tt.want {
			t.Errorf("ResolveFandomURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveFandomURLNonFandomHost(t *testing.T) {
	// A URL-shaped identifier that is not a fandom.com host falls back
	// to the bare-subdomain form.
	got := ResolveFandomURL("wiki.example.com")
	want := "https://wiki.example.com.fandom.com/api.php"
	if got != want {
		t.Errorf("ResolveFandomURL(wiki.example.com) = %q, want %q", got, want)
	}
}

func TestResolveMediaWikiURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://wiki.example.org", "https://wiki.example.org/api.php"},
		{"https://wiki.example.org/", "https://wiki.example.org/api.php"},
		{"https://wiki.example.org/w/api.php", "https://wiki.example.org/w/api.php"},
	}
	for _, tt := range tests {
		if got := ResolveMediaWikiURL(tt.in); got != tt.want {
			t.Errorf("ResolveMediaWikiURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveMediaWikiURLIdempotent(t *testing.T) {
	inputs := []string{
		"https://wiki.example.org",
		"https://wiki.example.org/",
		"https://wiki.example.org/w/api.php",
	}
	for _, in := range inputs {
		once := ResolveMediaWikiURL(in)
		twice := ResolveMediaWikiURL(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
