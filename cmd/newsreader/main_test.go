package main

import (
	"strings"
	"testing"
)

func TestHelp(t *testing.T) {
	if code := run([]string{"-h"}); code != 0 {
		t.Fatalf("expected help to return 0, got %d", code)
	}
}

func TestUnknownSubcommand(t *testing.T) {
	if code := run([]string{"unknown"}); code == 0 {
		t.Fatalf("expected non-zero for unknown subcommand")
	}
}

func TestSubcommandHelp(t *testing.T) {
	for name := range subcommands {
		if code := run([]string{name, "-h"}); code != 0 {
			t.Fatalf("%s -h returned %d", name, code)
		}
	}
}

func TestArticlesListsCatalog(t *testing.T) {
	useFakes(t, &fakeGenerator{}, &fakeTTSClient{})
	out := captureStdout(t)
	if code := run([]string{"articles", "--category=Business"}); code != 0 {
		t.Fatalf("articles returned non-zero: %d", code)
	}
	if !strings.Contains(out.String(), "Central Bank Holds Rates Steady") {
		t.Fatalf("business article missing from output:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Night Bus") {
		t.Fatalf("category filter not applied:\n%s", out.String())
	}
}

func TestIntListFlag(t *testing.T) {
	var f intListFlag
	if err := f.Set("3, 1,2"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if f.String() != "3,1,2" {
		t.Fatalf("unexpected ids: %s", f.String())
	}
	if err := f.Set("x"); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
	if err := f.Set("0"); err == nil {
		t.Fatalf("expected error for zero id")
	}
}

func TestEnvFileLoaded(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"ok"}}
	useFakes(t, gen, &fakeTTSClient{})
	captureStdout(t)
	t.Setenv("OPENAI_API_KEY", "")
	if code := run([]string{"read", "--article=1"}); code == 0 {
		t.Fatalf("expected failure without an API key")
	}
	if err := writeFile(".env", "OPENAI_API_KEY=sk-from-dotenv\nNEWSREADER_FAST_MODEL=dotenv-fast\n"); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	unsetenv(t, "NEWSREADER_FAST_MODEL")
	unsetenv(t, "OPENAI_API_KEY")
	if code := run([]string{"read", "--article=1"}); code != 0 {
		t.Fatalf("read returned non-zero with .env key: %d", code)
	}
	if gen.last().Model != "dotenv-fast" {
		t.Fatalf(".env model not applied: %q", gen.last().Model)
	}
}
