package main

import (
	"errors"
	"strings"
	"testing"

	mirasdk "github.com/cyberFlowTech/mira-sdk-go"
)

func TestReadUtterances_Args(t *testing.T) {
	got, err := readUtterances([]string{"aku", "sedih"}, strings.NewReader("ignored\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "aku sedih" {
		t.Fatalf("expected joined args, got %q", got)
	}
}

func TestReadUtterances_Stdin(t *testing.T) {
	got, err := readUtterances(nil, strings.NewReader("halo\n\n  \nwkwk lucu\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "halo" || got[1] != "wkwk lucu" {
		t.Fatalf("expected two non-blank lines, got %q", got)
	}
}

func TestReadUtterances_Empty(t *testing.T) {
	if _, err := readUtterances(nil, strings.NewReader("\n \n")); !errors.Is(err, mirasdk.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := readUtterances([]string{" "}, strings.NewReader("")); !errors.Is(err, mirasdk.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput for blank args, got %v", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("halo", 12); got != "halo" {
		t.Fatalf("expected unchanged, got %q", got)
	}
	if got := truncate("stress banget dan sedih", 6); got != "stres…" {
		t.Fatalf("expected cut with ellipsis, got %q", got)
	}
}
