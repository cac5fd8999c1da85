package main

import "testing"

func TestParseInodeArgsDefaultsToRoot(t *testing.T) {
	got, err := parseInodeArgs(nil)
	if err != nil {
		t.Fatalf("parseInodeArgs(nil): %v", err)
	}
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("parseInodeArgs(nil) = %v, want [1]", got)
	}
}

func TestParseInodeArgsParsesList(t *testing.T) {
	got, err := parseInodeArgs([]string{"2", "5", "10"})
	if err != nil {
		t.Fatalf("parseInodeArgs: %v", err)
	}
	want := []uint32{2, 5, 10}
	if len(got) != len(want) {
		t.Fatalf("parseInodeArgs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parseInodeArgs[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestParseInodeArgsRejectsNonNumeric(t *testing.T) {
	if _, err := parseInodeArgs([]string{"abc"}); err == nil {
		t.Fatal("parseInodeArgs([\"abc\"]): want error, got nil")
	}
}
