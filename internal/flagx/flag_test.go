package flagx

import (
	"reflect"
	"testing"
)

func TestFilterArgs_KeepsAllowedFlagsOnly(t *testing.T) {
	t.Parallel()

	args := []string{"-a", ":8080", "-x", "junk", "-d", "dsn://db"}
	got := FilterArgs(args, []string{"-a", "-d"})
	want := []string{"-a", ":8080", "-d", "dsn://db"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFilterArgs_EqualsForm(t *testing.T) {
	t.Parallel()

	args := []string{"--config=conf.json", "-v=true"}
	got := FilterArgs(args, []string{"--config"})
	want := []string{"--config=conf.json"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFilterArgs_FlagWithoutValue(t *testing.T) {
	t.Parallel()

	// The next argument looks like a flag, so it must not be swallowed as a value.
	args := []string{"-a", "-d", "dsn://db"}
	got := FilterArgs(args, []string{"-a", "-d"})
	want := []string{"-a", "-d", "dsn://db"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFilterArgs_EmptyInput(t *testing.T) {
	t.Parallel()

	got := FilterArgs(nil, []string{"-a"})
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}
