package forms

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/rackline/rackline/internal/store"
	"github.com/rackline/rackline/internal/wire"
)

func testItem(t *testing.T) *store.Item {
	t.Helper()
	return store.NewItem("abc123", map[string]any{
		"hostname": "node-01",
		"zone":     "default",
		"cpus":     float64(8),
	})
}

func TestChangedIsMinimalDiff(t *testing.T) {
	f := New(testItem(t))

	f.Set("hostname", "node-02")
	f.Set("zone", "default") // unchanged value
	want := map[string]any{"hostname": "node-02"}
	if got := f.Changed(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Changed() = %v, want %v", got, want)
	}

	// Typing the original back removes the field from the diff.
	f.Set("hostname", "node-01")
	if f.Dirty() {
		t.Fatalf("Changed() = %v after reverting edit", f.Changed())
	}
}

func TestValueFallsBackToSnapshot(t *testing.T) {
	f := New(testItem(t))
	if got := f.Value("hostname"); got != "node-01" {
		t.Fatalf("Value(hostname) = %q", got)
	}
	if got := f.Value("cpus"); got != "8" {
		t.Fatalf("Value(cpus) = %q", got)
	}
	f.Set("hostname", "edge-01")
	if got := f.Value("hostname"); got != "edge-01" {
		t.Fatalf("Value after Set = %q", got)
	}
}

func TestResetDiscardsEditsAndErrors(t *testing.T) {
	f := New(testItem(t))
	f.Validate("hostname", Required)
	f.Set("hostname", "")
	if f.Valid() {
		t.Fatal("empty required field accepted")
	}

	f.Reset()
	if !f.Valid() || f.Dirty() {
		t.Fatal("Reset left edits or errors behind")
	}
	if got := f.Value("hostname"); got != "node-01" {
		t.Fatalf("Value after Reset = %q", got)
	}
}

func TestValidatorsRunInOrderFirstFailureWins(t *testing.T) {
	f := Blank()
	f.Validate("hostname", Required, Hostname)
	f.Set("hostname", "")
	if got := f.FieldErrors("hostname"); len(got) != 1 || got[0] != "this field is required" {
		t.Fatalf("errors = %v", got)
	}
	f.Set("hostname", "bad_name")
	if got := f.FieldErrors("hostname"); len(got) != 1 || got[0] != "invalid hostname" {
		t.Fatalf("errors = %v", got)
	}
	f.Set("hostname", "good-name")
	if !f.Valid() {
		t.Fatalf("valid hostname rejected: %v", f.FieldErrors("hostname"))
	}
}

func TestApplyErrorFieldMapping(t *testing.T) {
	f := New(testItem(t))
	payload := json.RawMessage(`{"hostname": ["name already in use"], "__all__": "node is deploying"}`)
	f.ApplyError(wire.ParseCallError(payload))

	if got := f.FieldErrors("hostname"); len(got) != 1 || got[0] != "name already in use" {
		t.Fatalf("field errors = %v", got)
	}
	if got := f.FormErrors(); len(got) != 1 || got[0] != "node is deploying" {
		t.Fatalf("form errors = %v", got)
	}
	if got := f.ErrorFields(); !reflect.DeepEqual(got, []string{"hostname"}) {
		t.Fatalf("ErrorFields() = %v", got)
	}

	// Editing the field clears its server error.
	f.Set("hostname", "node-03")
	if got := f.FieldErrors("hostname"); len(got) != 0 {
		t.Fatalf("field errors after edit = %v", got)
	}
}

func TestApplyErrorPlainError(t *testing.T) {
	f := Blank()
	f.ApplyError(errors.New("connection reset"))
	if got := f.FormErrors(); len(got) != 1 || got[0] != "connection reset" {
		t.Fatalf("form errors = %v", got)
	}
}

func TestValidators(t *testing.T) {
	cases := []struct {
		name  string
		v     Validator
		value string
		ok    bool
	}{
		{"hostname ok", Hostname, "rack-7.example.com", true},
		{"hostname trailing hyphen", Hostname, "rack-", false},
		{"hostname underscore", Hostname, "rack_7", false},
		{"mac ok", MAC, "52:54:00:ab:cd:ef", true},
		{"mac short", MAC, "52:54:00:ab:cd", false},
		{"ipv4 ok", IPv4, "192.168.1.20", true},
		{"ipv4 v6", IPv4, "fe80::1", false},
		{"ipv4 junk", IPv4, "not-an-ip", false},
		{"cidr ok", CIDR, "10.0.0.0/24", true},
		{"cidr no prefix", CIDR, "10.0.0.0", false},
		{"integer ok", Integer, "42", true},
		{"integer junk", Integer, "4x", false},
		{"size ok", Size, "1000000", true},
		{"size zero", Size, "0", false},
		{"empty passes non-required", Hostname, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := tc.v(tc.value)
			if tc.ok && msg != "" {
				t.Fatalf("%q rejected: %s", tc.value, msg)
			}
			if !tc.ok && msg == "" {
				t.Fatalf("%q accepted", tc.value)
			}
		})
	}
}
