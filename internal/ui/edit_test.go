package ui

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rackline/rackline/internal/fleet"
	"github.com/rackline/rackline/internal/store"
	"github.com/rackline/rackline/internal/wire"
)

// scriptedCaller answers every RPC through a single handler.
type scriptedCaller struct {
	handler func(method string, params map[string]any) (json.RawMessage, error)
}

func (c *scriptedCaller) CallMethod(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	return c.handler(method, params)
}

func TestRenameFormValidation(t *testing.T) {
	it := store.NewItem("abc", map[string]any{"system_id": "abc", "hostname": "node1"})
	f := renameForm(it)

	f.Set("hostname", "bad host!")
	if f.Valid() {
		t.Fatal("invalid hostname must fail validation")
	}

	f.Set("hostname", "node2")
	if !f.Valid() {
		t.Fatalf("unexpected errors: %v", f.FieldErrors("hostname"))
	}
	changed := f.Changed()
	if len(changed) != 1 || changed["hostname"] != "node2" {
		t.Fatalf("Changed = %v", changed)
	}

	// Typing the original back produces no update.
	f.Set("hostname", "node1")
	if f.Dirty() {
		t.Fatal("unchanged hostname must not dirty the form")
	}
}

func TestDeviceCreateFormValidation(t *testing.T) {
	f := deviceCreateForm()
	f.Set("hostname", "cam-1")
	f.Set("primary_mac", "not-a-mac")
	if f.Valid() {
		t.Fatal("invalid MAC must fail validation")
	}
	f.Set("primary_mac", "52:54:00:aa:bb:cc")
	if !f.Valid() {
		t.Fatalf("unexpected errors: %v", f.FieldErrors("primary_mac"))
	}
}

func TestRenameDispatchesUpdate(t *testing.T) {
	var gotMethod string
	var gotParams map[string]any
	c := &scriptedCaller{handler: func(method string, params map[string]any) (json.RawMessage, error) {
		gotMethod, gotParams = method, params
		return json.RawMessage(`{"system_id": "abc", "hostname": "node2"}`), nil
	}}
	m := New(Options{Fleet: fleet.New(c, nil)})
	machines := m.fleet.Machines.Store()
	machines.HandleNotify(wire.ActionCreate, json.RawMessage(`{"system_id": "abc", "hostname": "node1"}`))

	model, _ := m.beginRename(machines.Get("abc"))
	m = model.(Model)
	m.editInput.SetValue("node2")
	_, cmd := m.submitEditField()
	if cmd == nil {
		t.Fatal("valid edit must dispatch the update")
	}

	done, ok := cmd().(formDoneMsg)
	if !ok || done.err != nil {
		t.Fatalf("cmd result = %v", done)
	}
	if gotMethod != "machine.update" {
		t.Fatalf("method = %q", gotMethod)
	}
	if gotParams["system_id"] != "abc" || gotParams["hostname"] != "node2" {
		t.Fatalf("params = %v", gotParams)
	}
	if len(gotParams) != 2 {
		t.Fatalf("update must carry only the diff plus the key, got %v", gotParams)
	}
	if got := machines.Get("abc").StringField("hostname"); got != "node2" {
		t.Fatalf("hostname = %q after update", got)
	}
}

func TestRenameInvalidKeepsEditorOpen(t *testing.T) {
	m := testModel()
	machines := m.fleet.Machines.Store()
	machines.HandleNotify(wire.ActionCreate, json.RawMessage(`{"system_id": "abc", "hostname": "node1"}`))

	model, _ := m.beginRename(machines.Get("abc"))
	m = model.(Model)
	m.editInput.SetValue("-leading-hyphen")
	model, cmd := m.submitEditField()
	m = model.(Model)
	if cmd != nil {
		t.Fatal("invalid hostname must not dispatch")
	}
	if m.editKind != editRename {
		t.Fatal("editor must stay open on a validation failure")
	}
	if m.statusLine == "" {
		t.Fatal("validation failure must surface on the status line")
	}
}

func TestDeviceCreateAdvancesFields(t *testing.T) {
	var gotMethod string
	var gotParams map[string]any
	c := &scriptedCaller{handler: func(method string, params map[string]any) (json.RawMessage, error) {
		gotMethod, gotParams = method, params
		return json.RawMessage(`{"system_id": "dev1", "hostname": "cam-1"}`), nil
	}}
	m := New(Options{Fleet: fleet.New(c, nil)})

	model, _ := m.beginDeviceCreate()
	m = model.(Model)
	m.editInput.SetValue("cam-1")
	model, cmd := m.submitEditField()
	m = model.(Model)
	if cmd != nil || m.editField != "primary_mac" {
		t.Fatalf("hostname step must advance to the MAC field, field = %q", m.editField)
	}

	m.editInput.SetValue("52:54:00:aa:bb:cc")
	_, cmd = m.submitEditField()
	if cmd == nil {
		t.Fatal("completed form must dispatch the create")
	}
	if done, ok := cmd().(formDoneMsg); !ok || done.err != nil {
		t.Fatalf("cmd result = %v", done)
	}
	if gotMethod != "device.create" {
		t.Fatalf("method = %q", gotMethod)
	}
	if gotParams["hostname"] != "cam-1" || gotParams["primary_mac"] != "52:54:00:aa:bb:cc" {
		t.Fatalf("params = %v", gotParams)
	}
}

func TestFormErrorSummaryFromServerRejection(t *testing.T) {
	it := store.NewItem("abc", map[string]any{"system_id": "abc", "hostname": "node1"})
	f := renameForm(it)
	f.Set("hostname", "taken")
	f.ApplyError(&wire.CallError{Fields: map[string][]string{
		"hostname": {"already in use"},
	}})

	summary := formErrorSummary(f)
	if !strings.Contains(summary, "hostname") || !strings.Contains(summary, "already in use") {
		t.Fatalf("summary = %q", summary)
	}
}
