// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package startup

import "testing"

func TestNewSequenceDefaults(t *testing.T) {
	sequence := NewSequence(SequenceOptions{ID: "T1", AppID: "org.example.Foo", Timestamp: 1234})

	if sequence.ID() != "T1" || sequence.AppID() != "org.example.Foo" {
		t.Errorf("identity = (%q, %q)", sequence.ID(), sequence.AppID())
	}
	if sequence.Timestamp() != 1234 {
		t.Errorf("Timestamp = %d, want 1234", sequence.Timestamp())
	}
	if sequence.Workspace() != NoWorkspace {
		t.Errorf("Workspace = %d, want NoWorkspace", sequence.Workspace())
	}
	if sequence.Completed() {
		t.Error("new sequence should not be completed")
	}
}

func TestCompleteNotifiesObserversOnce(t *testing.T) {
	sequence := NewSequence(SequenceOptions{ID: "T1"})

	var order []string
	sequence.OnComplete(func(*Sequence) { order = append(order, "first") })
	sequence.OnComplete(func(*Sequence) { order = append(order, "second") })

	sequence.Complete()
	sequence.Complete()

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("observer calls = %v, want [first second]", order)
	}
	if !sequence.Completed() {
		t.Error("sequence should be completed")
	}
}

func TestUnsubscribedObserverIsNotCalled(t *testing.T) {
	sequence := NewSequence(SequenceOptions{ID: "T1"})

	called := false
	unsubscribe := sequence.OnComplete(func(*Sequence) { called = true })
	unsubscribe()
	sequence.Complete()

	if called {
		t.Fatal("unsubscribed observer was called")
	}
}

func TestObserverMayUnsubscribeAnotherDuringCompletion(t *testing.T) {
	sequence := NewSequence(SequenceOptions{ID: "T1"})

	var unsubscribeSecond func()
	secondCalled := false
	sequence.OnComplete(func(*Sequence) { unsubscribeSecond() })
	unsubscribeSecond = sequence.OnComplete(func(*Sequence) { secondCalled = true })

	sequence.Complete()

	if secondCalled {
		t.Fatal("observer removed during notification was still called")
	}
}

func TestSetWorkspace(t *testing.T) {
	sequence := NewSequence(SequenceOptions{ID: "T1"})

	sequence.SetWorkspace(2)
	if sequence.Workspace() != 2 {
		t.Fatalf("Workspace = %d, want 2", sequence.Workspace())
	}

	sequence.SetWorkspace(-7)
	if sequence.Workspace() != NoWorkspace {
		t.Fatalf("Workspace = %d, want NoWorkspace", sequence.Workspace())
	}

	sequence.SetWorkspace(1)
	sequence.Complete()
	sequence.SetWorkspace(3)
	if sequence.Workspace() != 1 {
		t.Fatalf("Workspace changed after completion: %d", sequence.Workspace())
	}
}

func TestTimestampBeforeWraps(t *testing.T) {
	tests := []struct {
		a, b Timestamp
		want bool
	}{
		{1000, 2000, true},
		{2000, 1000, false},
		{1000, 1000, false},
		{0xFFFFFF00, 0x00000100, true},
		{0x00000100, 0xFFFFFF00, false},
	}
	for _, test := range tests {
		if got := test.a.Before(test.b); got != test.want {
			t.Errorf("%#x.Before(%#x) = %v, want %v", uint32(test.a), uint32(test.b), got, test.want)
		}
	}
}
