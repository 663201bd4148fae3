package plinth

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/plinth-ui/plinth/lib/encoding"
)

func TestJournalRecordsAppliedFlag(t *testing.T) {
	store := newTestStore()
	journal := NewJournal(store)

	journal.Dispatch(Act("inc"))
	journal.Dispatch(Act("unknown"))
	journal.Dispatch(ActWith("set-locale", "en")) // already en: no transition
	journal.Dispatch(ActWith("set-locale", "fr"))

	entries := journal.Entries()
	if len(entries) != 4 {
		t.Fatalf("len(Entries()) = %d, want 4", len(entries))
	}
	wantApplied := []bool{true, false, false, true}
	for i, e := range entries {
		if e.Applied != wantApplied[i] {
			t.Errorf("entry %d (%s): Applied = %v, want %v", i, e.Action.Type, e.Applied, wantApplied[i])
		}
		if e.Seq != i+1 {
			t.Errorf("entry %d: Seq = %d, want %d", i, e.Seq, i+1)
		}
	}

	if got := len(journal.Applied()); got != 2 {
		t.Errorf("len(Applied()) = %d, want 2", got)
	}
}

func TestJournalReplayReproducesState(t *testing.T) {
	store := newTestStore()
	journal := NewJournal(store)
	journal.Dispatch(Act("inc"))
	journal.Dispatch(Act("toggle-theme"))
	journal.Dispatch(Act("inc"))
	journal.Dispatch(ActWith("set-locale", "fr"))

	fresh := newTestStore()
	journal.Replay(fresh)

	if diff := cmp.Diff(store.State(), fresh.State()); diff != "" {
		t.Errorf("replayed state mismatch (-orig +replayed):\n%s", diff)
	}
}

func TestJournalSnapshotRoundTrip(t *testing.T) {
	enc, err := encoding.NewEncoder([]byte("journal-test-key"))
	if err != nil {
		t.Fatalf("NewEncoder() = %v", err)
	}

	store := newTestStore()
	journal := NewJournal(store)
	journal.Dispatch(Act("inc"))
	journal.Dispatch(Act("toggle-theme"))

	for _, sensitive := range []bool{false, true} {
		snap, err := journal.Snapshot(enc, sensitive)
		if err != nil {
			t.Fatalf("Snapshot(sensitive=%v) = %v", sensitive, err)
		}

		restored, at, err := RestoreSnapshot[testState](enc, snap, sensitive)
		if err != nil {
			t.Fatalf("RestoreSnapshot(sensitive=%v) = %v", sensitive, err)
		}
		if at.IsZero() {
			t.Error("snapshot timestamp is zero")
		}
		if diff := cmp.Diff(store.State(), restored); diff != "" {
			t.Errorf("restored state mismatch (sensitive=%v) (-want +got):\n%s", sensitive, diff)
		}
	}
}
