package transcript

import (
	"context"
	"testing"
	"time"
)

func TestSQLiteStorePersistAndLoad(t *testing.T) {
	store, err := OpenSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer store.Close()

	store.now = func() time.Time { return time.Date(2024, 1, 31, 15, 45, 3, 0, time.UTC) }

	key, err := store.Persist(context.Background(), testSession())
	if err != nil {
		t.Fatalf("persisting: %v", err)
	}
	if key != "20240131_154503" {
		t.Fatalf("unexpected storage key: %q", key)
	}

	record, err := store.Load(context.Background(), key)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if record.CandidateInfo.Email != "jane@x.co" {
		t.Fatalf("unexpected candidate: %+v", record.CandidateInfo)
	}
	if len(record.AnsweredQuestions) != 1 {
		t.Fatalf("unexpected answers: %+v", record.AnsweredQuestions)
	}
}

func TestSQLiteStoreKeyCollision(t *testing.T) {
	store, err := OpenSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer store.Close()

	fixed := time.Date(2024, 1, 31, 15, 45, 3, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	if _, err := store.Persist(context.Background(), testSession()); err != nil {
		t.Fatalf("first persist: %v", err)
	}
	// same-second completion is an accepted collision at this boundary
	if _, err := store.Persist(context.Background(), testSession()); err == nil {
		t.Fatal("expected a key collision error")
	}
}
