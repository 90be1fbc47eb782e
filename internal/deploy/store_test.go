package deploy

import "testing"

func TestStoreDeploymentRoundTrip(t *testing.T) {
	store := newTestStore(t)

	p := testPayload("d10")
	p.Notes = "Watch the relay tower."
	if err := store.PutDeployment(p); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.GetDeployment("d10")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.ID != "d10" || got.Player != "Nova" || got.Notes != p.Notes {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Config["cluesToReveal"] != 2.0 {
		t.Errorf("expected config preserved, got %v", got.Config)
	}

	// Overwrite updates in place.
	p.Notes = "updated"
	if err := store.PutDeployment(p); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = store.GetDeployment("d10")
	if got.Notes != "updated" {
		t.Errorf("expected overwrite to stick, got %q", got.Notes)
	}
}

func TestStoreMissingDeployment(t *testing.T) {
	store := newTestStore(t)
	got, err := store.GetDeployment("nope")
	if err != nil {
		t.Fatalf("expected no error for missing deployment, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil payload for missing deployment, got %+v", got)
	}
	last, err := store.LastDeploymentID()
	if err != nil || last != "" {
		t.Fatalf("expected empty last pointer, got %q err %v", last, err)
	}
}

func TestStoreRejectsInvalidPayload(t *testing.T) {
	store := newTestStore(t)
	if err := store.PutDeployment(&Payload{Player: "Nova"}); err == nil {
		t.Fatalf("expected validation error for payload without id")
	}
}

func TestStoreOutcomeJournal(t *testing.T) {
	store := newTestStore(t)
	ok := true
	recs := []OutcomeRecord{
		{DeploymentID: "d1", Player: "Nova", Status: StatusCompleted, Success: &ok, DurationMs: 1200, Heading: "Case Cracked"},
		{DeploymentID: "d1", Player: "Nova", Status: StatusCancelled, DurationMs: 300},
	}
	for _, rec := range recs {
		if err := store.AppendOutcome(rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := store.OutcomesFor("d1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	// Newest first.
	if got[0].Status != StatusCancelled {
		t.Errorf("expected newest record first, got %q", got[0].Status)
	}
	if got[0].Success != nil {
		t.Errorf("expected nil success preserved, got %v", *got[0].Success)
	}
	if got[1].Success == nil || !*got[1].Success {
		t.Errorf("expected success=true preserved")
	}
	if got[1].DurationMs != 1200 {
		t.Errorf("expected duration 1200, got %d", got[1].DurationMs)
	}
}
