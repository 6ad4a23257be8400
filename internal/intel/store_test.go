package intel

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"testing"
	"time"
)

// testStore returns a store with a deterministic clock and id sequence.
func testStore() *Store {
	s := NewStore()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	seq := 0
	s.newID = func() string {
		seq++
		return fmt.Sprintf("entry-%04d", seq)
	}
	return s
}

func TestStoreCreate(t *testing.T) {
	s := testStore()

	created, err := s.Create(validEntry())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an id to be assigned")
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("expected matching creation timestamps, got %v / %v", created.CreatedAt, created.UpdatedAt)
	}
	if created.Tags[0] != "forecast" {
		t.Fatalf("expected tags to be normalized on create, got %v", created.Tags)
	}

	got, err := s.Get(created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("expected the stored entry back, got %+v", got)
	}
}

func TestStoreCreate_RejectsInvalid(t *testing.T) {
	s := testStore()
	e := validEntry()
	e.Country = "Atlantis"
	if _, err := s.Create(e); err == nil {
		t.Fatal("expected invalid entry to be rejected")
	}
	if len(s.History(0)) != 0 {
		t.Fatal("rejected entry must not appear in history")
	}
}

func TestStoreCreate_RejectsDuplicate(t *testing.T) {
	s := testStore()
	if _, err := s.Create(validEntry()); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	dup := validEntry()
	dup.Counterparty = "omv"
	dup.Info = "different text does not matter"
	if _, err := s.Create(dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for same point, period and counterparty, got %v", err)
	}

	other := validEntry()
	other.Period = "APR26"
	if _, err := s.Create(other); err != nil {
		t.Fatalf("different period must not be a duplicate: %v", err)
	}
}

func TestStoreUpdate(t *testing.T) {
	s := testStore()
	created, err := s.Create(validEntry())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	changed := validEntry()
	changed.Info = "revised expectation"
	updated, err := s.Update(created.ID, changed)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("update must keep identity, got %q", updated.ID)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("update must keep the creation time")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatal("update must advance the update time")
	}

	recs := s.History(1)
	if len(recs) != 1 || recs[0].Action != ActionEdit {
		t.Fatalf("expected an edit record, got %+v", recs)
	}
	if recs[0].OldData == nil || recs[0].OldData.Info != created.Info {
		t.Fatalf("edit record must carry the previous state, got %+v", recs[0].OldData)
	}
}

func TestStoreUpdate_SameKeyIsNotADuplicate(t *testing.T) {
	s := testStore()
	created, err := s.Create(validEntry())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	same := validEntry()
	same.Info = "only the text changed"
	if _, err := s.Update(created.ID, same); err != nil {
		t.Fatalf("updating an entry onto its own key must succeed: %v", err)
	}
}

func TestStoreUpdate_NotFound(t *testing.T) {
	s := testStore()
	if _, err := s.Update("missing", validEntry()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreDelete(t *testing.T) {
	s := testStore()
	created, err := s.Create(validEntry())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	deleted, err := s.Delete(created.ID, "admin")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted.ID != created.ID {
		t.Fatalf("expected the removed entry back, got %+v", deleted)
	}
	if _, err := s.Get(created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	recs := s.History(1)
	if len(recs) != 1 || recs[0].Action != ActionDelete || recs[0].Author != "admin" {
		t.Fatalf("expected a delete record attributed to admin, got %+v", recs)
	}
}

func TestStoreList_NewestFirstAndFiltered(t *testing.T) {
	s := testStore()

	first := validEntry()
	second := validEntry()
	second.Period = "APR26"
	second.Counterparty = "MVM"
	second.Tags = []string{"outage"}
	third := validEntry()
	third.Period = "26Q3"
	third.PointType = PointTypeStorage
	third.PointName = "MMBF"

	for _, e := range []Entry{first, second, third} {
		if _, err := s.Create(e); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	all := s.List(Filter{})
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Fatalf("expected newest first, got %v before %v", all[i-1].CreatedAt, all[i].CreatedAt)
		}
	}

	byCounterparty := s.List(Filter{Counterparty: "mvm"})
	if len(byCounterparty) != 1 || byCounterparty[0].Counterparty != "MVM" {
		t.Fatalf("counterparty filter must be case-insensitive, got %+v", byCounterparty)
	}

	byType := s.List(Filter{PointType: PointTypeStorage})
	if len(byType) != 1 || byType[0].PointName != "MMBF" {
		t.Fatalf("unexpected point-type filter result %+v", byType)
	}

	byTag := s.List(Filter{Tags: []string{"Outage"}})
	if len(byTag) != 1 {
		t.Fatalf("tag filter must normalize before matching, got %+v", byTag)
	}

	bySearch := s.List(Filter{Search: "mmbf"})
	if len(bySearch) != 1 {
		t.Fatalf("search must scan point names case-insensitively, got %+v", bySearch)
	}

	if got := s.List(Filter{Counterparty: "MVM", PointType: PointTypeStorage}); len(got) != 0 {
		t.Fatalf("filters must combine as AND, got %+v", got)
	}
}

func TestStoreCounterpartiesAndTags(t *testing.T) {
	s := testStore()

	a := validEntry()
	b := validEntry()
	b.Period = "APR26"
	b.Counterparty = "MVM"
	b.Tags = []string{"Outage", "custom"}
	for _, e := range []Entry{a, b} {
		if _, err := s.Create(e); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	cps := s.Counterparties()
	if len(cps) != 2 || cps[0] != "MVM" || cps[1] != "OMV" {
		t.Fatalf("expected sorted counterparties, got %v", cps)
	}

	tags := s.TagsInUse()
	want := []string{"custom", "forecast", "outage"}
	if len(tags) != len(want) {
		t.Fatalf("expected %v, got %v", want, tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, tags)
		}
	}
}

func TestStoreHistory_LimitAndOrder(t *testing.T) {
	s := testStore()
	for i := 0; i < 3; i++ {
		e := validEntry()
		e.Period = fmt.Sprintf("CAL2%d", 6+i)
		if _, err := s.Create(e); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	recs := s.History(2)
	if len(recs) != 2 {
		t.Fatalf("expected the limit to apply, got %d records", len(recs))
	}
	if recs[0].Timestamp.Before(recs[1].Timestamp) {
		t.Fatal("expected newest record first")
	}

	if got := s.History(0); len(got) != 3 {
		t.Fatalf("limit <= 0 must return everything, got %d", len(got))
	}
}

func TestStoreHistory_Capped(t *testing.T) {
	s := testStore()
	s.maxHistory = 2
	for i := 0; i < 4; i++ {
		e := validEntry()
		e.Period = fmt.Sprintf("SY2%d", 6+i)
		if _, err := s.Create(e); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if got := s.History(0); len(got) != 2 {
		t.Fatalf("expected history capped at 2, got %d", len(got))
	}
}

func TestStoreExportCSV(t *testing.T) {
	s := testStore()
	e := validEntry()
	e.Capacity = &Measurement{Value: 120.5, Unit: "MWh/h"}
	if _, err := s.Create(e); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	var buf bytes.Buffer
	if err := s.ExportCSV(&buf); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(rows))
	}
	if rows[0][0] != "id" || rows[0][len(rows[0])-1] != "updated_at" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	row := rows[1]
	if row[8] != "120.5" || row[9] != "MWh/h" {
		t.Fatalf("unexpected capacity columns in %v", row)
	}
	if _, err := time.Parse(time.RFC3339, row[len(row)-1]); err != nil {
		t.Fatalf("timestamps must be RFC3339: %v", err)
	}
}
