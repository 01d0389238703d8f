package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/SeamusWaldron/cubetrainer"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func record(id string, sec float64, session string) cubetrainer.SolveRecord {
	return cubetrainer.SolveRecord{
		ID:       id,
		Time:     sec,
		Scramble: "R U R' U'",
		Date:     time.Date(2024, 5, 1, 10, 0, 0, 123000000, time.UTC),
		Session:  session,
	}
}

func TestOpen_AppliesMigrations(t *testing.T) {
	db := openTestDB(t)
	v, err := db.CurrentVersion()
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Errorf("CurrentVersion = %d, want 1", v)
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := NewSolveRepository(db).Append(record("a", 10, "s")); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	n, err := NewSolveRepository(db).Count()
	if err != nil || n != 1 {
		t.Errorf("Count = %d, %v; want 1", n, err)
	}
}

func TestSolveRepository_OrderAndRoundTrip(t *testing.T) {
	repo := NewSolveRepository(openTestDB(t))

	for i, id := range []string{"a", "b", "c"} {
		if err := repo.Append(record(id, float64(10+i), "s1")); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := repo.Append(record("d", 9.87, "s2")); err != nil {
		t.Fatal(err)
	}

	all, err := repo.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 || all[0].ID != "a" || all[3].ID != "d" {
		t.Fatalf("All() order wrong: %+v", all)
	}
	want := record("d", 9.87, "s2")
	if all[3].Time != want.Time || all[3].Scramble != want.Scramble || !all[3].Date.Equal(want.Date) || all[3].Session != "s2" {
		t.Errorf("round trip = %+v, want %+v", all[3], want)
	}

	recent, err := repo.List(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].ID != "d" || recent[1].ID != "c" {
		t.Errorf("List(2) = %+v", recent)
	}

	s1, err := repo.BySession("s1")
	if err != nil || len(s1) != 3 {
		t.Errorf("BySession(s1) = %d records, %v", len(s1), err)
	}
}

func TestSolveRepository_GetNotFound(t *testing.T) {
	repo := NewSolveRepository(openTestDB(t))
	if _, err := repo.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSolveRepository_Clear(t *testing.T) {
	repo := NewSolveRepository(openTestDB(t))
	repo.Append(record("a", 10, "s"))
	if err := repo.Clear(); err != nil {
		t.Fatal(err)
	}
	if n, _ := repo.Count(); n != 0 {
		t.Errorf("Count after Clear = %d", n)
	}
}

func TestKVStore(t *testing.T) {
	kv := NewKVStore(openTestDB(t))

	if _, ok, err := kv.Load("settings"); ok || err != nil {
		t.Fatalf("Load(missing) = ok %v, err %v", ok, err)
	}

	if err := kv.Save("settings", []byte(`{"theme":"dark"}`)); err != nil {
		t.Fatal(err)
	}
	if err := kv.Save("settings", []byte(`{"theme":"light"}`)); err != nil {
		t.Fatal(err)
	}

	v, ok, err := kv.Load("settings")
	if err != nil || !ok {
		t.Fatalf("Load = ok %v, err %v", ok, err)
	}
	if string(v) != `{"theme":"light"}` {
		t.Errorf("Load = %s, want last write", v)
	}

	if err := kv.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := kv.Load("settings"); ok {
		t.Error("key survived Clear")
	}
}

func TestDB_Reset(t *testing.T) {
	db := openTestDB(t)
	repo := NewSolveRepository(db)
	kv := NewKVStore(db)

	repo.Append(record("a", 10, "s"))
	kv.Save("favorites", []byte(`["pll-t"]`))
	kv.Save("settings", []byte(`{"theme":"dark"}`))

	keep := map[string][]byte{"settings": []byte(`{"theme":"light"}`)}
	if err := db.Reset(keep); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if n, _ := repo.Count(); n != 0 {
		t.Errorf("Count after Reset = %d", n)
	}
	if _, ok, _ := kv.Load("favorites"); ok {
		t.Error("favorites survived Reset")
	}
	v, ok, err := kv.Load("settings")
	if err != nil || !ok || string(v) != `{"theme":"light"}` {
		t.Errorf("settings after Reset = %s, ok %v, err %v", v, ok, err)
	}
}

func TestDB_ResetRollsBack(t *testing.T) {
	db := openTestDB(t)
	repo := NewSolveRepository(db)
	kv := NewKVStore(db)

	repo.Append(record("a", 10, "s"))
	kv.Save("favorites", []byte(`["pll-t"]`))

	// Fail the last statement, after both tables have been emptied.
	if _, err := db.Exec(`CREATE TRIGGER reject_kv BEFORE INSERT ON kv
		BEGIN SELECT RAISE(ABORT, 'rejected'); END`); err != nil {
		t.Fatal(err)
	}

	if err := db.Reset(map[string][]byte{"settings": []byte(`{}`)}); err == nil {
		t.Fatal("Reset succeeded, want error")
	}

	if n, _ := repo.Count(); n != 1 {
		t.Errorf("Count after failed Reset = %d, want 1", n)
	}
	if _, ok, _ := kv.Load("favorites"); !ok {
		t.Error("favorites lost by failed Reset")
	}
}
