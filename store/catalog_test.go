package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/harukit/pitchbook/model"
)

func setupTestCatalog(t *testing.T) (*FormationCatalog, *FileRosterStore, string, func()) {
	tempDir, err := os.MkdirTemp("", "pitchbook-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	rosters, err := NewFileRosterStore(tempDir)
	if err != nil {
		os.RemoveAll(tempDir)
		t.Fatalf("Failed to create roster store: %v", err)
	}

	catalog, err := NewFormationCatalog(tempDir, rosters)
	if err != nil {
		os.RemoveAll(tempDir)
		t.Fatalf("Failed to create catalog: %v", err)
	}

	cleanup := func() {
		os.RemoveAll(tempDir)
	}
	return catalog, rosters, tempDir, cleanup
}

// TestCatalogLoadMissingFile tests that a missing catalog file yields an empty catalog
func TestCatalogLoadMissingFile(t *testing.T) {
	catalog, _, _, cleanup := setupTestCatalog(t)
	defer cleanup()

	if got := len(catalog.Formations()); got != 0 {
		t.Errorf("Expected empty catalog on first run, got %d entries", got)
	}
}

// TestCatalogLoadCorruptFile tests the empty-catalog fallback for invalid JSON
func TestCatalogLoadCorruptFile(t *testing.T) {
	_, rosters, tempDir, cleanup := setupTestCatalog(t)
	defer cleanup()

	if err := os.WriteFile(filepath.Join(tempDir, CatalogFilename), []byte(`{not json`), 0644); err != nil {
		t.Fatalf("Failed to write corrupt catalog: %v", err)
	}

	catalog, err := NewFormationCatalog(tempDir, rosters)
	if err != nil {
		t.Fatalf("Failed to create catalog: %v", err)
	}
	if got := len(catalog.Formations()); got != 0 {
		t.Errorf("Expected empty catalog for corrupt file, got %d entries", got)
	}
}

// TestCatalogAdd tests creation, the roster-file side effect and the default lineup
func TestCatalogAdd(t *testing.T) {
	catalog, rosters, tempDir, cleanup := setupTestCatalog(t)
	defer cleanup()

	formation := catalog.Add("新しいフォーメーション")
	if formation == nil {
		t.Fatal("Expected Add to return the created formation")
	}
	if formation.Name != "新しいフォーメーション" {
		t.Errorf("Expected name to be set, got %q", formation.Name)
	}

	// カタログに追加されていることを確認
	formations := catalog.Formations()
	if len(formations) != 1 || formations[0].ID != formation.ID {
		t.Fatalf("Expected catalog to contain the new formation, got %v", formations)
	}

	// ロスターファイルが作成され、デフォルトの11人が入っていることを確認
	if _, err := os.Stat(filepath.Join(tempDir, formation.Filename)); err != nil {
		t.Fatalf("Expected roster file to exist: %v", err)
	}
	roster, ok := rosters.LoadRoster(formation.Filename)
	if !ok {
		t.Fatal("Expected roster file to load")
	}
	if len(roster) != model.RosterSize {
		t.Errorf("Expected default roster of %d players, got %d", model.RosterSize, len(roster))
	}
	layout := model.PresetLayout(model.DefaultPresetName)
	for i, p := range roster {
		if p.Position != layout[i] {
			t.Errorf("Expected default position %v at index %d, got %v", layout[i], i, p.Position)
		}
	}
}

// TestCatalogAddUniqueness tests that repeated adds never reuse ids or filenames
func TestCatalogAddUniqueness(t *testing.T) {
	catalog, _, _, cleanup := setupTestCatalog(t)
	defer cleanup()

	ids := make(map[uuid.UUID]bool)
	filenames := make(map[string]bool)
	for i := 0; i < 5; i++ {
		f := catalog.Add("f")
		if ids[f.ID] {
			t.Fatalf("Expected distinct formation ids, got duplicate %s", f.ID)
		}
		if filenames[f.Filename] {
			t.Fatalf("Expected distinct roster filenames, got duplicate %s", f.Filename)
		}
		ids[f.ID] = true
		filenames[f.Filename] = true
	}
}

// TestCatalogPersistence tests that a fresh instance reads back the saved catalog
func TestCatalogPersistence(t *testing.T) {
	catalog, rosters, tempDir, cleanup := setupTestCatalog(t)
	defer cleanup()

	first := catalog.Add("先発")
	second := catalog.Add("控え")

	reloaded, err := NewFormationCatalog(tempDir, rosters)
	if err != nil {
		t.Fatalf("Failed to reload catalog: %v", err)
	}
	formations := reloaded.Formations()
	if len(formations) != 2 {
		t.Fatalf("Expected 2 formations after reload, got %d", len(formations))
	}

	// 追加順が維持されていることを確認
	if formations[0].ID != first.ID || formations[1].ID != second.ID {
		t.Error("Expected insertion order to be preserved across reload")
	}
	if !formations[0].CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("Expected CreatedAt %v, got %v", first.CreatedAt, formations[0].CreatedAt)
	}
}

// TestCatalogOldSchemaRecord tests loading a catalog written before createdAt existed
func TestCatalogOldSchemaRecord(t *testing.T) {
	_, rosters, tempDir, cleanup := setupTestCatalog(t)
	defer cleanup()

	record := `[{"id":"` + uuid.New().String() + `","name":"旧データ","filename":"formation-old.json"}]`
	if err := os.WriteFile(filepath.Join(tempDir, CatalogFilename), []byte(record), 0644); err != nil {
		t.Fatalf("Failed to write old-schema catalog: %v", err)
	}

	catalog, err := NewFormationCatalog(tempDir, rosters)
	if err != nil {
		t.Fatalf("Failed to create catalog: %v", err)
	}
	formations := catalog.Formations()
	if len(formations) != 1 {
		t.Fatalf("Expected 1 formation, got %d", len(formations))
	}
	if formations[0].CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be defaulted for old-schema record")
	}
}

// TestCatalogRemove tests the roster-file side effect of removal
func TestCatalogRemove(t *testing.T) {
	catalog, _, tempDir, cleanup := setupTestCatalog(t)
	defer cleanup()

	first := catalog.Add("a")
	second := catalog.Add("b")

	catalog.Remove([]int{0})

	formations := catalog.Formations()
	if len(formations) != 1 || formations[0].ID != second.ID {
		t.Fatalf("Expected only the second formation to remain, got %v", formations)
	}

	// 削除したフォーメーションのロスターファイルだけが消えていることを確認
	if _, err := os.Stat(filepath.Join(tempDir, first.Filename)); !os.IsNotExist(err) {
		t.Error("Expected removed formation's roster file to be deleted")
	}
	if _, err := os.Stat(filepath.Join(tempDir, second.Filename)); err != nil {
		t.Errorf("Expected surviving formation's roster file to be untouched: %v", err)
	}
}

// TestCatalogMultiRemove tests that all indices resolve against the pre-removal order
func TestCatalogMultiRemove(t *testing.T) {
	catalog, _, tempDir, cleanup := setupTestCatalog(t)
	defer cleanup()

	catalog.Add("a")
	survivor := catalog.Add("b")
	catalog.Add("c")

	// {0, 2} の同時削除で元のインデックス1だけが残る
	catalog.Remove([]int{0, 2})

	formations := catalog.Formations()
	if len(formations) != 1 {
		t.Fatalf("Expected exactly 1 survivor, got %d", len(formations))
	}
	if formations[0].ID != survivor.ID {
		t.Errorf("Expected original index-1 element to survive, got %q", formations[0].Name)
	}
	if _, err := os.Stat(filepath.Join(tempDir, survivor.Filename)); err != nil {
		t.Errorf("Expected survivor's roster file to be untouched: %v", err)
	}
}

// TestCatalogRemoveOutOfRange tests that invalid indices are ignored
func TestCatalogRemoveOutOfRange(t *testing.T) {
	catalog, _, _, cleanup := setupTestCatalog(t)
	defer cleanup()

	catalog.Add("a")
	catalog.Remove([]int{-1, 5})

	if got := len(catalog.Formations()); got != 1 {
		t.Errorf("Expected catalog unchanged for out-of-range indices, got %d entries", got)
	}
}

// TestCatalogRename tests renaming and the unknown-id no-op
func TestCatalogRename(t *testing.T) {
	catalog, _, _, cleanup := setupTestCatalog(t)
	defer cleanup()

	formation := catalog.Add("旧名")
	catalog.Rename(formation.ID, "新名")

	formations := catalog.Formations()
	if formations[0].Name != "新名" {
		t.Errorf("Expected renamed formation, got %q", formations[0].Name)
	}

	// 未知のIDに対するRenameは何もしない
	catalog.Rename(uuid.New(), "無関係")
	formations = catalog.Formations()
	if len(formations) != 1 || formations[0].Name != "新名" {
		t.Errorf("Expected catalog unchanged after renaming unknown id, got %v", formations)
	}
}

// TestCatalogSubscribe tests the change notification callback
func TestCatalogSubscribe(t *testing.T) {
	catalog, _, _, cleanup := setupTestCatalog(t)
	defer cleanup()

	notified := 0
	catalog.Subscribe(func() { notified++ })

	formation := catalog.Add("a")
	catalog.Rename(formation.ID, "b")
	catalog.Remove([]int{0})

	if notified != 3 {
		t.Errorf("Expected 3 notifications, got %d", notified)
	}

	// 何も変更しない操作では通知されない
	catalog.Rename(uuid.New(), "x")
	catalog.Remove([]int{9})
	if notified != 3 {
		t.Errorf("Expected no notification for no-op mutations, got %d", notified)
	}
}

// TestCatalogResolveFormation tests index and id-prefix resolution
func TestCatalogResolveFormation(t *testing.T) {
	catalog, _, _, cleanup := setupTestCatalog(t)
	defer cleanup()

	first := catalog.Add("a")
	second := catalog.Add("b")

	if f, err := catalog.ResolveFormation("0"); err != nil || f.ID != first.ID {
		t.Errorf("Expected index 0 to resolve to first formation, got %v (%v)", f, err)
	}
	if f, err := catalog.ResolveFormation(second.ID.String()[:8]); err != nil || f.ID != second.ID {
		t.Errorf("Expected id prefix to resolve to second formation, got %v (%v)", f, err)
	}
	if _, err := catalog.ResolveFormation("99"); err == nil {
		t.Error("Expected error for out-of-range index, got nil")
	}
	if _, err := catalog.ResolveFormation("zzzz"); err == nil {
		t.Error("Expected error for unknown id prefix, got nil")
	}
}
