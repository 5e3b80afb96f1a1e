package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func sampleReport() BuildReport {
	return BuildReport{
		Name:       "rolling_disc",
		Ground:     "flat",
		Wheel:      "knife_edge",
		Tire:       "nonholonomic",
		LoadGroups: []string{"gravity", "normal_force"},
		Counts: Counts{
			Bodies:              2,
			Coordinates:         5,
			Speeds:              5,
			AuxiliarySpeeds:     1,
			Kdes:                5,
			Loads:               2,
			Nonholonomic:        2,
			VelocityConstraints: 2,
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	descriptions := map[string]string{
		"rolling_disc_q1": "Contact point location along the first ground tangent",
		"disc_r":          "Radius of the wheel",
	}

	reportID, err := st.Save(sampleReport(), descriptions)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if reportID == "" {
		t.Error("expected non-empty report id")
	}

	report, err := st.Load(reportID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if report.Name != "rolling_disc" {
		t.Errorf("expected name rolling_disc, got %s", report.Name)
	}
	if report.ID != reportID {
		t.Errorf("expected id %s, got %s", reportID, report.ID)
	}
	if report.Counts.Coordinates != 5 {
		t.Errorf("expected 5 coordinates, got %d", report.Counts.Coordinates)
	}
	if len(report.LoadGroups) != 2 {
		t.Errorf("expected 2 load groups, got %d", len(report.LoadGroups))
	}

	symbols, err := st.LoadSymbols(reportID)
	if err != nil {
		t.Fatalf("load symbols failed: %v", err)
	}
	if len(symbols) != 2 {
		t.Errorf("expected 2 symbols, got %d", len(symbols))
	}
	if symbols["disc_r"] != "Radius of the wheel" {
		t.Errorf("unexpected description: %s", symbols["disc_r"])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	reports, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(reports) != 0 {
		t.Errorf("expected 0 reports, got %d", len(reports))
	}

	if _, err := st.Save(sampleReport(), nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reports, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(reports) != 1 {
		t.Errorf("expected 1 report, got %d", len(reports))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	reportID, err := st.Save(sampleReport(), map[string]string{"g": "gravity"})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reportDir := filepath.Join(tmpDir, reportID)

	if _, err := os.Stat(filepath.Join(reportDir, "report.json")); os.IsNotExist(err) {
		t.Error("report.json not created")
	}
	if _, err := os.Stat(filepath.Join(reportDir, "symbols.csv")); os.IsNotExist(err) {
		t.Error("symbols.csv not created")
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for unknown report id")
	}
}
