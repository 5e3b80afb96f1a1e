package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type BuildReport struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Timestamp  time.Time `json:"timestamp"`
	Ground     string    `json:"ground"`
	Wheel      string    `json:"wheel"`
	Tire       string    `json:"tire"`
	LoadGroups []string  `json:"load_groups"`
	Counts     Counts    `json:"counts"`
}

type Counts struct {
	Bodies              int `json:"bodies"`
	Coordinates         int `json:"coordinates"`
	Speeds              int `json:"speeds"`
	AuxiliarySpeeds     int `json:"auxiliary_speeds"`
	Kdes                int `json:"kdes"`
	Loads               int `json:"loads"`
	Holonomic           int `json:"holonomic"`
	Nonholonomic        int `json:"nonholonomic"`
	VelocityConstraints int `json:"velocity_constraints"`
}

func (s *Store) Save(report BuildReport, descriptions map[string]string) (string, error) {
	reportID := fmt.Sprintf("%s_%d", report.Name, time.Now().Unix())
	reportDir := filepath.Join(s.baseDir, reportID)

	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return "", err
	}

	report.ID = reportID
	report.Timestamp = time.Now()

	metaPath := filepath.Join(reportDir, "report.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return "", err
	}

	csvPath := filepath.Join(reportDir, "symbols.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"symbol", "description"}); err != nil {
		return "", err
	}
	for _, sym := range sortedKeys(descriptions) {
		if err := w.Write([]string{sym, descriptions[sym]}); err != nil {
			return "", err
		}
	}

	return reportID, nil
}

func (s *Store) List() ([]BuildReport, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BuildReport{}, nil
		}
		return nil, err
	}

	reports := make([]BuildReport, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "report.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var report BuildReport
		if err := json.Unmarshal(data, &report); err != nil {
			continue
		}

		reports = append(reports, report)
	}

	return reports, nil
}

func (s *Store) Load(reportID string) (*BuildReport, error) {
	metaPath := filepath.Join(s.baseDir, reportID, "report.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var report BuildReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}

	return &report, nil
}

func (s *Store) LoadSymbols(reportID string) (map[string]string, error) {
	csvPath := filepath.Join(s.baseDir, reportID, "symbols.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	symbols := make(map[string]string)
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 2 {
			continue
		}
		symbols[record[0]] = record[1]
	}

	return symbols, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
