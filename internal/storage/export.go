package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/solarwind/internal/dynamo"
)

type ExportData struct {
	Run   RunMetadata    `json:"run"`
	Stats []dynamo.Stats `json:"stats"`
}

// ExportJSON writes a run's metadata and snapshots as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	stats, err := s.LoadStats(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: *meta, Stats: stats})
}
