package sheet

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// BackupName returns the file name for a backup taken at the Manager's
// current time: backup_sheet_YYYYMMDD_HHMMSS.json.
func (m *Manager) BackupName() string {
	return "backup_sheet_" + m.now().Format("20060102_150405") + ".json"
}

// Backup writes the current header-keyed records as indented JSON and
// returns the file path.
func (m *Manager) Backup(ctx context.Context) (string, error) {
	recs, err := m.Records(ctx)
	if err != nil {
		return "", fmt.Errorf("reading sheet for backup: %w", err)
	}
	if recs == nil {
		recs = []map[string]string{}
	}

	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding backup: %w", err)
	}

	if err := os.MkdirAll(m.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup dir: %w", err)
	}
	path := filepath.Join(m.backupDir, m.BackupName())
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}

	m.log.Info("sheet backed up", zap.String("path", path), zap.Int("rows", len(recs)))
	return path, nil
}
