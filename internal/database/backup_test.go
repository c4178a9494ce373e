package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shareit/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformBackup(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "source.db")
	backupDir := filepath.Join(tmpDir, "backups")

	logger := zerolog.Nop()
	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	seedUser(t, db, "Alice", "alice@example.com")
	db.Close()

	svc := NewBackupService(dbPath, config.BackupConfig{
		Enabled:     true,
		StoragePath: backupDir,
	}, &logger)

	require.NoError(t, svc.PerformBackup())

	files, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	// The backup is a valid database containing the seeded data.
	restored, err := NewDB(filepath.Join(backupDir, files[0].Name()), &logger)
	require.NoError(t, err)
	defer restored.Close()

	user, err := restored.GetUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
}

func TestCleanupOldBackups(t *testing.T) {
	backupDir := t.TempDir()
	logger := zerolog.Nop()

	oldFile := filepath.Join(backupDir, "backup_old.db")
	require.NoError(t, os.WriteFile(oldFile, []byte("old"), 0o644))
	oldTime := time.Now().AddDate(0, 0, -30)
	require.NoError(t, os.Chtimes(oldFile, oldTime, oldTime))

	freshFile := filepath.Join(backupDir, "backup_fresh.db")
	require.NoError(t, os.WriteFile(freshFile, []byte("fresh"), 0o644))

	svc := NewBackupService("unused.db", config.BackupConfig{
		Enabled:       true,
		RetentionDays: 7,
		StoragePath:   backupDir,
	}, &logger)

	svc.CleanupOldBackups()

	assert.NoFileExists(t, oldFile)
	assert.FileExists(t, freshFile)
}

func TestBackupServiceDisabled(t *testing.T) {
	logger := zerolog.Nop()
	svc := NewBackupService("unused.db", config.BackupConfig{Enabled: false}, &logger)

	// Start returns immediately when disabled.
	done := make(chan struct{})
	go func() {
		svc.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled backup service did not return")
	}
}
