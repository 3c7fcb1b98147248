package session

import (
	"errors"
	"os"

	"fbconsole/internal/models"
	"fbconsole/internal/providers"
	"fbconsole/internal/session/interfaces"

	json "github.com/goccy/go-json"
)

const snapshotVersion = 1

var ErrNotSnapshotter = errors.New("session store does not support snapshots")

type snapshot struct {
	Version  int                          `json:"version"`
	Sessions map[string]models.PagerState `json:"sessions"`
}

type FileManager struct {
	store      Store
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, store Store, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		store:      store,
		logger:     logger,
	}
}

func (f *FileManager) snapshotter() (Snapshotter, error) {
	s, ok := f.store.(Snapshotter)
	if !ok {
		return nil, ErrNotSnapshotter
	}
	return s, nil
}

// SaveToFile writes the sessions to a temp file first and renames it over
// fileName, so a crash mid-write keeps the previous snapshot.
func (f *FileManager) SaveToFile(fileName string) error {
	s, err := f.snapshotter()
	if err != nil {
		return err
	}

	jsonData, err := json.Marshal(snapshot{Version: snapshotVersion, Sessions: s.Snapshot()})
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) LoadFromFile(fileName string) error {
	s, err := f.snapshotter()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var snap snapshot
	if err := json.Unmarshal(decompressed, &snap); err != nil {
		return err
	}
	if snap.Version != snapshotVersion {
		f.logger.Warnf(providers.TypeApp, "Ignoring session snapshot with unknown version %d", snap.Version)
		return nil
	}

	s.Restore(snap.Sessions)
	f.logger.Infof(providers.TypeApp, "Restored %d sessions from %s", f.store.Count(), fileName)
	return nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}
