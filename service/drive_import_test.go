package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textilehub/models"
)

type fakeDriveClient struct {
	assets  []DriveAsset
	files   map[string][]byte
	listErr error
}

func (f *fakeDriveClient) ListImages(folderID string) ([]DriveAsset, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.assets, nil
}

func (f *fakeDriveClient) Download(fileID string) ([]byte, error) {
	data, ok := f.files[fileID]
	if !ok {
		return nil, errors.New("file not found")
	}
	return data, nil
}

// memDesignRepo is the in-memory DesignRepositoryInterface used by import
// tests; only Create and ExistsBySourceRef matter here.
type memDesignRepo struct {
	created []*models.Design
}

func (m *memDesignRepo) List(context.Context, string, models.DesignFilters) ([]models.Design, int, error) {
	return nil, 0, nil
}
func (m *memDesignRepo) GetByID(context.Context, string, string) (*models.Design, error) {
	return nil, errors.New("not found")
}
func (m *memDesignRepo) Create(_ context.Context, d *models.Design) error {
	m.created = append(m.created, d)
	return nil
}
func (m *memDesignRepo) Update(context.Context, string, string, *models.DesignUpdateRequest) (*models.Design, error) {
	return nil, errors.New("not implemented")
}
func (m *memDesignRepo) Delete(context.Context, string, string) error { return nil }
func (m *memDesignRepo) Fabrics(context.Context, string) ([]string, error) {
	return nil, nil
}
func (m *memDesignRepo) ExistsBySourceRef(_ context.Context, _, sourceRef string) (bool, error) {
	for _, d := range m.created {
		if d.SourceRef == sourceRef {
			return true, nil
		}
	}
	return false, nil
}

func TestImportFolderCreatesDesigns(t *testing.T) {
	pngData := testPNGBytes(t)
	drive := &fakeDriveClient{
		assets: []DriveAsset{
			{FileID: "f1", FileName: "Banarasi Silk.png", MimeType: "image/png"},
			{FileID: "f2", FileName: "block-print.png", MimeType: "image/png"},
		},
		files: map[string][]byte{"f1": pngData, "f2": pngData},
	}
	repo := &memDesignRepo{}
	importer := NewDriveImportService(drive, repo)

	stats, err := importer.ImportFolder(context.Background(), "u1", "folder", "cat-1")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Inserted)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 2, stats.Total)
	require.Len(t, repo.created, 2)

	first := repo.created[0]
	assert.Equal(t, "u1", first.UserID)
	assert.Equal(t, "cat-1", first.CatalogueID)
	assert.Equal(t, "Banarasi Silk", first.Name)
	assert.Equal(t, "drive:f1", first.SourceRef)
	assert.True(t, strings.HasPrefix(first.Image, "data:image/jpeg;base64,"))
}

func TestImportFolderSkipsAlreadyImported(t *testing.T) {
	pngData := testPNGBytes(t)
	drive := &fakeDriveClient{
		assets: []DriveAsset{{FileID: "f1", FileName: "a.png", MimeType: "image/png"}},
		files:  map[string][]byte{"f1": pngData},
	}
	repo := &memDesignRepo{}
	importer := NewDriveImportService(drive, repo)

	_, err := importer.ImportFolder(context.Background(), "u1", "folder", "")
	require.NoError(t, err)

	stats, err := importer.ImportFolder(context.Background(), "u1", "folder", "")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Inserted)
	assert.Equal(t, 1, stats.Skipped)
	assert.Len(t, repo.created, 1)
}

func TestImportFolderCountsFailures(t *testing.T) {
	drive := &fakeDriveClient{
		assets: []DriveAsset{
			{FileID: "good", FileName: "good.png", MimeType: "image/png"},
			{FileID: "missing", FileName: "missing.png", MimeType: "image/png"},
			{FileID: "broken", FileName: "broken.png", MimeType: "image/png"},
		},
		files: map[string][]byte{
			"good":   testPNGBytes(t),
			"broken": []byte("not an image"),
		},
	}
	repo := &memDesignRepo{}
	importer := NewDriveImportService(drive, repo)

	stats, err := importer.ImportFolder(context.Background(), "u1", "folder", "")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 3, stats.Total)
}

func TestImportFolderListError(t *testing.T) {
	drive := &fakeDriveClient{listErr: errors.New("drive unreachable")}
	importer := NewDriveImportService(drive, &memDesignRepo{})

	_, err := importer.ImportFolder(context.Background(), "u1", "folder", "")
	assert.Error(t, err)
}

func TestNameFromFile(t *testing.T) {
	assert.Equal(t, "Banarasi Silk", nameFromFile("Banarasi Silk.png"))
	assert.Equal(t, "design.v2", nameFromFile("design.v2.jpg"))
	assert.Equal(t, "plain", nameFromFile("plain"))
	assert.Equal(t, ".hidden", nameFromFile(".hidden"))
}
