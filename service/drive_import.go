package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"textilehub/models"
	"textilehub/repository"
)

// DriveAsset is one importable image found in a Drive folder.
type DriveAsset struct {
	FileID   string
	FileName string
	MimeType string
}

// DriveClientInterface abstracts the Google Drive operations the importer
// needs, so the import flow can be tested without the live API.
type DriveClientInterface interface {
	ListImages(folderID string) ([]DriveAsset, error)
	Download(fileID string) ([]byte, error)
}

// DriveClient lists and downloads images via the Google Drive API.
type DriveClient struct {
	client *drive.Service
}

// NewDriveClient creates a DriveClient from a Service Account JSON file.
func NewDriveClient(credentialsPath string) (*DriveClient, error) {
	ctx := context.Background()

	driveService, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveClient{client: driveService}, nil
}

var _ DriveClientInterface = (*DriveClient)(nil)

// ListImages lists all image files in a Drive folder.
func (dc *DriveClient) ListImages(folderID string) ([]DriveAsset, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)

	var allFiles []*drive.File
	pageToken := ""
	for {
		call := dc.client.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType)")

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		allFiles = append(allFiles, r.Files...)
		pageToken = r.NextPageToken

		if pageToken == "" {
			break
		}
	}

	imageMimeTypes := map[string]bool{
		"image/png":  true,
		"image/jpeg": true,
		"image/jpg":  true,
	}

	var assets []DriveAsset
	for _, file := range allFiles {
		if !imageMimeTypes[strings.ToLower(file.MimeType)] {
			continue
		}
		assets = append(assets, DriveAsset{
			FileID:   file.Id,
			FileName: file.Name,
			MimeType: file.MimeType,
		})
	}

	return assets, nil
}

// Download fetches the raw bytes of a Drive file.
func (dc *DriveClient) Download(fileID string) ([]byte, error) {
	resp, err := dc.client.Files.Get(fileID).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return data, nil
}

// DriveImportService bulk-imports designs from a Google Drive folder.
type DriveImportService struct {
	drive   DriveClientInterface
	designs repository.DesignRepositoryInterface
}

// NewDriveImportService creates a new DriveImportService
func NewDriveImportService(drive DriveClientInterface, designs repository.DesignRepositoryInterface) *DriveImportService {
	return &DriveImportService{drive: drive, designs: designs}
}

// ImportStats summarizes one import run.
type ImportStats struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	Total    int `json:"total"`
}

// ImportFolder creates one design per image in a Drive folder. Images are
// downscaled and re-encoded before storage; files already imported (by
// Drive file ID) are skipped, so reruns are idempotent. The design name
// is the filename without extension; catalogueID may be empty.
func (s *DriveImportService) ImportFolder(ctx context.Context, userID, folderID, catalogueID string) (*ImportStats, error) {
	log.Printf("🔄 Starting import from folder: %s", folderID)

	assets, err := s.drive.ListImages(folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images from Drive: %w", err)
	}

	log.Printf("📦 Processing %d images from Google Drive", len(assets))
	stats := &ImportStats{Total: len(assets)}

	for _, asset := range assets {
		sourceRef := "drive:" + asset.FileID

		exists, err := s.designs.ExistsBySourceRef(ctx, userID, sourceRef)
		if err != nil {
			log.Printf("❌ Error checking existence for %s: %v", sourceRef, err)
			stats.Failed++
			continue
		}
		if exists {
			log.Printf("⏭️  Skipping %s (already imported)", asset.FileName)
			stats.Skipped++
			continue
		}

		log.Printf("📥 Downloading %s", asset.FileName)
		raw, err := s.drive.Download(asset.FileID)
		if err != nil {
			log.Printf("❌ Error downloading %s: %v", asset.FileName, err)
			stats.Failed++
			continue
		}

		optimized, err := OptimizeImage(raw)
		if err != nil {
			log.Printf("❌ Error optimizing %s: %v", asset.FileName, err)
			stats.Failed++
			continue
		}

		design := &models.Design{
			UserID:      userID,
			CatalogueID: catalogueID,
			Name:        nameFromFile(asset.FileName),
			Image:       EncodeDataURI(optimized),
			SourceRef:   sourceRef,
		}

		log.Printf("💾 Attempting to insert design %q", design.Name)
		if err := s.designs.Create(ctx, design); err != nil {
			log.Printf("❌ Error inserting %s into database: %v", asset.FileName, err)
			stats.Failed++
			continue
		}

		log.Printf("✅ Successfully imported %s", asset.FileName)
		stats.Inserted++
	}

	log.Printf("🎉 Import completed: %d inserted, %d skipped, %d failed, %d total",
		stats.Inserted, stats.Skipped, stats.Failed, stats.Total)
	return stats, nil
}

func nameFromFile(filename string) string {
	if i := strings.LastIndex(filename, "."); i > 0 {
		filename = filename[:i]
	}
	return strings.TrimSpace(filename)
}
