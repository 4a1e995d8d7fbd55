package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"textilehub/models"
	"textilehub/repository"
	"textilehub/utils"
)

// CatalogueExportService renders a catalogue as printable HTML and
// converts it to PDF through headless Chrome.
type CatalogueExportService struct {
	catalogues repository.CatalogueRepositoryInterface
	designs    repository.DesignRepositoryInterface
	baseURL    string // base URL the headless browser navigates to (e.g. "http://localhost:8080")
	appName    string
}

// NewCatalogueExportService creates a new CatalogueExportService
func NewCatalogueExportService(
	catalogues repository.CatalogueRepositoryInterface,
	designs repository.DesignRepositoryInterface,
	baseURL string,
	appName string,
) *CatalogueExportService {
	return &CatalogueExportService{
		catalogues: catalogues,
		designs:    designs,
		baseURL:    baseURL,
		appName:    appName,
	}
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks CHROME_PATH env var first, then common installation paths
func detectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// catalogueCard is one design cell in the printable grid.
type catalogueCard struct {
	Name        string
	Image       template.URL
	Fabric      string
	RetailPrice string
	Description string
}

// paginateCards splits cards into pages of 6 cells each
func paginateCards(cards []catalogueCard) [][]catalogueCard {
	const cardsPerPage = 6
	var pages [][]catalogueCard

	for i := 0; i < len(cards); i += cardsPerPage {
		end := i + cardsPerPage
		if end > len(cards) {
			end = len(cards)
		}
		pages = append(pages, cards[i:end])
	}

	return pages
}

// RenderHTML renders the printable catalogue page. Design images are
// stored as data URIs, so the page is self-contained and needs no asset
// endpoint.
func (s *CatalogueExportService) RenderHTML(ctx context.Context, userID, catalogueID string) (string, error) {
	catalogue, err := s.catalogues.GetByID(ctx, userID, catalogueID)
	if err != nil {
		return "", err
	}

	designs, _, err := s.designs.List(ctx, userID, models.DesignFilters{
		Catalogue: catalogueID,
		SortBy:    "newest",
		Limit:     500,
	})
	if err != nil {
		return "", err
	}

	cards := make([]catalogueCard, 0, len(designs))
	for _, d := range designs {
		cards = append(cards, catalogueCard{
			Name:        d.Name,
			Image:       template.URL(d.Image),
			Fabric:      d.Fabric,
			RetailPrice: utils.FormatINR(d.RetailPrice),
			Description: d.Description,
		})
	}

	templateData := struct {
		AppName       string
		CatalogueName string
		Pages         [][]catalogueCard
		DesignCount   int
	}{
		AppName:       s.appName,
		CatalogueName: catalogue.Name,
		Pages:         paginateCards(cards),
		DesignCount:   len(cards),
	}

	templatePath := filepath.Join("templates", "catalogue.html")
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// GeneratePDF navigates headless Chrome to the catalogue render endpoint
// and prints it to an A4 PDF. Page breaks come from the template's CSS.
func (s *CatalogueExportService) GeneratePDF(ctx context.Context, userID, catalogueID, authToken string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	chromePath := detectChromePath()
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
		chromedp.Flag("enable-print-preview", true),
	)
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	if err := chromedp.Run(chromedpCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		return page.Enable().Do(ctx)
	})); err != nil {
		// Log warning but continue
	}

	renderURL := fmt.Sprintf("%s/catalogues/%s/render?token=%s", s.baseURL, catalogueID, authToken)

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 5000), // 210mm at 96 DPI; tall viewport shows all pages
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(1500*time.Millisecond),
		// Wait for fonts and embedded images to finish loading
		chromedp.Evaluate(`
			(function() {
				return Promise.all([
					document.fonts.ready,
					Promise.all(Array.from(document.querySelectorAll('img')).map(img => {
						return new Promise((resolve) => {
							if (img.complete && img.naturalWidth > 0 && img.naturalHeight > 0) {
								resolve();
								return;
							}
							const timeout = setTimeout(() => resolve(), 5000);
							img.onload = () => { clearTimeout(timeout); resolve(); };
							img.onerror = () => { clearTimeout(timeout); resolve(); };
						});
					}))
				]);
			})();
		`, nil),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm = 8.27" x 11.69"
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}
