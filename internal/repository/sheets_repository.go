package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/noah-isme/class-insights-api/internal/models"
	"github.com/noah-isme/class-insights-api/pkg/config"
	appErrors "github.com/noah-isme/class-insights-api/pkg/errors"
)

var (
	spreadsheetURLPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)
	spreadsheetIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]{10,}$`)
)

// SheetsRepository reads sheet values through the Google Sheets v4 values API.
type SheetsRepository struct {
	service *sheets.Service
	logger  *zap.Logger
}

// NewSheetsRepository builds a client authenticated with the service-account credentials file
// when one is configured, and with the API key otherwise.
func NewSheetsRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*SheetsRepository, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.CredentialsFile != "" {
		raw, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read google credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, raw, sheets.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("parse google credentials: %w", err)
		}
		client = oauth2.NewClient(ctx, creds.TokenSource)
		client.Timeout = cfg.Timeout
	}
	return NewSheetsRepositoryWithClient(ctx, client, cfg.BaseURL, cfg.APIKey, logger)
}

// NewSheetsRepositoryWithClient uses an already configured HTTP client. baseURL overrides the
// Sheets endpoint; apiKey, when set, is added to every request.
func NewSheetsRepositoryWithClient(ctx context.Context, client *http.Client, baseURL, apiKey string, logger *zap.Logger) (*SheetsRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client == nil {
		client = &http.Client{}
	}
	if apiKey != "" {
		keyed := *client
		keyed.Transport = &transport.APIKey{Key: apiKey, Transport: client.Transport}
		client = &keyed
	}

	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if baseURL != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimRight(baseURL, "/")+"/"))
	}
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init sheets service: %w", err)
	}
	return &SheetsRepository{service: service, logger: logger}, nil
}

// FetchValues returns the formatted cell grid of one sheet. A sheet with no cells yields an empty
// grid. Failures are *errors.FetchError values.
func (r *SheetsRepository) FetchValues(ctx context.Context, ref models.SheetRef) ([][]string, error) {
	id, err := SpreadsheetID(ref.URL)
	if err != nil {
		return nil, appErrors.NewFetchError(0, "%v", err)
	}

	resp, err := r.service.Spreadsheets.Values.Get(id, sheetRange(ref.Sheet)).
		MajorDimension("ROWS").
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			msg := apiErr.Message
			if msg == "" {
				msg = strings.TrimSpace(apiErr.Body)
			}
			r.logger.Warn("sheets fetch rejected",
				zap.String("spreadsheet_id", id),
				zap.String("sheet", ref.Sheet),
				zap.Int("status", apiErr.Code),
			)
			return nil, appErrors.NewFetchError(apiErr.Code, "sheet %q: %s", ref.Sheet, msg)
		}
		return nil, appErrors.NewFetchError(0, "fetch sheet %q: %v", ref.Sheet, err)
	}

	grid := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, cell := range row {
			if text, ok := cell.(string); ok {
				cells[i] = text
				continue
			}
			cells[i] = fmt.Sprint(cell)
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// SpreadsheetID accepts a full spreadsheet URL or a bare spreadsheet ID.
func SpreadsheetID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if m := spreadsheetURLPattern.FindStringSubmatch(raw); m != nil {
		return m[1], nil
	}
	if spreadsheetIDPattern.MatchString(raw) {
		return raw, nil
	}
	return "", errors.New("not a spreadsheet url or id: " + raw)
}

// sheetRange addresses a whole tab. Quotes inside the name are doubled per A1 notation.
func sheetRange(sheet string) string {
	if sheet == "" {
		return "A:ZZ"
	}
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}
