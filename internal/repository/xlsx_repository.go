package repository

import (
	"context"
	"errors"
	"io/fs"
	"net/http"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/class-insights-api/internal/models"
	appErrors "github.com/noah-isme/class-insights-api/pkg/errors"
)

// XLSXRepository reads sheet values from local workbooks. SheetRef.URL is the workbook path and
// SheetRef.Sheet the tab name; an empty tab name selects the first sheet.
type XLSXRepository struct {
	logger *zap.Logger
}

// NewXLSXRepository constructs a workbook-backed sheet source.
func NewXLSXRepository(logger *zap.Logger) *XLSXRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &XLSXRepository{logger: logger}
}

// FetchValues returns every row of the sheet as displayed text.
func (r *XLSXRepository) FetchValues(ctx context.Context, ref models.SheetRef) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(ref.URL)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.NewFetchError(http.StatusNotFound, "workbook %s not found", ref.URL)
		}
		return nil, appErrors.NewFetchError(0, "open workbook %s: %v", ref.URL, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			r.logger.Warn("close workbook failed", zap.String("path", ref.URL), zap.Error(cerr))
		}
	}()

	sheet := ref.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return [][]string{}, nil
		}
		sheet = sheets[0]
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, appErrors.NewFetchError(http.StatusNotFound, "sheet %q not found in %s", sheet, ref.URL)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, appErrors.NewFetchError(0, "read sheet %q: %v", sheet, err)
	}
	if rows == nil {
		rows = [][]string{}
	}
	return rows, nil
}
