package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/noah-isme/class-insights-api/internal/models"
	appErrors "github.com/noah-isme/class-insights-api/pkg/errors"
)

type stubCacheRepo struct {
	mu     sync.Mutex
	store  map[string][]byte
	getErr error
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return s.getErr
	}
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, _ string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.store)
	s.store = nil
	return n, nil
}

// fakeSheets serves grids keyed by sheet name. A non-nil gate blocks a sheet until closed.
type fakeSheets struct {
	mu    sync.Mutex
	grids map[string][][]string
	errs  map[string]error
	gates map[string]chan struct{}
	calls map[string]int
}

func (f *fakeSheets) FetchValues(ctx context.Context, ref models.SheetRef) ([][]string, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[ref.Sheet]++
	gate := f.gates[ref.Sheet]
	err := f.errs[ref.Sheet]
	grid := f.grids[ref.Sheet]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return grid, nil
}

func (f *fakeSheets) callCount(sheet string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[sheet]
}

type staticYears map[int]models.YearSources

func (y staticYears) Lookup(year int) (models.YearSources, bool) {
	src, ok := y[year]
	return src, ok
}

func (y staticYears) AvailableYears() []int {
	out := make([]int, 0, len(y))
	for year := range y {
		out = append(out, year)
	}
	return out
}

type staticDataset struct {
	ds *models.Dataset
}

func (s staticDataset) Current() *models.Dataset {
	return s.ds
}

func testYears() staticYears {
	return staticYears{
		2025: {
			Year:      2025,
			PlatformA: models.SheetRef{URL: "fb-2025", Sheet: "Fb"},
			PlatformB: models.SheetRef{URL: "app-2025", Sheet: "App"},
			Images:    models.SheetRef{URL: "img-2025", Sheet: "Images"},
		},
		2024: {
			Year:      2024,
			PlatformA: models.SheetRef{URL: "fb-2024", Sheet: "Fb2024"},
			PlatformB: models.SheetRef{URL: "app-2024", Sheet: "App2024"},
		},
	}
}

func testGrids() map[string][][]string {
	return map[string][][]string{
		"Fb": {
			{"Date", "Teacher", "Product", "Course", "Duration", "Attendance", "Highest Attendance", "Issue Type"},
			{"2025-01-05", "Rina", "Live", "Math", "60", "1,200", "300", "Audio"},
			{"2025-01-10", "Budi", "Live", "Physics", "45", "800", "250"},
			{"2025-02-03", "", "Live", "Biology", "50", "100", "90"},
		},
		"App": {
			{"Date", "Teacher", "Type", "Course", "Class Duration", "Total Attendance", "Rating"},
			{"1/15/2025", "Rina", "Class", "Math", "90", "500", "4.5"},
			{"1/20/2025", "Sari", "Class", "Chemistry", "-", "350", "0"},
		},
		"Images": {
			{"Teacher", "Image"},
			{"Rina", "https://img/rina.png"},
		},
		"Fb2024": {{"Date", "Teacher"}, {"2024-03-01", "Lama"}},
		"App2024": {{"Date", "Teacher"}},
	}
}
