package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"campusnest/internal/domain"
)

// ImportService bulk-loads listings from CSV. Import is append-only: rows
// whose title+address already exist are skipped, never updated.
type ImportService struct {
	listings domain.ListingRepository
	workers  int
}

func NewImportService(listings domain.ListingRepository, workers int) *ImportService {
	if workers < 1 {
		workers = 1
	}
	return &ImportService{listings: listings, workers: workers}
}

type ImportReport struct {
	Added   int
	Skipped int
	Failed  int
}

// ImportCSV reads the whole file, then imports rows concurrently under a
// weighted semaphore. Every listing is attributed to the given admin
// account. Unlike the API path, imported rows may carry zero images.
func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader, adminID int64) (ImportReport, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return ImportReport{}, fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	var rows [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ImportReport{}, fmt.Errorf("read csv row: %w", err)
		}
		rows = append(rows, rec)
	}

	sem := semaphore.NewWeighted(int64(s.workers))
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		report ImportReport
	)

	for i, rec := range rows {
		if err := sem.Acquire(ctx, 1); err != nil {
			return report, err
		}
		wg.Add(1)
		go func(line int, rec []string) {
			defer wg.Done()
			defer sem.Release(1)

			l, err := rowToListing(col, rec, adminID)
			if err == nil {
				err = s.importOne(ctx, l)
			}

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				report.Added++
				log.Info().Str("title", l.Title).Msg("listing imported")
			case domain.IsConflict(err):
				report.Skipped++
				log.Warn().Str("title", l.Title).Msg("skipped duplicate")
			default:
				report.Failed++
				log.Error().Int("line", line).Err(err).Msg("import failed")
			}
		}(i+2, rec)
	}

	wg.Wait()
	return report, nil
}

func (s *ImportService) importOne(ctx context.Context, l domain.Listing) error {
	if err := domain.ValidateListing(l); err != nil {
		return err
	}
	exists, err := s.listings.TitleAddressExists(ctx, l.Title, l.Address)
	if err != nil {
		return err
	}
	if exists {
		return domain.Conflict("duplicate listing")
	}
	return s.listings.CreateListing(ctx, &l)
}

func rowToListing(col map[string]int, rec []string, adminID int64) (domain.Listing, error) {
	get := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	getBool := func(name string, def bool) bool {
		v := strings.ToLower(get(name))
		if v == "" {
			return def
		}
		return v == "true" || v == "1"
	}

	price, err := strconv.ParseFloat(get("price"), 64)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("bad price %q", get("price"))
	}
	lat, err := strconv.ParseFloat(get("latitude"), 64)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("bad latitude %q", get("latitude"))
	}
	lon, err := strconv.ParseFloat(get("longitude"), 64)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("bad longitude %q", get("longitude"))
	}

	var amenities []string
	if v := get("amenities"); v != "" {
		for _, a := range strings.Split(v, ",") {
			amenities = append(amenities, strings.TrimSpace(a))
		}
	}
	var images []string
	if v := get("images"); v != "" {
		for _, img := range strings.Split(v, "|") {
			images = append(images, strings.TrimSpace(img))
		}
	}

	return domain.Listing{
		Title:         get("title"),
		Description:   get("description"),
		Category:      get("category"),
		ProviderName:  get("provider_name"),
		ProviderPhone: get("provider_phone"),
		ProviderEmail: get("provider_email"),
		Address:       get("address"),
		Price:         price,
		City:          get("city"),
		State:         get("state"),
		Latitude:      lat,
		Longitude:     lon,
		Amenities:     amenities,
		Availability:  getBool("availability", true),
		IsActive:      getBool("is_active", true),
		CreatedBy:     adminID,
		Images:        images,
	}, nil
}
