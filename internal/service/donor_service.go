package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"zakatku-backend/internal/domain"
)

const donorsTable = "donatur"

// ImportResult summarizes one CSV import pass.
type ImportResult struct {
	Total    int      `json:"total_rows"`
	Inserted int      `json:"inserted"`
	Updated  int      `json:"updated"`
	Skipped  []string `json:"skipped,omitempty"`
}

// DonorService manages the donor registry and its CSV import.
type DonorService struct {
	donors domain.DonorRepository
	trail  auditTrail
	log    zerolog.Logger
}

// NewDonorService wires the donor operations.
func NewDonorService(donors domain.DonorRepository, trail auditTrail, log zerolog.Logger) *DonorService {
	return &DonorService{donors: donors, trail: trail, log: log}
}

// Search finds donors by keyword for the capture form's autocomplete.
func (s *DonorService) Search(ctx context.Context, keyword string, limit int) ([]domain.Donor, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.donors.Search(ctx, keyword, limit)
}

// List returns all undeleted donors ordered by name.
func (s *DonorService) List(ctx context.Context) ([]domain.Donor, error) {
	return s.donors.List(ctx)
}

// Update edits a donor's contact details.
func (s *DonorService) Update(ctx context.Context, id, name, address, phone string) (*domain.Donor, error) {
	return s.donors.Update(ctx, id, strings.TrimSpace(name), strings.TrimSpace(address), strings.TrimSpace(phone))
}

// SoftDelete hides a donor from searches and listings.
func (s *DonorService) SoftDelete(ctx context.Context, id string) error {
	return s.donors.SoftDelete(ctx, id)
}

// ImportCSV reads donor rows (columns: nama, alamat, no_hp) and upserts them
// by case-insensitive name+address: existing donors get their phone updated,
// new names are inserted. Rows without a name are skipped and reported. One
// UPLOAD_DONATUR_CSV audit entry summarizes the whole pass.
func (s *DonorService) ImportCSV(ctx context.Context, actor domain.Actor, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("import csv: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("import csv: read header: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	nameIdx, ok := cols["nama"]
	if !ok {
		return nil, fmt.Errorf(`import csv: column "nama" is required`)
	}

	res := &ImportResult{}
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("import csv: row %d: %w", line+1, err)
		}
		line++
		res.Total++

		name := strings.TrimSpace(field(row, nameIdx))
		if name == "" {
			res.Skipped = append(res.Skipped, fmt.Sprintf("row %d: empty name", line))
			continue
		}
		address := strings.TrimSpace(fieldByName(row, cols, "alamat"))
		phone := strings.TrimSpace(fieldByName(row, cols, "no_hp"))

		existing, err := s.donors.FindByNameAddress(ctx, name, address)
		switch {
		case err == nil:
			if err := s.donors.UpdatePhone(ctx, existing.ID, phone); err != nil {
				return nil, fmt.Errorf("import csv: update %s: %w", name, err)
			}
			res.Updated++
		case errors.Is(err, domain.ErrNotFound):
			donor := &domain.Donor{Name: name, Address: address, Phone: phone}
			if err := s.donors.Create(ctx, donor); err != nil {
				return nil, fmt.Errorf("import csv: insert %s: %w", name, err)
			}
			res.Inserted++
		default:
			return nil, fmt.Errorf("import csv: lookup %s: %w", name, err)
		}
	}

	if res.Inserted == 0 && res.Updated == 0 && len(res.Skipped) == 0 {
		return nil, fmt.Errorf("import csv: no valid rows")
	}

	summary := map[string]int{
		"total_rows": res.Total,
		"inserted":   res.Inserted,
		"updated":    res.Updated,
		"skipped":    len(res.Skipped),
	}
	if err := s.trail.Record(ctx, actor, domain.AuditUploadDonorCSV, donorsTable, "", nil, summary); err != nil {
		s.log.Warn().Err(err).Msg("audit entry not written for csv import")
	}
	return res, nil
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func fieldByName(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok {
		return ""
	}
	return field(row, idx)
}
