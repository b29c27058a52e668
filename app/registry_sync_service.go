package app

import (
	"context"
	"strings"

	"registrymail/domain/registry"
	"registrymail/internal"
	"registrymail/internal/errors"
	"registrymail/models"
	"registrymail/ports"

	"github.com/google/uuid"
)

// maxAmbiguousLogged caps how many ambiguous matches are written to the log
const maxAmbiguousLogged = 10

// RegistrySyncService copies verified registry emails onto matching businesses
type RegistrySyncService struct {
	repo        ports.BusinessRepository
	verifiedTag string
	logger      *internal.Logger
}

// NewRegistrySyncService creates a sync service that tags updated businesses with verifiedTag
func NewRegistrySyncService(repo ports.BusinessRepository, verifiedTag string, logger *internal.Logger) *RegistrySyncService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &RegistrySyncService{
		repo:        repo,
		verifiedTag: verifiedTag,
		logger:      logger.WithField("component", "registry-sync"),
	}
}

// Sync matches each record to a business by MatchKey. Records matching no
// business are skipped and records matching several are reported as
// ambiguous; neither is written. With dryRun nothing is written at all.
func (s *RegistrySyncService) Sync(ctx context.Context, records []models.RegistryRecord, dryRun bool) (*models.SyncReport, error) {
	businesses, err := s.repo.ListBusinesses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load businesses")
	}
	s.logger.Info("loaded %d businesses for %d registry records", len(businesses), len(records))

	byKey := indexBusinesses(businesses)
	report := &models.SyncReport{
		RegistryRecords: len(records),
		Ambiguous:       make([]models.AmbiguousMatch, 0),
		DryRun:          dryRun,
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		key := registry.MatchKey(record.Name)
		if key == "" {
			continue
		}
		matches := byKey[key]
		switch {
		case len(matches) == 0:
			report.Skipped++
			continue
		case len(matches) > 1:
			report.Ambiguous = append(report.Ambiguous, ambiguousMatch(record, matches))
			continue
		}

		report.Matched++
		biz := matches[0]
		email := strings.TrimSpace(record.Email)
		if email == "" {
			continue
		}

		if biz.EditableData == nil {
			if !dryRun {
				data := &models.EditableBusinessData{
					ID:           uuid.New(),
					BusinessID:   biz.ID,
					PrimaryEmail: &email,
					Tags:         []string{s.verifiedTag},
				}
				if err := s.repo.CreateEditableData(ctx, data); err != nil {
					return report, errors.Wrapf(err, "failed to create editable data for %s", biz.BusinessName)
				}
			}
			report.Created++
			continue
		}

		update := PlanEmailUpdate(biz.EditableData, email, s.verifiedTag)
		if update.IsEmpty() {
			continue
		}
		if !dryRun {
			if err := s.repo.UpdateEditableData(ctx, biz.EditableData.ID, update); err != nil {
				return report, errors.Wrapf(err, "failed to update editable data for %s", biz.BusinessName)
			}
		}
		report.Updated++
	}

	s.logReport(report)
	return report, nil
}

// PlanEmailUpdate computes the change needed to make email the primary
// address and carry the verified tag. Comparisons ignore case. The old
// primary moves to the alternate slot when that slot is empty or holds
// a value that would otherwise be lost or duplicated.
func PlanEmailUpdate(existing *models.EditableBusinessData, email, verifiedTag string) models.EditableDataUpdate {
	var update models.EditableDataUpdate

	currentPrimary := trimmedOrEmpty(existing.PrimaryEmail)
	currentAlternate := trimmedOrEmpty(existing.AlternateEmail)
	lowerPrimary := strings.ToLower(currentPrimary)
	lowerAlternate := strings.ToLower(currentAlternate)
	lowerEmail := strings.ToLower(email)

	if lowerPrimary != lowerEmail {
		newPrimary := email
		update.PrimaryEmail = &newPrimary

		if currentPrimary != "" {
			if currentAlternate == "" || lowerAlternate == lowerEmail || lowerAlternate == lowerPrimary {
				oldPrimary := currentPrimary
				update.AlternateEmail = &oldPrimary
			}
		}
	}

	if !containsTag(existing.Tags, verifiedTag) {
		update.Tags = appendUnique(existing.Tags, verifiedTag)
	}

	return update
}

func (s *RegistrySyncService) logReport(report *models.SyncReport) {
	s.logger.Info("matched records: %d", report.Matched)
	s.logger.Info("created editable entries: %d", report.Created)
	s.logger.Info("updated existing entries: %d", report.Updated)

	if n := len(report.Ambiguous); n > 0 {
		s.logger.Warn("%d registry rows matched multiple businesses, review required", n)
		for i, dup := range report.Ambiguous {
			if i == maxAmbiguousLogged {
				break
			}
			s.logger.Warn("  %s (%s) -> %s", dup.Record.Name, dup.Record.Email, strings.Join(dup.Businesses, ", "))
		}
	}
	if report.Skipped > 0 {
		s.logger.Warn("%d registry rows had no matching business", report.Skipped)
	}
}

func indexBusinesses(businesses []*models.Business) map[string][]*models.Business {
	byKey := make(map[string][]*models.Business, len(businesses))
	for _, biz := range businesses {
		if biz == nil || biz.BusinessName == "" {
			continue
		}
		key := registry.MatchKey(biz.BusinessName)
		if key == "" {
			continue
		}
		byKey[key] = append(byKey[key], biz)
	}
	return byKey
}

func ambiguousMatch(record models.RegistryRecord, matches []*models.Business) models.AmbiguousMatch {
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.BusinessName)
	}
	return models.AmbiguousMatch{Record: record, Businesses: names}
}

func trimmedOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// appendUnique returns tags plus tag with duplicates removed, order preserved
func appendUnique(tags []string, tag string) []string {
	out := make([]string, 0, len(tags)+1)
	seen := make(map[string]struct{}, len(tags)+1)
	for _, t := range append(append([]string{}, tags...), tag) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
