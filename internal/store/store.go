package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"officesim-backend/internal/model"
	"officesim-backend/internal/office"
	"officesim-backend/internal/parse"
)

// unzoned collects desks whose label has no usable zone prefix.
const unzoned = "Unzoned"

// Store defines the interface for all database operations.
type Store interface {
	UpsertLayout(ctx context.Context, l office.Layout) error
	UpdateOccupancy(ctx context.Context, now time.Time, clock Clock, observations []Observation) ([]string, error)
	ResetDay(ctx context.Context, day int) error
	History(ctx context.Context, resourceID string, day int) ([]model.OccupancyHistory, error)
	OpenOccupancies(ctx context.Context) ([]model.OccupancyOpen, error)
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for handlers that query directly.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// UpdateOccupancy diffs the observed desk and space states against the open
// table, archives every holding that ended and returns the IDs of desks that
// became available.
func (s *gormStore) UpdateOccupancy(ctx context.Context, now time.Time, clock Clock, observations []Observation) ([]string, error) {
	currentOpenRecords, err := s.fetchAllOpenOccupancies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch open occupancy records: %w", err)
	}

	var freedDesks []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, obs := range observations {
			oldRecord, exists := currentOpenRecords[obs.ResourceID]
			if !exists {
				if !obs.Available() {
					newRecord := prepareOccupancy(obs, now, clock)
					if err := tx.Create(&newRecord).Error; err != nil {
						return fmt.Errorf("failed to create occupancy record for %s: %w", obs.ResourceID, err)
					}
				}
				continue
			}
			delete(currentOpenRecords, obs.ResourceID)

			if !changed(oldRecord, obs) {
				continue
			}
			if err := archiveRecord(tx, oldRecord, now, clock); err != nil {
				return err
			}

			if obs.Available() {
				if err := tx.Delete(&model.OccupancyOpen{ResourceID: oldRecord.ResourceID}).Error; err != nil {
					return fmt.Errorf("failed to delete open occupancy record for %s: %w", oldRecord.ResourceID, err)
				}
				if obs.Kind == model.KindDesk {
					freedDesks = append(freedDesks, obs.ResourceID)
				}
				continue
			}

			updatedRecord := prepareOccupancy(obs, now, clock)
			if err := tx.Save(&updatedRecord).Error; err != nil {
				return fmt.Errorf("failed to update occupancy record for %s: %w", obs.ResourceID, err)
			}
		}

		// Resources that are no longer part of the layout.
		for _, remainingRecord := range currentOpenRecords {
			if err := archiveRecord(tx, remainingRecord, now, clock); err != nil {
				return err
			}
			if err := tx.Delete(&model.OccupancyOpen{ResourceID: remainingRecord.ResourceID}).Error; err != nil {
				return fmt.Errorf("failed to delete open occupancy record for %s: %w", remainingRecord.ResourceID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return freedDesks, nil
}

func changed(rec model.OccupancyOpen, obs Observation) bool {
	return rec.State != obs.State || rec.OccupantID != obs.OccupantID || rec.EventID != obs.EventID
}

// archiveRecord creates a history row for a holding that just ended.
func archiveRecord(tx *gorm.DB, recordToArchive model.OccupancyOpen, now time.Time, clock Clock) error {
	periodEnd := clock.SimTime
	if clock.Day != recordToArchive.Day || periodEnd < recordToArchive.SimTime {
		// the holding started on an earlier day; close it where it started
		periodEnd = recordToArchive.SimTime
	}

	historyRecord := model.OccupancyHistory{
		ResourceID:  recordToArchive.ResourceID,
		Kind:        recordToArchive.Kind,
		State:       recordToArchive.State,
		OccupantID:  recordToArchive.OccupantID,
		EventID:     recordToArchive.EventID,
		Day:         recordToArchive.Day,
		PeriodStart: recordToArchive.SimTime,
		PeriodEnd:   periodEnd,
		ObservedAt:  now,
	}

	if err := tx.Create(&historyRecord).Error; err != nil {
		return fmt.Errorf("failed to archive occupancy record for %s: %w", recordToArchive.ResourceID, err)
	}
	return nil
}

func prepareOccupancy(obs Observation, now time.Time, clock Clock) model.OccupancyOpen {
	return model.OccupancyOpen{
		ResourceID: obs.ResourceID,
		Kind:       obs.Kind,
		State:      obs.State,
		OccupantID: obs.OccupantID,
		EventID:    obs.EventID,
		Day:        clock.Day,
		SimTime:    clock.SimTime,
		ObservedAt: now,
	}
}

// ResetDay drops occupancy rows from before day. Only the current day's
// history is kept.
func (s *gormStore) ResetDay(ctx context.Context, day int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("day < ?", day).Delete(&model.OccupancyOpen{}).Error; err != nil {
			return fmt.Errorf("failed to purge open occupancy: %w", err)
		}
		if err := tx.Where("day < ?", day).Delete(&model.OccupancyHistory{}).Error; err != nil {
			return fmt.Errorf("failed to purge occupancy history: %w", err)
		}
		return nil
	})
}

// History returns the archived holdings of a resource on day, oldest first.
func (s *gormStore) History(ctx context.Context, resourceID string, day int) ([]model.OccupancyHistory, error) {
	var rows []model.OccupancyHistory
	err := s.db.WithContext(ctx).
		Where("resource_id = ? AND day = ?", resourceID, day).
		Order("period_start ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history for %s: %w", resourceID, err)
	}
	return rows, nil
}

// OpenOccupancies returns every resource that is currently held.
func (s *gormStore) OpenOccupancies(ctx context.Context) ([]model.OccupancyOpen, error) {
	var rows []model.OccupancyOpen
	if err := s.db.WithContext(ctx).Order("resource_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load open occupancy: %w", err)
	}
	return rows, nil
}

// UpsertLayout stores the desks and spaces of a floor plan, grouping desks
// into zones by their label, and removes resources no longer on the plan.
func (s *gormStore) UpsertLayout(ctx context.Context, l office.Layout) error {
	existingDesks, err := s.fetchAllDesks(ctx)
	if err != nil {
		log.Printf("Warning: could not pre-fetch desks: %v", err)
		existingDesks = make(map[string]model.Desk)
	}

	// Phase 1: Process and save zones
	labels := make(map[string]parse.ParsedLabel, len(l.Desks))
	for _, d := range l.Desks {
		label, err := parse.ParseLabel(d.Name)
		if err != nil {
			log.Printf("Error parsing desk label %q (%s): %v", d.Name, d.ID, err)
			label = parse.ParsedLabel{Zone: unzoned}
		}
		labels[d.ID] = label
	}
	zoneMap, err := s.processAndSaveZones(ctx, labels)
	if err != nil {
		return fmt.Errorf("failed to process zones: %w", err)
	}

	// Phase 2: Build desk slice for upserting
	var desksToUpsert []model.Desk
	deskIDs := make([]string, 0, len(l.Desks))
	for _, d := range l.Desks {
		deskIDs = append(deskIDs, d.ID)
		zone, ok := zoneMap[labels[d.ID].Zone]
		if !ok {
			log.Printf("Error: could not find zone %q after upserting. Skipping desk %s.", labels[d.ID].Zone, d.ID)
			continue
		}
		desk, needsUpsert := prepareDesk(d, labels[d.ID], existingDesks, zone.ID)
		if needsUpsert {
			desksToUpsert = append(desksToUpsert, desk)
		}
	}

	spaces := make([]model.Space, 0, len(l.Spaces))
	spaceIDs := make([]string, 0, len(l.Spaces))
	for _, sp := range l.Spaces {
		spaceIDs = append(spaceIDs, sp.ID)
		spaces = append(spaces, model.Space{
			ID:          sp.ID,
			DisplayName: sp.Name,
			X:           sp.Center.X,
			Y:           sp.Center.Y,
			Width:       sp.Width,
			Height:      sp.Height,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(desksToUpsert) > 0 {
			log.Printf("Batch upserting %d desks...", len(desksToUpsert))
			if err := batchUpsertDesks(tx, desksToUpsert); err != nil {
				return fmt.Errorf("batch upsert desks failed: %w", err)
			}
		}
		if len(spaces) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"display_name", "x", "y", "width", "height", "updated_at"}),
			}).Create(&spaces).Error; err != nil {
				return fmt.Errorf("batch upsert spaces failed: %w", err)
			}
		}
		if err := deleteMissing(tx, &model.Desk{}, deskIDs); err != nil {
			return fmt.Errorf("failed to remove old desks: %w", err)
		}
		if err := deleteMissing(tx, &model.Space{}, spaceIDs); err != nil {
			return fmt.Errorf("failed to remove old spaces: %w", err)
		}
		return nil
	})
}

// deleteMissing removes every row of value's table whose id is not in keep.
func deleteMissing(tx *gorm.DB, value any, keep []string) error {
	if len(keep) == 0 {
		return tx.Where("1 = 1").Delete(value).Error
	}
	return tx.Where("id NOT IN ?", keep).Delete(value).Error
}

func (s *gormStore) fetchAllOpenOccupancies(ctx context.Context) (map[string]model.OccupancyOpen, error) {
	var openRecords []model.OccupancyOpen
	if err := s.db.WithContext(ctx).Find(&openRecords).Error; err != nil {
		return nil, err
	}
	recordMap := make(map[string]model.OccupancyOpen, len(openRecords))
	for _, r := range openRecords {
		recordMap[r.ResourceID] = r
	}
	return recordMap, nil
}

func (s *gormStore) fetchAllDesks(ctx context.Context) (map[string]model.Desk, error) {
	var desks []model.Desk
	if err := s.db.WithContext(ctx).Find(&desks).Error; err != nil {
		return nil, err
	}
	deskMap := make(map[string]model.Desk, len(desks))
	for _, d := range desks {
		deskMap[d.ID] = d
	}
	return deskMap, nil
}

func (s *gormStore) processAndSaveZones(ctx context.Context, labels map[string]parse.ParsedLabel) (map[string]model.Zone, error) {
	zonesToUpsert := make(map[string]model.Zone)
	for _, label := range labels {
		if _, exists := zonesToUpsert[label.Zone]; !exists {
			zonesToUpsert[label.Zone] = model.Zone{Name: label.Zone}
		}
	}

	if len(zonesToUpsert) == 0 {
		return make(map[string]model.Zone), nil
	}

	var zoneList []model.Zone
	for _, z := range zonesToUpsert {
		zoneList = append(zoneList, z)
	}

	log.Printf("Batch upserting %d zones...", len(zoneList))
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&zoneList).Error; err != nil {
		return nil, fmt.Errorf("batch upsert zones failed: %w", err)
	}

	var allZones []model.Zone
	if err := s.db.WithContext(ctx).Find(&allZones).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve zones after upsert: %w", err)
	}

	zoneMap := make(map[string]model.Zone, len(allZones))
	for _, z := range allZones {
		zoneMap[z.Name] = z
	}
	return zoneMap, nil
}

func prepareDesk(spec office.DeskSpec, label parse.ParsedLabel, existingDesks map[string]model.Desk, zoneID int64) (model.Desk, bool) {
	newDesk := model.Desk{
		ID:          spec.ID,
		ZoneID:      zoneID,
		DisplayName: spec.Name,
		Seq:         label.Seq,
		X:           spec.Center.X,
		Y:           spec.Center.Y,
		Width:       spec.Width,
		Height:      spec.Height,
	}

	if oldDesk, exists := existingDesks[newDesk.ID]; exists {
		if oldDesk.ZoneID == newDesk.ZoneID &&
			oldDesk.DisplayName == newDesk.DisplayName &&
			oldDesk.Seq == newDesk.Seq &&
			oldDesk.X == newDesk.X &&
			oldDesk.Y == newDesk.Y &&
			oldDesk.Width == newDesk.Width &&
			oldDesk.Height == newDesk.Height {
			return newDesk, false
		}
	}
	return newDesk, true
}

func batchUpsertDesks(tx *gorm.DB, desks []model.Desk) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"zone_id", "display_name", "seq", "x", "y", "width", "height", "updated_at"}),
	}).Create(&desks).Error
}
