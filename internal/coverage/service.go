package coverage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/giftbloom/giftbloom-backend/pkg/db/models"
	"github.com/giftbloom/giftbloom-backend/pkg/enums"
	pkgerrors "github.com/giftbloom/giftbloom-backend/pkg/errors"
	"github.com/giftbloom/giftbloom-backend/pkg/geo"
	"github.com/giftbloom/giftbloom-backend/pkg/logger"
	"github.com/giftbloom/giftbloom-backend/pkg/outbox"
	"github.com/giftbloom/giftbloom-backend/pkg/places"
	"github.com/giftbloom/giftbloom-backend/pkg/postal"
)

// deactivationReason is stamped on rows an admin pulls out of ACTIVE. It keeps
// deactivated rows distinguishable from admin rejections in the audit trail.
const deactivationReason = "deactivated by platform"

const eventVersion = 1

var pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)

type coverageRepository interface {
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]Row, error)
	ListModelsByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.VendorServiceArea, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.VendorServiceArea, error)
	FindByVendorAndArea(ctx context.Context, vendorID, areaID uuid.UUID) (*models.VendorServiceArea, error)
	ListUnrequestedAreas(ctx context.Context, vendorID, cityID uuid.UUID) ([]models.ServiceArea, error)
	ListPendingByVendorTx(tx *gorm.DB, vendorID uuid.UUID) ([]models.VendorServiceArea, error)
	CreateTx(tx *gorm.DB, row *models.VendorServiceArea) error
	UpdateTx(tx *gorm.DB, row *models.VendorServiceArea) error
	DeleteByVendorAndAreasTx(tx *gorm.DB, vendorID uuid.UUID, areaIDs []uuid.UUID) error
	FindVendorByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	FindCityByID(ctx context.Context, id uuid.UUID) (*models.City, error)
	UpdateVendorTx(tx *gorm.DB, vendor *models.Vendor) error
	FindAreaByID(ctx context.Context, id uuid.UUID) (*models.ServiceArea, error)
	FindAreaByPincode(ctx context.Context, pincode string) (*models.ServiceArea, error)
	ListActiveGeocodedAreas(ctx context.Context) ([]models.ServiceArea, error)
	CreateAreaTx(tx *gorm.DB, area *models.ServiceArea) error
	UpsertVendorPincodeTx(tx *gorm.DB, vendorID uuid.UUID, pincode string, charge decimal.Decimal) error
	DeactivateVendorPincodeTx(tx *gorm.DB, vendorID uuid.UUID, pincode string) error
	DeleteVendorPincodesTx(tx *gorm.DB, vendorID uuid.UUID) error
	CreateVendorPincodeTx(tx *gorm.DB, row *models.VendorPincode) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type auditEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type postalDirectory interface {
	Lookup(ctx context.Context, pincode string) ([]postal.Locality, error)
}

type pincodeGeocoder interface {
	GeocodePincode(ctx context.Context, pincode string) (*places.ReverseGeocodeResult, error)
}

// Service owns the coverage lifecycle: vendor selection-set saves, admin
// moderation, bulk operations, and the legacy pincode replace.
type Service interface {
	GetCoverage(ctx context.Context, vendorID uuid.UUID) (*View, error)
	SaveSelection(ctx context.Context, actor Actor, vendorID uuid.UUID, entries []SelectionEntry) (*View, error)
	Transition(ctx context.Context, actor Actor, vendorID, coverageID uuid.UUID, action enums.CoverageAction, reason string) (*Row, error)
	BulkAdd(ctx context.Context, actor Actor, vendorID uuid.UUID, input BulkAddInput) (*BulkAddResult, error)
	CreateByPincode(ctx context.Context, actor Actor, vendorID uuid.UUID, input CreateByPincodeInput) (*CreateByPincodeResult, error)
	BulkActivate(ctx context.Context, actor Actor, vendorID uuid.UUID) (*BulkActivateResult, error)
	ReplacePincodes(ctx context.Context, actor Actor, vendorID uuid.UUID, input ReplacePincodesInput) (*ReplacePincodesResult, error)
}

type service struct {
	repo      coverageRepository
	tx        txRunner
	events    auditEmitter
	directory postalDirectory
	geocoder  pincodeGeocoder
	logg      *logger.Logger
}

// NewService builds the coverage lifecycle service. The postal directory and
// geocoder are optional; without them create-by-pincode falls back to the
// vendor's own city data.
func NewService(repo coverageRepository, tx txRunner, events auditEmitter, directory postalDirectory, geocoder pincodeGeocoder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coverage repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("audit emitter required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		events:    events,
		directory: directory,
		geocoder:  geocoder,
		logg:      logg,
	}, nil
}

func (s *service) GetCoverage(ctx context.Context, vendorID uuid.UUID) (*View, error) {
	vendor, err := s.loadVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, vendor)
}

func (s *service) buildView(ctx context.Context, vendor *models.Vendor) (*View, error) {
	rows, err := s.repo.ListByVendor(ctx, vendor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coverage")
	}
	areas, err := s.repo.ListUnrequestedAreas(ctx, vendor.ID, vendor.CityID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available areas")
	}

	available := make([]AvailableArea, 0, len(areas))
	for _, area := range areas {
		available = append(available, AvailableArea{
			ID:      area.ID,
			Name:    area.Name,
			Pincode: area.Pincode,
		})
	}
	return &View{Rows: rows, AvailableAreas: available}, nil
}

// SaveSelection reconciles the vendor's desired area set against stored rows.
// ACTIVE rows are never touched here; removing one is an admin transition.
func (s *service) SaveSelection(ctx context.Context, actor Actor, vendorID uuid.UUID, entries []SelectionEntry) (*View, error) {
	vendor, err := s.loadVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	desired := make(map[uuid.UUID]SelectionEntry, len(entries))
	for _, entry := range entries {
		if entry.Surcharge.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "surcharge cannot be negative")
		}
		desired[entry.AreaID] = entry
	}

	existing, err := s.repo.ListModelsByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coverage rows")
	}
	existingByArea := make(map[uuid.UUID]models.VendorServiceArea, len(existing))
	for _, row := range existing {
		existingByArea[row.ServiceAreaID] = row
	}

	for areaID := range desired {
		if _, ok := existingByArea[areaID]; ok {
			continue
		}
		area, err := s.repo.FindAreaByID(ctx, areaID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service area")
		}
		if area == nil || !area.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("service area %s not found", areaID))
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var removals []uuid.UUID
		for _, row := range existing {
			entry, wanted := desired[row.ServiceAreaID]
			switch {
			case row.Status == enums.CoverageStatusActive:
				// Preserved verbatim either way.
			case wanted && row.Status == enums.CoverageStatusPending:
				if !row.Surcharge.Equal(entry.Surcharge) {
					row := row
					row.Surcharge = entry.Surcharge
					if err := s.repo.UpdateTx(tx, &row); err != nil {
						return err
					}
				}
			case !wanted:
				removals = append(removals, row.ServiceAreaID)
			}
		}
		if err := s.repo.DeleteByVendorAndAreasTx(tx, vendorID, removals); err != nil {
			return err
		}

		for areaID, entry := range desired {
			if _, ok := existingByArea[areaID]; ok {
				continue
			}
			row := models.VendorServiceArea{
				ID:            uuid.New(),
				VendorID:      vendorID,
				ServiceAreaID: areaID,
				Surcharge:     entry.Surcharge,
				Status:        enums.CoverageStatusPending,
				RequestedAt:   time.Now(),
			}
			row.SyncActive()
			if err := s.repo.CreateTx(tx, &row); err != nil {
				return err
			}
			event := outbox.DomainEvent{
				EventType:     enums.EventCoverageRequested,
				AggregateType: enums.AggregateVendorServiceArea,
				AggregateID:   row.ID,
				Actor:         actorRef(actor),
				Version:       eventVersion,
				Data: map[string]any{
					"vendorId":  vendorID,
					"areaId":    areaID,
					"surcharge": entry.Surcharge,
				},
			}
			if err := s.events.Emit(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapTxErr(err, "save coverage selection")
	}

	return s.buildView(ctx, vendor)
}

// Transition applies one admin action to a coverage row. Each action is valid
// from exactly one status; anything else reports the row's current status. The
// row must belong to the vendor named in the request; another vendor's row is
// indistinguishable from a missing one.
func (s *service) Transition(ctx context.Context, actor Actor, vendorID, coverageID uuid.UUID, action enums.CoverageAction, reason string) (*Row, error) {
	if !action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown coverage action %q", action))
	}

	row, err := s.repo.FindByID(ctx, coverageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coverage row not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coverage row")
	}
	if row.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coverage row not found")
	}

	area, err := s.repo.FindAreaByID(ctx, row.ServiceAreaID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service area")
	}
	if area == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service area not found")
	}

	prevStatus := row.Status
	eventType, err := s.applyAction(row, action, reason, actor)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, row); err != nil {
			return err
		}
		switch action {
		case enums.CoverageActionActivate:
			if err := s.repo.UpsertVendorPincodeTx(tx, row.VendorID, area.Pincode, row.Surcharge); err != nil {
				return err
			}
		case enums.CoverageActionDeactivate:
			if err := s.repo.DeactivateVendorPincodeTx(tx, row.VendorID, area.Pincode); err != nil {
				return err
			}
		}
		event := outbox.DomainEvent{
			EventType:     eventType,
			AggregateType: enums.AggregateVendorServiceArea,
			AggregateID:   row.ID,
			Actor:         actorRef(actor),
			Version:       eventVersion,
			Data: map[string]any{
				"vendorId":  row.VendorID,
				"areaId":    row.ServiceAreaID,
				"oldStatus": prevStatus,
				"newStatus": row.Status,
				"reason":    row.RejectionReason,
			},
		}
		return s.events.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, wrapTxErr(err, "apply coverage transition")
	}

	return s.rowFromModel(ctx, row, area)
}

// applyAction mutates the row in memory and returns the audit event type.
func (s *service) applyAction(row *models.VendorServiceArea, action enums.CoverageAction, reason string, actor Actor) (enums.OutboxEventType, error) {
	now := time.Now()
	switch action {
	case enums.CoverageActionActivate:
		if row.Status != enums.CoverageStatusPending {
			return "", transitionConflict(action, row.Status)
		}
		row.Status = enums.CoverageStatusActive
		row.ActivatedAt = &now
		activatedBy := actor.UserID
		row.ActivatedBy = &activatedBy
		row.RejectionReason = nil
		row.SyncActive()
		return enums.EventCoverageActivated, nil

	case enums.CoverageActionReject:
		if row.Status != enums.CoverageStatusPending {
			return "", transitionConflict(action, row.Status)
		}
		if reason == "" {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "a rejection reason is required")
		}
		row.Status = enums.CoverageStatusRejected
		row.RejectionReason = &reason
		row.SyncActive()
		return enums.EventCoverageRejected, nil

	case enums.CoverageActionDeactivate:
		if row.Status != enums.CoverageStatusActive {
			return "", transitionConflict(action, row.Status)
		}
		row.Status = enums.CoverageStatusRejected
		systemReason := deactivationReason
		row.RejectionReason = &systemReason
		row.SyncActive()
		return enums.EventCoverageDeactivated, nil

	case enums.CoverageActionReconsider:
		if row.Status != enums.CoverageStatusRejected {
			return "", transitionConflict(action, row.Status)
		}
		row.Status = enums.CoverageStatusPending
		row.RejectionReason = nil
		row.ActivatedAt = nil
		row.ActivatedBy = nil
		row.RequestedAt = now
		row.SyncActive()
		return enums.EventCoverageReconsidered, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown coverage action %q", action))
}

// BulkAdd links existing areas to a vendor directly in ACTIVE status,
// skipping pairs that already hold any coverage row.
func (s *service) BulkAdd(ctx context.Context, actor Actor, vendorID uuid.UUID, input BulkAddInput) (*BulkAddResult, error) {
	if len(input.AreaIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one area is required")
	}
	if input.Surcharge.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "surcharge cannot be negative")
	}
	if _, err := s.loadVendor(ctx, vendorID); err != nil {
		return nil, err
	}

	type addition struct {
		area models.ServiceArea
	}
	var additions []addition
	skipped := 0
	seen := make(map[uuid.UUID]bool, len(input.AreaIDs))
	for _, areaID := range input.AreaIDs {
		if seen[areaID] {
			skipped++
			continue
		}
		seen[areaID] = true

		existing, err := s.repo.FindByVendorAndArea(ctx, vendorID, areaID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing coverage")
		}
		if existing != nil {
			skipped++
			continue
		}
		area, err := s.repo.FindAreaByID(ctx, areaID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service area")
		}
		if area == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("service area %s not found", areaID))
		}
		additions = append(additions, addition{area: *area})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		now := time.Now()
		activatedBy := actor.UserID
		addedIDs := make([]uuid.UUID, 0, len(additions))
		for _, add := range additions {
			row := models.VendorServiceArea{
				ID:            uuid.New(),
				VendorID:      vendorID,
				ServiceAreaID: add.area.ID,
				Surcharge:     input.Surcharge,
				Status:        enums.CoverageStatusActive,
				RequestedAt:   now,
				ActivatedAt:   &now,
				ActivatedBy:   &activatedBy,
			}
			row.SyncActive()
			if err := s.repo.CreateTx(tx, &row); err != nil {
				return err
			}
			if err := s.repo.UpsertVendorPincodeTx(tx, vendorID, add.area.Pincode, input.Surcharge); err != nil {
				return err
			}
			addedIDs = append(addedIDs, add.area.ID)
		}
		// Audited even when every area was skipped.
		event := outbox.DomainEvent{
			EventType:     enums.EventCoverageBulkAdded,
			AggregateType: enums.AggregateVendor,
			AggregateID:   vendorID,
			Actor:         actorRef(actor),
			Version:       eventVersion,
			Data: map[string]any{
				"areaIds":   addedIDs,
				"surcharge": input.Surcharge,
				"skipped":   skipped,
			},
		}
		return s.events.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, wrapTxErr(err, "bulk add coverage")
	}

	return &BulkAddResult{Added: len(additions), Skipped: skipped}, nil
}

// CreateByPincode links the vendor to the area covering the pincode, creating
// the area first when none exists. Area data comes from the postal directory
// and geocoder, falling back to the vendor's own city and coordinates.
func (s *service) CreateByPincode(ctx context.Context, actor Actor, vendorID uuid.UUID, input CreateByPincodeInput) (*CreateByPincodeResult, error) {
	if !pincodePattern.MatchString(input.Pincode) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pincode must be 6 digits")
	}
	if input.Surcharge.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "surcharge cannot be negative")
	}

	vendor, err := s.loadVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	area, err := s.repo.FindAreaByPincode(ctx, input.Pincode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup service area")
	}

	areaCreated := false
	if area == nil {
		area = s.composeArea(ctx, vendor, input)
		areaCreated = true
	} else {
		existing, err := s.repo.FindByVendorAndArea(ctx, vendorID, area.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing coverage")
		}
		if existing != nil {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("vendor already holds %s coverage on this area", existing.Status))
		}
	}

	now := time.Now()
	activatedBy := actor.UserID
	row := models.VendorServiceArea{
		ID:            uuid.New(),
		VendorID:      vendorID,
		ServiceAreaID: area.ID,
		Surcharge:     input.Surcharge,
		Status:        enums.CoverageStatusActive,
		RequestedAt:   now,
		ActivatedAt:   &now,
		ActivatedBy:   &activatedBy,
	}
	row.SyncActive()

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if areaCreated {
			if err := s.repo.CreateAreaTx(tx, area); err != nil {
				return err
			}
			event := outbox.DomainEvent{
				EventType:     enums.EventServiceAreaCreated,
				AggregateType: enums.AggregateServiceArea,
				AggregateID:   area.ID,
				Actor:         actorRef(actor),
				Version:       eventVersion,
				Data: map[string]any{
					"name":    area.Name,
					"pincode": area.Pincode,
					"cityId":  area.CityID,
				},
			}
			if err := s.events.Emit(ctx, tx, event); err != nil {
				return err
			}
		}
		if err := s.repo.CreateTx(tx, &row); err != nil {
			return err
		}
		if err := s.repo.UpsertVendorPincodeTx(tx, vendorID, area.Pincode, input.Surcharge); err != nil {
			return err
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventCoverageActivated,
			AggregateType: enums.AggregateVendorServiceArea,
			AggregateID:   row.ID,
			Actor:         actorRef(actor),
			Version:       eventVersion,
			Data: map[string]any{
				"vendorId": vendorID,
				"areaId":   area.ID,
				"pincode":  area.Pincode,
			},
		}
		return s.events.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, wrapTxErr(err, "create coverage by pincode")
	}

	resultRow, err := s.rowFromModel(ctx, &row, area)
	if err != nil {
		return nil, err
	}
	return &CreateByPincodeResult{Row: *resultRow, AreaCreated: areaCreated}, nil
}

// composeArea assembles a new ServiceArea for a pincode nothing covers yet.
func (s *service) composeArea(ctx context.Context, vendor *models.Vendor, input CreateByPincodeInput) *models.ServiceArea {
	area := &models.ServiceArea{
		ID:       uuid.New(),
		Name:     input.AreaName,
		Pincode:  input.Pincode,
		CityID:   vendor.CityID,
		IsActive: true,
	}

	if area.Name == "" && s.directory != nil {
		localities, err := s.directory.Lookup(ctx, input.Pincode)
		if err != nil {
			if s.logg != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "postal directory lookup failed")
			}
		} else if len(localities) > 0 {
			area.Name = localities[0].Name
		}
	}
	if area.Name == "" {
		area.Name = fmt.Sprintf("Area %s", input.Pincode)
	}

	if s.geocoder != nil {
		geocoded, err := s.geocoder.GeocodePincode(ctx, input.Pincode)
		if err != nil {
			if s.logg != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "pincode geocoding failed")
			}
		} else if geocoded != nil {
			lat, lng := geocoded.Lat, geocoded.Lng
			area.Lat, area.Lng = &lat, &lng
		}
	}
	if area.Lat == nil && vendor.HasCoordinates() {
		area.Lat, area.Lng = vendor.Lat, vendor.Lng
	}
	return area
}

// BulkActivate moves every PENDING row for the vendor to ACTIVE. Running it
// again reports zero activations.
func (s *service) BulkActivate(ctx context.Context, actor Actor, vendorID uuid.UUID) (*BulkActivateResult, error) {
	if _, err := s.loadVendor(ctx, vendorID); err != nil {
		return nil, err
	}

	activated := 0
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		pending, err := s.repo.ListPendingByVendorTx(tx, vendorID)
		if err != nil {
			return err
		}

		now := time.Now()
		activatedBy := actor.UserID
		activatedIDs := make([]uuid.UUID, 0, len(pending))
		for i := range pending {
			row := &pending[i]
			area, err := s.repo.FindAreaByID(ctx, row.ServiceAreaID)
			if err != nil {
				return err
			}
			if area == nil {
				continue
			}
			row.Status = enums.CoverageStatusActive
			row.ActivatedAt = &now
			row.ActivatedBy = &activatedBy
			row.RejectionReason = nil
			row.SyncActive()
			if err := s.repo.UpdateTx(tx, row); err != nil {
				return err
			}
			if err := s.repo.UpsertVendorPincodeTx(tx, vendorID, area.Pincode, row.Surcharge); err != nil {
				return err
			}
			activatedIDs = append(activatedIDs, row.ID)
		}
		activated = len(activatedIDs)

		// Audited even when nothing was pending.
		event := outbox.DomainEvent{
			EventType:     enums.EventCoverageBulkActivated,
			AggregateType: enums.AggregateVendor,
			AggregateID:   vendorID,
			Actor:         actorRef(actor),
			Version:       eventVersion,
			Data: map[string]any{
				"coverageIds": activatedIDs,
				"oldStatus":   enums.CoverageStatusPending,
				"newStatus":   enums.CoverageStatusActive,
			},
		}
		return s.events.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, wrapTxErr(err, "bulk activate coverage")
	}

	return &BulkActivateResult{Activated: activated}, nil
}

// ReplacePincodes is the legacy whole-set write: it discards the vendor's
// pincode assignments and installs a new set, either listed explicitly or
// derived from active geocoded areas inside a radius.
func (s *service) ReplacePincodes(ctx context.Context, actor Actor, vendorID uuid.UUID, input ReplacePincodesInput) (*ReplacePincodesResult, error) {
	hasList := len(input.Pincodes) > 0
	hasRadius := input.Radius != nil
	if hasList == hasRadius {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "exactly one of pincodes or radius is required")
	}

	vendor, err := s.loadVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	var (
		entries []PincodeCharge
		method  enums.CoverageMethod
	)
	if hasList {
		method = enums.CoverageMethodPincodeList
		seen := make(map[string]bool, len(input.Pincodes))
		for _, entry := range input.Pincodes {
			if !pincodePattern.MatchString(entry.Pincode) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("pincode %q must be 6 digits", entry.Pincode))
			}
			if entry.Charge.IsNegative() {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery charge cannot be negative")
			}
			if seen[entry.Pincode] {
				continue
			}
			seen[entry.Pincode] = true
			entries = append(entries, entry)
		}
	} else {
		method = enums.CoverageMethodRadius
		spec := *input.Radius
		if spec.RadiusKm <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "radius must be positive")
		}
		if spec.Charge.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery charge cannot be negative")
		}
		areas, err := s.repo.ListActiveGeocodedAreas(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load geocoded areas")
		}
		seen := make(map[string]bool)
		for _, area := range areas {
			if !area.HasCoordinates() || seen[area.Pincode] {
				continue
			}
			if geo.DistanceKm(spec.Lat, spec.Lng, *area.Lat, *area.Lng) <= spec.RadiusKm {
				seen[area.Pincode] = true
				entries = append(entries, PincodeCharge{Pincode: area.Pincode, Charge: spec.Charge})
			}
		}
	}

	areasCreated := 0
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.DeleteVendorPincodesTx(tx, vendorID); err != nil {
			return err
		}
		for _, entry := range entries {
			row := models.VendorPincode{
				ID:             uuid.New(),
				VendorID:       vendorID,
				Pincode:        entry.Pincode,
				DeliveryCharge: entry.Charge,
				IsActive:       true,
			}
			if err := s.repo.CreateVendorPincodeTx(tx, &row); err != nil {
				return err
			}

			existing, err := s.repo.FindAreaByPincode(ctx, entry.Pincode)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			area := s.composeArea(ctx, vendor, CreateByPincodeInput{Pincode: entry.Pincode})
			if err := s.repo.CreateAreaTx(tx, area); err != nil {
				return err
			}
			areasCreated++
			event := outbox.DomainEvent{
				EventType:     enums.EventServiceAreaCreated,
				AggregateType: enums.AggregateServiceArea,
				AggregateID:   area.ID,
				Actor:         actorRef(actor),
				Version:       eventVersion,
				Data: map[string]any{
					"name":    area.Name,
					"pincode": area.Pincode,
					"cityId":  area.CityID,
				},
			}
			if err := s.events.Emit(ctx, tx, event); err != nil {
				return err
			}
		}

		vendor.CoverageMethod = method
		if hasRadius {
			// The center is a query input, not the vendor's location.
			vendor.ServiceRadiusKm = input.Radius.RadiusKm
		}
		if err := s.repo.UpdateVendorTx(tx, vendor); err != nil {
			return err
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventVendorPincodesReplaced,
			AggregateType: enums.AggregateVendor,
			AggregateID:   vendorID,
			Actor:         actorRef(actor),
			Version:       eventVersion,
			Data: map[string]any{
				"method":       method,
				"pincodeCount": len(entries),
				"areasCreated": areasCreated,
			},
		}
		return s.events.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, wrapTxErr(err, "replace vendor pincodes")
	}

	return &ReplacePincodesResult{
		PincodeCount: len(entries),
		AreasCreated: areasCreated,
		Method:       method,
	}, nil
}

func (s *service) loadVendor(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	vendor, err := s.repo.FindVendorByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return vendor, nil
}

// rowFromModel assembles the joined read shape without another list query.
func (s *service) rowFromModel(ctx context.Context, row *models.VendorServiceArea, area *models.ServiceArea) (*Row, error) {
	cityName := ""
	city, err := s.repo.FindCityByID(ctx, area.CityID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load city")
	}
	if city != nil {
		cityName = city.Name
	}
	result := &Row{
		ID:              row.ID,
		AreaID:          area.ID,
		AreaName:        area.Name,
		Pincode:         area.Pincode,
		CityID:          area.CityID,
		CityName:        cityName,
		Surcharge:       row.Surcharge,
		Status:          row.Status,
		IsActive:        row.IsActive,
		RequestedAt:     row.RequestedAt,
		ActivatedAt:     row.ActivatedAt,
		RejectionReason: row.RejectionReason,
	}
	return result, nil
}

func transitionConflict(action enums.CoverageAction, status enums.CoverageStatus) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot %s coverage in %s status", action, status))
}

func actorRef(actor Actor) *outbox.ActorRef {
	return &outbox.ActorRef{
		UserID:   actor.UserID,
		VendorID: actor.VendorID,
		Role:     actor.Role.String(),
	}
}

// wrapTxErr keeps typed errors raised inside the transaction intact.
func wrapTxErr(err error, msg string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
