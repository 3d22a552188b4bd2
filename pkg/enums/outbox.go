package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateVendorServiceArea OutboxAggregateType = "vendor_service_area"
	AggregateVendor            OutboxAggregateType = "vendor"
	AggregateServiceArea       OutboxAggregateType = "service_area"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateVendorServiceArea,
	AggregateVendor,
	AggregateServiceArea,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres. Coverage events
// are the audit trail for every admin mutation.
type OutboxEventType string

const (
	EventCoverageRequested      OutboxEventType = "coverage_requested"
	EventCoverageActivated      OutboxEventType = "coverage_activated"
	EventCoverageRejected       OutboxEventType = "coverage_rejected"
	EventCoverageDeactivated    OutboxEventType = "coverage_deactivated"
	EventCoverageReconsidered   OutboxEventType = "coverage_reconsidered"
	EventCoverageBulkAdded      OutboxEventType = "coverage_bulk_added"
	EventCoverageBulkActivated  OutboxEventType = "coverage_bulk_activated"
	EventServiceAreaCreated     OutboxEventType = "service_area_created"
	EventVendorPincodesReplaced OutboxEventType = "vendor_pincodes_replaced"
)

var validOutboxEventTypes = []OutboxEventType{
	EventCoverageRequested,
	EventCoverageActivated,
	EventCoverageRejected,
	EventCoverageDeactivated,
	EventCoverageReconsidered,
	EventCoverageBulkAdded,
	EventCoverageBulkActivated,
	EventServiceAreaCreated,
	EventVendorPincodesReplaced,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}
