package enums

import "fmt"

// MovementType classifies an inventory movement row.
type MovementType string

const (
	MovementTypeReserve            MovementType = "reserve"
	MovementTypeReservationRelease MovementType = "reservation_release"
	MovementTypeProductionUse      MovementType = "production_use"
	MovementTypeAdjustment         MovementType = "adjustment"
	MovementTypeRestock            MovementType = "restock"
)

var validMovementTypes = []MovementType{
	MovementTypeReserve,
	MovementTypeReservationRelease,
	MovementTypeProductionUse,
	MovementTypeAdjustment,
	MovementTypeRestock,
}

// IsValid reports whether the value is a known MovementType.
func (m MovementType) IsValid() bool {
	for _, candidate := range validMovementTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMovementType converts raw input into a MovementType.
func ParseMovementType(value string) (MovementType, error) {
	for _, candidate := range validMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement type %q", value)
}

// MovementRefType names the entity that caused an inventory movement.
type MovementRefType string

const (
	MovementRefTypeJob    MovementRefType = "job"
	MovementRefTypeOrder  MovementRefType = "order"
	MovementRefTypeManual MovementRefType = "manual"
)

// IsValid reports whether the value is a known MovementRefType.
func (m MovementRefType) IsValid() bool {
	switch m {
	case MovementRefTypeJob, MovementRefTypeOrder, MovementRefTypeManual:
		return true
	default:
		return false
	}
}
