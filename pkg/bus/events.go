package bus

type EventId uint8

const (
	SnapshotEvent EventId = iota
	OrderPlacedEvent
	OrderFilledEvent
	OrderUnfilledEvent
	LedgerEvent
	AnomalyEvent
)
