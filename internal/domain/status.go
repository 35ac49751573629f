package domain

// Status 样本生命周期状态（对应 samples.status 列）
// Lifecycle order is conventional, not enforced: any status may be set from
// any other status (manual correction is a supported workflow).
type Status string

const (
	StatusNew       Status = "new"
	StatusInTransit Status = "in_transit"
	StatusStored    Status = "stored"
	StatusProcessed Status = "processed"
	StatusArchived  Status = "archived"
)

// AllStatuses returns the five lifecycle statuses in conventional order.
func AllStatuses() []Status {
	return []Status{StatusNew, StatusInTransit, StatusStored, StatusProcessed, StatusArchived}
}

// Valid reports whether s is one of the five lifecycle statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInTransit, StatusStored, StatusProcessed, StatusArchived:
		return true
	}
	return false
}

// ParseStatus converts a raw string (request body, store row) into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", Validationf("unknown status %q", raw)
	}
	return s, nil
}
