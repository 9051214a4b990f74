package models

// Snapshot is a full copy of the membership working set.
type Snapshot struct {
	Students []Student `json:"students"`
	Classes  []Class   `json:"classes"`
	Groups   []Group   `json:"groups"`
	Teachers []Teacher `json:"teachers"`
}
