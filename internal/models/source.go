// ABOUTME: DataSource model for connected health data providers.
// ABOUTME: Sources are mutable in place; SourcePatch carries partial updates.
package models

// SourceStatus is the connection state of a data source.
type SourceStatus string

const (
	SourceActive       SourceStatus = "active"
	SourceDisconnected SourceStatus = "disconnected"
	SourceError        SourceStatus = "error"
)

// DataSource describes a device or service feeding metrics.
type DataSource struct {
	ID         string       `json:"id" yaml:"id"`
	Name       string       `json:"name" yaml:"name"`
	Connected  bool         `json:"connected" yaml:"connected"`
	LastSync   string       `json:"lastSync" yaml:"last_sync"`
	DataPoints int          `json:"dataPoints" yaml:"data_points"`
	Status     SourceStatus `json:"status" yaml:"status"`
}

// SourcePatch holds the fields to merge into a DataSource. Nil fields are left alone.
type SourcePatch struct {
	Name       *string
	Connected  *bool
	LastSync   *string
	DataPoints *int
	Status     *SourceStatus
}

// Apply merges the non-nil fields of p into ds.
func (p SourcePatch) Apply(ds *DataSource) {
	if p.Name != nil {
		ds.Name = *p.Name
	}
	if p.Connected != nil {
		ds.Connected = *p.Connected
	}
	if p.LastSync != nil {
		ds.LastSync = *p.LastSync
	}
	if p.DataPoints != nil {
		ds.DataPoints = *p.DataPoints
	}
	if p.Status != nil {
		ds.Status = *p.Status
	}
}
