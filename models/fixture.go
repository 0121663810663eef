package models

import "strings"

const FixtureTable = "fixture_inventory"

// FixtureRecord 固定资产表的一行；System 在装载时计算好，之后只读
type FixtureRecord struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	Article     string `gorm:"size:120;index;not null" json:"article"`
	PartNumber  string `gorm:"size:120" json:"partNumber"`
	Name        string `gorm:"size:200" json:"name"`
	FixtureType string `gorm:"size:120" json:"fixtureType"`
	Description string `gorm:"size:255" json:"description"`
	Location    string `gorm:"size:120" json:"location"`
	TotalUnits  int    `gorm:"not null;default:0" json:"totalUnits"`

	// derived from FixtureType/Description, never persisted by the xlsx source
	System string `gorm:"-" json:"system"`
}

func (FixtureRecord) TableName() string { return FixtureTable }

// SystemLabel maps free-text fixture type/description to a test-system label.
// First match wins; empty inputs fall through to OTHER.
func SystemLabel(fixtureType, description string) string {
	ft := strings.ToUpper(strings.TrimSpace(fixtureType))
	desc := strings.ToUpper(description)
	switch {
	case strings.Contains(ft, "VSFT"):
		return "VSFT"
	case strings.Contains(ft, "VSICT"):
		return "VSICT"
	case strings.Contains(ft, "SAFT"):
		return "SAFT"
	case strings.Contains(desc, "SPEA"):
		return "SPEA3030"
	case ft != "":
		return ft
	default:
		return "OTHER"
	}
}

// Classify fills in the derived system label.
func (f *FixtureRecord) Classify() { f.System = SystemLabel(f.FixtureType, f.Description) }
