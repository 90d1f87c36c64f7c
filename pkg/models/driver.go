package models

import (
	"fmt"
	"strings"
)

type Vehicle struct {
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  string `json:"year"`
	Color string `json:"color,omitempty"`
	Plate string `json:"plate"`
}

// Missing lists the required vehicle fields that are blank.
func (v *Vehicle) Missing() []string {
	if v == nil {
		return []string{"make", "model", "year", "plate"}
	}
	var missing []string
	if strings.TrimSpace(v.Make) == "" {
		missing = append(missing, "make")
	}
	if strings.TrimSpace(v.Model) == "" {
		missing = append(missing, "model")
	}
	if strings.TrimSpace(v.Year) == "" {
		missing = append(missing, "year")
	}
	if strings.TrimSpace(v.Plate) == "" {
		missing = append(missing, "plate")
	}
	return missing
}

func (v *Vehicle) String() string {
	if v == nil {
		return ""
	}
	s := strings.TrimSpace(fmt.Sprintf("%s %s %s", v.Year, v.Make, v.Model))
	if v.Plate != "" {
		s += " (" + v.Plate + ")"
	}
	return s
}

type DocumentType string

const (
	DocumentLicense   DocumentType = "license"
	DocumentInsurance DocumentType = "insurance"
	DocumentPhoto     DocumentType = "photo"
)

// RequiredDocuments is the full set a driver application must carry.
var RequiredDocuments = []DocumentType{DocumentLicense, DocumentInsurance, DocumentPhoto}

func ParseDocumentType(s string) (DocumentType, bool) {
	d := DocumentType(strings.ToLower(strings.TrimSpace(s)))
	for _, r := range RequiredDocuments {
		if d == r {
			return d, true
		}
	}
	return "", false
}

type DocumentChecklist struct {
	License   bool `json:"license"`
	Insurance bool `json:"insurance"`
	Photo     bool `json:"photo"`
}

func (c DocumentChecklist) Complete() bool {
	return c.License && c.Insurance && c.Photo
}

// DriverStatus is the verification state of a driver account.
//
//	new -> pending -> approved | rejected
//
// approved and rejected are terminal.
type DriverStatus string

const (
	DriverNew      DriverStatus = "new"
	DriverPending  DriverStatus = "pending"
	DriverApproved DriverStatus = "approved"
	DriverRejected DriverStatus = "rejected"
)

type DriverEvent string

const (
	EventSubmit  DriverEvent = "submit"
	EventApprove DriverEvent = "approve"
	EventReject  DriverEvent = "reject"
)

var driverTransitions = map[DriverStatus]map[DriverEvent]DriverStatus{
	DriverNew: {
		EventSubmit: DriverPending,
	},
	DriverPending: {
		EventApprove: DriverApproved,
		EventReject:  DriverRejected,
	},
}

// Next returns the state reached by applying ev, or ok=false when the
// transition is not allowed from s.
func (s DriverStatus) Next(ev DriverEvent) (DriverStatus, bool) {
	next, ok := driverTransitions[s][ev]
	return next, ok
}

func (s DriverStatus) Terminal() bool {
	return s == DriverApproved || s == DriverRejected
}
