package domain

import "time"

// City enumerates the serviced cities.
type City string

const (
	CityChandigarh City = "Chandigarh"
	CityMohali     City = "Mohali"
	CityZirakpur   City = "Zirakpur"
	CityPanchkula  City = "Panchkula"
	CityOther      City = "Other"
)

// PropertyType enumerates property categories.
type PropertyType string

const (
	PropertyApartment PropertyType = "Apartment"
	PropertyVilla     PropertyType = "Villa"
	PropertyPlot      PropertyType = "Plot"
	PropertyOffice    PropertyType = "Office"
	PropertyRetail    PropertyType = "Retail"
)

// BHK enumerates bedroom configurations.
type BHK string

const (
	BHKOne    BHK = "1"
	BHKTwo    BHK = "2"
	BHKThree  BHK = "3"
	BHKFour   BHK = "4"
	BHKStudio BHK = "Studio"
)

// Purpose enumerates why the buyer is looking.
type Purpose string

const (
	PurposeBuy  Purpose = "Buy"
	PurposeRent Purpose = "Rent"
)

// Timeline enumerates purchase horizons.
type Timeline string

const (
	TimelineZeroToThree Timeline = "0-3m"
	TimelineThreeToSix  Timeline = "3-6m"
	TimelineBeyondSix   Timeline = ">6m"
	TimelineExploring   Timeline = "Exploring"
)

// LeadSource enumerates acquisition channels.
type LeadSource string

const (
	SourceWebsite  LeadSource = "Website"
	SourceReferral LeadSource = "Referral"
	SourceWalkIn   LeadSource = "Walk-in"
	SourceCall     LeadSource = "Call"
	SourceOther    LeadSource = "Other"
)

// LeadStatus enumerates pipeline states.
type LeadStatus string

const (
	StatusNew         LeadStatus = "New"
	StatusQualified   LeadStatus = "Qualified"
	StatusContacted   LeadStatus = "Contacted"
	StatusVisited     LeadStatus = "Visited"
	StatusNegotiation LeadStatus = "Negotiation"
	StatusConverted   LeadStatus = "Converted"
	StatusDropped     LeadStatus = "Dropped"
)

// RequiresBHK reports whether the property type makes bhk mandatory.
func (p PropertyType) RequiresBHK() bool {
	return p == PropertyApartment || p == PropertyVilla
}

// Buyer is the aggregate for buyer leads. UpdatedAt doubles as the
// optimistic-concurrency version token.
type Buyer struct {
	ID           string
	FullName     string
	Email        *string
	Phone        string
	City         City
	PropertyType PropertyType
	BHK          *BHK
	Purpose      Purpose
	BudgetMin    *int
	BudgetMax    *int
	Timeline     Timeline
	Source       LeadSource
	Status       LeadStatus
	Notes        *string
	Tags         string
	OwnerID      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Cities lists every valid City value.
func Cities() []City {
	return []City{CityChandigarh, CityMohali, CityZirakpur, CityPanchkula, CityOther}
}

// PropertyTypes lists every valid PropertyType value.
func PropertyTypes() []PropertyType {
	return []PropertyType{PropertyApartment, PropertyVilla, PropertyPlot, PropertyOffice, PropertyRetail}
}

// BHKs lists every valid BHK value.
func BHKs() []BHK {
	return []BHK{BHKOne, BHKTwo, BHKThree, BHKFour, BHKStudio}
}

// Purposes lists every valid Purpose value.
func Purposes() []Purpose {
	return []Purpose{PurposeBuy, PurposeRent}
}

// Timelines lists every valid Timeline value.
func Timelines() []Timeline {
	return []Timeline{TimelineZeroToThree, TimelineThreeToSix, TimelineBeyondSix, TimelineExploring}
}

// LeadSources lists every valid LeadSource value.
func LeadSources() []LeadSource {
	return []LeadSource{SourceWebsite, SourceReferral, SourceWalkIn, SourceCall, SourceOther}
}

// LeadStatuses lists every valid LeadStatus value.
func LeadStatuses() []LeadStatus {
	return []LeadStatus{StatusNew, StatusQualified, StatusContacted, StatusVisited, StatusNegotiation, StatusConverted, StatusDropped}
}
