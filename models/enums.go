package models

// LeadSource is where a lead came from.
type LeadSource string

const (
	SourceWebsite       LeadSource = "Website"
	SourceReferral      LeadSource = "Referral"
	SourceColdCall      LeadSource = "Cold Call"
	SourceAdvertisement LeadSource = "Advertisement"
	SourceEmail         LeadSource = "Email"
	SourceOther         LeadSource = "Other"
)

// LeadSourceValues lists every accepted lead source.
var LeadSourceValues = []LeadSource{
	SourceWebsite,
	SourceReferral,
	SourceColdCall,
	SourceAdvertisement,
	SourceEmail,
	SourceOther,
}

func (s LeadSource) Valid() bool {
	for _, v := range LeadSourceValues {
		if s == v {
			return true
		}
	}
	return false
}

// LeadStatus is the pipeline stage of a lead. The order below is the usual
// progression but any value may be set at any time.
type LeadStatus string

const (
	StatusNew          LeadStatus = "New"
	StatusContacted    LeadStatus = "Contacted"
	StatusQualified    LeadStatus = "Qualified"
	StatusProposalSent LeadStatus = "Proposal Sent"
	StatusClosed       LeadStatus = "Closed"
)

var LeadStatusValues = []LeadStatus{
	StatusNew,
	StatusContacted,
	StatusQualified,
	StatusProposalSent,
	StatusClosed,
}

func (s LeadStatus) Valid() bool {
	for _, v := range LeadStatusValues {
		if s == v {
			return true
		}
	}
	return false
}

type LeadPriority string

const (
	PriorityHigh   LeadPriority = "High"
	PriorityMedium LeadPriority = "Medium"
	PriorityLow    LeadPriority = "Low"
)

var LeadPriorityValues = []LeadPriority{
	PriorityHigh,
	PriorityMedium,
	PriorityLow,
}

func (p LeadPriority) Valid() bool {
	for _, v := range LeadPriorityValues {
		if p == v {
			return true
		}
	}
	return false
}

// Defaults applied when a lead is stored without the field.
const (
	DefaultLeadStatus   = StatusNew
	DefaultLeadPriority = PriorityMedium
)
