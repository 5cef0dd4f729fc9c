package config

// Event names consumed by the wrapper service.
const (
	// Grievance lifecycle events
	EventGrievanceSubmitted     = "GrievanceSubmitted"
	EventGrievanceStatusUpdated = "GrievanceStatusUpdated"
	EventGrievanceResolved      = "GrievanceResolved"
	EventGrievanceEscalated     = "GrievanceEscalated"
	EventGrievanceSLABreached   = "GrievanceSLABreached"

	// Administration events
	EventSLAConfigUpdated            = "SLAConfigUpdated"
	EventOfficerAuthorizationChanged = "OfficerAuthorizationChanged"
)
