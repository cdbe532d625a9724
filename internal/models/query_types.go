// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeProviderList        QueryType = "provider_list"
	QueryTypeProviderDetails     QueryType = "provider_details"
	QueryTypeProviderTripNotes   QueryType = "provider_trip_notes"
	QueryTypeProviderUtilization QueryType = "provider_utilization"
)
