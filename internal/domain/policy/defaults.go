package policy

// defaultDenyPatterns block destructive operations by substring match
// on the operation id. These run before the allow-list and cannot be
// overridden at runtime: record deletion must never be reachable by an
// automated agent.
var defaultDenyPatterns = []string{
	"_destroy",
	"_delete",
}

// defaultAllow is the built-in allow set, focused on the operations
// needed to set up a deployment: facilities, organizations, locations,
// beds, users, and geography lookups. Ids follow the prefixed
// convention the Care schema generator emits (api_v1_facility_create,
// not facility_create).
var defaultAllow = []string{
	// Facility management
	"api_v1_facility_create",
	"api_v1_facility_list",
	"api_v1_facility_retrieve",
	"api_v1_facility_update",
	"api_v1_facility_partial_update",

	// Organization management
	"api_v1_organization_create",
	"api_v1_organization_list",
	"api_v1_organization_retrieve",
	"api_v1_organization_update",

	// Locations within facilities
	"api_v1_location_create",
	"api_v1_location_list",
	"api_v1_location_retrieve",
	"api_v1_location_update",

	// Asset locations
	"api_v1_assetlocation_create",
	"api_v1_assetlocation_list",
	"api_v1_assetlocation_retrieve",

	// Bed management
	"api_v1_bed_create",
	"api_v1_bed_list",
	"api_v1_bed_retrieve",
	"api_v1_bed_update",

	// Users
	"api_v1_users_list",
	"api_v1_users_retrieve",
	"api_v1_users_getcurrentuser_retrieve",

	// Geography lookups
	"api_v1_state_list",
	"api_v1_district_list",
	"api_v1_local_body_list",
	"api_v1_ward_list",
}
