package catalog

// defaultEnhancements covers the setup-flow operations an agent is most
// likely to reach for. Everything else falls back to the schema's own
// summary and description.
var defaultEnhancements = map[string]Enhancement{
	"api_v1_facility_create": {
		OperationID: "api_v1_facility_create",
		Title:       "Create Healthcare Facility",
		Description: `Create a new hospital, clinic, or healthcare facility.

This is the first step in setting up a new healthcare location. Required
information: facility name, facility type (hospital, clinic, primary
health center), address and location details, contact information.

Use this to onboard new hospitals, clinics, or primary health centers.`,
		Tags: []string{"setup", "hospital", "onboarding", "facility"},
		Examples: []string{
			"Create a new district hospital in Kerala",
			"Set up a primary health center",
		},
	},
	"api_v1_organization_create": {
		OperationID: "api_v1_organization_create",
		Title:       "Create Healthcare Organization",
		Description: `Create a healthcare organization such as a hospital network, health
department, or NGO.

Organizations manage groups of facilities and administrative
hierarchies: state or district health departments, hospital chains,
NGOs running healthcare facilities, medical colleges.`,
		Tags: []string{"setup", "organization", "onboarding"},
		Examples: []string{
			"Create a state health department organization",
			"Register an NGO healthcare organization",
		},
	},
	"api_v1_location_create": {
		OperationID: "api_v1_location_create",
		Title:       "Create Location Within Facility",
		Description: `Create a specific location within a healthcare facility.

Locations organize the physical layout: wards, rooms, departments,
buildings. Used for patient tracking, bed management, and resource
allocation.`,
		Tags: []string{"setup", "location", "facility-management"},
		Examples: []string{
			"Add an ICU ward to a hospital",
			"Set up a pharmacy location",
		},
	},
	"api_v1_bed_create": {
		OperationID: "api_v1_bed_create",
		Title:       "Create and Register Beds",
		Description: `Register beds within a facility for patient and capacity management.

Tracks bed availability and occupancy, and lets beds be allocated to
patients. Essential for managing facility capacity and admissions.`,
		Tags: []string{"setup", "bed-management", "capacity"},
		Examples: []string{
			"Add 10 ICU beds to the facility",
			"Register 50 general ward beds",
		},
	},
}
