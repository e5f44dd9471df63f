package reference

import "github.com/health-signal-classifier/internal/domain"

// OutbreakPattern holds the climate envelope in which a disease tends to
// break out and the plan to contain it.
type OutbreakPattern struct {
	Disease           domain.Diagnosis
	TemperatureMin    float64
	TemperatureMax    float64
	HumidityThreshold float64
	CoastalRisk       bool
	RiskZones         []string
	Plan              domain.SolutionPlan
}

// InTemperatureRange reports whether celsius lies in the pattern's envelope,
// bounds included.
func (p *OutbreakPattern) InTemperatureRange(celsius float64) bool {
	return celsius >= p.TemperatureMin && celsius <= p.TemperatureMax
}

func defaultOutbreakPatterns() []OutbreakPattern {
	return []OutbreakPattern{
		{
			Disease:           domain.Cholera,
			TemperatureMin:    32,
			TemperatureMax:    42,
			HumidityThreshold: 80,
			CoastalRisk:       true,
			RiskZones: []string{
				"Coastal areas", "River deltas", "Flood-prone regions",
				"Areas with poor sanitation", "Industrial discharge zones",
			},
			Plan: domain.SolutionPlan{
				ImmediateActions: []string{
					"Activate Rapid Response Team within 2 hours",
					"Set up Oral Rehydration Therapy (ORT) centers",
					"Chlorinate all water sources in 5km radius",
					"Issue boil water advisory to all households",
					"Deploy mobile medical units to affected areas",
					"Establish isolation wards in nearest PHC/CHC",
				},
				PreventionMeasures: []string{
					"Door-to-door health education on water safety",
					"Distribution of water purification tablets",
					"Repair and disinfection of contaminated wells",
					"Temporary safe water supply arrangements",
					"Sanitation drive and waste management",
					"Food safety monitoring in local markets",
				},
				ResourceDeployment: []string{
					"Medical teams: 3 doctors, 8 nurses, 4 lab technicians",
					"Medicines: ORS packets (10,000), IV fluids, antibiotics",
					"Equipment: Water testing kits, chlorination tablets",
					"Logistics: Ambulances (3), mobile lab unit (1)",
					"Supplies: Safe water tankers, sanitation kits",
				},
				MonitoringProtocol: []string{
					"Daily case reporting to District Health Officer",
					"Water quality testing every 6 hours",
					"Contact tracing of all confirmed cases",
					"Surveillance in 10km radius for 2 weeks",
					"Environmental assessment and remediation",
				},
			},
		},
		{
			Disease:           domain.Dengue,
			TemperatureMin:    26,
			TemperatureMax:    32,
			HumidityThreshold: 65,
			RiskZones: []string{
				"Urban areas", "Construction zones", "Poor drainage areas",
				"Dense population centers", "Water storage areas",
			},
			Plan: domain.SolutionPlan{
				ImmediateActions: []string{
					"Vector control team deployment within 4 hours",
					"Fogging operations in 2km radius",
					"Source reduction - eliminate stagnant water",
					"Set up fever screening camps",
					"Platelet donation drive activation",
					"Ensure adequate bed capacity in hospitals",
				},
				PreventionMeasures: []string{
					"Community awareness on container management",
					"Weekly dry day campaigns",
					"School health education programs",
					"Larvicidal treatment of water bodies",
					"Distribution of mosquito nets and repellents",
					"Construction site water management",
				},
				ResourceDeployment: []string{
					"Vector control teams: 6 teams with fogging equipment",
					"Medical staff: Fever clinic teams, lab technicians",
					"Supplies: Insecticides, larvicides, test kits",
					"Equipment: Fogging machines, water testing kits",
					"Logistics: Mobile screening units, sample transport",
				},
				MonitoringProtocol: []string{
					"Daily entomological surveillance",
					"House index and breteau index calculation",
					"Fever case monitoring and testing",
					"Weekly larval survey in high-risk areas",
					"Meteorological data correlation analysis",
				},
			},
		},
		{
			Disease:           domain.HepatitisA,
			TemperatureMin:    20,
			TemperatureMax:    35,
			HumidityThreshold: 60,
			RiskZones: []string{
				"Hill stations", "Tourist areas", "Crowded settlements",
				"Areas with mixed water sources", "Food handling centers",
			},
			Plan: domain.SolutionPlan{
				ImmediateActions: []string{
					"Contact tracing and vaccination of close contacts",
					"Food handler screening and testing",
					"Water source investigation and testing",
					"Hygiene education in affected communities",
					"Isolation of active cases",
					"Hepatitis A vaccination drive",
				},
				PreventionMeasures: []string{
					"Hand hygiene promotion campaigns",
					"Safe food preparation training",
					"Water quality improvement measures",
					"Sanitation facility upgrades",
					"Food vendor licensing and monitoring",
					"Tourist area special hygiene protocols",
				},
				ResourceDeployment: []string{
					"Vaccination teams: 4 teams with cold chain",
					"Testing capacity: Rapid test kits, lab support",
					"Medicines: Hepatitis A vaccines (5000 doses)",
					"Education materials: Posters, pamphlets in local language",
					"Equipment: Water testing kits, food safety kits",
				},
				MonitoringProtocol: []string{
					"Contact follow-up for 45 days",
					"Food establishment regular inspection",
					"Water quality monitoring weekly",
					"Vaccination coverage assessment",
					"Tourist health monitoring if applicable",
				},
			},
		},
		{
			Disease:           domain.Malaria,
			TemperatureMin:    25,
			TemperatureMax:    35,
			HumidityThreshold: 75,
			RiskZones: []string{
				"Forest areas", "Tribal regions", "Mining zones",
				"River valleys", "Hilly terrain with water bodies",
			},
			Plan: domain.SolutionPlan{
				ImmediateActions: []string{
					"Deploy Rapid Diagnostic Test (RDT) teams",
					"Mass screening in affected villages",
					"Indoor Residual Spray (IRS) operations",
					"Long-Lasting Insecticidal Net (LLIN) distribution",
					"Artemisinin-based treatment initiation",
					"Vector surveillance and control",
				},
				PreventionMeasures: []string{
					"Community education on malaria prevention",
					"Proper use and maintenance of bed nets",
					"Environmental management of breeding sites",
					"Personal protection measures promotion",
					"Early diagnosis and treatment awareness",
					"Special focus on vulnerable populations",
				},
				ResourceDeployment: []string{
					"Testing teams: 8 ASHA workers with RDTs",
					"Treatment supplies: ACT drugs, severe malaria medicines",
					"Prevention materials: LLINs (2000 nets)",
					"Vector control: IRS team with insecticides",
					"Equipment: Microscopes, RDT kits, spraying equipment",
				},
				MonitoringProtocol: []string{
					"Weekly fever surveillance in villages",
					"Monthly vector surveillance",
					"Treatment follow-up for all cases",
					"Net usage monitoring and replacement",
					"Environmental assessment quarterly",
				},
			},
		},
	}
}

// defaultCityOutbreakFactors lists the standing environmental problems of
// each city, most significant first.
func defaultCityOutbreakFactors() map[string][]string {
	return map[string][]string{
		"mumbai": {
			"High coastal humidity and temperature",
			"Industrial waste discharge into water bodies",
			"Dense population with poor sanitation in slums",
			"Contaminated Mithi River and creek systems",
		},
		"delhi": {
			"Severe air pollution affecting respiratory health",
			"Yamuna river contamination",
			"High population density and poor waste management",
			"Extreme temperature variations",
		},
		"kolkata": {
			"High humidity and temperature promoting vector breeding",
			"Hooghly river pollution",
			"Waterlogging during monsoon",
			"Industrial discharge from nearby areas",
		},
		"chennai": {
			"Coastal location with high humidity",
			"Groundwater salination and depletion",
			"Poor drainage leading to stagnant water",
			"Industrial pollution from port activities",
		},
		"bangalore": {
			"Lake contamination and foaming",
			"Rapid urbanization affecting water quality",
			"Electronic waste disposal issues",
			"Deforestation affecting local climate",
		},
	}
}

func defaultCoastalCities() map[string]bool {
	return map[string]bool{"mumbai": true, "kolkata": true, "chennai": true}
}

// LocalResponse adds city-specific steps to a disease's plan.
type LocalResponse struct {
	City               string
	Disease            domain.Diagnosis
	ImmediateActions   []string
	PreventionMeasures []string
}

func defaultLocalResponses() []LocalResponse {
	return []LocalResponse{
		{
			City:    "mumbai",
			Disease: domain.Cholera,
			ImmediateActions: []string{
				"Coordinate with Brihanmumbai Municipal Corporation",
				"Alert coastal health centers and fishing communities",
			},
			PreventionMeasures: []string{
				"Special focus on slum areas like Dharavi",
				"Coordinate with fishing communities for coastal hygiene",
			},
		},
	}
}
