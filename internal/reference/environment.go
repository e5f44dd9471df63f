package reference

import (
	"github.com/health-signal-classifier/internal/domain"
)

func source(kind string, distance float64, level domain.ContaminationLevel, pollutants []string, water, air float64) domain.IndustrialSource {
	return domain.IndustrialSource{
		IndustryType: kind,
		DistanceKM:   distance,
		Level:        level,
		Pollutants:   pollutants,
		WaterImpact:  water,
		AirImpact:    air,
	}
}

func defaultIndustries() map[string][]domain.IndustrialSource {
	return map[string][]domain.IndustrialSource{
		"mumbai": {
			source("textile_mills", 2.5, domain.ContaminationHigh, []string{"dyes", "heavy_metals", "organic_compounds"}, 8.5, 6.0),
			source("chemical_plants", 5.2, domain.ContaminationCritical, []string{"mercury", "lead", "chlorine", "acids"}, 9.2, 8.5),
			source("oil_refinery", 8.1, domain.ContaminationMedium, []string{"petroleum_products", "sulfur", "benzene"}, 6.8, 7.2),
			source("pharmaceutical", 3.7, domain.ContaminationMedium, []string{"antibiotics", "hormones", "solvents"}, 7.1, 5.5),
			source("tanneries", 4.3, domain.ContaminationHigh, []string{"chromium", "sulfides", "organic_waste"}, 8.8, 4.2),
		},
		"delhi": {
			source("power_plants", 6.8, domain.ContaminationHigh, []string{"coal_ash", "sulfur_dioxide", "particulates"}, 7.5, 9.1),
			source("steel_mills", 12.5, domain.ContaminationMedium, []string{"iron_oxide", "carbon_monoxide", "dust"}, 6.2, 8.3),
			source("cement_factories", 15.2, domain.ContaminationMedium, []string{"limestone_dust", "silica", "sulfur"}, 5.8, 7.9),
			source("electronic_waste", 3.2, domain.ContaminationCritical, []string{"lead", "mercury", "cadmium", "plastics"}, 8.9, 6.7),
			source("food_processing", 7.8, domain.ContaminationLow, []string{"organic_waste", "preservatives", "oils"}, 4.2, 2.1),
		},
		"bangalore": {
			source("it_parks", 2.1, domain.ContaminationLow, []string{"electronic_waste", "air_conditioning_coolants"}, 3.2, 2.8),
			source("garment_factories", 8.7, domain.ContaminationMedium, []string{"dyes", "bleaching_agents", "cotton_dust"}, 6.8, 5.2),
			source("aerospace", 18.5, domain.ContaminationMedium, []string{"metals", "fuels", "composite_materials"}, 5.9, 6.8),
			source("brewery_distillery", 5.4, domain.ContaminationMedium, []string{"organic_waste", "alcohol", "yeast"}, 6.1, 3.2),
		},
		"chennai": {
			source("petrochemicals", 7.2, domain.ContaminationHigh, []string{"hydrocarbons", "benzene", "phenols"}, 8.7, 7.8),
			source("port_activities", 3.8, domain.ContaminationMedium, []string{"fuel_oils", "cargo_chemicals", "ballast_water"}, 7.2, 5.9),
			source("leather_export", 9.5, domain.ContaminationHigh, []string{"chromium", "acids", "organic_solvents"}, 8.9, 4.5),
			source("fertilizer_plants", 14.2, domain.ContaminationHigh, []string{"ammonia", "phosphates", "nitrogen_compounds"}, 8.1, 7.3),
		},
		"kolkata": {
			source("coal_mines", 25.8, domain.ContaminationCritical, []string{"coal_dust", "sulfur", "heavy_metals"}, 9.1, 9.5),
			source("jute_mills", 6.3, domain.ContaminationMedium, []string{"organic_waste", "retting_chemicals"}, 6.2, 3.8),
			source("engineering_works", 8.9, domain.ContaminationMedium, []string{"metal_shavings", "oils", "acids"}, 6.8, 6.2),
			source("thermal_power", 12.4, domain.ContaminationHigh, []string{"fly_ash", "sulfur_dioxide", "mercury"}, 8.5, 9.2),
		},
	}
}

func defaultIndustryFallback() []domain.IndustrialSource {
	return []domain.IndustrialSource{
		source("mixed_industrial", 8.0, domain.ContaminationMedium, []string{"general_pollutants", "organic_waste"}, 6.0, 5.0),
	}
}

func defaultWaterBodies() map[string]domain.WaterBody {
	return map[string]domain.WaterBody{
		"mumbai": {
			SourceType:         "river",
			ContaminationRisk:  7.8,
			BacterialLoad:      domain.ContaminationHigh,
			ChemicalPollutants: []string{"industrial_effluents", "sewage", "plastic_waste"},
			RecentEvents:       []string{"textile_discharge_2023", "oil_spill_2023"},
			SafetyScore:        2.8,
		},
		"delhi": {
			SourceType:         "river",
			ContaminationRisk:  9.2,
			BacterialLoad:      domain.ContaminationCritical,
			ChemicalPollutants: []string{"industrial_waste", "untreated_sewage", "agricultural_runoff"},
			RecentEvents:       []string{"chemical_spill_2023", "sewage_overflow_2023"},
			SafetyScore:        1.5,
		},
		"bangalore": {
			SourceType:         "lake",
			ContaminationRisk:  6.5,
			BacterialLoad:      domain.ContaminationMedium,
			ChemicalPollutants: []string{"urban_runoff", "construction_debris", "domestic_waste"},
			RecentEvents:       []string{"lake_foaming_2023"},
			SafetyScore:        4.2,
		},
		"chennai": {
			SourceType:         "groundwater",
			ContaminationRisk:  8.1,
			BacterialLoad:      domain.ContaminationHigh,
			ChemicalPollutants: []string{"seawater_intrusion", "industrial_seepage", "fertilizer_runoff"},
			RecentEvents:       []string{"groundwater_depletion_2023"},
			SafetyScore:        2.9,
		},
		"kolkata": {
			SourceType:         "river",
			ContaminationRisk:  8.9,
			BacterialLoad:      domain.ContaminationCritical,
			ChemicalPollutants: []string{"coal_washery_waste", "industrial_metals", "organic_pollutants"},
			RecentEvents:       []string{"coal_dust_contamination_2023"},
			SafetyScore:        1.8,
		},
	}
}

func defaultWaterFallback() domain.WaterBody {
	return domain.WaterBody{
		SourceType:         "groundwater",
		ContaminationRisk:  5.0,
		BacterialLoad:      domain.ContaminationMedium,
		ChemicalPollutants: []string{"general_contamination"},
		RecentEvents:       []string{},
		SafetyScore:        5.0,
	}
}

func defaultAirQuality() map[string]int {
	return map[string]int{
		"mumbai":    168,
		"delhi":     302,
		"bangalore": 135,
		"chennai":   156,
		"kolkata":   198,
	}
}

// DefaultAirQualityIndex is used for cities without an entry.
const DefaultAirQualityIndex = 150

func defaultClimateCorrelations() map[domain.Diagnosis]map[string]float64 {
	return map[domain.Diagnosis]map[string]float64{
		domain.Cholera: {
			"high_temperature": 0.7,
			"heavy_rainfall":   0.8,
			"flooding":         0.9,
			"high_humidity":    0.6,
			"monsoon_season":   0.8,
		},
		domain.Dengue: {
			"temperature_range": 0.8,
			"stagnant_water":    0.9,
			"urban_heat_island": 0.6,
			"moderate_humidity": 0.7,
			"post_monsoon":      0.8,
		},
		domain.Typhoid: {
			"poor_sanitation": 0.8,
			"water_scarcity":  0.7,
			"summer_heat":     0.6,
			"dust_storms":     0.5,
			"dry_season":      0.6,
		},
		domain.Malaria: {
			"stagnant_water":        0.9,
			"rural_flooding":        0.8,
			"forest_proximity":      0.7,
			"optimal_breeding_temp": 0.8,
			"monsoon_active":        0.8,
		},
		domain.HepatitisA: {
			"poor_water_quality":    0.8,
			"overcrowding":          0.6,
			"seasonal_festivals":    0.5,
			"monsoon_contamination": 0.7,
		},
	}
}
