package service

import "github.com/heartline/heartline/backend/internal/models"

// CatalogEntry describes a purchasable premium feature.
type CatalogEntry struct {
	FeatureType         models.FeatureType `json:"feature_type"`
	Price               float64            `json:"price"`
	DefaultDurationDays int                `json:"default_duration_days"`
	Description         string             `json:"description"`
}

var catalog = []CatalogEntry{
	{
		FeatureType:         models.FeatureIncognito,
		Price:               9.99,
		DefaultDurationDays: 30,
		Description:         "Hide your profile from search and suppress online indicators",
	},
	{
		FeatureType:         models.FeatureProfileBoost,
		Price:               4.99,
		DefaultDurationDays: 7,
		Description:         "Feature your profile at the top of match results",
	},
	{
		FeatureType:         models.FeatureTravelMode,
		Price:               7.99,
		DefaultDurationDays: 14,
		Description:         "Search from another location",
	},
	{
		FeatureType:         models.FeaturePrioritySupport,
		Price:               19.99,
		DefaultDurationDays: 30,
		Description:         "Support tickets are handled first",
	},
	{
		FeatureType:         models.FeatureAdvancedAnalytics,
		Price:               14.99,
		DefaultDurationDays: 30,
		Description:         "Detailed insight into profile views and matches",
	},
}

// LookupFeature returns the catalog entry for featureType.
func LookupFeature(featureType models.FeatureType) (CatalogEntry, bool) {
	for _, entry := range catalog {
		if entry.FeatureType == featureType {
			return entry, true
		}
	}
	return CatalogEntry{}, false
}
