// Package policy contains the pure mapping tables for the rehoming
// intervention workflow: remediation resources per reason category,
// urgency-text bucketing, and the stable wire codes stored by the
// persistence authority. Everything here is deterministic and total.
package policy

import "strings"

// ReasonCategory is the closed set of reasons an owner can select when
// starting a rehoming intervention.
type ReasonCategory string

const (
	ReasonHousing     ReasonCategory = "housing"
	ReasonFinancial   ReasonCategory = "financial"
	ReasonBehavior    ReasonCategory = "behavior"
	ReasonTime        ReasonCategory = "time"
	ReasonHealth      ReasonCategory = "health"
	ReasonTooManyPets ReasonCategory = "too_many_pets"
	ReasonOther       ReasonCategory = "other"
)

// ReasonCategories returns every valid reason category in display order.
func ReasonCategories() []ReasonCategory {
	return []ReasonCategory{
		ReasonHousing,
		ReasonFinancial,
		ReasonBehavior,
		ReasonTime,
		ReasonHealth,
		ReasonTooManyPets,
		ReasonOther,
	}
}

// Valid reports whether the category is part of the closed set.
func (r ReasonCategory) Valid() bool {
	_, ok := wireReasonCodes[r]
	return ok
}

// UrgencyBucket is the bucketed urgency enum carried on the wire.
type UrgencyBucket string

const (
	UrgencyImmediate   UrgencyBucket = "immediate"
	UrgencyOneMonth    UrgencyBucket = "one_month"
	UrgencyThreeMonths UrgencyBucket = "three_months"
	UrgencyFlexible    UrgencyBucket = "flexible"
)

// UrgencyOptions are the exact phrases offered by the wizard's urgency
// control. BucketForText's keyword matching is calibrated against these;
// it is not a general free-text classifier.
func UrgencyOptions() []string {
	return []string{
		"Immediate (within 1 week)",
		"Within 1 month",
		"Within 3 months",
		"Flexible timeline",
	}
}

// BucketForText maps an urgency option phrase to its bucket.
// Any unrecognized text falls back to flexible.
func BucketForText(text string) UrgencyBucket {
	switch {
	case strings.Contains(text, "week"):
		return UrgencyImmediate
	case strings.Contains(text, "1 month"):
		return UrgencyOneMonth
	case strings.Contains(text, "3 months"):
		return UrgencyThreeMonths
	default:
		return UrgencyFlexible
	}
}

// Resource is a remediation suggestion shown during resource review.
type Resource struct {
	ID          string
	Title       string
	Description string
}

// commonResources are shown for every reason category.
var commonResources = []Resource{
	{
		ID:          "rehoming-guide",
		Title:       "Expert Rehoming Guides",
		Description: "Comprehensive guides on overcoming common challenges before deciding to rehome.",
	},
	{
		ID:          "community-support",
		Title:       "Community Support Network",
		Description: "Connect with local groups, foster volunteers, and other owners who have been in your situation.",
	},
}

// reasonResources are appended after the common set for specific categories.
var reasonResources = map[ReasonCategory][]Resource{
	ReasonBehavior: {
		{
			ID:          "trainer-directory",
			Title:       "Certified Trainer Directory",
			Description: "Veterinary behaviorists and certified trainers who specialize in the issues you described.",
		},
	},
	ReasonFinancial: {
		{
			ID:          "financial-aid",
			Title:       "Pet Financial Aid & Food Banks",
			Description: "Programs that help cover vet bills, food, and supplies during financial hardship.",
		},
	},
	ReasonHousing: {
		{
			ID:          "pet-friendly-housing",
			Title:       "Pet-Friendly Housing Search",
			Description: "Listings and services for finding rentals that accept pets.",
		},
		{
			ID:          "tenant-rights",
			Title:       "Tenant Rights Guide",
			Description: "Know your rights around pet policies, deposits, and assistance animals.",
		},
	},
}

// ResourcesFor returns the ordered remediation resources for a reason
// category: the common set first, then any reason-specific resources.
// The result is non-empty for every valid category.
func ResourcesFor(reason ReasonCategory) []Resource {
	out := make([]Resource, 0, len(commonResources)+2)
	out = append(out, commonResources...)
	out = append(out, reasonResources[reason]...)
	return out
}

// ResourceIDsFor returns just the resource identifiers for a category,
// in the same order as ResourcesFor.
func ResourceIDsFor(reason ReasonCategory) []string {
	resources := ResourcesFor(reason)
	ids := make([]string, len(resources))
	for i, r := range resources {
		ids[i] = r.ID
	}
	return ids
}

// wireReasonCodes is the explicit category → wire code table. Categories
// presented to users and codes stored by the authority are allowed to
// diverge, so this is a lookup table, not a string transform.
var wireReasonCodes = map[ReasonCategory]string{
	ReasonHousing:     "housing",
	ReasonFinancial:   "financial",
	ReasonBehavior:    "behavior",
	ReasonTime:        "time",
	ReasonHealth:      "health",
	ReasonTooManyPets: "pets",
	ReasonOther:       "other",
}

// WireReasonCode returns the stable code stored by the persistence
// authority for a reason category. Unknown categories map to the
// "other" code so the function stays total.
func WireReasonCode(reason ReasonCategory) string {
	if code, ok := wireReasonCodes[reason]; ok {
		return code
	}
	return wireReasonCodes[ReasonOther]
}
