package policy

import "testing"

func TestResourcesForEveryCategoryIncludesCommonSet(t *testing.T) {
	for _, reason := range ReasonCategories() {
		resources := ResourcesFor(reason)
		if len(resources) == 0 {
			t.Fatalf("ResourcesFor(%s) returned no resources", reason)
		}
		if resources[0].ID != "rehoming-guide" || resources[1].ID != "community-support" {
			t.Errorf("ResourcesFor(%s) missing common resources, got %v", reason, resources)
		}
	}
}

func TestResourcesForReasonSpecificEntries(t *testing.T) {
	cases := []struct {
		reason ReasonCategory
		count  int
		wantID string
	}{
		{ReasonBehavior, 3, "trainer-directory"},
		{ReasonFinancial, 3, "financial-aid"},
		{ReasonHousing, 4, "pet-friendly-housing"},
		{ReasonTime, 2, ""},
		{ReasonHealth, 2, ""},
		{ReasonTooManyPets, 2, ""},
		{ReasonOther, 2, ""},
	}

	for _, tc := range cases {
		resources := ResourcesFor(tc.reason)
		if len(resources) != tc.count {
			t.Errorf("ResourcesFor(%s) returned %d resources, want %d", tc.reason, len(resources), tc.count)
		}
		if tc.wantID == "" {
			continue
		}
		found := false
		for _, r := range resources {
			if r.ID == tc.wantID {
				found = true
			}
		}
		if !found {
			t.Errorf("ResourcesFor(%s) missing %q", tc.reason, tc.wantID)
		}
	}
}

func TestBucketForText(t *testing.T) {
	cases := []struct {
		text string
		want UrgencyBucket
	}{
		{"Immediate (within 1 week)", UrgencyImmediate},
		{"Within 1 month", UrgencyOneMonth},
		{"Within 3 months", UrgencyThreeMonths},
		{"Flexible timeline", UrgencyFlexible},
		{"sometime next year", UrgencyFlexible},
		{"", UrgencyFlexible},
	}

	for _, tc := range cases {
		if got := BucketForText(tc.text); got != tc.want {
			t.Errorf("BucketForText(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestEveryOfferedOptionBuckets(t *testing.T) {
	want := map[string]UrgencyBucket{
		"Immediate (within 1 week)": UrgencyImmediate,
		"Within 1 month":            UrgencyOneMonth,
		"Within 3 months":           UrgencyThreeMonths,
		"Flexible timeline":         UrgencyFlexible,
	}

	for _, option := range UrgencyOptions() {
		expected, ok := want[option]
		if !ok {
			t.Fatalf("unexpected urgency option %q", option)
		}
		if got := BucketForText(option); got != expected {
			t.Errorf("BucketForText(%q) = %s, want %s", option, got, expected)
		}
	}
}

func TestWireReasonCodeTable(t *testing.T) {
	cases := []struct {
		reason ReasonCategory
		want   string
	}{
		{ReasonHousing, "housing"},
		{ReasonFinancial, "financial"},
		{ReasonBehavior, "behavior"},
		{ReasonTime, "time"},
		{ReasonHealth, "health"},
		{ReasonTooManyPets, "pets"},
		{ReasonOther, "other"},
		{ReasonCategory("garbage"), "other"},
	}

	for _, tc := range cases {
		if got := WireReasonCode(tc.reason); got != tc.want {
			t.Errorf("WireReasonCode(%s) = %q, want %q", tc.reason, got, tc.want)
		}
	}
}

func TestValid(t *testing.T) {
	for _, reason := range ReasonCategories() {
		if !reason.Valid() {
			t.Errorf("%s should be valid", reason)
		}
	}
	if ReasonCategory("allergies").Valid() {
		t.Error("allergies is not part of the closed reason set")
	}
}
