package models

// Category is one of the five closed topical buckets every keyword maps to.
// Labels stay in Korean because they are what the completion service is
// instructed to return.
type Category string

const (
	CategoryCommunication Category = "커뮤니케이션"
	CategoryWorkAttitude  Category = "업무태도"
	CategoryCompetency    Category = "역량"
	CategorySystems       Category = "제도 및 환경"
	CategoryOther         Category = "기타"
)

func AllCategories() []Category {
	return []Category{
		CategoryCommunication,
		CategoryWorkAttitude,
		CategoryCompetency,
		CategorySystems,
		CategoryOther,
	}
}

func IsKnownCategory(c Category) bool {
	switch c {
	case CategoryCommunication, CategoryWorkAttitude, CategoryCompetency, CategorySystems, CategoryOther:
		return true
	}
	return false
}

// KeywordFrequency is one row of the frequency table: how often a keyword was
// extracted under a resolved category. The same keyword text may appear under
// two categories if categorization batches disagreed; that drift is kept as-is.
type KeywordFrequency struct {
	Keyword  string   `json:"keyword"`
	Category Category `json:"category"`
	Count    int      `json:"count"`
}
