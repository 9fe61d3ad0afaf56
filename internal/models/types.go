package models

// JobRecord is one posting returned by the job listings endpoint
type JobRecord struct {
	Title          string   `json:"title"`
	CompanyName    string   `json:"company_name"`
	LogoURL        string   `json:"logo_url"`
	EmploymentType string   `json:"employment_type"`
	LocationType   string   `json:"location_type"`
	CreatedAtHuman string   `json:"created_at_human"`
	TagNames       []string `json:"tag_names"`
}

// HasAllTags reports whether the job carries every tag in tags
func (j JobRecord) HasAllTags(tags []string) bool {
	for _, want := range tags {
		found := false
		for _, have := range j.TagNames {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// CacheEntry is the stored job list plus the time it was fetched
type CacheEntry struct {
	Jobs      []JobRecord `json:"jobs"`
	Timestamp int64       `json:"timestamp"` // epoch milliseconds
}
