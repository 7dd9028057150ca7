package models

// CountySettings is the user's persisted preference.
// An empty SelectedCounty means no county has been chosen yet.
type CountySettings struct {
	SelectedCounty string `json:"selectedCounty"`
}

// HasCounty reports whether a county has been selected.
func (s CountySettings) HasCounty() bool {
	return s.SelectedCounty != ""
}
