package schema

// StoreReleaseCategoryTable represents the 'store.releasecategory' junction table
type StoreReleaseCategoryTable struct {
	Table      string
	ReleaseID  string
	CategoryID string
}

// StoreReleaseCategory is the schema definition for store.releasecategory
var StoreReleaseCategory = StoreReleaseCategoryTable{
	Table:      "store.releasecategory",
	ReleaseID:  "releaseid",
	CategoryID: "categoryid",
}

func (t StoreReleaseCategoryTable) Columns() []string {
	return []string{t.ReleaseID, t.CategoryID}
}
