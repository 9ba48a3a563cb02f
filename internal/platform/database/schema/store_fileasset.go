package schema

// StoreFileAssetTable represents the 'store.fileasset' table
type StoreFileAssetTable struct {
	Table       string
	ID          string
	ObjectKey   string
	ContentType string
	FileName    string
	CreatedAt   string
	UpdatedAt   string
}

// StoreFileAsset is the schema definition for store.fileasset
var StoreFileAsset = StoreFileAssetTable{
	Table:       "store.fileasset",
	ID:          "id",
	ObjectKey:   "objectkey",
	ContentType: "contenttype",
	FileName:    "filename",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t StoreFileAssetTable) Columns() []string {
	return []string{
		t.ID, t.ObjectKey, t.ContentType, t.FileName, t.CreatedAt, t.UpdatedAt,
	}
}
