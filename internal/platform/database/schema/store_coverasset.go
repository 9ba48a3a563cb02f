package schema

// StoreCoverAssetTable represents the 'store.coverasset' table
type StoreCoverAssetTable struct {
	Table       string
	ID          string
	ObjectKey   string
	ContentType string
	Blurhash    string
	AspectRatio string
	CreatedAt   string
	UpdatedAt   string
}

// StoreCoverAsset is the schema definition for store.coverasset
var StoreCoverAsset = StoreCoverAssetTable{
	Table:       "store.coverasset",
	ID:          "id",
	ObjectKey:   "objectkey",
	ContentType: "contenttype",
	Blurhash:    "blurhash",
	AspectRatio: "aspectratio",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t StoreCoverAssetTable) Columns() []string {
	return []string{
		t.ID, t.ObjectKey, t.ContentType, t.Blurhash, t.AspectRatio, t.CreatedAt, t.UpdatedAt,
	}
}
