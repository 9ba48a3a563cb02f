package schema

// StoreReleaseTable represents the 'store.release' table
type StoreReleaseTable struct {
	Table        string
	ID           string
	BookID       string
	Position     string
	Status       string
	PublishedAt  string
	ReleaseName  string
	ReleaseNotes string
	Title        string
	Description  string
	Price        string
	ISBN         string
	CoverAssetID string
	FileAssetID  string
	CreatedAt    string
	UpdatedAt    string
}

// StoreRelease is the schema definition for store.release
var StoreRelease = StoreReleaseTable{
	Table:        "store.release",
	ID:           "id",
	BookID:       "bookid",
	Position:     "position",
	Status:       "status",
	PublishedAt:  "publishedat",
	ReleaseName:  "releasename",
	ReleaseNotes: "releasenotes",
	Title:        "title",
	Description:  "description",
	Price:        "price",
	ISBN:         "isbn",
	CoverAssetID: "coverassetid",
	FileAssetID:  "fileassetid",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

func (t StoreReleaseTable) Columns() []string {
	return []string{
		t.ID, t.BookID, t.Position, t.Status, t.PublishedAt, t.ReleaseName,
		t.ReleaseNotes, t.Title, t.Description, t.Price, t.ISBN,
		t.CoverAssetID, t.FileAssetID, t.CreatedAt, t.UpdatedAt,
	}
}
