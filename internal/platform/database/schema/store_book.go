package schema

// StoreBookTable represents the 'store.book' table
type StoreBookTable struct {
	Table     string
	ID        string
	OwnerID   string
	Language  string
	Status    string
	Version   string
	CreatedAt string
	UpdatedAt string
}

// StoreBook is the schema definition for store.book
var StoreBook = StoreBookTable{
	Table:     "store.book",
	ID:        "id",
	OwnerID:   "ownerid",
	Language:  "language",
	Status:    "status",
	Version:   "version",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t StoreBookTable) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.Language, t.Status, t.Version, t.CreatedAt, t.UpdatedAt,
	}
}
