package schema

// StoreCategoryTable represents the 'store.category' table
type StoreCategoryTable struct {
	Table     string
	ID        string
	Key       string
	Name      string
	NameI18n  string
	CreatedAt string
	UpdatedAt string
}

// StoreCategory is the schema definition for store.category
var StoreCategory = StoreCategoryTable{
	Table:     "store.category",
	ID:        "id",
	Key:       "key",
	Name:      "name",
	NameI18n:  "namei18n",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t StoreCategoryTable) Columns() []string {
	return []string{
		t.ID, t.Key, t.Name, t.NameI18n, t.CreatedAt, t.UpdatedAt,
	}
}
