package types

// Standard table names for Pantry.GetTable.
const (
	ItemsTable      = "items"
	EntriesTable    = "entries"
	ActivitiesTable = "activities"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	ItemsTable,
	EntriesTable,
	ActivitiesTable,
}
