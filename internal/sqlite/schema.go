package sqlite

// Schema DDL for all tables. The database file is persistent, so every
// statement is idempotent.
const (
	createItems = `CREATE TABLE IF NOT EXISTS items (
    item_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    brand TEXT NOT NULL DEFAULT '',
    quantity REAL NOT NULL,
    total_volume REAL NOT NULL DEFAULT 0,
    unit TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    expiry_date TEXT NOT NULL DEFAULT '',
    is_open INTEGER NOT NULL DEFAULT 0,
    location TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createEntries = `CREATE TABLE IF NOT EXISTS entries (
    entry_id TEXT PRIMARY KEY,
    item_name TEXT NOT NULL,
    brand TEXT NOT NULL DEFAULT '',
    note TEXT NOT NULL DEFAULT '',
    done INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createActivities = `CREATE TABLE IF NOT EXISTS activities (
    activity_id TEXT PRIMARY KEY,
    intent TEXT NOT NULL,
    raw_input TEXT NOT NULL DEFAULT '',
    detail TEXT NOT NULL DEFAULT '{}',
    created_at TEXT NOT NULL
);`
)

// Index DDL for common queries.
const (
	idxItemsName         = `CREATE INDEX IF NOT EXISTS idx_items_name ON items(name);`
	idxItemsExpiry       = `CREATE INDEX IF NOT EXISTS idx_items_expiry ON items(expiry_date);`
	idxEntriesDone       = `CREATE INDEX IF NOT EXISTS idx_entries_done ON entries(done);`
	idxActivitiesIntent  = `CREATE INDEX IF NOT EXISTS idx_activities_intent ON activities(intent);`
	idxActivitiesCreated = `CREATE INDEX IF NOT EXISTS idx_activities_created ON activities(created_at);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createItems,
	createEntries,
	createActivities,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxItemsName,
	idxItemsExpiry,
	idxEntriesDone,
	idxActivitiesIntent,
	idxActivitiesCreated,
}
