package database

// Enquiries keep item_id without a foreign key: deleting an item must leave
// its enquiries in place with a dangling reference.
var schemas = map[string][]string{
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS items (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    name              TEXT NOT NULL,
    type              TEXT NOT NULL,
    description       TEXT,
    cover_image       TEXT NOT NULL DEFAULT '',
    additional_images TEXT NOT NULL DEFAULT '[]',
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		`CREATE INDEX IF NOT EXISTS idx_items_type ON items(type)`,
		`CREATE TABLE IF NOT EXISTS enquiries (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    item_id    INTEGER,
    item_name  TEXT NOT NULL,
    user_email TEXT,
    message    TEXT,
    status     TEXT NOT NULL DEFAULT 'pending',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		`CREATE INDEX IF NOT EXISTS idx_enquiries_item_id ON enquiries(item_id)`,
	},
	DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS items (
    id                BIGSERIAL PRIMARY KEY,
    name              TEXT NOT NULL,
    type              TEXT NOT NULL,
    description       TEXT,
    cover_image       TEXT NOT NULL DEFAULT '',
    additional_images TEXT NOT NULL DEFAULT '[]',
    created_at        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		`CREATE INDEX IF NOT EXISTS idx_items_type ON items(type)`,
		`CREATE TABLE IF NOT EXISTS enquiries (
    id         BIGSERIAL PRIMARY KEY,
    item_id    BIGINT,
    item_name  TEXT NOT NULL,
    user_email TEXT,
    message    TEXT,
    status     TEXT NOT NULL DEFAULT 'pending',
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		`CREATE INDEX IF NOT EXISTS idx_enquiries_item_id ON enquiries(item_id)`,
	},
}

var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
}
