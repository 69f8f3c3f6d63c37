package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS fetch_log (
	id           TEXT PRIMARY KEY,
	filter       TEXT NOT NULL CHECK(filter IN ('unread', 'participating', 'all')),
	page         INTEGER NOT NULL CHECK(page >= 1),
	record_count INTEGER NOT NULL DEFAULT 0,
	duration_ms  INTEGER NOT NULL DEFAULT 0,
	error        TEXT NOT NULL DEFAULT '',
	fetched_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fetch_log_fetched_at ON fetch_log(fetched_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_fetch_log_filter ON fetch_log(filter, fetched_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
