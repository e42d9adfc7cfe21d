package db

// SQL schema and statements for the local snapshot/audit database.

const createMembersTable = `
CREATE TABLE IF NOT EXISTS members (
	email TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	street TEXT NOT NULL DEFAULT '',
	zipcode TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	username TEXT NOT NULL DEFAULT '',
	fee INTEGER NOT NULL DEFAULT 0,
	fee_yearly INTEGER NOT NULL DEFAULT 0,
	has_key INTEGER NOT NULL DEFAULT 0,
	payments_caught_up_to INTEGER NOT NULL DEFAULT 0,
	seen_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_members_name ON members(name);
`

const createAuditLogTable = `
CREATE TABLE IF NOT EXISTS audit_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	action TEXT NOT NULL,
	target TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT '',
	performed_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

const upsertMember = `
INSERT OR REPLACE INTO members (
	email, name, street, zipcode, city, country, phone, username,
	fee, fee_yearly, has_key, payments_caught_up_to, seen_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
`

const selectMembers = `
SELECT email, name, street, zipcode, city, country, phone, username,
	fee, fee_yearly, has_key, payments_caught_up_to
FROM members
ORDER BY name COLLATE NOCASE
`

const deleteMember = `DELETE FROM members WHERE email = ?`

const insertAuditEntry = `
INSERT INTO audit_log (action, target, detail) VALUES (?, ?, ?)
`

const selectAuditEntries = `
SELECT action, target, detail, performed_at
FROM audit_log
ORDER BY id DESC
LIMIT ?
`

const countMembers = `SELECT COUNT(*) FROM members`
