package store

const schema = `
CREATE TABLE IF NOT EXISTS sync_pairs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL,
    destination TEXT NOT NULL,
    created_at TEXT NOT NULL, -- RFC3339
    UNIQUE (source, destination)
);

CREATE TABLE IF NOT EXISTS sync_jobs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    pair_id INTEGER NOT NULL REFERENCES sync_pairs(id) ON DELETE CASCADE,
    run_id TEXT NOT NULL UNIQUE,
    status TEXT NOT NULL,
    files_copied INTEGER NOT NULL DEFAULT 0,
    error TEXT NOT NULL DEFAULT '',
    started_at TEXT NOT NULL,
    completed_at TEXT
);

CREATE TABLE IF NOT EXISTS files (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    pair_id INTEGER NOT NULL REFERENCES sync_pairs(id) ON DELETE CASCADE,
    path TEXT NOT NULL, -- relative to the pair source, slash separated
    hash TEXT NOT NULL,
    size INTEGER NOT NULL,
    modified_at TEXT NOT NULL,
    UNIQUE (pair_id, path)
);

CREATE TABLE IF NOT EXISTS synced_files (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    job_id INTEGER NOT NULL REFERENCES sync_jobs(id) ON DELETE CASCADE,
    file_id INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
    hash TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_jobs_pair ON sync_jobs(pair_id);
CREATE INDEX IF NOT EXISTS idx_synced_files_job ON synced_files(job_id);
`
