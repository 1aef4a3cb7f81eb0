package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS actions (
    id             TEXT PRIMARY KEY,
    kind           TEXT NOT NULL,
    project_id     TEXT,
    amount         REAL NOT NULL DEFAULT 0,
    reward         REAL NOT NULL DEFAULT 0,
    ok             INTEGER NOT NULL DEFAULT 0,
    message        TEXT,
    created_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_actions_created ON actions(created_at);
CREATE INDEX IF NOT EXISTS idx_actions_project ON actions(project_id);
`
