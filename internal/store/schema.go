package store

// schema is applied in order on every Open; each statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS cards (
		id              TEXT PRIMARY KEY,
		type            TEXT NOT NULL,
		lang            TEXT NOT NULL,
		difficulty      TEXT NOT NULL,
		question        TEXT NOT NULL,
		answer          TEXT NOT NULL,
		explanation     TEXT NOT NULL,
		taunt           TEXT NOT NULL DEFAULT '',
		topic           TEXT NOT NULL DEFAULT '',
		source          TEXT NOT NULL,
		model           TEXT NOT NULL DEFAULT '',
		created_at      INTEGER NOT NULL,
		status          TEXT NOT NULL DEFAULT 'new',
		mastery         INTEGER NOT NULL DEFAULT 0,
		interval_days   INTEGER NOT NULL DEFAULT 1,
		ease_factor     REAL NOT NULL DEFAULT 2.5,
		repetitions     INTEGER NOT NULL DEFAULT 0,
		next_review     INTEGER,
		times_seen      INTEGER NOT NULL DEFAULT 0,
		times_correct   INTEGER NOT NULL DEFAULT 0,
		times_wrong     INTEGER NOT NULL DEFAULT 0,
		avg_response_ms INTEGER NOT NULL DEFAULT 0,
		latency_samples INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cards_next_review ON cards (next_review)`,
	`CREATE INDEX IF NOT EXISTS idx_cards_status ON cards (status)`,
	`CREATE INDEX IF NOT EXISTS idx_cards_supply ON cards (lang, difficulty, source, created_at)`,
	`CREATE TABLE IF NOT EXISTS llm_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp     INTEGER NOT NULL,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_events_purpose ON llm_events (purpose)`,
}
