package db

// wc_map holds per-chunk partial counts (append only); wc_reduce holds one
// total per (job, word).

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS wc_map (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    job_id TEXT NOT NULL,
    word TEXT NOT NULL,
    v INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_wc_map_job ON wc_map(job_id)`,
	`CREATE INDEX IF NOT EXISTS idx_wc_map_word ON wc_map(word)`,
	`CREATE TABLE IF NOT EXISTS wc_reduce (
    job_id TEXT NOT NULL,
    word TEXT NOT NULL,
    total INTEGER NOT NULL,
    PRIMARY KEY (job_id, word)
)`,
}

// Binary collation keeps "café" and "cafe" distinct in GROUP BY and in the
// reduce primary key. The (job_id, word) key must stay within InnoDB's 3072
// byte limit at four bytes per character.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS wc_map (
    id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
    job_id VARCHAR(64) NOT NULL,
    word VARCHAR(700) NOT NULL,
    v INT NOT NULL,
    INDEX idx_wc_map_job (job_id),
    INDEX idx_wc_map_word (word)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin`,
	`CREATE TABLE IF NOT EXISTS wc_reduce (
    job_id VARCHAR(64) NOT NULL,
    word VARCHAR(700) NOT NULL,
    total BIGINT NOT NULL,
    PRIMARY KEY (job_id, word)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin`,
}

func schemaFor(d Dialect) []string {
	if d == DialectMySQL {
		return mysqlSchema
	}
	return sqliteSchema
}
