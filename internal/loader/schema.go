package loader

// Table layout shared by every database source. rush_touchdown and
// pass_touchdown hold 0/1.
const (
	PlaysTable   = "plays"
	DefenseTable = "defense_allowed"
)

const selectPlaysSQL = `
	SELECT
		week,
		posteam,
		defteam,
		passer_player_name,
		rusher_player_name,
		receiver_player_name,
		rushing_yards,
		receiving_yards,
		passing_yards,
		rush_touchdown,
		pass_touchdown
	FROM plays
	ORDER BY id`

const selectDefenseSQL = `
	SELECT category, team, allowed
	FROM defense_allowed`

// PostgresSchema creates the tables on PostgreSQL.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS plays (
	id BIGSERIAL PRIMARY KEY,
	week INTEGER NOT NULL,
	posteam TEXT,
	defteam TEXT,
	passer_player_name TEXT,
	rusher_player_name TEXT,
	receiver_player_name TEXT,
	rushing_yards DOUBLE PRECISION,
	receiving_yards DOUBLE PRECISION,
	passing_yards DOUBLE PRECISION,
	rush_touchdown BIGINT NOT NULL DEFAULT 0,
	pass_touchdown BIGINT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS plays_week_defteam_idx ON plays (week, defteam);
CREATE TABLE IF NOT EXISTS defense_allowed (
	category TEXT NOT NULL,
	team TEXT NOT NULL,
	allowed DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (category, team)
);`

// SQLiteSchema creates the tables on SQLite.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS plays (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	week INTEGER NOT NULL,
	posteam TEXT,
	defteam TEXT,
	passer_player_name TEXT,
	rusher_player_name TEXT,
	receiver_player_name TEXT,
	rushing_yards REAL,
	receiving_yards REAL,
	passing_yards REAL,
	rush_touchdown INTEGER NOT NULL DEFAULT 0,
	pass_touchdown INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS defense_allowed (
	category TEXT NOT NULL,
	team TEXT NOT NULL,
	allowed REAL NOT NULL,
	PRIMARY KEY (category, team)
);`

// MySQLSchema creates the tables on MySQL. Statements are run one at a time.
const MySQLSchema = `
CREATE TABLE IF NOT EXISTS plays (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	week INT NOT NULL,
	posteam VARCHAR(8),
	defteam VARCHAR(8),
	passer_player_name VARCHAR(64),
	rusher_player_name VARCHAR(64),
	receiver_player_name VARCHAR(64),
	rushing_yards DOUBLE,
	receiving_yards DOUBLE,
	passing_yards DOUBLE,
	rush_touchdown BIGINT NOT NULL DEFAULT 0,
	pass_touchdown BIGINT NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS defense_allowed (
	category VARCHAR(16) NOT NULL,
	team VARCHAR(8) NOT NULL,
	allowed DOUBLE NOT NULL,
	PRIMARY KEY (category, team)
);`

// ClickHouseSchema creates the tables on ClickHouse.
const ClickHouseSchema = `
CREATE TABLE IF NOT EXISTS plays (
	id UInt64,
	week Int64,
	posteam Nullable(String),
	defteam Nullable(String),
	passer_player_name Nullable(String),
	rusher_player_name Nullable(String),
	receiver_player_name Nullable(String),
	rushing_yards Nullable(Float64),
	receiving_yards Nullable(Float64),
	passing_yards Nullable(Float64),
	rush_touchdown Int64 DEFAULT 0,
	pass_touchdown Int64 DEFAULT 0
) ENGINE = MergeTree ORDER BY id;
CREATE TABLE IF NOT EXISTS defense_allowed (
	category LowCardinality(String),
	team LowCardinality(String),
	allowed Float64
) ENGINE = ReplacingMergeTree ORDER BY (category, team);`
